package service

import "errors"

// Sentinel errors returned across the service boundary. Controllers map these
// to HTTP status codes; nothing below this layer leaks storage detail.
var (
	ErrForbidden          = errors.New("attempt does not belong to caller")
	ErrNoQuestionsMatch   = errors.New("no questions match the requested selection")
	ErrAttemptFinished    = errors.New("attempt is already finished")
	ErrAttemptNotFinished = errors.New("attempt is not finished yet")
	ErrQuestionNotFound   = errors.New("question is not part of this attempt")
	ErrHasAnswers         = errors.New("attempt with recorded answers cannot be deleted")
	ErrAdviceUnavailable  = errors.New("study advice is not configured")
)
