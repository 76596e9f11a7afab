package service

import (
	"context"
	"time"

	"github.com/prepforge/certprep/internal/bank"
	"github.com/prepforge/certprep/internal/model"
	"github.com/prepforge/certprep/internal/store"
	"github.com/rs/zerolog/log"
)

// AnswerSubmission carries one answer for one question. Which selection field
// is expected depends on the question's encoding and select count; anything
// else is treated as a wrong answer rather than an error.
type AnswerSubmission struct {
	QuestionID        int
	SelectedChoiceID  *string
	SelectedChoiceIDs []string
	SelectedIndex     *int
	SelectedIndices   []int
	TimeMs            *int
	TipShown          bool
}

type AnswerService interface {
	RecordAnswer(ctx context.Context, attemptID, userID string, sub AnswerSubmission) (*model.Answer, error)
}

type answerService struct {
	store store.Store
	bank  bank.Bank
}

func NewAnswerService(s store.Store, b bank.Bank) AnswerService {
	return &answerService{store: s, bank: b}
}

// RecordAnswer upserts the answer for the question inside the attempt's
// answers map. The store's Update primitive serializes this per attempt, so a
// double-click or retry can never lose a concurrent submission for a
// different question; resubmitting the same question simply replaces the
// prior answer.
func (s *answerService) RecordAnswer(ctx context.Context, attemptID, userID string, sub AnswerSubmission) (*model.Answer, error) {
	var recorded model.Answer
	_, err := s.store.Update(ctx, attemptID, func(attempt *model.Attempt) error {
		if attempt.UserID != userID {
			return ErrForbidden
		}
		if attempt.Finished() {
			return ErrAttemptFinished
		}

		question, ok := attempt.QuestionByID(sub.QuestionID)
		if !ok {
			// Attempts created before snapshotting carry no questions; fall
			// back to the live bank for those only.
			question, ok = s.resolveFromBank(ctx, attempt.ExamCode, sub.QuestionID)
			if !ok {
				return ErrQuestionNotFound
			}
		}

		answer := model.Answer{
			QuestionID:        sub.QuestionID,
			SelectedChoiceID:  sub.SelectedChoiceID,
			SelectedChoiceIDs: sub.SelectedChoiceIDs,
			SelectedIndex:     sub.SelectedIndex,
			SelectedIndices:   sub.SelectedIndices,
			Correct:           Evaluate(question, sub),
			TimeMs:            sub.TimeMs,
			TipShown:          sub.TipShown,
			RecordedAt:        time.Now().UTC(),
		}
		if attempt.Answers == nil {
			attempt.Answers = model.AnswerMap{}
		}
		attempt.Answers[sub.QuestionID] = answer
		recorded = answer
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("attemptID", attemptID).
		Int("questionID", sub.QuestionID).
		Bool("correct", recorded.Correct).
		Msg("Answer recorded")
	return &recorded, nil
}

func (s *answerService) resolveFromBank(ctx context.Context, examCode string, questionID int) (model.Question, bool) {
	exam, err := s.bank.Resolve(ctx, examCode)
	if err != nil {
		return model.Question{}, false
	}
	return exam.QuestionByID(questionID)
}

// Evaluate grades a submission against a question. All four encodings are
// supported uniformly: object or legacy-index choices, single or multi
// select. Multi-select is all-or-nothing: the submitted set must equal the
// correct set exactly. A malformed or absent selection scores incorrect,
// never errors.
func Evaluate(q model.Question, sub AnswerSubmission) bool {
	switch q.Encoding {
	case model.EncodingObject:
		correct := q.CorrectChoiceIDs()
		if q.MultiSelect() {
			return len(sub.SelectedChoiceIDs) > 0 && equalStringSets(sub.SelectedChoiceIDs, correct)
		}
		return sub.SelectedChoiceID != nil && len(correct) == 1 && *sub.SelectedChoiceID == correct[0]
	case model.EncodingLegacyIndex:
		correct := q.CorrectIndices()
		if q.MultiSelect() {
			return len(sub.SelectedIndices) > 0 && equalIntSets(sub.SelectedIndices, correct)
		}
		return sub.SelectedIndex != nil && len(correct) == 1 && *sub.SelectedIndex == correct[0]
	}
	return false
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]int{}
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		seen[s]--
	}
	for _, v := range seen {
		if v != 0 {
			return false
		}
	}
	return true
}

func equalIntSets(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[int]int{}
	for _, n := range a {
		seen[n]++
	}
	for _, n := range b {
		seen[n]--
	}
	for _, v := range seen {
		if v != 0 {
			return false
		}
	}
	return true
}
