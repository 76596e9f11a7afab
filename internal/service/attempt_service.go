package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prepforge/certprep/config"
	"github.com/prepforge/certprep/internal/bank"
	"github.com/prepforge/certprep/internal/model"
	"github.com/prepforge/certprep/internal/selector"
	"github.com/prepforge/certprep/internal/store"
	"github.com/rs/zerolog/log"
)

// AllDomains is the sentinel domain filter value meaning "do not filter".
const AllDomains = "All"

// adaptiveDefaultCount is used when an adaptive create does not ask for a
// specific size.
const adaptiveDefaultCount = 10

// CreateAttemptOptions selects the question subset for a new attempt.
// Exactly one mode applies: Adaptive, explicit Questions (used internally by
// the adaptive flow), explicit QuestionIDs (legacy callers), or the filter
// fields.
type CreateAttemptOptions struct {
	Domains     []string
	Services    []string
	Keyword     string
	Count       int
	QuestionIDs []int
	Questions   []model.Question
	Adaptive    bool
}

type AttemptService interface {
	CreateAttempt(ctx context.Context, userID, examCode string, opts CreateAttemptOptions) (*model.Attempt, error)
	GetAttempt(ctx context.Context, attemptID, userID string) (*model.Attempt, error)
	DeleteAttempt(ctx context.Context, attemptID, userID string) error
	ListAttempts(ctx context.Context, userID, examCode string) ([]model.Attempt, error)
}

type attemptService struct {
	bank      bank.Bank
	store     store.Store
	analytics AnalyticsService
	cfg       *config.Config
}

func NewAttemptService(b bank.Bank, s store.Store, analytics AnalyticsService, cfg *config.Config) AttemptService {
	return &attemptService{bank: b, store: s, analytics: analytics, cfg: cfg}
}

// CreateAttempt resolves the exam, picks the question subset, freezes it
// together with the exam's version token and persists the new attempt. The
// snapshot is assembled fully in memory before the single store write, so a
// failure anywhere leaves no partial record.
func (s *attemptService) CreateAttempt(ctx context.Context, userID, examCode string, opts CreateAttemptOptions) (*model.Attempt, error) {
	exam, err := s.bank.Resolve(ctx, examCode)
	if err != nil {
		return nil, err
	}

	var selected []model.Question
	switch {
	case opts.Adaptive:
		selected, err = s.selectAdaptive(ctx, userID, exam, opts.Count)
		if err != nil {
			return nil, err
		}
	case len(opts.Questions) > 0:
		selected = intersectWithBank(exam, opts.Questions)
	case len(opts.QuestionIDs) > 0:
		selected = resolveIDs(exam, opts.QuestionIDs)
	default:
		selected = applyFilters(exam.Questions, opts)
	}

	if len(selected) == 0 {
		return nil, ErrNoQuestionsMatch
	}

	attempt := &model.Attempt{
		ID:           uuid.NewString(),
		UserID:       userID,
		ExamCode:     examCode,
		VersionToken: exam.VersionToken,
		Questions:    shuffleChoices(selected),
		Answers:      model.AnswerMap{},
		StartedAt:    time.Now().UTC(),
	}

	if err := s.store.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("persisting attempt: %w", err)
	}
	log.Info().
		Str("attemptID", attempt.ID).
		Str("examCode", examCode).
		Str("versionToken", attempt.VersionToken).
		Int("questions", len(attempt.Questions)).
		Msg("Attempt created")
	return attempt, nil
}

func (s *attemptService) selectAdaptive(ctx context.Context, userID string, exam *model.Exam, count int) ([]model.Question, error) {
	history, err := s.analytics.DomainHistory(ctx, userID, exam.Code)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = adaptiveDefaultCount
	}
	return selector.Select(exam.Questions, history.Stats, history.WrongIDs, count, s.cfg.Exam.PassThreshold), nil
}

// intersectWithBank keeps the caller's order but trusts only ids: the
// question payloads are re-read from the bank, and ids the bank no longer
// knows are dropped.
func intersectWithBank(exam *model.Exam, requested []model.Question) []model.Question {
	ids := make([]int, 0, len(requested))
	for _, q := range requested {
		ids = append(ids, q.ID)
	}
	return resolveIDs(exam, ids)
}

func resolveIDs(exam *model.Exam, ids []int) []model.Question {
	seen := make(map[int]bool, len(ids))
	var out []model.Question
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if q, ok := exam.QuestionByID(id); ok {
			out = append(out, q)
		}
	}
	return out
}

// applyFilters runs the fixed filter pipeline: service tags, then keyword,
// then domains, then count truncation.
func applyFilters(questions model.QuestionList, opts CreateAttemptOptions) []model.Question {
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		out = append(out, q)
	}

	if len(opts.Services) > 0 {
		out = filterQuestions(out, func(q model.Question) bool {
			for _, want := range opts.Services {
				for _, have := range q.Services {
					if strings.EqualFold(want, have) {
						return true
					}
				}
			}
			return false
		})
	}

	if keyword := strings.TrimSpace(opts.Keyword); keyword != "" {
		out = filterQuestions(out, func(q model.Question) bool {
			return q.MatchesKeyword(keyword)
		})
	}

	if domains := effectiveDomains(opts.Domains); len(domains) > 0 {
		out = filterQuestions(out, func(q model.Question) bool {
			for _, d := range domains {
				if strings.EqualFold(d, q.Domain) {
					return true
				}
			}
			return false
		})
	}

	if opts.Count > 0 && opts.Count < len(out) {
		out = out[:opts.Count]
	}
	return out
}

// effectiveDomains drops the filter entirely when it is empty or contains the
// "All" sentinel.
func effectiveDomains(domains []string) []string {
	for _, d := range domains {
		if strings.EqualFold(d, AllDomains) {
			return nil
		}
	}
	return domains
}

func filterQuestions(questions []model.Question, keep func(model.Question) bool) []model.Question {
	out := questions[:0]
	for _, q := range questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

// shuffleChoices independently permutes each question's choice order for this
// attempt, so choice positions never leak across attempts. Correctness flags
// travel with the choices, which keeps index-based grading valid against the
// shuffled order.
func shuffleChoices(questions []model.Question) model.QuestionList {
	frozen := make(model.QuestionList, len(questions))
	for i, q := range questions {
		choices := make([]model.Choice, len(q.Choices))
		copy(choices, q.Choices)
		rand.Shuffle(len(choices), func(a, b int) {
			choices[a], choices[b] = choices[b], choices[a]
		})
		q.Choices = choices
		frozen[i] = q
	}
	return frozen
}

func (s *attemptService) GetAttempt(ctx context.Context, attemptID, userID string) (*model.Attempt, error) {
	attempt, err := s.store.Get(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, ErrForbidden
	}
	return attempt, nil
}

// DeleteAttempt removes an attempt, but only while no answer has been
// recorded against it.
func (s *attemptService) DeleteAttempt(ctx context.Context, attemptID, userID string) error {
	attempt, err := s.store.Get(ctx, attemptID)
	if err != nil {
		return err
	}
	if attempt.UserID != userID {
		return ErrForbidden
	}
	if len(attempt.Answers) > 0 {
		return ErrHasAnswers
	}
	if err := s.store.Delete(ctx, attemptID); err != nil {
		return err
	}
	log.Info().Str("attemptID", attemptID).Msg("Attempt deleted")
	return nil
}

func (s *attemptService) ListAttempts(ctx context.Context, userID, examCode string) ([]model.Attempt, error) {
	return s.store.ListByUserAndExam(ctx, userID, examCode)
}
