package service

import (
	"context"
	"math"
	"time"

	"github.com/prepforge/certprep/internal/model"
	"github.com/prepforge/certprep/internal/store"
	"github.com/rs/zerolog/log"
)

type ScoringService interface {
	// Finish closes the attempt and computes its score and per-domain
	// breakdown. Idempotent: finishing a finished attempt returns the stored
	// result without recomputation.
	Finish(ctx context.Context, attemptID, userID string) (*model.Attempt, error)
}

type scoringService struct {
	store store.Store
}

func NewScoringService(s store.Store) ScoringService {
	return &scoringService{store: s}
}

func (s *scoringService) Finish(ctx context.Context, attemptID, userID string) (*model.Attempt, error) {
	attempt, err := s.store.Update(ctx, attemptID, func(attempt *model.Attempt) error {
		if attempt.UserID != userID {
			return ErrForbidden
		}
		if attempt.Finished() {
			return nil
		}

		answers := latestAnswers(attempt.Answers)

		total := len(attempt.Questions)
		correctCount := 0
		perDomain := model.DomainResultMap{}
		for _, q := range attempt.Questions {
			bucket := perDomain[q.Domain]
			bucket.Total++
			if ans, ok := answers[q.ID]; ok && ans.Correct {
				bucket.Correct++
				correctCount++
			}
			perDomain[q.Domain] = bucket
		}
		for domain, bucket := range perDomain {
			bucket.Score = percent(bucket.Correct, bucket.Total)
			perDomain[domain] = bucket
		}

		score := percent(correctCount, total)
		now := time.Now().UTC()
		attempt.FinishedAt = &now
		attempt.Score = &score
		attempt.CorrectCount = &correctCount
		attempt.PerDomain = perDomain
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("attemptID", attemptID).
		Int("score", valueOrZero(attempt.Score)).
		Int("correct", valueOrZero(attempt.CorrectCount)).
		Int("total", len(attempt.Questions)).
		Msg("Attempt finished")
	return attempt, nil
}

// latestAnswers dedupes the answers by question id, keeping the entry with
// the latest RecordedAt. The writer already enforces one answer per question,
// so under normal operation this is a no-op; it guards against a storage
// layer that raced its way into more than one record for a question.
func latestAnswers(answers model.AnswerMap) map[int]model.Answer {
	out := make(map[int]model.Answer, len(answers))
	for key, ans := range answers {
		qid := ans.QuestionID
		if qid == 0 {
			qid = key
		}
		if prev, ok := out[qid]; !ok || ans.RecordedAt.After(prev.RecordedAt) {
			out[qid] = ans
		}
	}
	return out
}

// percent computes round(100*correct/total), rounding half up. 0 when total
// is 0 rather than dividing by zero.
func percent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(correct)/float64(total)*100 + 0.5))
}

func valueOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
