package service

import (
	"context"

	"github.com/prepforge/certprep/internal/selector"
	"github.com/prepforge/certprep/internal/store"
)

// DomainHistory is a learner's aggregated history for one exam code: average
// score per domain across finished attempts, plus every question id the
// learner has ever answered incorrectly. Feeds the weakest-link selector and
// the stats endpoint.
type DomainHistory struct {
	Stats    map[string]selector.DomainStat
	WrongIDs map[int]bool
}

type AnalyticsService interface {
	DomainHistory(ctx context.Context, userID, examCode string) (*DomainHistory, error)
}

type analyticsService struct {
	store store.Store
}

func NewAnalyticsService(s store.Store) AnalyticsService {
	return &analyticsService{store: s}
}

func (s *analyticsService) DomainHistory(ctx context.Context, userID, examCode string) (*DomainHistory, error) {
	attempts, err := s.store.ListByUserAndExam(ctx, userID, examCode)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	wrong := make(map[int]bool)
	for _, attempt := range attempts {
		if !attempt.Finished() {
			continue
		}
		for domain, result := range attempt.PerDomain {
			sums[domain] += float64(result.Score)
			counts[domain]++
		}
		for _, ans := range attempt.Answers {
			if !ans.Correct {
				wrong[ans.QuestionID] = true
			}
		}
	}

	stats := make(map[string]selector.DomainStat, len(sums))
	for domain, sum := range sums {
		stats[domain] = selector.DomainStat{
			Attempts: counts[domain],
			AvgScore: sum / float64(counts[domain]),
		}
	}
	return &DomainHistory{Stats: stats, WrongIDs: wrong}, nil
}
