package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/prepforge/certprep/internal/model"
)

// MemoryStore keeps attempts in memory with a dedicated mutex per attempt id,
// which gives the per-key write serialization the Store contract requires.
// Reads and writes hand out deep copies so callers can never mutate a stored
// record outside Update.
type MemoryStore struct {
	mu       sync.RWMutex
	attempts map[string]*model.Attempt
	locks    map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		attempts: make(map[string]*model.Attempt),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *MemoryStore) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// clone hand-copies every reference field of the record. The snapshot column
// types implement driver.Valuer, which reflection-based copiers pass across
// by reference instead of descending into, so the copy is spelled out.
func clone(a *model.Attempt) *model.Attempt {
	out := *a
	if a.Questions != nil {
		out.Questions = make(model.QuestionList, len(a.Questions))
		for i, q := range a.Questions {
			out.Questions[i] = cloneQuestion(q)
		}
	}
	if a.Answers != nil {
		out.Answers = make(model.AnswerMap, len(a.Answers))
		for qid, ans := range a.Answers {
			out.Answers[qid] = cloneAnswer(ans)
		}
	}
	if a.PerDomain != nil {
		out.PerDomain = make(model.DomainResultMap, len(a.PerDomain))
		for domain, result := range a.PerDomain {
			out.PerDomain[domain] = result
		}
	}
	out.FinishedAt = copyTimePtr(a.FinishedAt)
	out.Score = copyIntPtr(a.Score)
	out.CorrectCount = copyIntPtr(a.CorrectCount)
	return &out
}

func cloneQuestion(q model.Question) model.Question {
	q.Choices = append([]model.Choice(nil), q.Choices...)
	q.Services = append([]string(nil), q.Services...)
	q.SelectCount = copyIntPtr(q.SelectCount)
	return q
}

func cloneAnswer(a model.Answer) model.Answer {
	a.SelectedChoiceID = copyStringPtr(a.SelectedChoiceID)
	a.SelectedChoiceIDs = append([]string(nil), a.SelectedChoiceIDs...)
	a.SelectedIndex = copyIntPtr(a.SelectedIndex)
	a.SelectedIndices = append([]int(nil), a.SelectedIndices...)
	a.TimeMs = copyIntPtr(a.TimeMs)
	return a
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (s *MemoryStore) Create(ctx context.Context, attempt *model.Attempt) error {
	cp := clone(attempt)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.attempts[attempt.ID]; exists {
		return fmt.Errorf("attempt %s already exists", attempt.ID)
	}
	s.attempts[attempt.ID] = cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Attempt, error) {
	s.mu.RLock()
	a, ok := s.attempts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return clone(a), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, mutate func(*model.Attempt) error) (*model.Attempt, error) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	s.mu.RLock()
	stored, ok := s.attempts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrAttemptNotFound
	}

	working := clone(stored)
	if err := mutate(working); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.attempts[id] = working
	s.mu.Unlock()
	return clone(working), nil
}

// Delete takes the same per-id lock as Update so a deletion cannot land in
// the middle of a read-modify-write and be undone by its write-back.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attempts[id]; !ok {
		return ErrAttemptNotFound
	}
	delete(s.attempts, id)
	// attempt ids are uuids and never reused, so the lock entry can go too
	delete(s.locks, id)
	return nil
}

func (s *MemoryStore) ListByUserAndExam(ctx context.Context, userID, examCode string) ([]model.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Attempt
	for _, a := range s.attempts {
		if a.UserID != userID || a.ExamCode != examCode {
			continue
		}
		out = append(out, *clone(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}
