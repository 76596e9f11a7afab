package bank

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prepforge/certprep/internal/model"
)

// MemoryBank keeps published versions in memory. Used by tests and local
// seeding; behaves like GormBank with respect to version tokens.
type MemoryBank struct {
	mu    sync.RWMutex
	exams map[string][]model.Exam // code -> versions, newest last
}

func NewMemoryBank() *MemoryBank {
	return &MemoryBank{exams: make(map[string][]model.Exam)}
}

func (b *MemoryBank) Resolve(ctx context.Context, code string) (*model.Exam, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	versions := b.exams[code]
	if len(versions) == 0 {
		return nil, ErrExamNotFound
	}
	exam := versions[len(versions)-1]
	return &exam, nil
}

func (b *MemoryBank) Publish(ctx context.Context, code, title string, questions model.QuestionList) (*model.Exam, error) {
	token := VersionToken(questions)

	b.mu.Lock()
	defer b.mu.Unlock()
	versions := b.exams[code]
	if len(versions) > 0 && versions[len(versions)-1].VersionToken == token {
		exam := versions[len(versions)-1]
		return &exam, nil
	}
	exam := model.Exam{
		ID:           uint(len(versions) + 1),
		Code:         code,
		VersionToken: token,
		Title:        title,
		Questions:    questions,
		PublishedAt:  time.Now().UTC(),
	}
	b.exams[code] = append(versions, exam)
	return &exam, nil
}

func (b *MemoryBank) ListExams(ctx context.Context) ([]ExamSummary, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	codes := make([]string, 0, len(b.exams))
	for code := range b.exams {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	summaries := make([]ExamSummary, 0, len(codes))
	for _, code := range codes {
		versions := b.exams[code]
		e := versions[len(versions)-1]
		summaries = append(summaries, ExamSummary{
			Code:          e.Code,
			Title:         e.Title,
			VersionToken:  e.VersionToken,
			QuestionCount: len(e.Questions),
			PublishedAt:   e.PublishedAt,
		})
	}
	return summaries, nil
}
