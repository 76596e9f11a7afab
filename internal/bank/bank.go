package bank

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/prepforge/certprep/internal/model"
)

var (
	ErrExamNotFound = errors.New("exam not found")
	// ErrInvalidQuestion marks questions rejected by the normalizer.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrUnavailable wraps storage failures the caller may safely retry.
	ErrUnavailable = errors.New("question bank unavailable")
)

// Bank resolves the current published version of an exam. Content behind a
// version token is immutable: a republish produces a new token, never an
// in-place edit, so anything that has copied a token can keep trusting it.
type Bank interface {
	Resolve(ctx context.Context, code string) (*model.Exam, error)
}

// Publisher is the authoring side of the bank, used by the admin surface and
// by seeds. Kept separate from Bank because the attempt engine must never
// write exam content.
type Publisher interface {
	Publish(ctx context.Context, code, title string, questions model.QuestionList) (*model.Exam, error)
}

// Catalog is the read surface for browsing exams.
type Catalog interface {
	Bank
	ListExams(ctx context.Context) ([]ExamSummary, error)
}

type ExamSummary struct {
	Code          string    `json:"code"`
	Title         string    `json:"title"`
	VersionToken  string    `json:"version_token"`
	QuestionCount int       `json:"question_count"`
	PublishedAt   time.Time `json:"published_at"`
}

// VersionToken derives the opaque content token for a question set. Identical
// content always produces the same token, so republishing an unchanged exam
// is a no-op.
func VersionToken(questions model.QuestionList) string {
	raw, _ := json.Marshal(questions)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}
