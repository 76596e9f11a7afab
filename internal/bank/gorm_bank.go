package bank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prepforge/certprep/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// GormBank is the database-backed bank. Each published version is its own
// row; Resolve always returns the newest row for a code.
type GormBank struct {
	db *gorm.DB
}

func NewGormBank(db *gorm.DB) *GormBank {
	return &GormBank{db: db}
}

func (b *GormBank) Resolve(ctx context.Context, code string) (*model.Exam, error) {
	var exam model.Exam
	err := b.db.WithContext(ctx).
		Where("code = ?", code).
		Order("published_at DESC").
		First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrExamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolving exam %q: %w: %w", code, ErrUnavailable, err)
	}
	return &exam, nil
}

// Publish inserts a new version row for the code. Publishing content
// identical to the current version returns the existing row unchanged.
func (b *GormBank) Publish(ctx context.Context, code, title string, questions model.QuestionList) (*model.Exam, error) {
	token := VersionToken(questions)

	current, err := b.Resolve(ctx, code)
	if err == nil && current.VersionToken == token {
		log.Info().Str("code", code).Str("versionToken", token).Msg("Publish: content unchanged, keeping current version")
		return current, nil
	}
	if err != nil && !errors.Is(err, ErrExamNotFound) {
		return nil, err
	}

	exam := model.Exam{
		Code:         code,
		VersionToken: token,
		Title:        title,
		Questions:    questions,
		PublishedAt:  time.Now().UTC(),
	}
	if err := b.db.WithContext(ctx).Create(&exam).Error; err != nil {
		return nil, fmt.Errorf("publishing exam %q: %w: %w", code, ErrUnavailable, err)
	}
	log.Info().Str("code", code).Str("versionToken", token).Int("questions", len(questions)).Msg("Published new exam version")
	return &exam, nil
}

// ListExams returns a summary of the current version of every exam code.
func (b *GormBank) ListExams(ctx context.Context) ([]ExamSummary, error) {
	var exams []model.Exam
	err := b.db.WithContext(ctx).
		Order("code ASC, published_at DESC").
		Find(&exams).Error
	if err != nil {
		return nil, fmt.Errorf("listing exams: %w: %w", ErrUnavailable, err)
	}

	summaries := make([]ExamSummary, 0, len(exams))
	seen := make(map[string]bool)
	for _, e := range exams {
		if seen[e.Code] {
			continue
		}
		seen[e.Code] = true
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
