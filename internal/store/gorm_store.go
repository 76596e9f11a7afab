package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/prepforge/certprep/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists attempts in the database. Update runs inside a
// transaction holding a FOR UPDATE row lock on the attempt, which serializes
// concurrent mutations per attempt id across every instance of the service.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, attempt *model.Attempt) error {
	if err := s.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("creating attempt %s: %w: %w", attempt.ID, ErrUnavailable, err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*model.Attempt, error) {
	var attempt model.Attempt
	err := s.db.WithContext(ctx).First(&attempt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading attempt %s: %w: %w", id, ErrUnavailable, err)
	}
	return &attempt, nil
}

func (s *GormStore) Update(ctx context.Context, id string, mutate func(*model.Attempt) error) (*model.Attempt, error) {
	var updated model.Attempt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		// sqlite has a single writer and rejects FOR UPDATE; the row lock is
		// only needed on postgres where writers run concurrently.
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var attempt model.Attempt
		if err := q.First(&attempt, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAttemptNotFound
			}
			return fmt.Errorf("loading attempt %s: %w: %w", id, ErrUnavailable, err)
		}
		if err := mutate(&attempt); err != nil {
			return err
		}
		if err := tx.Save(&attempt).Error; err != nil {
			return fmt.Errorf("saving attempt %s: %w: %w", id, ErrUnavailable, err)
		}
		updated = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Attempt{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting attempt %s: %w: %w", id, ErrUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAttemptNotFound
	}
	return nil
}

func (s *GormStore) ListByUserAndExam(ctx context.Context, userID, examCode string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND exam_code = ?", userID, examCode).
		Order("started_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("listing attempts for user %s: %w: %w", userID, ErrUnavailable, err)
	}
	return attempts, nil
}
