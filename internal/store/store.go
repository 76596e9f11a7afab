package store

import (
	"context"
	"errors"

	"github.com/prepforge/certprep/internal/model"
)

var (
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrUnavailable wraps storage failures the caller may safely retry:
	// the request itself was fine, the backing database was not.
	ErrUnavailable = errors.New("attempt storage unavailable")
)

// Store is the only component allowed to mutate an Attempt after creation.
//
// Update is the atomic read-modify-write primitive: implementations must
// serialize mutations per attempt id, so two concurrent submissions for the
// same attempt are applied one after the other and neither is lost. Different
// attempt ids never contend. If mutate returns an error nothing is written
// and the error is returned unchanged.
type Store interface {
	Create(ctx context.Context, attempt *model.Attempt) error
	Get(ctx context.Context, id string) (*model.Attempt, error)
	Update(ctx context.Context, id string, mutate func(*model.Attempt) error) (*model.Attempt, error)
	Delete(ctx context.Context, id string) error
	ListByUserAndExam(ctx context.Context, userID, examCode string) ([]model.Attempt, error)
}
