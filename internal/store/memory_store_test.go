package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prepforge/certprep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttempt(id string) *model.Attempt {
	return &model.Attempt{
		ID:           id,
		UserID:       "user-1",
		ExamCode:     "SAA-C03",
		VersionToken: "v1",
		Questions: model.QuestionList{{
			ID:       1,
			Domain:   "General",
			Prompt:   "p",
			Encoding: model.EncodingObject,
			Choices:  []model.Choice{{ID: "a", Text: "a", Correct: true}, {ID: "b", Text: "b"}},
		}},
		Answers:   model.AnswerMap{},
		StartedAt: time.Now().UTC(),
	}
}

func TestMemoryStoreCreateGetDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newAttempt("a1")))
	assert.Error(t, s.Create(ctx, newAttempt("a1")), "duplicate id must be rejected")

	got, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrAttemptNotFound)

	require.NoError(t, s.Delete(ctx, "a1"))
	assert.ErrorIs(t, s.Delete(ctx, "a1"), ErrAttemptNotFound)
}

func TestMemoryStoreGetReturnsIsolatedCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newAttempt("a1")))

	got, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	got.Answers[1] = model.Answer{QuestionID: 1, Correct: true}
	got.Questions[0].Prompt = "mutated"

	fresh, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, fresh.Answers, "caller mutation must not reach the store")
	assert.Equal(t, "p", fresh.Questions[0].Prompt)
}

func TestMemoryStoreUpdateMutateErrorWritesNothing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newAttempt("a1")))

	boom := fmt.Errorf("rejected")
	_, err := s.Update(ctx, "a1", func(a *model.Attempt) error {
		a.Answers[1] = model.Answer{QuestionID: 1}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, got.Answers)
}

func TestMemoryStoreConcurrentUpdatesSameAttempt(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	attempt := newAttempt("a1")
	attempt.Questions = model.QuestionList{}
	for i := 1; i <= 50; i++ {
		attempt.Questions = append(attempt.Questions, model.Question{
			ID: i, Domain: "General", Prompt: "p", Encoding: model.EncodingObject,
			Choices: []model.Choice{{ID: "a", Text: "a", Correct: true}, {ID: "b", Text: "b"}},
		})
	}
	require.NoError(t, s.Create(ctx, attempt))

	// 50 goroutines answering 50 different questions: each write must be
	// retained despite hitting the same attempt record.
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(qid int) {
			defer wg.Done()
			_, err := s.Update(ctx, "a1", func(a *model.Attempt) error {
				a.Answers[qid] = model.Answer{QuestionID: qid, RecordedAt: time.Now().UTC()}
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Len(t, got.Answers, 50, "no concurrent write may be lost")
}

func TestMemoryStoreDeleteWaitsForInFlightUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newAttempt("a1")))

	entered := make(chan struct{})
	release := make(chan struct{})
	updateDone := make(chan error, 1)
	go func() {
		_, err := s.Update(ctx, "a1", func(a *model.Attempt) error {
			close(entered)
			<-release
			a.Answers[1] = model.Answer{QuestionID: 1, RecordedAt: time.Now().UTC()}
			return nil
		})
		updateDone <- err
	}()

	<-entered
	deleteDone := make(chan error, 1)
	go func() { deleteDone <- s.Delete(ctx, "a1") }()

	// The delete must queue behind the in-flight update, not interleave with
	// it; otherwise the update's write-back would resurrect the record.
	select {
	case err := <-deleteDone:
		t.Fatalf("delete completed during the update: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-updateDone)
	require.NoError(t, <-deleteDone)

	_, err := s.Get(ctx, "a1")
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestMemoryStoreListByUserAndExam(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	older := newAttempt("a1")
	older.StartedAt = time.Now().UTC().Add(-time.Hour)
	newer := newAttempt("a2")
	other := newAttempt("a3")
	other.UserID = "someone-else"

	require.NoError(t, s.Create(ctx, older))
	require.NoError(t, s.Create(ctx, newer))
	require.NoError(t, s.Create(ctx, other))

	got, err := s.ListByUserAndExam(ctx, "user-1", "SAA-C03")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a2", got[0].ID, "newest first")
	assert.Equal(t, "a1", got[1].ID)
}
