package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/certprep/internal/bank"
	"github.com/prepforge/certprep/internal/service"
	"github.com/prepforge/certprep/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"exam not found", bank.ErrExamNotFound, http.StatusNotFound},
		{"attempt not found", store.ErrAttemptNotFound, http.StatusNotFound},
		{"question not found", service.ErrQuestionNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"no questions match", service.ErrNoQuestionsMatch, http.StatusBadRequest},
		{"invalid question", fmt.Errorf("%w: question 3 has no correct choice", bank.ErrInvalidQuestion), http.StatusBadRequest},
		{"attempt finished", service.ErrAttemptFinished, http.StatusConflict},
		{"has answers", service.ErrHasAnswers, http.StatusConflict},
		{"advice not configured", service.ErrAdviceUnavailable, http.StatusServiceUnavailable},
		{"store unavailable", fmt.Errorf("loading attempt a1: %w: %w", store.ErrUnavailable, errors.New("connection refused")), http.StatusServiceUnavailable},
		{"bank unavailable", fmt.Errorf("resolving exam %q: %w: %w", "SAA-C03", bank.ErrUnavailable, errors.New("connection refused")), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(rec)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			RespondError(ctx, tc.err)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RequireUser(), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, UserID(ctx))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(UserIDHeader, "user-1")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}
