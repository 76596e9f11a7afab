package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/certprep/internal/bank"
	"github.com/prepforge/certprep/internal/dto"
	"github.com/prepforge/certprep/internal/service"
	"github.com/prepforge/certprep/internal/store"
	"github.com/rs/zerolog/log"
)

// UserIDHeader carries the opaque user id issued by the external identity
// provider. Credential validation happens upstream; by the time a request
// reaches this service the header is trusted.
const UserIDHeader = "X-User-ID"

const userIDKey = "userID"

// RequireUser rejects requests without an identity and stashes the user id in
// the gin context.
func RequireUser() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetHeader(UserIDHeader)
		if userID == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing " + UserIDHeader + " header"})
			return
		}
		ctx.Set(userIDKey, userID)
		ctx.Next()
	}
}

// UserID returns the caller's id set by RequireUser.
func UserID(ctx *gin.Context) string {
	return ctx.GetString(userIDKey)
}

// RespondError maps service errors onto stable HTTP responses. Unknown errors
// are logged and reported as a generic 500 so storage detail never leaks.
func RespondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, bank.ErrExamNotFound),
		errors.Is(err, store.ErrAttemptNotFound),
		errors.Is(err, service.ErrQuestionNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrNoQuestionsMatch),
		errors.Is(err, bank.ErrInvalidQuestion):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrAttemptFinished),
		errors.Is(err, service.ErrAttemptNotFinished),
		errors.Is(err, service.ErrHasAnswers):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrAdviceUnavailable):
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, store.ErrUnavailable), errors.Is(err, bank.ErrUnavailable):
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Backing storage unavailable")
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "Service temporarily unavailable"})
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
	}
}
