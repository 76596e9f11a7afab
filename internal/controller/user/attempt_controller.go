package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/certprep/internal/controller"
	"github.com/prepforge/certprep/internal/dto"
	"github.com/prepforge/certprep/internal/service"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	attemptService service.AttemptService
	answerService  service.AnswerService
	scoringService service.ScoringService
	adviceService  service.AdviceService
	tierPolicy     service.TierPolicy
}

func NewAttemptController(
	attemptService service.AttemptService,
	answerService service.AnswerService,
	scoringService service.ScoringService,
	adviceService service.AdviceService,
	tierPolicy service.TierPolicy,
) *AttemptController {
	return &AttemptController{
		attemptService: attemptService,
		answerService:  answerService,
		scoringService: scoringService,
		adviceService:  adviceService,
		tierPolicy:     tierPolicy,
	}
}

// CreateAttempt godoc
// @Summary Start a new practice attempt for an exam
// @Tags Attempts
// @Accept json
// @Produce json
// @Param exam_code path string true "Exam code"
// @Param request body dto.CreateAttemptRequest true "Question selection"
// @Success 201 {object} dto.CreateAttemptResponse
// @Failure 400 {object} dto.ErrorResponse "No questions match the selection"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{exam_code}/attempts [post]
func (c *AttemptController) CreateAttempt(ctx *gin.Context) {
	examCode := ctx.Param("exam_code")
	userID := controller.UserID(ctx)

	var req dto.CreateAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	// Tier cap is applied here, before selection; the engine itself is
	// limit-agnostic.
	applyTierLimit(&req, c.tierPolicy.QuestionLimit(userID, examCode))

	attempt, err := c.attemptService.CreateAttempt(ctx.Request.Context(), userID, examCode, service.CreateAttemptOptions{
		Domains:     req.Domains,
		Services:    req.Services,
		Keyword:     req.Keyword,
		Count:       req.Count,
		QuestionIDs: req.QuestionIDs,
		Adaptive:    req.Adaptive,
	})
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.CreateAttemptResponse{AttemptID: attempt.ID, StartedAt: attempt.StartedAt})
}

// applyTierLimit truncates the caller's requested question pool to the tier
// cap. Both selection modes are clamped: the count drives the filter and
// adaptive paths, and an explicit id list is the pool itself.
func applyTierLimit(req *dto.CreateAttemptRequest, limit int) {
	if limit <= 0 {
		return
	}
	if req.Count == 0 || req.Count > limit {
		req.Count = limit
	}
	if len(req.QuestionIDs) > limit {
		req.QuestionIDs = req.QuestionIDs[:limit]
	}
}

// GetAttempt godoc
// @Summary Get an attempt owned by the caller
// @Tags Attempts
// @Produce json
// @Param attempt_id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	attempt, err := c.attemptService.GetAttempt(ctx.Request.Context(), ctx.Param("attempt_id"), controller.UserID(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAttemptResponse(attempt))
}

// RecordAnswer godoc
// @Summary Record or replace the answer to one question of a live attempt
// @Tags Attempts
// @Accept json
// @Produce json
// @Param attempt_id path string true "Attempt ID"
// @Param request body dto.SubmitAnswerRequest true "Selection"
// @Success 200 {object} dto.AnswerResponse
// @Failure 404 {object} dto.ErrorResponse "Attempt or question not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already finished"
// @Router /attempts/{attempt_id}/answers [post]
func (c *AttemptController) RecordAnswer(ctx *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	answer, err := c.answerService.RecordAnswer(ctx.Request.Context(), ctx.Param("attempt_id"), controller.UserID(ctx), service.AnswerSubmission{
		QuestionID:        req.QuestionID,
		SelectedChoiceID:  req.SelectedChoiceID,
		SelectedChoiceIDs: req.SelectedChoiceIDs,
		SelectedIndex:     req.SelectedIndex,
		SelectedIndices:   req.SelectedIndices,
		TimeMs:            req.TimeMs,
		TipShown:          req.TipShown,
	})
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.AnswerResponse(*answer))
}

// Finish godoc
// @Summary Finish an attempt and compute its score
// @Tags Attempts
// @Produce json
// @Param attempt_id path string true "Attempt ID"
// @Success 200 {object} dto.FinishResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id}/finish [post]
func (c *AttemptController) Finish(ctx *gin.Context) {
	attempt, err := c.scoringService.Finish(ctx.Request.Context(), ctx.Param("attempt_id"), controller.UserID(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	resp := dto.FinishResponse{
		Total:     len(attempt.Questions),
		PerDomain: attempt.PerDomain,
	}
	if attempt.Score != nil {
		resp.Score = *attempt.Score
	}
	if attempt.CorrectCount != nil {
		resp.CorrectCount = *attempt.CorrectCount
	}
	if attempt.FinishedAt != nil {
		resp.FinishedAt = *attempt.FinishedAt
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteAttempt godoc
// @Summary Delete an attempt that has no recorded answers
// @Tags Attempts
// @Param attempt_id path string true "Attempt ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt has recorded answers"
// @Router /attempts/{attempt_id} [delete]
func (c *AttemptController) DeleteAttempt(ctx *gin.Context) {
	if err := c.attemptService.DeleteAttempt(ctx.Request.Context(), ctx.Param("attempt_id"), controller.UserID(ctx)); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListAttempts godoc
// @Summary List the caller's attempts for an exam, newest first
// @Tags Attempts
// @Produce json
// @Param exam_code path string true "Exam code"
// @Success 200 {array} dto.AttemptSummaryResponse
// @Router /exams/{exam_code}/attempts [get]
func (c *AttemptController) ListAttempts(ctx *gin.Context) {
	attempts, err := c.attemptService.ListAttempts(ctx.Request.Context(), controller.UserID(ctx), ctx.Param("exam_code"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	summaries := make([]dto.AttemptSummaryResponse, 0, len(attempts))
	for _, a := range attempts {
		summaries = append(summaries, dto.NewAttemptSummaryResponse(a))
	}
	ctx.JSON(http.StatusOK, summaries)
}

// GetAdvice godoc
// @Summary Generate study advice for a finished attempt's weakest domains
// @Tags Attempts
// @Produce json
// @Param attempt_id path string true "Attempt ID"
// @Success 200 {object} dto.AdviceResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt not finished yet"
// @Failure 503 {object} dto.ErrorResponse "Advice service not configured"
// @Router /attempts/{attempt_id}/advice [get]
func (c *AttemptController) GetAdvice(ctx *gin.Context) {
	attempt, err := c.attemptService.GetAttempt(ctx.Request.Context(), ctx.Param("attempt_id"), controller.UserID(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	advice, err := c.adviceService.StudyAdvice(ctx.Request.Context(), attempt)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	log.Info().Str("attemptID", attempt.ID).Msg("Study advice generated")
	ctx.JSON(http.StatusOK, dto.AdviceResponse{AttemptID: attempt.ID, Advice: advice})
}
