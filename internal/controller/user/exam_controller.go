package user

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/certprep/internal/bank"
	"github.com/prepforge/certprep/internal/controller"
	"github.com/prepforge/certprep/internal/dto"
	"github.com/prepforge/certprep/internal/service"
)

type ExamController struct {
	catalog   bank.Catalog
	analytics service.AnalyticsService
}

func NewExamController(catalog bank.Catalog, analytics service.AnalyticsService) *ExamController {
	return &ExamController{catalog: catalog, analytics: analytics}
}

// ListExams godoc
// @Summary List available exams
// @Tags Exams
// @Produce json
// @Success 200 {array} bank.ExamSummary
// @Router /exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	summaries, err := c.catalog.ListExams(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summaries)
}

// GetExam godoc
// @Summary Get the current version of an exam, without correctness flags
// @Tags Exams
// @Produce json
// @Param exam_code path string true "Exam code"
// @Success 200 {object} dto.ExamDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /exams/{exam_code} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	exam, err := c.catalog.Resolve(ctx.Request.Context(), ctx.Param("exam_code"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	questions := make([]dto.QuestionResponse, len(exam.Questions))
	for i, q := range exam.Questions {
		questions[i] = dto.NewQuestionResponse(q, false)
	}
	ctx.JSON(http.StatusOK, dto.ExamDetailResponse{
		Code:         exam.Code,
		Title:        exam.Title,
		VersionToken: exam.VersionToken,
		Questions:    questions,
		PublishedAt:  exam.PublishedAt,
	})
}

// GetStats godoc
// @Summary Per-domain history for the caller on an exam
// @Tags Exams
// @Produce json
// @Param exam_code path string true "Exam code"
// @Success 200 {object} dto.DomainStatsResponse
// @Router /exams/{exam_code}/stats [get]
func (c *ExamController) GetStats(ctx *gin.Context) {
	examCode := ctx.Param("exam_code")
	history, err := c.analytics.DomainHistory(ctx.Request.Context(), controller.UserID(ctx), examCode)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}

	domains := make([]dto.DomainStatResponse, 0, len(history.Stats))
	for name, stat := range history.Stats {
		domains = append(domains, dto.DomainStatResponse{Domain: name, Attempts: stat.Attempts, AvgScore: stat.AvgScore})
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i].Domain < domains[j].Domain })

	wrong := make([]int, 0, len(history.WrongIDs))
	for id := range history.WrongIDs {
		wrong = append(wrong, id)
	}
	sort.Ints(wrong)

	ctx.JSON(http.StatusOK, dto.DomainStatsResponse{ExamCode: examCode, Domains: domains, WrongIDs: wrong})
}
