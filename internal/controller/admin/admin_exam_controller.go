package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/prepforge/certprep/internal/bank"
	"github.com/prepforge/certprep/internal/controller"
	"github.com/prepforge/certprep/internal/dto"
	"github.com/rs/zerolog/log"
)

type AdminExamController struct {
	publisher bank.Publisher
}

func NewAdminExamController(publisher bank.Publisher) *AdminExamController {
	return &AdminExamController{publisher: publisher}
}

// PublishExam godoc
// @Summary (Admin) Publish a new version of an exam's question set
// @Description Accepts both choice encodings. Republishing identical content keeps the current version token.
// @Tags Admin - Exams
// @Accept json
// @Produce json
// @Param request body dto.PublishExamRequest true "Exam content"
// @Success 201 {object} dto.PublishExamResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid question content"
// @Router /admin/exams [post]
func (c *AdminExamController) PublishExam(ctx *gin.Context) {
	var req dto.PublishExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	raws := make([]bank.RawQuestion, len(req.Questions))
	if err := copier.Copy(&raws, &req.Questions); err != nil {
		log.Error().Err(err).Msg("PublishExam: failed to map request questions")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
		return
	}

	questions, err := bank.NormalizeQuestions(raws)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}

	exam, err := c.publisher.Publish(ctx.Request.Context(), req.Code, req.Title, questions)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.PublishExamResponse{
		Code:          exam.Code,
		VersionToken:  exam.VersionToken,
		QuestionCount: len(exam.Questions),
		PublishedAt:   exam.PublishedAt,
	})
}
