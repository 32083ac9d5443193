package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minhlq/coursecast/internal/dto"
	"github.com/minhlq/coursecast/internal/service"
	"github.com/rs/zerolog/log"
)

type ExamController struct {
	examService service.ExamService
}

func NewExamController(examService service.ExamService) *ExamController {
	return &ExamController{examService: examService}
}

// GenerateExam godoc
// @Summary Generate a fresh exam for a course
// @Description Produces a 10-question multiple-choice exam from the course's generated chapters, replacing any prior exam for the course. Correct answers are stripped from the response.
// @Tags Exams
// @Accept json
// @Produce json
// @Param request body dto.GenerateExamRequest true "Course ID and model selector"
// @Success 200 {object} dto.ExamEnvelopeDTO
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Course or generated chapters not found"
// @Failure 500 {object} dto.ErrorResponse "Generator failure; no partial exam persisted"
// @Security BearerAuth
// @Router /exams/generate [post]
func (c *ExamController) GenerateExam(ctx *gin.Context) {
	if _, ok := authedUser(ctx); !ok {
		return
	}

	var req dto.GenerateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing required fields", Details: []string{err.Error()}})
		return
	}

	exam, err := c.examService.GenerateExam(ctx.Request.Context(), req.CourseID, req.ModelName)
	if err != nil {
		log.Error().Err(err).Uint("courseID", req.CourseID).Msg("GenerateExam: service error")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ExamEnvelopeDTO{Success: true, Exam: exam})
}

// GetExam godoc
// @Summary Fetch the exam for a course
// @Description Returns the course's exam, or a null exam when none exists. While the exam is unscored, correct answers are withheld.
// @Tags Exams
// @Produce json
// @Param course_id query int true "Course ID"
// @Success 200 {object} dto.ExamEnvelopeDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /exams [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	if _, ok := authedUser(ctx); !ok {
		return
	}

	courseID, err := queryUint(ctx, "course_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing or invalid course_id"})
		return
	}

	exam, err := c.examService.GetExamForCourse(courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if exam == nil {
		// Normal case if the exam isn't generated yet.
		ctx.JSON(http.StatusOK, dto.ExamEnvelopeDTO{Exam: nil})
		return
	}
	ctx.JSON(http.StatusOK, dto.ExamEnvelopeDTO{Success: true, Exam: exam})
}

// DeleteExam godoc
// @Summary Delete a course's exam for a retake
// @Description Unconditionally deletes the exam for the course so a fresh one can be generated. Certificates already issued for the exam are never revoked.
// @Tags Exams
// @Produce json
// @Param course_id query int true "Course ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /exams [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	if _, ok := authedUser(ctx); !ok {
		return
	}

	courseID, err := queryUint(ctx, "course_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing or invalid course_id"})
		return
	}

	if err := c.examService.DeleteExamForCourse(courseID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// VerifyQuestion godoc
// @Summary Verify a single answer before submission
// @Description Checks a selected option against one question and reveals that question's correct answer. Purely read-only; nothing is persisted. Rejected once the exam is finalized.
// @Tags Exams
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param request body dto.VerifyQuestionRequest true "Question index and selected option"
// @Success 200 {object} dto.VerifyQuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Index out of range or exam already finalized"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /exams/{exam_id}/verify [post]
func (c *ExamController) VerifyQuestion(ctx *gin.Context) {
	if _, ok := authedUser(ctx); !ok {
		return
	}

	examID, err := paramUint(ctx, "exam_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid exam ID format"})
		return
	}

	var req dto.VerifyQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing required fields", Details: []string{err.Error()}})
		return
	}

	result, err := c.examService.VerifyQuestion(examID, *req.QuestionIndex, req.SelectedOption)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// SubmitExam godoc
// @Summary Submit the full answer set and finalize the exam
// @Description Scores the exam (round half up on percent correct) and persists score and answers exactly once. Submitting an already-finalized exam returns 400 with the stored exam echoed, so retries are idempotent.
// @Tags Exams
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param request body dto.SubmitExamRequest true "Answers keyed by question index"
// @Success 200 {object} dto.ExamEnvelopeDTO "Finalized exam with score and correct answers"
// @Failure 400 {object} dto.ExamEnvelopeDTO "Already submitted; stored exam echoed"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Exam remains unscored, safe to retry"
// @Security BearerAuth
// @Router /exams/{exam_id}/submit [post]
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	if _, ok := authedUser(ctx); !ok {
		return
	}

	examID, err := paramUint(ctx, "exam_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid exam ID format"})
		return
	}

	var req dto.SubmitExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing required fields", Details: []string{err.Error()}})
		return
	}

	exam, err := c.examService.SubmitExam(examID, req.Answers)
	if err != nil {
		if errors.Is(err, service.ErrAlreadySubmitted) && exam != nil {
			// Soft failure: echo the already-finalized exam for idempotent retries.
			ctx.JSON(http.StatusBadRequest, dto.ExamEnvelopeDTO{Exam: exam})
			return
		}
		log.Error().Err(err).Uint("examID", examID).Msg("SubmitExam: service error")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ExamEnvelopeDTO{Success: true, Exam: exam})
}

func queryUint(ctx *gin.Context, name string) (uint, error) {
	val, err := strconv.ParseUint(ctx.Query(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(val), nil
}

func paramUint(ctx *gin.Context, name string) (uint, error) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(val), nil
}
