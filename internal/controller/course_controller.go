package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhlq/coursecast/internal/dto"
	"github.com/minhlq/coursecast/internal/service"
	"github.com/rs/zerolog/log"
)

type CourseController struct {
	courseService  service.CourseService
	chapterService service.ChapterService
}

func NewCourseController(courseService service.CourseService, chapterService service.ChapterService) *CourseController {
	return &CourseController{courseService: courseService, chapterService: chapterService}
}

// CreateCourse godoc
// @Summary Create a course from a topic
// @Description Generates a course title and chapter outline from the topic. Chapter content starts as a placeholder and is expanded lazily.
// @Tags Courses
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Topic and model selector"
// @Success 201 {object} dto.CourseResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	userID, ok := authedUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing required fields", Details: []string{err.Error()}})
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), userID, req.Topic, req.ModelName)
	if err != nil {
		log.Error().Err(err).Str("topic", req.Topic).Msg("CreateCourse: service error")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, course)
}

// ListCourses godoc
// @Summary List the caller's courses
// @Tags Courses
// @Produce json
// @Success 200 {array} dto.CourseSummaryDTO
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	userID, ok := authedUser(ctx)
	if !ok {
		return
	}

	courses, err := c.courseService.ListCourses(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

// GetCourse godoc
// @Summary Get a course with its chapters
// @Tags Courses
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /courses/{course_id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	userID, ok := authedUser(ctx)
	if !ok {
		return
	}

	courseID, err := paramUint(ctx, "course_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid course ID format"})
		return
	}

	course, err := c.courseService.GetCourse(userID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, course)
}

// GenerateChapterContent godoc
// @Summary Expand a chapter into long-form content
// @Description Streams content from the generator and persists whatever was produced, even if the client disconnects mid-stream.
// @Tags Courses
// @Accept json
// @Produce json
// @Param course_id path int true "Course ID"
// @Param chapter_id path int true "Chapter ID"
// @Param request body dto.GenerateChapterRequest true "Model selector"
// @Success 200 {object} dto.ChapterResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /courses/{course_id}/chapters/{chapter_id}/generate [post]
func (c *CourseController) GenerateChapterContent(ctx *gin.Context) {
	userID, ok := authedUser(ctx)
	if !ok {
		return
	}

	courseID, err := paramUint(ctx, "course_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid course ID format"})
		return
	}
	chapterID, err := paramUint(ctx, "chapter_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid chapter ID format"})
		return
	}

	var req dto.GenerateChapterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing required fields", Details: []string{err.Error()}})
		return
	}

	chapter, err := c.chapterService.GenerateContent(ctx.Request.Context(), userID, courseID, chapterID, req.ModelName)
	if err != nil {
		log.Error().Err(err).Uint("chapterID", chapterID).Msg("GenerateChapterContent: service error")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, chapter)
}
