package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/minhlq/coursecast/internal/dto"
	"github.com/minhlq/coursecast/internal/model"
	"github.com/minhlq/coursecast/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CourseService is a thin orchestration layer: one structured generator call,
// one persist. Chapters start with placeholder content and are expanded
// lazily by ChapterService.
type CourseService interface {
	CreateCourse(ctx context.Context, userID uint, topic, modelName string) (*dto.CourseResponseDTO, error)
	GetCourse(userID, courseID uint) (*dto.CourseResponseDTO, error)
	ListCourses(userID uint) ([]dto.CourseSummaryDTO, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
	gemini     GeminiService
}

func NewCourseService(courseRepo repository.CourseRepository, gemini GeminiService) CourseService {
	return &courseService{courseRepo: courseRepo, gemini: gemini}
}

func (s *courseService) CreateCourse(ctx context.Context, userID uint, topic, modelName string) (*dto.CourseResponseDTO, error) {
	outline, err := s.gemini.GenerateCourseOutline(ctx, topic, modelName)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("CreateCourse: outline generation failed")
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err.Error())
	}

	course := model.Course{
		UserID: userID,
		Topic:  topic,
		Title:  outline.Title,
	}
	for i, ch := range outline.Chapters {
		course.Chapters = append(course.Chapters, model.Chapter{
			Title:    ch.Title,
			Summary:  ch.Summary,
			Content:  model.ContentPlaceholder,
			Position: i + 1,
		})
	}

	if err := s.courseRepo.Create(&course); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("CreateCourse: failed to persist course")
		return nil, fmt.Errorf("persisting course: %w", err)
	}

	log.Info().Uint("courseID", course.ID).Int("chapters", len(course.Chapters)).Msg("Course created")
	return toCourseDTO(&course), nil
}

func (s *courseService) GetCourse(userID, courseID uint) (*dto.CourseResponseDTO, error) {
	course, err := s.courseRepo.FindByIDWithChapters(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %d: %w", courseID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching course %d: %w", courseID, err)
	}
	if course.UserID != userID {
		return nil, fmt.Errorf("course %d belongs to another user: %w", courseID, ErrForbidden)
	}
	return toCourseDTO(course), nil
}

func (s *courseService) ListCourses(userID uint) ([]dto.CourseSummaryDTO, error) {
	courses, err := s.courseRepo.FindAllByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("fetching courses: %w", err)
	}

	var dtos []dto.CourseSummaryDTO
	for _, course := range courses {
		var summary dto.CourseSummaryDTO
		if err := copier.Copy(&summary, &course); err != nil {
			log.Error().Err(err).Uint("courseID", course.ID).Msg("ListCourses: error copying course to summary DTO")
			continue
		}
		dtos = append(dtos, summary)
	}
	return dtos, nil
}

func toCourseDTO(course *model.Course) *dto.CourseResponseDTO {
	resp := &dto.CourseResponseDTO{
		ID:        course.ID,
		Topic:     course.Topic,
		Title:     course.Title,
		CreatedAt: course.CreatedAt,
	}
	for _, ch := range course.Chapters {
		resp.Chapters = append(resp.Chapters, dto.ChapterResponseDTO{
			ID:       ch.ID,
			CourseID: ch.CourseID,
			Title:    ch.Title,
			Summary:  ch.Summary,
			Content:  ch.Content,
			Position: ch.Position,
		})
	}
	return resp
}
