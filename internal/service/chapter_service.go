package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/minhlq/coursecast/internal/dto"
	"github.com/minhlq/coursecast/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ChapterService expands placeholder chapters into long-form content.
type ChapterService interface {
	GenerateContent(ctx context.Context, userID, courseID, chapterID uint, modelName string) (*dto.ChapterResponseDTO, error)
}

type chapterService struct {
	courseRepo  repository.CourseRepository
	chapterRepo repository.ChapterRepository
	gemini      GeminiService
}

func NewChapterService(courseRepo repository.CourseRepository, chapterRepo repository.ChapterRepository, gemini GeminiService) ChapterService {
	return &chapterService{courseRepo: courseRepo, chapterRepo: chapterRepo, gemini: gemini}
}

// GenerateContent streams chapter content and persists whatever was produced.
// The write-back deliberately ignores request-context cancellation: a client
// navigating away must not lose content that already streamed in.
func (s *chapterService) GenerateContent(ctx context.Context, userID, courseID, chapterID uint, modelName string) (*dto.ChapterResponseDTO, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %d: %w", courseID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching course %d: %w", courseID, err)
	}
	if course.UserID != userID {
		return nil, fmt.Errorf("course %d belongs to another user: %w", courseID, ErrForbidden)
	}

	chapter, err := s.chapterRepo.FindByID(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("chapter %d: %w", chapterID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching chapter %d: %w", chapterID, err)
	}
	if chapter.CourseID != courseID {
		return nil, fmt.Errorf("chapter %d is not part of course %d: %w", chapterID, courseID, ErrNotFound)
	}

	content, genErr := s.gemini.GenerateChapterContent(ctx, course.Topic, chapter, modelName)
	if content != "" {
		// Fire and persist: partial content from an interrupted stream is
		// still written back.
		if err := s.chapterRepo.UpdateContent(chapterID, content); err != nil {
			log.Error().Err(err).Uint("chapterID", chapterID).Msg("GenerateContent: failed to persist chapter content")
			return nil, fmt.Errorf("persisting chapter content: %w", err)
		}
		chapter.Content = content
	}
	if genErr != nil && content == "" {
		log.Error().Err(genErr).Uint("chapterID", chapterID).Msg("GenerateContent: generation produced no content")
		return nil, fmt.Errorf("%w: %s", ErrUpstream, genErr.Error())
	}

	return &dto.ChapterResponseDTO{
		ID:       chapter.ID,
		CourseID: chapter.CourseID,
		Title:    chapter.Title,
		Summary:  chapter.Summary,
		Content:  chapter.Content,
		Position: chapter.Position,
	}, nil
}
