package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/minhlq/coursecast/internal/dto"
	"github.com/minhlq/coursecast/internal/model"
	"github.com/minhlq/coursecast/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// chapterExcerptLimit bounds how much of each chapter feeds the exam prompt,
// keeping the generation context within token limits.
const chapterExcerptLimit = 400

// ExamService drives the exam lifecycle: destructive generation, concealed
// fetch, per-question verification, at-most-once submission and retake.
type ExamService interface {
	GenerateExam(ctx context.Context, courseID uint, modelName string) (*dto.ExamResponseDTO, error)
	// GetExamForCourse returns (nil, nil) when the course has no exam.
	GetExamForCourse(courseID uint) (*dto.ExamResponseDTO, error)
	DeleteExamForCourse(courseID uint) error
	VerifyQuestion(examID uint, questionIndex int, selectedOption string) (*dto.VerifyQuestionResponseDTO, error)
	// SubmitExam finalizes the exam. When the exam was already finalized the
	// stored exam is returned together with ErrAlreadySubmitted so callers can
	// treat the retry as a soft success.
	SubmitExam(examID uint, answers map[string]string) (*dto.ExamResponseDTO, error)
}

type examService struct {
	courseRepo repository.CourseRepository
	examRepo   repository.ExamRepository
	gemini     GeminiService
}

func NewExamService(courseRepo repository.CourseRepository, examRepo repository.ExamRepository, gemini GeminiService) ExamService {
	return &examService{courseRepo: courseRepo, examRepo: examRepo, gemini: gemini}
}

func (s *examService) GenerateExam(ctx context.Context, courseID uint, modelName string) (*dto.ExamResponseDTO, error) {
	course, err := s.courseRepo.FindByIDWithChapters(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %d: %w", courseID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching course %d: %w", courseID, err)
	}

	courseContent := buildCourseContext(course.Chapters)
	if courseContent == "" {
		log.Warn().Uint("courseID", courseID).Msg("GenerateExam: course has no generated chapter content")
		return nil, fmt.Errorf("course %d has no generated chapters: %w", courseID, ErrNotFound)
	}

	questions, err := s.gemini.GenerateExamQuestions(ctx, course.Topic, courseContent, modelName)
	if err != nil {
		// Generation failed: the prior exam (if any) must stay untouched.
		log.Error().Err(err).Uint("courseID", courseID).Msg("GenerateExam: generator call failed")
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err.Error())
	}

	exam := model.Exam{
		CourseID:  courseID,
		Questions: datatypes.NewJSONSlice(questions),
	}
	if err := s.examRepo.Replace(courseID, &exam); err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Msg("GenerateExam: failed to persist exam")
		return nil, fmt.Errorf("persisting exam: %w", err)
	}

	log.Info().Uint("courseID", courseID).Uint("examID", exam.ID).Msg("Exam generated")
	return toExamDTO(&exam), nil
}

// buildCourseContext concatenates the generated chapters into the prompt
// context, truncating each chapter to a bounded prefix.
func buildCourseContext(chapters []model.Chapter) string {
	var sb strings.Builder
	for _, ch := range chapters {
		if !ch.HasContent() {
			continue
		}
		excerpt := ch.Content
		if len(excerpt) > chapterExcerptLimit {
			excerpt = excerpt[:chapterExcerptLimit] + "..."
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("Chapter: ")
		sb.WriteString(ch.Title)
		sb.WriteString("\nContent: ")
		sb.WriteString(excerpt)
	}
	return sb.String()
}

func (s *examService) GetExamForCourse(courseID uint) (*dto.ExamResponseDTO, error) {
	exam, err := s.examRepo.FindLatestByCourseID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Normal case if the exam has not been generated yet.
			return nil, nil
		}
		return nil, fmt.Errorf("fetching exam for course %d: %w", courseID, err)
	}
	return toExamDTO(exam), nil
}

func (s *examService) DeleteExamForCourse(courseID uint) error {
	if err := s.examRepo.DeleteByCourseID(courseID); err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Msg("DeleteExamForCourse: delete failed")
		return fmt.Errorf("deleting exam for course %d: %w", courseID, err)
	}
	// Certificates referencing the deleted exam are left alone: they are
	// permanent proof-of-achievement snapshots.
	return nil
}

func (s *examService) VerifyQuestion(examID uint, questionIndex int, selectedOption string) (*dto.VerifyQuestionResponseDTO, error) {
	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("exam %d: %w", examID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching exam %d: %w", examID, err)
	}
	if exam.Finalized() {
		return nil, fmt.Errorf("exam %d is finalized: %w", examID, ErrAlreadySubmitted)
	}
	questions := []model.Question(exam.Questions)
	if questionIndex < 0 || questionIndex >= len(questions) {
		return nil, fmt.Errorf("question index %d out of range: %w", questionIndex, ErrInvalidInput)
	}

	q := questions[questionIndex]
	return &dto.VerifyQuestionResponseDTO{
		Success:       true,
		IsCorrect:     q.CorrectAnswer == selectedOption,
		CorrectAnswer: q.CorrectAnswer,
	}, nil
}

func (s *examService) SubmitExam(examID uint, answers map[string]string) (*dto.ExamResponseDTO, error) {
	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("exam %d: %w", examID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching exam %d: %w", examID, err)
	}
	if exam.Finalized() {
		return toExamDTO(exam), ErrAlreadySubmitted
	}

	questions := []model.Question(exam.Questions)
	if len(questions) == 0 {
		return nil, fmt.Errorf("exam %d has no questions: %w", examID, ErrInvalidInput)
	}

	correctCount := 0
	for i, q := range questions {
		if answers[strconv.Itoa(i)] == q.CorrectAnswer {
			correctCount++
		}
	}
	score := int(math.Round(float64(correctCount) / float64(len(questions)) * 100))

	ok, err := s.examRepo.Finalize(examID, score, answers)
	if err != nil {
		log.Error().Err(err).Uint("examID", examID).Msg("SubmitExam: failed to persist score")
		return nil, fmt.Errorf("finalizing exam %d: %w", examID, err)
	}

	updated, err := s.examRepo.FindByID(examID)
	if err != nil {
		return nil, fmt.Errorf("reloading exam %d: %w", examID, err)
	}
	if !ok {
		// A concurrent submission won; echo its result instead of ours.
		log.Info().Uint("examID", examID).Msg("SubmitExam: exam was finalized concurrently")
		return toExamDTO(updated), ErrAlreadySubmitted
	}

	log.Info().Uint("examID", examID).Int("score", score).Int("correct", correctCount).Msg("Exam submitted")
	return toExamDTO(updated), nil
}

// toExamDTO maps an exam to its response shape. Until the exam is finalized
// the correct answers and any stored answer map are withheld.
func toExamDTO(exam *model.Exam) *dto.ExamResponseDTO {
	resp := &dto.ExamResponseDTO{
		ID:        exam.ID,
		CourseID:  exam.CourseID,
		Score:     exam.Score,
		CreatedAt: exam.CreatedAt,
	}
	questions := []model.Question(exam.Questions)
	resp.Questions = make([]dto.ExamQuestionDTO, len(questions))
	for i, q := range questions {
		resp.Questions[i] = dto.ExamQuestionDTO{
			Question: q.Question,
			Options:  q.Options,
		}
		if exam.Finalized() {
			resp.Questions[i].CorrectAnswer = q.CorrectAnswer
		}
	}
	if exam.Finalized() {
		resp.Answers = exam.Answers.Data()
	}
	return resp
}
