package dto

import "time"

// GenerateExamRequest asks for a fresh exam for a course. Generation is
// destructive: any prior exam for the course is replaced.
type GenerateExamRequest struct {
	CourseID  uint   `json:"course_id" binding:"required"`
	ModelName string `json:"model_name" binding:"required"`
}

// VerifyQuestionRequest probes a single question before submission.
// QuestionIndex is a pointer so index 0 passes the required binding.
type VerifyQuestionRequest struct {
	QuestionIndex  *int   `json:"question_index" binding:"required"`
	SelectedOption string `json:"selected_option" binding:"required"`
}

// SubmitExamRequest carries the full answer map, keyed by question index
// rendered as a decimal string ("0".."9").
type SubmitExamRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// ExamQuestionDTO mirrors a stored question. CorrectAnswer is only populated
// once the exam is finalized; unscored exams never reveal it.
type ExamQuestionDTO struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

type ExamResponseDTO struct {
	ID        uint              `json:"id"`
	CourseID  uint              `json:"course_id"`
	Questions []ExamQuestionDTO `json:"questions"`
	Score     *int              `json:"score,omitempty"`
	Answers   map[string]string `json:"user_answers,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type ExamEnvelopeDTO struct {
	Success bool             `json:"success,omitempty"`
	Exam    *ExamResponseDTO `json:"exam"`
}

type VerifyQuestionResponseDTO struct {
	Success       bool   `json:"success"`
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
}
