package dto

import "time"

type CreateCourseRequest struct {
	Topic     string `json:"topic" binding:"required"`
	ModelName string `json:"model_name" binding:"required"`
}

type GenerateChapterRequest struct {
	ModelName string `json:"model_name" binding:"required"`
}

type ChapterResponseDTO struct {
	ID       uint   `json:"id"`
	CourseID uint   `json:"course_id"`
	Title    string `json:"title"`
	Summary  string `json:"summary,omitempty"`
	Content  string `json:"content,omitempty"`
	Position int    `json:"position"`
}

type CourseResponseDTO struct {
	ID        uint                 `json:"id"`
	Topic     string               `json:"topic"`
	Title     string               `json:"title"`
	Chapters  []ChapterResponseDTO `json:"chapters,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

type CourseSummaryDTO struct {
	ID        uint      `json:"id"`
	Topic     string    `json:"topic"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
