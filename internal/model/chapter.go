package model

import (
	"time"

	"gorm.io/gorm"
)

// ContentPlaceholder marks a chapter whose long-form content has not been
// generated yet. Exam generation skips chapters still carrying it.
const ContentPlaceholder = "Generating..."

type Chapter struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CourseID  uint           `json:"course_id" gorm:"not null;index"`
	Title     string         `json:"title" gorm:"not null"`
	Summary   string         `json:"summary" gorm:"type:text"`
	Content   string         `json:"content" gorm:"type:text"`
	Position  int            `json:"position" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasContent reports whether real content has been generated for the chapter.
func (c *Chapter) HasContent() bool {
	return c.Content != "" && c.Content != ContentPlaceholder
}
