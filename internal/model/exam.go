package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question lives inside the exam's jsonb payload; it is not separately
// addressable. CorrectAnswer must be the verbatim text of one option.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

// Exam holds one generated question set per course. Score stays NULL until
// the exam is finalized by submission; a non-null score makes it terminal.
type Exam struct {
	ID        uint                                  `gorm:"primarykey" json:"id"`
	CourseID  uint                                  `json:"course_id" gorm:"not null;index"`
	Course    Course                                `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Questions datatypes.JSONSlice[Question]         `json:"questions" gorm:"type:jsonb;not null"`
	Score     *int                                  `json:"score,omitempty"`
	Answers   datatypes.JSONType[map[string]string] `json:"user_answers,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time                             `json:"created_at"`
	UpdatedAt time.Time                             `json:"updated_at"`
	DeletedAt gorm.DeletedAt                        `gorm:"index" json:"-"`
}

// Finalized reports whether the exam has been scored.
func (e *Exam) Finalized() bool {
	return e.Score != nil
}
