package model

import "time"

// Certificate is an immutable proof-of-achievement snapshot. The unique index
// on ExamID enforces at most one certificate per exam even under concurrent
// claims. No soft delete: certificates survive exam retakes on purpose.
type Certificate struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	CourseID    uint      `json:"course_id" gorm:"not null;index"`
	ExamID      uint      `json:"exam_id" gorm:"not null;uniqueIndex"`
	StudentName string    `json:"student_name" gorm:"not null"`
	Score       int       `json:"score" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}
