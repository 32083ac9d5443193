package dto

import "time"

type ClaimCertificateRequest struct {
	ExamID      uint   `json:"exam_id" binding:"required"`
	StudentName string `json:"student_name" binding:"required"`
}

// ClaimCertificateResponseDTO echoes the stored name: on a repeat claim this
// is the name from the first claim, not the one just supplied.
type ClaimCertificateResponseDTO struct {
	CertificateID uint   `json:"certificate_id"`
	StudentName   string `json:"student_name"`
}

type CertificateResponseDTO struct {
	ID          uint      `json:"id"`
	CourseID    uint      `json:"course_id"`
	ExamID      uint      `json:"exam_id"`
	StudentName string    `json:"student_name"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
}
