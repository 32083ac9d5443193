package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/minhlq/coursecast/internal/dto"
	"github.com/minhlq/coursecast/internal/model"
	"github.com/minhlq/coursecast/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PassingScore is the minimum exam score required to claim a certificate.
const PassingScore = 60

// CertificateService issues at most one certificate per exam. Claims are
// idempotent: the first claim wins, later claims get the stored record back
// regardless of the name they carry.
type CertificateService interface {
	Claim(userID, examID uint, studentName string) (*dto.ClaimCertificateResponseDTO, error)
	GetCertificate(userID, certificateID uint) (*dto.CertificateResponseDTO, error)
}

type certificateService struct {
	examRepo   repository.ExamRepository
	courseRepo repository.CourseRepository
	certRepo   repository.CertificateRepository
}

func NewCertificateService(
	examRepo repository.ExamRepository,
	courseRepo repository.CourseRepository,
	certRepo repository.CertificateRepository,
) CertificateService {
	return &certificateService{examRepo: examRepo, courseRepo: courseRepo, certRepo: certRepo}
}

func (s *certificateService) Claim(userID, examID uint, studentName string) (*dto.ClaimCertificateResponseDTO, error) {
	if studentName == "" {
		return nil, fmt.Errorf("student name is required: %w", ErrInvalidInput)
	}

	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("exam %d: %w", examID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching exam %d: %w", examID, err)
	}

	// Exams carry no user reference; ownership is resolved through the course.
	course, err := s.courseRepo.FindByID(exam.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %d: %w", exam.CourseID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching course %d: %w", exam.CourseID, err)
	}
	if course.UserID != userID {
		return nil, fmt.Errorf("exam %d belongs to another user: %w", examID, ErrForbidden)
	}

	if exam.Score == nil || *exam.Score < PassingScore {
		return nil, fmt.Errorf("exam %d has not passed: %w", examID, ErrScoreTooLow)
	}

	cert := model.Certificate{
		UserID:      userID,
		CourseID:    exam.CourseID,
		ExamID:      examID,
		StudentName: studentName,
		Score:       *exam.Score,
	}
	if err := s.certRepo.Create(&cert); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race or repeat claim: hand back the first claim's record.
			existing, findErr := s.certRepo.FindByExamID(examID)
			if findErr != nil {
				return nil, fmt.Errorf("fetching existing certificate for exam %d: %w", examID, findErr)
			}
			log.Info().Uint("examID", examID).Uint("certificateID", existing.ID).Msg("Certificate already issued, returning existing record")
			return &dto.ClaimCertificateResponseDTO{
				CertificateID: existing.ID,
				StudentName:   existing.StudentName,
			}, nil
		}
		log.Error().Err(err).Uint("examID", examID).Msg("Claim: failed to insert certificate")
		return nil, fmt.Errorf("creating certificate: %w", err)
	}

	log.Info().Uint("examID", examID).Uint("certificateID", cert.ID).Int("score", cert.Score).Msg("Certificate issued")
	return &dto.ClaimCertificateResponseDTO{
		CertificateID: cert.ID,
		StudentName:   cert.StudentName,
	}, nil
}

func (s *certificateService) GetCertificate(userID, certificateID uint) (*dto.CertificateResponseDTO, error) {
	cert, err := s.certRepo.FindByID(certificateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("certificate %d: %w", certificateID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching certificate %d: %w", certificateID, err)
	}
	if cert.UserID != userID {
		return nil, fmt.Errorf("certificate %d belongs to another user: %w", certificateID, ErrForbidden)
	}

	var resp dto.CertificateResponseDTO
	if err := copier.Copy(&resp, cert); err != nil {
		return nil, fmt.Errorf("error preparing certificate response: %w", err)
	}
	return &resp, nil
}
