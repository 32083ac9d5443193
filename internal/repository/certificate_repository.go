package repository

import (
	"github.com/minhlq/coursecast/internal/model"
	"gorm.io/gorm"
)

type CertificateRepository interface {
	// Create relies on the unique index on exam_id; a duplicate claim surfaces
	// as gorm.ErrDuplicatedKey rather than racing a separate existence check.
	Create(cert *model.Certificate) error
	FindByID(id uint) (*model.Certificate, error)
	FindByExamID(examID uint) (*model.Certificate, error)
}

type certificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) Create(cert *model.Certificate) error {
	return r.db.Create(cert).Error
}

func (r *certificateRepository) FindByID(id uint) (*model.Certificate, error) {
	var cert model.Certificate
	if err := r.db.First(&cert, id).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *certificateRepository) FindByExamID(examID uint) (*model.Certificate, error) {
	var cert model.Certificate
	if err := r.db.Where("exam_id = ?", examID).First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}
