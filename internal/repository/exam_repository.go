package repository

import (
	"github.com/minhlq/coursecast/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ExamRepository interface {
	// Replace removes any prior exam rows for the course and inserts the new
	// one inside a single transaction. Callers must only invoke it after
	// generation has fully succeeded.
	Replace(courseID uint, exam *model.Exam) error
	FindByID(id uint) (*model.Exam, error)
	FindLatestByCourseID(courseID uint) (*model.Exam, error)
	// Finalize writes score and answers only while the exam is still unscored.
	// Returns false when another submission finalized the exam first.
	Finalize(examID uint, score int, answers map[string]string) (bool, error)
	DeleteByCourseID(courseID uint) error
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) Replace(courseID uint, exam *model.Exam) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Exam{}).Error; err != nil {
			return err
		}
		return tx.Create(exam).Error
	})
}

func (r *examRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindLatestByCourseID(courseID uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.Where("course_id = ?", courseID).Order("created_at DESC").First(&exam).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) Finalize(examID uint, score int, answers map[string]string) (bool, error) {
	// The score IS NULL guard serializes concurrent submissions: exactly one
	// conditional update wins, later writers see zero rows affected.
	res := r.db.Model(&model.Exam{}).
		Where("id = ? AND score IS NULL", examID).
		Updates(map[string]interface{}{
			"score":   score,
			"answers": datatypes.NewJSONType(answers),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *examRepository) DeleteByCourseID(courseID uint) error {
	return r.db.Where("course_id = ?", courseID).Delete(&model.Exam{}).Error
}
