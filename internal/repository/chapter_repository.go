package repository

import (
	"github.com/minhlq/coursecast/internal/model"
	"gorm.io/gorm"
)

type ChapterRepository interface {
	FindByID(id uint) (*model.Chapter, error)
	FindByCourseID(courseID uint) ([]model.Chapter, error)
	UpdateContent(chapterID uint, content string) error
}

type chapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) FindByID(id uint) (*model.Chapter, error) {
	var chapter model.Chapter
	if err := r.db.First(&chapter, id).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *chapterRepository) FindByCourseID(courseID uint) ([]model.Chapter, error) {
	var chapters []model.Chapter
	if err := r.db.Where("course_id = ?", courseID).Order("position ASC").Find(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *chapterRepository) UpdateContent(chapterID uint, content string) error {
	return r.db.Model(&model.Chapter{}).Where("id = ?", chapterID).Update("content", content).Error
}
