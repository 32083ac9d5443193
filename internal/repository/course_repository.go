package repository

import (
	"github.com/minhlq/coursecast/internal/model"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(course *model.Course) error
	FindByID(id uint) (*model.Course, error)
	FindByIDWithChapters(id uint) (*model.Course, error)
	FindAllByUserID(userID uint) ([]model.Course, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *model.Course) error {
	// Create with associations also inserts the chapters attached to the course.
	return r.db.Create(course).Error
}

func (r *courseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindByIDWithChapters(id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("chapters.position ASC")
	}).First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindAllByUserID(userID uint) ([]model.Course, error) {
	var courses []model.Course
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}
