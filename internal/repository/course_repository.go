package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// CourseFilter narrows course listings. A zero value lists everything.
type CourseFilter struct {
	Search        string
	CategoryID    uint
	InstructorID  uint
	PublishedOnly bool
	Page          int
	Limit         int
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Category").Preload("Instructor").First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDWithModules loads the course together with its ordered modules and
// their ordered lessons, for the course detail and lesson navigation views.
func (r *CourseRepository) FindByIDWithModules(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Category").Preload("Instructor").
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) List(filter CourseFilter) ([]model.Course, int64, error) {
	query := r.DB.Model(&model.Course{}).Preload("Category").Preload("Instructor")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR code LIKE ? OR description LIKE ?", like, like, like)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.InstructorID != 0 {
		query = query.Where("instructor_id = ?", filter.InstructorID)
	}
	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var courses []model.Course
	err := query.Order("created_at DESC").Find(&courses).Error
	return courses, total, err
}

// IDsByInstructor returns the primary keys of every course taught by the
// given instructor. Used to scope attendance, content and report queries.
func (r *CourseRepository) IDsByInstructor(instructorID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Course{}).
		Where("instructor_id = ?", instructorID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

func (r *CourseRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).Count(&count).Error
	return count, err
}

func (r *CourseRepository) FindRecent(limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Preload("Category").Preload("Instructor").
		Order("created_at DESC").Limit(limit).Find(&courses).Error
	return courses, err
}
