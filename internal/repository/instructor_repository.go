package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type InstructorRepository struct {
	DB *gorm.DB
}

func NewInstructorRepository(db *gorm.DB) *InstructorRepository {
	return &InstructorRepository{DB: db}
}

func (r *InstructorRepository) Create(instructor *model.Instructor) error {
	return r.DB.Create(instructor).Error
}

func (r *InstructorRepository) FindByID(id uint) (*model.Instructor, error) {
	var instructor model.Instructor
	err := r.DB.First(&instructor, id).Error
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *InstructorRepository) FindByInstructorID(instructorID string) (*model.Instructor, error) {
	var instructor model.Instructor
	err := r.DB.Where("instructor_id = ?", instructorID).First(&instructor).Error
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *InstructorRepository) FindByUserID(userID uint) (*model.Instructor, error) {
	var instructor model.Instructor
	err := r.DB.Where("user_id = ?", userID).First(&instructor).Error
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *InstructorRepository) List(search, status string, page, limit int) ([]model.Instructor, int64, error) {
	query := r.DB.Model(&model.Instructor{})

	if search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"instructor_id LIKE ? OR first_name LIKE ? OR last_name LIKE ? OR email LIKE ?",
			like, like, like, like,
		)
	}

	switch status {
	case "active":
		query = query.Where("is_active = ?", true)
	case "inactive":
		query = query.Where("is_active = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var instructors []model.Instructor
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&instructors).Error
	return instructors, total, err
}

func (r *InstructorRepository) Update(instructor *model.Instructor) error {
	return r.DB.Save(instructor).Error
}

func (r *InstructorRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Instructor{}, id).Error
}

func (r *InstructorRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Instructor{}).Count(&count).Error
	return count, err
}
