package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Create(student *model.Student) error {
	return r.DB.Create(student).Error
}

func (r *StudentRepository) FindByID(id uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.First(&student, id).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) FindByStudentID(studentID string) (*model.Student, error) {
	var student model.Student
	err := r.DB.Where("student_id = ?", studentID).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) FindByUserID(userID uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.Where("user_id = ?", userID).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// List applies the admin roster filters: free-text search over id, names and
// email, plus an optional active/inactive filter.
func (r *StudentRepository) List(search, status string, page, limit int) ([]model.Student, int64, error) {
	query := r.DB.Model(&model.Student{})

	if search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"student_id LIKE ? OR first_name LIKE ? OR last_name LIKE ? OR email LIKE ?",
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

	var students []model.Student
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&students).Error
	return students, total, err
}

func (r *StudentRepository) Update(student *model.Student) error {
	return r.DB.Save(student).Error
}

func (r *StudentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Student{}, id).Error
}

func (r *StudentRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Student{}).Count(&count).Error
	return count, err
}

func (r *StudentRepository) FindRecent(limit int) ([]model.Student, error) {
	var students []model.Student
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&students).Error
	return students, err
}
