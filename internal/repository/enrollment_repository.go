package repository

import (
	"time"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// EnrollmentFilter narrows the admin enrollment listing. Search matches the
// student's name or the course title.
type EnrollmentFilter struct {
	StudentID uint
	CourseID  uint
	Status    model.EnrollmentStatus
	Search    string
	Page      int
	Limit     int
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Preload("Student").Preload("Course").First(&enrollment, id).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByStudentAndCourse(studentID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) List(filter EnrollmentFilter) ([]model.Enrollment, int64, error) {
	query := r.DB.Model(&model.Enrollment{}).Preload("Student").Preload("Course")

	if filter.StudentID != 0 {
		query = query.Where("enrollments.student_id = ?", filter.StudentID)
	}
	if filter.CourseID != 0 {
		query = query.Where("enrollments.course_id = ?", filter.CourseID)
	}
	if filter.Status != "" {
		query = query.Where("enrollments.status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.
			Joins("JOIN students ON students.id = enrollments.student_id").
			Joins("JOIN courses ON courses.id = enrollments.course_id").
			Where("students.first_name LIKE ? OR students.last_name LIKE ? OR courses.title LIKE ?",
				like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var enrollments []model.Enrollment
	err := query.Order("enrollments.created_at DESC").Find(&enrollments).Error
	return enrollments, total, err
}

func (r *EnrollmentRepository) ListByStudent(studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").Preload("Course.Category").Preload("Course.Instructor").
		Where("student_id = ?", studentID).
		Order("created_at DESC").Find(&enrollments).Error
	return enrollments, err
}

// ListActiveByCourse returns enrollments whose status still grants course
// access, with student rows preloaded for roster views.
func (r *EnrollmentRepository) ListActiveByCourse(courseID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Student").
		Where("course_id = ? AND status IN ?", courseID,
			[]model.EnrollmentStatus{model.EnrollmentEnrolled, model.EnrollmentInProgress}).
		Order("created_at ASC").Find(&enrollments).Error
	return enrollments, err
}

// ActiveCourseIDs returns the courses a student can currently access.
func (r *EnrollmentRepository) ActiveCourseIDs(studentID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Enrollment{}).
		Where("student_id = ? AND status IN ?", studentID,
			[]model.EnrollmentStatus{model.EnrollmentEnrolled, model.EnrollmentInProgress}).
		Pluck("course_id", &ids).Error
	return ids, err
}

func (r *EnrollmentRepository) Update(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}

func (r *EnrollmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Enrollment{}, id).Error
}

func (r *EnrollmentRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) CountByStatus(status model.EnrollmentStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) CountByCourseAndStatus(courseID uint, status model.EnrollmentStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, status).Count(&count).Error
	return count, err
}

// CountCreatedBetween counts enrollments created in [start, end), used for
// the trailing monthly trend on the admin dashboard.
func (r *EnrollmentRepository) CountCreatedBetween(start, end time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("created_at >= ? AND created_at < ?", start, end).Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) FindRecent(limit int) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Student").Preload("Course").
		Order("created_at DESC").Limit(limit).Find(&enrollments).Error
	return enrollments, err
}
