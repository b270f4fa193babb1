package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

// ReportRepository holds the cross-table aggregation queries behind the
// dashboard and analytics views.
type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

// CategoryCount is one slice of the category distribution chart.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CategoryDistribution counts courses per category, skipping categories
// with no courses.
func (r *ReportRepository) CategoryDistribution() ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.DB.Model(&model.Course{}).
		Select("categories.name AS category, COUNT(courses.id) AS count").
		Joins("JOIN categories ON categories.id = courses.category_id").
		Where("courses.deleted_at IS NULL").
		Group("categories.name").
		Having("COUNT(courses.id) > 0").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// CourseEnrollmentCount pairs a course with its enrollment totals for the
// top-courses ranking.
type CourseEnrollmentCount struct {
	CourseID  uint   `json:"course_id"`
	Title     string `json:"title"`
	Enrolled  int64  `json:"enrolled"`
	Completed int64  `json:"completed"`
}

// TopCoursesByEnrollment ranks courses by total enrollment count.
func (r *ReportRepository) TopCoursesByEnrollment(limit int) ([]CourseEnrollmentCount, error) {
	var rows []CourseEnrollmentCount
	err := r.DB.Model(&model.Enrollment{}).
		Select("courses.id AS course_id, courses.title AS title, "+
			"COUNT(enrollments.id) AS enrolled, "+
			"SUM(CASE WHEN enrollments.status = ? THEN 1 ELSE 0 END) AS completed",
			model.EnrollmentCompleted).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.deleted_at IS NULL").
		Group("courses.id, courses.title").
		Order("enrolled DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
