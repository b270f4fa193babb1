package repository

import (
	"errors"
	"time"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// Upsert writes the attendance record for the (student, course, session date)
// key, replacing status, notes and recorder if a row already exists. The
// check and write run in one transaction; the unique index on the key is the
// final arbiter under concurrent writers, and a losing writer falls back to
// replacing the winner's row so the last write wins.
func (r *AttendanceRepository) Upsert(record *model.Attendance) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Attendance
		err := tx.Where("student_id = ? AND course_id = ? AND session_date = ?",
			record.StudentID, record.CourseID, record.SessionDate).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			createErr := tx.Create(record).Error
			if createErr == nil {
				return nil
			}
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return createErr
			}
			// A concurrent writer inserted the row first; replace it.
			err = tx.Where("student_id = ? AND course_id = ? AND session_date = ?",
				record.StudentID, record.CourseID, record.SessionDate).
				First(&existing).Error
		}
		if err != nil {
			return err
		}
		existing.Status = record.Status
		existing.Notes = record.Notes
		existing.RecordedByID = record.RecordedByID
		if saveErr := tx.Save(&existing).Error; saveErr != nil {
			return saveErr
		}
		record.ID = existing.ID
		return nil
	})
}

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	CourseIDs []uint
	StudentID uint
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

func (r *AttendanceRepository) List(filter AttendanceFilter) ([]model.Attendance, int64, error) {
	query := r.DB.Model(&model.Attendance{}).Preload("Student").Preload("Course")

	if len(filter.CourseIDs) > 0 {
		query = query.Where("course_id IN ?", filter.CourseIDs)
	}
	if filter.StudentID != 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.From != nil {
		query = query.Where("session_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("session_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var records []model.Attendance
	err := query.Order("session_date DESC, id ASC").Find(&records).Error
	return records, total, err
}

func (r *AttendanceRepository) ListByDate(date time.Time) ([]model.Attendance, error) {
	var records []model.Attendance
	err := r.DB.Preload("Student").Preload("Course").
		Where("session_date = ?", date).
		Order("course_id ASC, student_id ASC").Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) CountByDateAndStatus(date time.Time, status model.AttendanceStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attendance{}).
		Where("session_date = ? AND status = ?", date, status).Count(&count).Error
	return count, err
}

func (r *AttendanceRepository) CountByDate(date time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attendance{}).
		Where("session_date = ?", date).Count(&count).Error
	return count, err
}
