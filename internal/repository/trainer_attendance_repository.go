package repository

import (
	"errors"
	"time"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type TrainerAttendanceRepository struct {
	DB *gorm.DB
}

func NewTrainerAttendanceRepository(db *gorm.DB) *TrainerAttendanceRepository {
	return &TrainerAttendanceRepository{DB: db}
}

// Upsert mirrors the student attendance write path for the
// (trainer, course, session date) key, including the duplicate-key fallback
// for losing concurrent writers.
func (r *TrainerAttendanceRepository) Upsert(record *model.TrainerAttendance) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.TrainerAttendance
		err := tx.Where("trainer_id = ? AND course_id = ? AND session_date = ?",
			record.TrainerID, record.CourseID, record.SessionDate).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			createErr := tx.Create(record).Error
			if createErr == nil {
				return nil
			}
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return createErr
			}
			err = tx.Where("trainer_id = ? AND course_id = ? AND session_date = ?",
				record.TrainerID, record.CourseID, record.SessionDate).
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

func (r *TrainerAttendanceRepository) ListByTrainer(trainerID uint, page, limit int) ([]model.TrainerAttendance, int64, error) {
	query := r.DB.Model(&model.TrainerAttendance{}).Preload("Course").
		Where("trainer_id = ?", trainerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	var records []model.TrainerAttendance
	err := query.Order("session_date DESC").Find(&records).Error
	return records, total, err
}

func (r *TrainerAttendanceRepository) ListByDate(date time.Time) ([]model.TrainerAttendance, error) {
	var records []model.TrainerAttendance
	err := r.DB.Preload("Trainer").Preload("Course").
		Where("session_date = ?", date).
		Order("course_id ASC, trainer_id ASC").Find(&records).Error
	return records, err
}

func (r *TrainerAttendanceRepository) CountByDateAndStatus(date time.Time, status model.AttendanceStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TrainerAttendance{}).
		Where("session_date = ? AND status = ?", date, status).Count(&count).Error
	return count, err
}

func (r *TrainerAttendanceRepository) CountByDate(date time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TrainerAttendance{}).
		Where("session_date = ?", date).Count(&count).Error
	return count, err
}
