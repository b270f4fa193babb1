package repository

import (
	"errors"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

// Upsert keeps at most one submission per (student, assignment) pair.
// Resubmitting replaces the content and clears any previous grade.
func (r *SubmissionRepository) Upsert(submission *model.AssignmentSubmission) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.AssignmentSubmission
		err := tx.Where("student_id = ? AND assignment_id = ?",
			submission.StudentID, submission.AssignmentID).
			First(&existing).Error
		if err == nil {
			existing.SubmissionText = submission.SubmissionText
			existing.FileKey = submission.FileKey
			existing.Grade = nil
			existing.Feedback = ""
			existing.IsGraded = false
			existing.GradedAt = nil
			if saveErr := tx.Save(&existing).Error; saveErr != nil {
				return saveErr
			}
			submission.ID = existing.ID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(submission).Error
	})
}

func (r *SubmissionRepository) FindByID(id uint) (*model.AssignmentSubmission, error) {
	var submission model.AssignmentSubmission
	err := r.DB.Preload("Student").Preload("Assignment").First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) FindByStudentAndAssignment(studentID, assignmentID uint) (*model.AssignmentSubmission, error) {
	var submission model.AssignmentSubmission
	err := r.DB.Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) ListByAssignment(assignmentID uint) ([]model.AssignmentSubmission, error) {
	var submissions []model.AssignmentSubmission
	err := r.DB.Preload("Student").
		Where("assignment_id = ?", assignmentID).
		Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) ListByStudent(studentID uint) ([]model.AssignmentSubmission, error) {
	var submissions []model.AssignmentSubmission
	err := r.DB.Preload("Assignment").Preload("Assignment.Course").
		Where("student_id = ?", studentID).
		Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) Update(submission *model.AssignmentSubmission) error {
	return r.DB.Save(submission).Error
}

// CountUngraded counts submissions still waiting on a grade, for the
// analytics overview.
func (r *SubmissionRepository) CountUngraded() (int64, error) {
	var count int64
	err := r.DB.Model(&model.AssignmentSubmission{}).
		Where("is_graded = ?", false).Count(&count).Error
	return count, err
}

// CountUngradedByCourses narrows the pending-grading count to an
// instructor's own courses.
func (r *SubmissionRepository) CountUngradedByCourses(courseIDs []uint) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.AssignmentSubmission{}).
		Joins("JOIN assignments ON assignments.id = assignment_submissions.assignment_id").
		Where("assignment_submissions.is_graded = ? AND assignments.course_id IN ?", false, courseIDs).
		Count(&count).Error
	return count, err
}
