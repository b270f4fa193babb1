package service

import (
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	StudentRepo    *repository.StudentRepository
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	studentRepo *repository.StudentRepository,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		StudentRepo:    studentRepo,
	}
}

// Enroll creates an enrollment for the acting student in the given course.
// Re-enrolling in the same course is reported as ErrAlreadyEnrolled without
// touching the existing row, so repeated submits cannot reset progress.
func (s *EnrollmentService) Enroll(actor model.Actor, courseID uint) (*model.Enrollment, error) {
	if !actor.IsStudent() {
		return nil, util.ErrPermissionDenied
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsPublished {
		return nil, util.ErrCourseNotPublished
	}

	if _, err := s.EnrollmentRepo.FindByStudentAndCourse(actor.ProfileID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		StudentID: actor.ProfileID,
		CourseID:  courseID,
		Status:    model.EnrollmentEnrolled,
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		// The unique index decides races between concurrent submits.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}

	logger.Log.Info("student enrolled",
		zap.Uint("student_id", actor.ProfileID),
		zap.Uint("course_id", courseID))
	return enrollment, nil
}

// AdminEnroll enrolls an arbitrary student, bypassing the published check.
func (s *EnrollmentService) AdminEnroll(actor model.Actor, studentID, courseID uint) (*model.Enrollment, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	if _, err := s.StudentRepo.FindByID(studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if _, err := s.EnrollmentRepo.FindByStudentAndCourse(studentID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    model.EnrollmentEnrolled,
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

type UpdateEnrollmentRequest struct {
	Status   model.EnrollmentStatus `json:"status" binding:"required"`
	Progress *int                   `json:"progress"`
}

// UpdateStatus moves an enrollment through its lifecycle. Students may only
// touch their own enrollments; completing one stamps the completion time and
// forces progress to 100.
func (s *EnrollmentService) UpdateStatus(actor model.Actor, enrollmentID uint, req UpdateEnrollmentRequest) (*model.Enrollment, error) {
	if !req.Status.Valid() {
		return nil, util.ErrInvalidStatus
	}

	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	if actor.IsStudent() && enrollment.StudentID != actor.ProfileID {
		return nil, util.ErrPermissionDenied
	}
	if actor.IsInstructor() {
		return nil, util.ErrPermissionDenied
	}

	enrollment.Status = req.Status
	if req.Progress != nil {
		p := *req.Progress
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		enrollment.Progress = p
	}
	if req.Status == model.EnrollmentCompleted {
		enrollment.Progress = 100
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	} else {
		enrollment.CompletedAt = nil
	}

	if err := s.EnrollmentRepo.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// UpdateProgress records a student's own progress through a course. Reaching
// 100 completes the enrollment; the first nonzero progress moves a fresh
// enrollment to in_progress.
func (s *EnrollmentService) UpdateProgress(actor model.Actor, courseID uint, progress int) (*model.Enrollment, error) {
	if !actor.IsStudent() {
		return nil, util.ErrPermissionDenied
	}

	enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(actor.ProfileID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	enrollment.Progress = progress

	if progress >= 100 {
		enrollment.Status = model.EnrollmentCompleted
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	} else if progress > 0 && enrollment.Status == model.EnrollmentEnrolled {
		enrollment.Status = model.EnrollmentInProgress
	}

	if err := s.EnrollmentRepo.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) ListMine(actor model.Actor) ([]model.Enrollment, error) {
	if !actor.IsStudent() {
		return nil, util.ErrPermissionDenied
	}
	return s.EnrollmentRepo.ListByStudent(actor.ProfileID)
}

func (s *EnrollmentService) List(actor model.Actor, filter repository.EnrollmentFilter) ([]model.Enrollment, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, util.ErrPermissionDenied
	}
	return s.EnrollmentRepo.List(filter)
}

func (s *EnrollmentService) Delete(actor model.Actor, enrollmentID uint) error {
	if !actor.IsAdmin() {
		return util.ErrPermissionDenied
	}
	if _, err := s.EnrollmentRepo.FindByID(enrollmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEnrollmentNotFound
		}
		return err
	}
	return s.EnrollmentRepo.Delete(enrollmentID)
}
