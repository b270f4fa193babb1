package service

import (
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AttendanceService struct {
	AttendanceRepo        *repository.AttendanceRepository
	TrainerAttendanceRepo *repository.TrainerAttendanceRepository
	EnrollmentRepo        *repository.EnrollmentRepository
	StudentRepo           *repository.StudentRepository
	InstructorRepo        *repository.InstructorRepository
	CourseRepo            *repository.CourseRepository
}

func NewAttendanceService(
	attendanceRepo *repository.AttendanceRepository,
	trainerAttendanceRepo *repository.TrainerAttendanceRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	studentRepo *repository.StudentRepository,
	instructorRepo *repository.InstructorRepository,
	courseRepo *repository.CourseRepository,
) *AttendanceService {
	return &AttendanceService{
		AttendanceRepo:        attendanceRepo,
		TrainerAttendanceRepo: trainerAttendanceRepo,
		EnrollmentRepo:        enrollmentRepo,
		StudentRepo:           studentRepo,
		InstructorRepo:        instructorRepo,
		CourseRepo:            courseRepo,
	}
}

type RecordAttendanceRequest struct {
	StudentID   uint   `json:"student_id" binding:"required"`
	CourseID    uint   `json:"course_id" binding:"required"`
	SessionDate string `json:"session_date" binding:"required"`
	Status      string `json:"status" binding:"required"`
	Notes       string `json:"notes"`
}

// RecordStudent writes one attendance record. Instructors may only mark
// sessions of their own courses, and the student must hold an enrollment
// that still grants course access. Re-marking the same (student, course,
// date) replaces the earlier status instead of adding a row.
func (s *AttendanceService) RecordStudent(actor model.Actor, req RecordAttendanceRequest) (*model.Attendance, error) {
	if actor.IsStudent() {
		return nil, util.ErrPermissionDenied
	}

	status := model.AttendanceStatus(req.Status)
	if !status.Valid() {
		return nil, util.ErrInvalidStatus
	}
	sessionDate, err := util.ParseSessionDate(req.SessionDate)
	if err != nil {
		return nil, err
	}

	course, err := s.CourseRepo.FindByID(req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if actor.IsInstructor() && course.InstructorID != actor.ProfileID {
		return nil, util.ErrPermissionDenied
	}

	if _, err := s.StudentRepo.FindByID(req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(req.StudentID, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}
	if !enrollment.Status.Active() {
		return nil, util.ErrNotEnrolled
	}

	recordedBy := actor.UserID
	record := &model.Attendance{
		StudentID:    req.StudentID,
		CourseID:     req.CourseID,
		SessionDate:  sessionDate,
		Status:       status,
		Notes:        req.Notes,
		RecordedByID: &recordedBy,
	}
	if err := s.AttendanceRepo.Upsert(record); err != nil {
		return nil, err
	}

	monitoring.AttendanceRecorded.WithLabelValues("student").Inc()
	return record, nil
}

type BulkAttendanceEntry struct {
	StudentID uint   `json:"student_id" binding:"required"`
	CourseID  uint   `json:"course_id" binding:"required"`
	Status    string `json:"status" binding:"required"`
	Notes     string `json:"notes"`
}

type BulkAttendanceRequest struct {
	SessionDate string                `json:"session_date" binding:"required"`
	Entries     []BulkAttendanceEntry `json:"entries" binding:"required,dive"`
}

// SkippedEntry explains why one bulk entry was not written.
type SkippedEntry struct {
	Index     int    `json:"index"`
	StudentID uint   `json:"student_id"`
	CourseID  uint   `json:"course_id"`
	Reason    string `json:"reason"`
}

// BulkResult reports the per-entry outcome of a bulk attendance submit.
type BulkResult struct {
	Recorded int            `json:"recorded"`
	Skipped  []SkippedEntry `json:"skipped"`
}

// RecordBulk writes a day's attendance sheet in one call. Entries that fail
// validation are skipped and itemized in the result rather than failing the
// whole batch, so one stale row in a sheet cannot block the rest.
func (s *AttendanceService) RecordBulk(actor model.Actor, req BulkAttendanceRequest) (*BulkResult, error) {
	if actor.IsStudent() {
		return nil, util.ErrPermissionDenied
	}

	sessionDate, err := util.ParseSessionDate(req.SessionDate)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{Skipped: []SkippedEntry{}}
	recordedBy := actor.UserID

	for i, entry := range req.Entries {
		skip := func(reason string) {
			result.Skipped = append(result.Skipped, SkippedEntry{
				Index:     i,
				StudentID: entry.StudentID,
				CourseID:  entry.CourseID,
				Reason:    reason,
			})
		}

		status := model.AttendanceStatus(entry.Status)
		if !status.Valid() {
			skip("invalid status")
			continue
		}

		course, err := s.CourseRepo.FindByID(entry.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				skip("course not found")
				continue
			}
			return nil, err
		}
		if actor.IsInstructor() && course.InstructorID != actor.ProfileID {
			skip("course not taught by caller")
			continue
		}

		if _, err := s.StudentRepo.FindByID(entry.StudentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				skip("student not found")
				continue
			}
			return nil, err
		}

		enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(entry.StudentID, entry.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				skip("not enrolled")
				continue
			}
			return nil, err
		}
		if !enrollment.Status.Active() {
			skip("enrollment inactive")
			continue
		}

		record := &model.Attendance{
			StudentID:    entry.StudentID,
			CourseID:     entry.CourseID,
			SessionDate:  sessionDate,
			Status:       status,
			Notes:        entry.Notes,
			RecordedByID: &recordedBy,
		}
		if err := s.AttendanceRepo.Upsert(record); err != nil {
			return nil, err
		}
		result.Recorded++
		monitoring.AttendanceRecorded.WithLabelValues("student").Inc()
	}

	logger.Log.Info("bulk attendance recorded",
		zap.String("session_date", req.SessionDate),
		zap.Int("recorded", result.Recorded),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

type RecordTrainerAttendanceRequest struct {
	TrainerID   uint   `json:"trainer_id" binding:"required"`
	CourseID    uint   `json:"course_id" binding:"required"`
	SessionDate string `json:"session_date" binding:"required"`
	Status      string `json:"status" binding:"required"`
	Notes       string `json:"notes"`
}

// RecordTrainer writes an instructor's own attendance for a session.
// Admin only; the trainer must actually teach the course.
func (s *AttendanceService) RecordTrainer(actor model.Actor, req RecordTrainerAttendanceRequest) (*model.TrainerAttendance, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	status := model.AttendanceStatus(req.Status)
	if !status.Valid() {
		return nil, util.ErrInvalidStatus
	}
	sessionDate, err := util.ParseSessionDate(req.SessionDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.InstructorRepo.FindByID(req.TrainerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInstructorNotFound
		}
		return nil, err
	}
	course, err := s.CourseRepo.FindByID(req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.InstructorID != req.TrainerID {
		return nil, util.ErrPermissionDenied
	}

	recordedBy := actor.UserID
	record := &model.TrainerAttendance{
		TrainerID:    req.TrainerID,
		CourseID:     req.CourseID,
		SessionDate:  sessionDate,
		Status:       status,
		Notes:        req.Notes,
		RecordedByID: &recordedBy,
	}
	if err := s.TrainerAttendanceRepo.Upsert(record); err != nil {
		return nil, err
	}

	monitoring.AttendanceRecorded.WithLabelValues("trainer").Inc()
	return record, nil
}

type AttendanceListQuery struct {
	CourseID  uint
	StudentID uint
	From      string
	To        string
	Page      int
	Limit     int
}

// List returns attendance records scoped to what the caller may see:
// admins everything, instructors their own courses, students their own rows.
func (s *AttendanceService) List(actor model.Actor, query AttendanceListQuery) ([]model.Attendance, int64, error) {
	filter := repository.AttendanceFilter{
		StudentID: query.StudentID,
		Page:      query.Page,
		Limit:     query.Limit,
	}
	if query.CourseID != 0 {
		filter.CourseIDs = []uint{query.CourseID}
	}

	if query.From != "" {
		from, err := util.ParseSessionDate(query.From)
		if err != nil {
			return nil, 0, err
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := util.ParseSessionDate(query.To)
		if err != nil {
			return nil, 0, err
		}
		filter.To = &to
	}

	switch {
	case actor.IsAdmin():
		// unrestricted
	case actor.IsInstructor():
		courseIDs, err := s.CourseRepo.IDsByInstructor(actor.ProfileID)
		if err != nil {
			return nil, 0, err
		}
		if len(courseIDs) == 0 {
			return []model.Attendance{}, 0, nil
		}
		if query.CourseID != 0 {
			if !containsID(courseIDs, query.CourseID) {
				return nil, 0, util.ErrPermissionDenied
			}
			filter.CourseIDs = []uint{query.CourseID}
		} else {
			filter.CourseIDs = courseIDs
		}
	case actor.IsStudent():
		filter.StudentID = actor.ProfileID
	default:
		return nil, 0, util.ErrPermissionDenied
	}

	return s.AttendanceRepo.List(filter)
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// SessionDate formats attendance dates for API payloads.
func SessionDate(t time.Time) string {
	return t.Format("2006-01-02")
}
