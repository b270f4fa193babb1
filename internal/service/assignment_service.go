package service

import (
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	SubmissionRepo *repository.SubmissionRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	submissionRepo *repository.SubmissionRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		SubmissionRepo: submissionRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

func (s *AssignmentService) authorizeCourse(actor model.Actor, courseID uint) error {
	if actor.IsStudent() {
		return util.ErrPermissionDenied
	}
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if actor.IsInstructor() && course.InstructorID != actor.ProfileID {
		return util.ErrPermissionDenied
	}
	return nil
}

type AssignmentRequest struct {
	CourseID    uint    `json:"course_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	DueDate     string  `json:"due_date" binding:"required"`
	MaxPoints   float64 `json:"max_points"`
}

func (s *AssignmentService) Create(actor model.Actor, req AssignmentRequest) (*model.Assignment, error) {
	if err := s.authorizeCourse(actor, req.CourseID); err != nil {
		return nil, err
	}

	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		// Accept bare dates from course planning spreadsheets.
		dueDate, err = util.ParseSessionDate(req.DueDate)
		if err != nil {
			return nil, err
		}
	}

	maxPoints := req.MaxPoints
	if maxPoints <= 0 {
		maxPoints = 100
	}

	assignment := &model.Assignment{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		MaxPoints:   maxPoints,
	}
	if err := s.AssignmentRepo.Create(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) Update(actor model.Actor, assignmentID uint, req AssignmentRequest) (*model.Assignment, error) {
	assignment, err := s.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}
	if err := s.authorizeCourse(actor, assignment.CourseID); err != nil {
		return nil, err
	}

	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		dueDate, err = util.ParseSessionDate(req.DueDate)
		if err != nil {
			return nil, err
		}
	}

	assignment.Title = req.Title
	assignment.Description = req.Description
	assignment.DueDate = dueDate
	if req.MaxPoints > 0 {
		assignment.MaxPoints = req.MaxPoints
	}
	if err := s.AssignmentRepo.Update(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) Delete(actor model.Actor, assignmentID uint) error {
	assignment, err := s.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAssignmentNotFound
		}
		return err
	}
	if err := s.authorizeCourse(actor, assignment.CourseID); err != nil {
		return err
	}
	return s.AssignmentRepo.Delete(assignmentID)
}

// ListForCourse returns a course's assignments for anyone with course access.
func (s *AssignmentService) ListForCourse(actor model.Actor, courseID uint) ([]model.Assignment, error) {
	switch {
	case actor.IsAdmin():
	case actor.IsInstructor():
		if err := s.authorizeCourse(actor, courseID); err != nil {
			return nil, err
		}
	case actor.IsStudent():
		enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(actor.ProfileID, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrNotEnrolled
			}
			return nil, err
		}
		if !enrollment.Status.Active() {
			return nil, util.ErrNotEnrolled
		}
	default:
		return nil, util.ErrPermissionDenied
	}
	return s.AssignmentRepo.ListByCourse(courseID)
}

type SubmitAssignmentRequest struct {
	SubmissionText string `json:"submission_text"`
	FileKey        string `json:"file_key"`
}

// Submit records the student's work. A resubmission before grading replaces
// the earlier one; there is never more than one row per student and
// assignment.
func (s *AssignmentService) Submit(actor model.Actor, assignmentID uint, req SubmitAssignmentRequest) (*model.AssignmentSubmission, error) {
	if !actor.IsStudent() {
		return nil, util.ErrPermissionDenied
	}

	assignment, err := s.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}

	enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(actor.ProfileID, assignment.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}
	if !enrollment.Status.Active() {
		return nil, util.ErrNotEnrolled
	}

	submission := &model.AssignmentSubmission{
		AssignmentID:   assignmentID,
		StudentID:      actor.ProfileID,
		SubmissionText: req.SubmissionText,
		FileKey:        req.FileKey,
	}
	if err := s.SubmissionRepo.Upsert(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *AssignmentService) ListSubmissions(actor model.Actor, assignmentID uint) ([]model.AssignmentSubmission, error) {
	assignment, err := s.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}
	if err := s.authorizeCourse(actor, assignment.CourseID); err != nil {
		return nil, err
	}
	return s.SubmissionRepo.ListByAssignment(assignmentID)
}

func (s *AssignmentService) ListMySubmissions(actor model.Actor) ([]model.AssignmentSubmission, error) {
	if !actor.IsStudent() {
		return nil, util.ErrPermissionDenied
	}
	return s.SubmissionRepo.ListByStudent(actor.ProfileID)
}

type GradeSubmissionRequest struct {
	Grade    float64 `json:"grade" binding:"min=0"`
	Feedback string  `json:"feedback"`
}

// Grade scores a submission. The grade is clamped to the assignment's
// maximum points.
func (s *AssignmentService) Grade(actor model.Actor, submissionID uint, req GradeSubmissionRequest) (*model.AssignmentSubmission, error) {
	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}

	assignment, err := s.AssignmentRepo.FindByID(submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCourse(actor, assignment.CourseID); err != nil {
		return nil, err
	}

	grade := req.Grade
	if grade > assignment.MaxPoints {
		grade = assignment.MaxPoints
	}

	now := time.Now()
	submission.Grade = &grade
	submission.Feedback = req.Feedback
	submission.IsGraded = true
	submission.GradedAt = &now
	if err := s.SubmissionRepo.Update(submission); err != nil {
		return nil, err
	}
	return submission, nil
}
