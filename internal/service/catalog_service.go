package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// CatalogService serves the course browsing views: the published catalog,
// course detail with its module outline, and gated lesson playback.
type CatalogService struct {
	CourseRepo     *repository.CourseRepository
	CategoryRepo   *repository.CategoryRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewCatalogService(
	courseRepo *repository.CourseRepository,
	categoryRepo *repository.CategoryRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *CatalogService {
	return &CatalogService{
		CourseRepo:     courseRepo,
		CategoryRepo:   categoryRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

type CatalogQuery struct {
	Search     string
	CategoryID uint
	Page       int
	Limit      int
}

func (s *CatalogService) ListPublished(query CatalogQuery) ([]model.Course, int64, error) {
	return s.CourseRepo.List(repository.CourseFilter{
		Search:        query.Search,
		CategoryID:    query.CategoryID,
		PublishedOnly: true,
		Page:          query.Page,
		Limit:         query.Limit,
	})
}

func (s *CatalogService) ListCategories() ([]model.Category, error) {
	return s.CategoryRepo.List()
}

type CourseDetail struct {
	Course     *model.Course     `json:"course"`
	IsEnrolled bool              `json:"is_enrolled"`
	Enrollment *model.Enrollment `json:"enrollment,omitempty"`
}

// GetCourse returns a published course with its module outline. When the
// caller is a student, the response carries their enrollment state so the
// frontend can decide between "enroll" and "continue".
func (s *CatalogService) GetCourse(actor model.Actor, courseID uint) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindByIDWithModules(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	visible := course.IsPublished ||
		actor.IsAdmin() ||
		(actor.IsInstructor() && course.InstructorID == actor.ProfileID)
	if !visible {
		return nil, util.ErrCourseNotFound
	}

	detail := &CourseDetail{Course: course}
	if actor.IsStudent() {
		enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(actor.ProfileID, courseID)
		if err == nil {
			detail.IsEnrolled = enrollment.Status.Active()
			detail.Enrollment = enrollment
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return detail, nil
}

type LessonView struct {
	Lesson *model.Lesson `json:"lesson"`
	Prev   *model.Lesson `json:"prev,omitempty"`
	Next   *model.Lesson `json:"next,omitempty"`
}

// GetLesson returns one lesson with its neighbors in course order. Students
// need an enrollment that still grants access; instructors see their own
// courses and admins see everything.
func (s *CatalogService) GetLesson(actor model.Actor, courseID, lessonID uint) (*LessonView, error) {
	course, err := s.CourseRepo.FindByIDWithModules(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	switch {
	case actor.IsAdmin():
	case actor.IsInstructor():
		if course.InstructorID != actor.ProfileID {
			return nil, util.ErrPermissionDenied
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

	// Flatten modules into the playback sequence. Unpublished lessons are
	// invisible to students but still navigable for staff.
	includeUnpublished := !actor.IsStudent()
	var sequence []model.Lesson
	for _, module := range course.Modules {
		for _, lesson := range module.Lessons {
			if lesson.IsPublished || includeUnpublished {
				sequence = append(sequence, lesson)
			}
		}
	}

	for i := range sequence {
		if sequence[i].ID != lessonID {
			continue
		}
		view := &LessonView{Lesson: &sequence[i]}
		if i > 0 {
			view.Prev = &sequence[i-1]
		}
		if i < len(sequence)-1 {
			view.Next = &sequence[i+1]
		}
		return view, nil
	}
	return nil, gorm.ErrRecordNotFound
}
