package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// CurriculumService manages a course's outline. Instructors may only edit
// courses they teach; admins may edit anything.
type CurriculumService struct {
	ModuleRepo *repository.ModuleRepository
	CourseRepo *repository.CourseRepository
}

func NewCurriculumService(
	moduleRepo *repository.ModuleRepository,
	courseRepo *repository.CourseRepository,
) *CurriculumService {
	return &CurriculumService{ModuleRepo: moduleRepo, CourseRepo: courseRepo}
}

func (s *CurriculumService) authorizeCourse(actor model.Actor, courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if actor.IsAdmin() {
		return course, nil
	}
	if actor.IsInstructor() && course.InstructorID == actor.ProfileID {
		return course, nil
	}
	return nil, util.ErrPermissionDenied
}

type ModuleRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

func (s *CurriculumService) CreateModule(actor model.Actor, courseID uint, req ModuleRequest) (*model.CourseModule, error) {
	if _, err := s.authorizeCourse(actor, courseID); err != nil {
		return nil, err
	}
	module := &model.CourseModule{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	}
	if err := s.ModuleRepo.Create(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CurriculumService) UpdateModule(actor model.Actor, moduleID uint, req ModuleRequest) (*model.CourseModule, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeCourse(actor, module.CourseID); err != nil {
		return nil, err
	}

	module.Title = req.Title
	module.Description = req.Description
	module.Order = req.Order
	if err := s.ModuleRepo.Update(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CurriculumService) DeleteModule(actor model.Actor, moduleID uint) error {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		return err
	}
	if _, err := s.authorizeCourse(actor, module.CourseID); err != nil {
		return err
	}
	return s.ModuleRepo.Delete(moduleID)
}

func (s *CurriculumService) ListModules(actor model.Actor, courseID uint) ([]model.CourseModule, error) {
	if _, err := s.authorizeCourse(actor, courseID); err != nil {
		return nil, err
	}
	return s.ModuleRepo.ListByCourse(courseID)
}

type LessonRequest struct {
	Title           string `json:"title" binding:"required"`
	Content         string `json:"content"`
	VideoURL        string `json:"video_url"`
	Order           int    `json:"order"`
	DurationSeconds int    `json:"duration_seconds"`
	IsPublished     *bool  `json:"is_published"`
}

func (s *CurriculumService) CreateLesson(actor model.Actor, moduleID uint, req LessonRequest) (*model.Lesson, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeCourse(actor, module.CourseID); err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		ModuleID:        moduleID,
		Title:           req.Title,
		Content:         req.Content,
		VideoURL:        req.VideoURL,
		Order:           req.Order,
		DurationSeconds: req.DurationSeconds,
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}
	if err := s.ModuleRepo.CreateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CurriculumService) UpdateLesson(actor model.Actor, lessonID uint, req LessonRequest) (*model.Lesson, error) {
	lesson, err := s.ModuleRepo.FindLessonByID(lessonID)
	if err != nil {
		return nil, err
	}
	module, err := s.ModuleRepo.FindByID(lesson.ModuleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeCourse(actor, module.CourseID); err != nil {
		return nil, err
	}

	lesson.Title = req.Title
	lesson.Content = req.Content
	lesson.VideoURL = req.VideoURL
	lesson.Order = req.Order
	lesson.DurationSeconds = req.DurationSeconds
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}
	if err := s.ModuleRepo.UpdateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CurriculumService) DeleteLesson(actor model.Actor, lessonID uint) error {
	lesson, err := s.ModuleRepo.FindLessonByID(lessonID)
	if err != nil {
		return err
	}
	module, err := s.ModuleRepo.FindByID(lesson.ModuleID)
	if err != nil {
		return err
	}
	if _, err := s.authorizeCourse(actor, module.CourseID); err != nil {
		return err
	}
	return s.ModuleRepo.DeleteLesson(lessonID)
}
