package service

import (
	"errors"
	"strings"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RosterService is the admin-facing management surface: students,
// instructors, courses and categories, including login account
// provisioning for new people.
type RosterService struct {
	UserRepo       *repository.UserRepository
	StudentRepo    *repository.StudentRepository
	InstructorRepo *repository.InstructorRepository
	CourseRepo     *repository.CourseRepository
	CategoryRepo   *repository.CategoryRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Config         *config.Config
	DB             *gorm.DB
}

func NewRosterService(
	userRepo *repository.UserRepository,
	studentRepo *repository.StudentRepository,
	instructorRepo *repository.InstructorRepository,
	courseRepo *repository.CourseRepository,
	categoryRepo *repository.CategoryRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	cfg *config.Config,
	db *gorm.DB,
) *RosterService {
	return &RosterService{
		UserRepo:       userRepo,
		StudentRepo:    studentRepo,
		InstructorRepo: instructorRepo,
		CourseRepo:     courseRepo,
		CategoryRepo:   categoryRepo,
		EnrollmentRepo: enrollmentRepo,
		Config:         cfg,
		DB:             db,
	}
}

type CreateStudentRequest struct {
	StudentID   string `json:"student_id"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
}

// CreateStudent registers a student and provisions their linked login
// account with the configured default password. The student number is
// generated server-side when the request leaves it blank.
func (s *RosterService) CreateStudent(actor model.Actor, req CreateStudentRequest) (*model.Student, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	studentID := strings.TrimSpace(req.StudentID)
	if studentID == "" {
		studentID = businessID("STU")
	} else if _, err := s.StudentRepo.FindByStudentID(studentID); err == nil {
		return nil, util.ErrIDTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword(
		[]byte(s.Config.Accounts.DefaultStudentPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var student *model.Student
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		user := &model.User{
			Name:     req.FirstName + " " + req.LastName,
			Email:    req.Email,
			Password: string(hashed),
			Role:     model.RoleStudent,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		student = &model.Student{
			UserID:    &user.ID,
			StudentID: studentID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			IsActive:  true,
		}
		if req.DateOfBirth != "" {
			dob, err := util.ParseSessionDate(req.DateOfBirth)
			if err != nil {
				return err
			}
			student.DateOfBirth = &dob
		}
		return tx.Create(student).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("student created",
		zap.String("student_id", student.StudentID),
		zap.Uint("admin_user_id", actor.UserID))
	return student, nil
}

type UpdateStudentRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	IsActive  *bool  `json:"is_active"`
}

func (s *RosterService) UpdateStudent(actor model.Actor, id uint, req UpdateStudentRequest) (*model.Student, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	student, err := s.StudentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	if req.FirstName != "" {
		student.FirstName = req.FirstName
	}
	if req.LastName != "" {
		student.LastName = req.LastName
	}
	if req.Phone != "" {
		student.Phone = req.Phone
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}

	if err := s.StudentRepo.Update(student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *RosterService) ListStudents(actor model.Actor, search, status string, page, limit int) ([]model.Student, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, util.ErrPermissionDenied
	}
	return s.StudentRepo.List(search, status, page, limit)
}

func (s *RosterService) GetStudent(actor model.Actor, id uint) (*model.Student, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}
	student, err := s.StudentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (s *RosterService) DeleteStudent(actor model.Actor, id uint) error {
	if !actor.IsAdmin() {
		return util.ErrPermissionDenied
	}
	student, err := s.StudentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrStudentNotFound
		}
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Student{}, id).Error; err != nil {
			return err
		}
		if student.UserID != nil {
			return tx.Delete(&model.User{}, *student.UserID).Error
		}
		return nil
	})
}

type CreateInstructorRequest struct {
	InstructorID string `json:"instructor_id"`
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Bio          string `json:"bio"`
	HireDate     string `json:"hire_date"`
}

func (s *RosterService) CreateInstructor(actor model.Actor, req CreateInstructorRequest) (*model.Instructor, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	instructorID := strings.TrimSpace(req.InstructorID)
	if instructorID == "" {
		instructorID = businessID("INS")
	} else if _, err := s.InstructorRepo.FindByInstructorID(instructorID); err == nil {
		return nil, util.ErrIDTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword(
		[]byte(s.Config.Accounts.DefaultInstructorPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var instructor *model.Instructor
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		user := &model.User{
			Name:     req.FirstName + " " + req.LastName,
			Email:    req.Email,
			Password: string(hashed),
			Role:     model.RoleInstructor,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		instructor = &model.Instructor{
			UserID:       &user.ID,
			InstructorID: instructorID,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			Phone:        req.Phone,
			Bio:          req.Bio,
			IsActive:     true,
		}
		if req.HireDate != "" {
			hireDate, err := util.ParseSessionDate(req.HireDate)
			if err != nil {
				return err
			}
			instructor.HireDate = &hireDate
		}
		return tx.Create(instructor).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("instructor created",
		zap.String("instructor_id", instructor.InstructorID),
		zap.Uint("admin_user_id", actor.UserID))
	return instructor, nil
}

type UpdateInstructorRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio"`
	IsActive  *bool  `json:"is_active"`
}

func (s *RosterService) UpdateInstructor(actor model.Actor, id uint, req UpdateInstructorRequest) (*model.Instructor, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	instructor, err := s.InstructorRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInstructorNotFound
		}
		return nil, err
	}

	if req.FirstName != "" {
		instructor.FirstName = req.FirstName
	}
	if req.LastName != "" {
		instructor.LastName = req.LastName
	}
	if req.Phone != "" {
		instructor.Phone = req.Phone
	}
	if req.Bio != "" {
		instructor.Bio = req.Bio
	}
	if req.IsActive != nil {
		instructor.IsActive = *req.IsActive
	}

	if err := s.InstructorRepo.Update(instructor); err != nil {
		return nil, err
	}
	return instructor, nil
}

func (s *RosterService) ListInstructors(actor model.Actor, search, status string, page, limit int) ([]model.Instructor, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, util.ErrPermissionDenied
	}
	return s.InstructorRepo.List(search, status, page, limit)
}

func (s *RosterService) DeleteInstructor(actor model.Actor, id uint) error {
	if !actor.IsAdmin() {
		return util.ErrPermissionDenied
	}
	instructor, err := s.InstructorRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrInstructorNotFound
		}
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Instructor{}, id).Error; err != nil {
			return err
		}
		if instructor.UserID != nil {
			return tx.Delete(&model.User{}, *instructor.UserID).Error
		}
		return nil
	})
}

type CourseRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	CategoryID   uint    `json:"category_id" binding:"required"`
	InstructorID uint    `json:"instructor_id" binding:"required"`
	Price        float64 `json:"price"`
	IsPublished  *bool   `json:"is_published"`
}

func (s *RosterService) CreateCourse(actor model.Actor, req CourseRequest) (*model.Course, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	if _, err := s.CategoryRepo.FindByID(req.CategoryID); err != nil {
		return nil, err
	}
	if _, err := s.InstructorRepo.FindByID(req.InstructorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInstructorNotFound
		}
		return nil, err
	}

	course := &model.Course{
		Code:         businessID("CRS"),
		Title:        req.Title,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		InstructorID: req.InstructorID,
		Price:        req.Price,
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *RosterService) UpdateCourse(actor model.Actor, id uint, req CourseRequest) (*model.Course, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description
	course.CategoryID = req.CategoryID
	course.InstructorID = req.InstructorID
	course.Price = req.Price
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *RosterService) ListCourses(actor model.Actor, filter repository.CourseFilter) ([]model.Course, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, util.ErrPermissionDenied
	}
	return s.CourseRepo.List(filter)
}

func (s *RosterService) DeleteCourse(actor model.Actor, id uint) error {
	if !actor.IsAdmin() {
		return util.ErrPermissionDenied
	}
	if _, err := s.CourseRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	return s.CourseRepo.Delete(id)
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *RosterService) CreateCategory(actor model.Actor, req CategoryRequest) (*model.Category, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}
	category := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.CategoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *RosterService) UpdateCategory(actor model.Actor, id uint, req CategoryRequest) (*model.Category, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}
	category, err := s.CategoryRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := s.CategoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *RosterService) DeleteCategory(actor model.Actor, id uint) error {
	if !actor.IsAdmin() {
		return util.ErrPermissionDenied
	}
	return s.CategoryRepo.Delete(id)
}

// CourseRoster lists the students who currently hold access to a course.
// Instructors see only their own courses.
func (s *RosterService) CourseRoster(actor model.Actor, courseID uint) ([]model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if actor.IsStudent() {
		return nil, util.ErrPermissionDenied
	}
	if actor.IsInstructor() && course.InstructorID != actor.ProfileID {
		return nil, util.ErrPermissionDenied
	}
	return s.EnrollmentRepo.ListActiveByCourse(courseID)
}

// businessID builds the public-facing identifier for new records: a short
// uppercase prefix plus the year and an unpredictable suffix.
func businessID(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return prefix + "-" + time.Now().Format("2006") + "-" + suffix
}
