package service

import (
	"errors"
	"strings"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo       *repository.UserRepository
	StudentRepo    *repository.StudentRepository
	InstructorRepo *repository.InstructorRepository
	Config         *config.Config
}

func NewAuthService(
	userRepo *repository.UserRepository,
	studentRepo *repository.StudentRepository,
	instructorRepo *repository.InstructorRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		UserRepo:       userRepo,
		StudentRepo:    studentRepo,
		InstructorRepo: instructorRepo,
		Config:         cfg,
	}
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type InstructorLoginRequest struct {
	InstructorID string `json:"instructor_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

type StudentLoginRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	Role      string      `json:"role"`
	UserID    uint        `json:"user_id"`
	ProfileID uint        `json:"profile_id,omitempty"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Profile   interface{} `json:"profile,omitempty"`
}

// AdminLogin authenticates a staff account by email and password.
func (s *AuthService) AdminLogin(req AdminLoginRequest) (*LoginResponse, error) {
	user, err := s.UserRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Role != model.RoleAdmin || user.Disabled {
		return nil, util.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, 0, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	s.touchLastLogin(user.ID)

	return &LoginResponse{
		Token:  token,
		Role:   string(user.Role),
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	}, nil
}

// InstructorLogin authenticates by instructor number, case-insensitive full
// name and the linked account's password.
func (s *AuthService) InstructorLogin(req InstructorLoginRequest) (*LoginResponse, error) {
	instructor, err := s.InstructorRepo.FindByInstructorID(req.InstructorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}
	if !instructor.IsActive || !strings.EqualFold(strings.TrimSpace(req.Name), instructor.FullName()) {
		return nil, util.ErrInvalidCredentials
	}

	user, err := s.linkedUser(instructor.UserID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, instructor.ID, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	s.touchLastLogin(user.ID)

	return &LoginResponse{
		Token:     token,
		Role:      string(user.Role),
		UserID:    user.ID,
		ProfileID: instructor.ID,
		Name:      instructor.FullName(),
		Email:     instructor.Email,
		Profile:   instructor,
	}, nil
}

// StudentLogin authenticates by student number, case-insensitive full name
// and the linked account's password.
func (s *AuthService) StudentLogin(req StudentLoginRequest) (*LoginResponse, error) {
	student, err := s.StudentRepo.FindByStudentID(req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}
	if !student.IsActive || !strings.EqualFold(strings.TrimSpace(req.Name), student.FullName()) {
		return nil, util.ErrInvalidCredentials
	}

	user, err := s.linkedUser(student.UserID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, student.ID, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	s.touchLastLogin(user.ID)

	return &LoginResponse{
		Token:     token,
		Role:      string(user.Role),
		UserID:    user.ID,
		ProfileID: student.ID,
		Name:      student.FullName(),
		Email:     student.Email,
		Profile:   student,
	}, nil
}

type RegisterAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegisterAdmin creates another staff account. Only admins may call it;
// the public bootstrap path is the seeded default account.
func (s *AuthService) RegisterAdmin(actor model.Actor, req RegisterAdminRequest) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     model.RoleAdmin,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (s *AuthService) ChangePassword(actor model.Actor, req ChangePasswordRequest) error {
	user, err := s.UserRepo.FindByID(actor.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)) != nil {
		return util.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.DB.Save(user).Error
}

// Me resolves the caller's account and role profile from the token claims.
func (s *AuthService) Me(actor model.Actor) (*LoginResponse, error) {
	user, err := s.UserRepo.FindByID(actor.UserID)
	if err != nil {
		return nil, err
	}

	resp := &LoginResponse{
		Role:   string(user.Role),
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	}

	switch user.Role {
	case model.RoleStudent:
		if student, err := s.StudentRepo.FindByUserID(user.ID); err == nil {
			resp.ProfileID = student.ID
			resp.Name = student.FullName()
			resp.Profile = student
		}
	case model.RoleInstructor:
		if instructor, err := s.InstructorRepo.FindByUserID(user.ID); err == nil {
			resp.ProfileID = instructor.ID
			resp.Name = instructor.FullName()
			resp.Profile = instructor
		}
	}
	return resp, nil
}

func (s *AuthService) linkedUser(userID *uint) (*model.User, error) {
	if userID == nil {
		return nil, util.ErrInvalidCredentials
	}
	user, err := s.UserRepo.FindByID(*userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Disabled {
		return nil, util.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) touchLastLogin(userID uint) {
	if err := s.UserRepo.UpdateLastLogin(userID); err != nil {
		logger.Log.Warn("failed to update last login", zap.Uint("user_id", userID), zap.Error(err))
	}
}
