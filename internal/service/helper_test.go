package service

import (
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// TranslateError matches the production config so duplicate-key
	// handling is exercised the same way.
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// fixtures is the minimal world most service tests need: one published
// course with its instructor, and one student.
type fixtures struct {
	category   model.Category
	instructor model.Instructor
	course     model.Course
	student    model.Student
}

func seedFixtures(t *testing.T, db *gorm.DB) *fixtures {
	t.Helper()

	f := &fixtures{}

	f.category = model.Category{Name: "Programming"}
	require.NoError(t, db.Create(&f.category).Error)

	instructorUser := model.User{
		Name:     "Grace Hopper",
		Email:    "grace@example.com",
		Password: hashPassword(t, "trainer-pass"),
		Role:     model.RoleInstructor,
	}
	require.NoError(t, db.Create(&instructorUser).Error)

	f.instructor = model.Instructor{
		UserID:       &instructorUser.ID,
		InstructorID: "INS-2024-TEST0001",
		FirstName:    "Grace",
		LastName:     "Hopper",
		Email:        "grace@example.com",
		IsActive:     true,
	}
	require.NoError(t, db.Create(&f.instructor).Error)

	f.course = model.Course{
		Title:        "Go Fundamentals",
		Code:         "CRS-2024-TEST0001",
		CategoryID:   f.category.ID,
		InstructorID: f.instructor.ID,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(&f.course).Error)

	studentUser := model.User{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: hashPassword(t, "student-pass"),
		Role:     model.RoleStudent,
	}
	require.NoError(t, db.Create(&studentUser).Error)

	f.student = model.Student{
		UserID:    &studentUser.ID,
		StudentID: "STU-2024-TEST0001",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		IsActive:  true,
	}
	require.NoError(t, db.Create(&f.student).Error)

	return f
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func adminActor() model.Actor {
	return model.Actor{UserID: 9000, Role: model.RoleAdmin}
}

func (f *fixtures) instructorActor() model.Actor {
	return model.Actor{UserID: *f.instructor.UserID, Role: model.RoleInstructor, ProfileID: f.instructor.ID}
}

func (f *fixtures) studentActor() model.Actor {
	return model.Actor{UserID: *f.student.UserID, Role: model.RoleStudent, ProfileID: f.student.ID}
}

func enroll(t *testing.T, db *gorm.DB, studentID, courseID uint, status model.EnrollmentStatus) model.Enrollment {
	t.Helper()
	e := model.Enrollment{StudentID: studentID, CourseID: courseID, Status: status}
	require.NoError(t, db.Create(&e).Error)
	return e
}

func newEnrollmentService(db *gorm.DB) *EnrollmentService {
	return NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewStudentRepository(db),
	)
}

func newAttendanceService(db *gorm.DB) *AttendanceService {
	return NewAttendanceService(
		repository.NewAttendanceRepository(db),
		repository.NewTrainerAttendanceRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewStudentRepository(db),
		repository.NewInstructorRepository(db),
		repository.NewCourseRepository(db),
	)
}

func newReportService(db *gorm.DB) *ReportService {
	return NewReportService(
		repository.NewReportRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewAttendanceRepository(db),
		repository.NewTrainerAttendanceRepository(db),
		repository.NewStudentRepository(db),
		repository.NewInstructorRepository(db),
		repository.NewCourseRepository(db),
		repository.NewMaterialRepository(db),
		repository.NewVideoRepository(db),
		repository.NewSubmissionRepository(db),
		nil,
	)
}

func newAssignmentService(db *gorm.DB) *AssignmentService {
	return NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
	)
}

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{Secret: "unit-test-secret-key-0123456789abcdef", ExpireTime: time.Hour}
	return NewAuthService(
		repository.NewUserRepository(db),
		repository.NewStudentRepository(db),
		repository.NewInstructorRepository(db),
		cfg,
	)
}

func newCatalogService(db *gorm.DB) *CatalogService {
	return NewCatalogService(
		repository.NewCourseRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewEnrollmentRepository(db),
	)
}
