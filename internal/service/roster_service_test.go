package service

import (
	"strings"
	"testing"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRosterService(db *gorm.DB) *RosterService {
	cfg := &config.Config{}
	cfg.Accounts.DefaultStudentPassword = "Student@2024"
	cfg.Accounts.DefaultInstructorPassword = "Trainer@2024"
	return NewRosterService(
		repository.NewUserRepository(db),
		repository.NewStudentRepository(db),
		repository.NewInstructorRepository(db),
		repository.NewCourseRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewEnrollmentRepository(db),
		cfg,
		db,
	)
}

func TestCreateStudentProvisionsLoginAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newRosterService(db)

	student, err := svc.CreateStudent(adminActor(), CreateStudentRequest{
		FirstName: "Mary",
		LastName:  "Shelley",
		Email:     "mary@example.com",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(student.StudentID, "STU-"))
	assert.True(t, student.IsActive)
	require.NotNil(t, student.UserID)

	// The generated account logs in with the default password.
	auth := newAuthService(db)
	resp, err := auth.StudentLogin(StudentLoginRequest{
		StudentID: student.StudentID,
		Name:      "Mary Shelley",
		Password:  "Student@2024",
	})
	require.NoError(t, err)
	assert.Equal(t, student.ID, resp.ProfileID)
}

func TestCreateStudentRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newRosterService(db)

	_, err := svc.CreateStudent(adminActor(), CreateStudentRequest{
		FirstName: "Another",
		LastName:  "Person",
		Email:     f.student.Email,
	})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestCreateStudentHonorsExplicitNumber(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newRosterService(db)

	student, err := svc.CreateStudent(adminActor(), CreateStudentRequest{
		StudentID: "STU-2019-IMPORT01",
		FirstName: "Mary",
		LastName:  "Shelley",
		Email:     "mary@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "STU-2019-IMPORT01", student.StudentID)

	// Numbers already on file are rejected, not silently regenerated.
	_, err = svc.CreateStudent(adminActor(), CreateStudentRequest{
		StudentID: f.student.StudentID,
		FirstName: "Second",
		LastName:  "Person",
		Email:     "second.person@example.com",
	})
	assert.ErrorIs(t, err, util.ErrIDTaken)
}

func TestCreateStudentAdminOnly(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newRosterService(db)

	_, err := svc.CreateStudent(f.instructorActor(), CreateStudentRequest{
		FirstName: "Mary",
		LastName:  "Shelley",
		Email:     "mary@example.com",
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestCreateInstructorProvisionsLoginAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newRosterService(db)

	instructor, err := svc.CreateInstructor(adminActor(), CreateInstructorRequest{
		FirstName: "Barbara",
		LastName:  "Liskov",
		Email:     "barbara@example.com",
		HireDate:  "2023-09-01",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(instructor.InstructorID, "INS-"))
	require.NotNil(t, instructor.HireDate)

	auth := newAuthService(db)
	_, err = auth.InstructorLogin(InstructorLoginRequest{
		InstructorID: instructor.InstructorID,
		Name:         "Barbara Liskov",
		Password:     "Trainer@2024",
	})
	assert.NoError(t, err)
}

func TestDeleteStudentRemovesLinkedUser(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newRosterService(db)

	userID := *f.student.UserID
	require.NoError(t, svc.DeleteStudent(adminActor(), f.student.ID))

	var count int64
	require.NoError(t, db.Model(&model.Student{}).Where("id = ?", f.student.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", userID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateCourseValidatesReferences(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newRosterService(db)

	course, err := svc.CreateCourse(adminActor(), CourseRequest{
		Title:        "Advanced Go",
		CategoryID:   f.category.ID,
		InstructorID: f.instructor.ID,
		Price:        49.90,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(course.Code, "CRS-"))
	assert.False(t, course.IsPublished)

	_, err = svc.CreateCourse(adminActor(), CourseRequest{
		Title:        "Orphan Course",
		CategoryID:   f.category.ID,
		InstructorID: 9999,
	})
	assert.ErrorIs(t, err, util.ErrInstructorNotFound)
}

func TestListStudentsSearchAndStatus(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newRosterService(db)

	inactive := model.Student{
		StudentID: "STU-2024-TEST0002",
		FirstName: "Idle",
		LastName:  "Account",
		Email:     "idle@example.com",
		IsActive:  false,
	}
	require.NoError(t, db.Create(&inactive).Error)

	students, total, err := svc.ListStudents(adminActor(), "", "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, students, 2)

	students, total, err = svc.ListStudents(adminActor(), "lovelace", "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, students, 1)
	assert.Equal(t, f.student.ID, students[0].ID)

	_, total, err = svc.ListStudents(adminActor(), "", "inactive", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestCourseRosterScope(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newRosterService(db)

	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	dropout := model.Student{
		StudentID: "STU-2024-TEST0003",
		FirstName: "Gone",
		LastName:  "Away",
		Email:     "gone@example.com",
		IsActive:  true,
	}
	require.NoError(t, db.Create(&dropout).Error)
	enroll(t, db, dropout.ID, f.course.ID, model.EnrollmentDropped)

	// Only active enrollments appear on the roster.
	roster, err := svc.CourseRoster(f.instructorActor(), f.course.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, f.student.ID, roster[0].StudentID)

	other := model.Actor{UserID: 560, Role: model.RoleInstructor, ProfileID: f.instructor.ID + 50}
	_, err = svc.CourseRoster(other, f.course.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.CourseRoster(f.studentActor(), f.course.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}
