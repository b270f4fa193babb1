package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createAssignment(t *testing.T, svc *AssignmentService, f *fixtures) *model.Assignment {
	t.Helper()
	assignment, err := svc.Create(f.instructorActor(), AssignmentRequest{
		CourseID:    f.course.ID,
		Title:       "Week 1 Homework",
		Description: "Implement a linked list.",
		DueDate:     "2024-04-01",
	})
	require.NoError(t, err)
	return assignment
}

func TestCreateAssignmentDefaultsMaxPoints(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAssignmentService(db)

	assignment := createAssignment(t, svc, f)
	assert.InDelta(t, 100.0, assignment.MaxPoints, 0.01)
	assert.Equal(t, "2024-04-01", assignment.DueDate.Format("2006-01-02"))
}

func TestCreateAssignmentAcceptsRFC3339DueDate(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAssignmentService(db)

	assignment, err := svc.Create(f.instructorActor(), AssignmentRequest{
		CourseID:  f.course.ID,
		Title:     "Final Project",
		DueDate:   "2024-06-30T23:59:00Z",
		MaxPoints: 40,
	})
	require.NoError(t, err)
	assert.InDelta(t, 40.0, assignment.MaxPoints, 0.01)
	assert.Equal(t, 2024, assignment.DueDate.Year())
}

func TestCreateAssignmentScopedToOwnCourses(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAssignmentService(db)

	other := model.Actor{UserID: 558, Role: model.RoleInstructor, ProfileID: f.instructor.ID + 50}
	_, err := svc.Create(other, AssignmentRequest{
		CourseID: f.course.ID,
		Title:    "Not my course",
		DueDate:  "2024-04-01",
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.Create(f.studentActor(), AssignmentRequest{
		CourseID: f.course.ID,
		Title:    "Students cannot create",
		DueDate:  "2024-04-01",
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestSubmitRequiresActiveEnrollment(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAssignmentService(db)
	assignment := createAssignment(t, svc, f)

	_, err := svc.Submit(f.studentActor(), assignment.ID, SubmitAssignmentRequest{SubmissionText: "draft"})
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)
	submission, err := svc.Submit(f.studentActor(), assignment.ID, SubmitAssignmentRequest{SubmissionText: "draft"})
	require.NoError(t, err)
	assert.Equal(t, f.student.ID, submission.StudentID)
	assert.False(t, submission.IsGraded)
}

func TestResubmitReplacesAndClearsGrade(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAssignmentService(db)
	assignment := createAssignment(t, svc, f)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	_, err := svc.Submit(f.studentActor(), assignment.ID, SubmitAssignmentRequest{SubmissionText: "first attempt"})
	require.NoError(t, err)

	var first model.AssignmentSubmission
	require.NoError(t, db.First(&first).Error)
	graded, err := svc.Grade(f.instructorActor(), first.ID, GradeSubmissionRequest{Grade: 80, Feedback: "solid"})
	require.NoError(t, err)
	assert.True(t, graded.IsGraded)

	_, err = svc.Submit(f.studentActor(), assignment.ID, SubmitAssignmentRequest{SubmissionText: "second attempt"})
	require.NoError(t, err)

	var rows []model.AssignmentSubmission
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "second attempt", rows[0].SubmissionText)
	assert.False(t, rows[0].IsGraded)
	assert.Nil(t, rows[0].Grade)
	assert.Nil(t, rows[0].GradedAt)
	assert.Empty(t, rows[0].Feedback)
}

func TestGradeClampsToMaxPoints(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAssignmentService(db)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	assignment, err := svc.Create(f.instructorActor(), AssignmentRequest{
		CourseID:  f.course.ID,
		Title:     "Quiz",
		DueDate:   "2024-04-01",
		MaxPoints: 20,
	})
	require.NoError(t, err)

	submission, err := svc.Submit(f.studentActor(), assignment.ID, SubmitAssignmentRequest{SubmissionText: "answers"})
	require.NoError(t, err)

	graded, err := svc.Grade(f.instructorActor(), submission.ID, GradeSubmissionRequest{Grade: 55})
	require.NoError(t, err)
	require.NotNil(t, graded.Grade)
	assert.InDelta(t, 20.0, *graded.Grade, 0.01)
	require.NotNil(t, graded.GradedAt)
}

func TestGradeScopedToOwnCourses(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAssignmentService(db)
	assignment := createAssignment(t, svc, f)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	submission, err := svc.Submit(f.studentActor(), assignment.ID, SubmitAssignmentRequest{SubmissionText: "work"})
	require.NoError(t, err)

	other := model.Actor{UserID: 559, Role: model.RoleInstructor, ProfileID: f.instructor.ID + 50}
	_, err = svc.Grade(other, submission.ID, GradeSubmissionRequest{Grade: 10})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestListForCourseRequiresAccess(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAssignmentService(db)
	createAssignment(t, svc, f)

	// Unenrolled students are turned away.
	_, err := svc.ListForCourse(f.studentActor(), f.course.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentInProgress)
	assignments, err := svc.ListForCourse(f.studentActor(), f.course.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)

	assignments, err = svc.ListForCourse(adminActor(), f.course.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}
