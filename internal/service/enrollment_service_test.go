package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollCreatesEnrollment(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newEnrollmentService(db)

	enrollment, err := svc.Enroll(f.studentActor(), f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, f.student.ID, enrollment.StudentID)
	assert.Equal(t, f.course.ID, enrollment.CourseID)
	assert.Equal(t, model.EnrollmentEnrolled, enrollment.Status)
	assert.Equal(t, 0, enrollment.Progress)
}

func TestEnrollTwiceReportsAlreadyEnrolled(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newEnrollmentService(db)

	first, err := svc.Enroll(f.studentActor(), f.course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(f.studentActor(), f.course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	// The original row is untouched and still the only one.
	var count int64
	require.NoError(t, db.Model(&model.Enrollment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var kept model.Enrollment
	require.NoError(t, db.First(&kept, first.ID).Error)
	assert.Equal(t, model.EnrollmentEnrolled, kept.Status)
}

func TestEnrollDuplicateInsertReportsAlreadyEnrolled(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newEnrollmentService(db)

	first, err := svc.Enroll(f.studentActor(), f.course.ID)
	require.NoError(t, err)

	// A soft-deleted row is invisible to the existence check but still
	// occupies the unique index, so the insert collides the same way a
	// losing concurrent submit does. The collision must come back as the
	// informational outcome, not a raw driver error.
	require.NoError(t, db.Delete(&model.Enrollment{}, first.ID).Error)

	_, err = svc.Enroll(f.studentActor(), f.course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestEnrollRejectsUnpublishedCourse(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newEnrollmentService(db)

	draft := model.Course{
		Title:        "Draft Course",
		Code:         "CRS-2024-TEST0002",
		CategoryID:   f.category.ID,
		InstructorID: f.instructor.ID,
		IsPublished:  false,
	}
	require.NoError(t, db.Create(&draft).Error)

	_, err := svc.Enroll(f.studentActor(), draft.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotPublished)
}

func TestEnrollRequiresStudentRole(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newEnrollmentService(db)

	_, err := svc.Enroll(f.instructorActor(), f.course.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.Enroll(adminActor(), f.course.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestAdminEnrollBypassesPublishedCheck(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newEnrollmentService(db)

	draft := model.Course{
		Title:        "Draft Course",
		Code:         "CRS-2024-TEST0003",
		CategoryID:   f.category.ID,
		InstructorID: f.instructor.ID,
		IsPublished:  false,
	}
	require.NoError(t, db.Create(&draft).Error)

	enrollment, err := svc.AdminEnroll(adminActor(), f.student.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, enrollment.CourseID)
}

func TestUpdateStatusCompletionStampsProgress(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newEnrollmentService(db)

	e := enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentInProgress)

	updated, err := svc.UpdateStatus(f.studentActor(), e.ID, UpdateEnrollmentRequest{Status: model.EnrollmentCompleted})
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentCompleted, updated.Status)
	assert.Equal(t, 100, updated.Progress)
	require.NotNil(t, updated.CompletedAt)

	// Reopening clears the completion stamp.
	updated, err = svc.UpdateStatus(f.studentActor(), e.ID, UpdateEnrollmentRequest{Status: model.EnrollmentInProgress})
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestUpdateStatusClampsProgress(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newEnrollmentService(db)

	e := enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	over := 140
	updated, err := svc.UpdateStatus(adminActor(), e.ID, UpdateEnrollmentRequest{Status: model.EnrollmentInProgress, Progress: &over})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)

	under := -5
	updated, err = svc.UpdateStatus(adminActor(), e.ID, UpdateEnrollmentRequest{Status: model.EnrollmentInProgress, Progress: &under})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Progress)
}

func TestUpdateStatusRejectsForeignStudentAndInstructor(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newEnrollmentService(db)

	e := enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	other := model.Actor{UserID: 777, Role: model.RoleStudent, ProfileID: f.student.ID + 100}
	_, err := svc.UpdateStatus(other, e.ID, UpdateEnrollmentRequest{Status: model.EnrollmentDropped})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.UpdateStatus(f.instructorActor(), e.ID, UpdateEnrollmentRequest{Status: model.EnrollmentDropped})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestUpdateProgressLifecycle(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newEnrollmentService(db)

	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	// First progress moves the enrollment to in_progress.
	e, err := svc.UpdateProgress(f.studentActor(), f.course.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentInProgress, e.Status)
	assert.Equal(t, 30, e.Progress)
	assert.Nil(t, e.CompletedAt)

	// Reaching 100 completes it.
	e, err = svc.UpdateProgress(f.studentActor(), f.course.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentCompleted, e.Status)
	require.NotNil(t, e.CompletedAt)

	_, err = svc.UpdateProgress(f.studentActor(), f.course.ID+100, 10)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	_, err = svc.UpdateProgress(f.instructorActor(), f.course.ID, 10)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestAdminListSearchesStudentAndCourse(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newEnrollmentService(db)

	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	matches, total, err := svc.List(adminActor(), repository.EnrollmentFilter{Search: "lovelace"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, matches, 1)
	assert.Equal(t, f.student.ID, matches[0].StudentID)

	matches, total, err = svc.List(adminActor(), repository.EnrollmentFilter{Search: "fundamentals"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, matches, 1)

	_, total, err = svc.List(adminActor(), repository.EnrollmentFilter{Search: "no such thing"})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = svc.List(f.studentActor(), repository.EnrollmentFilter{})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestUpdateStatusRejectsInvalidStatus(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newEnrollmentService(db)

	e := enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	_, err := svc.UpdateStatus(adminActor(), e.ID, UpdateEnrollmentRequest{Status: "graduated"})
	assert.ErrorIs(t, err, util.ErrInvalidStatus)
}
