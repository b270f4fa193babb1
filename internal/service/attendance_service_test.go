package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRecordStudentAttendance(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAttendanceService(db)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	record, err := svc.RecordStudent(f.instructorActor(), RecordAttendanceRequest{
		StudentID:   f.student.ID,
		CourseID:    f.course.ID,
		SessionDate: "2024-03-11",
		Status:      "present",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AttendancePresent, record.Status)
	assert.Equal(t, "2024-03-11", SessionDate(record.SessionDate))
	require.NotNil(t, record.RecordedByID)
	assert.Equal(t, f.instructorActor().UserID, *record.RecordedByID)
}

func TestRecordStudentAttendanceReplacesSameSession(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAttendanceService(db)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	req := RecordAttendanceRequest{
		StudentID:   f.student.ID,
		CourseID:    f.course.ID,
		SessionDate: "2024-03-11",
		Status:      "present",
	}
	_, err := svc.RecordStudent(f.instructorActor(), req)
	require.NoError(t, err)

	req.Status = "late"
	req.Notes = "arrived 20 minutes in"
	_, err = svc.RecordStudent(f.instructorActor(), req)
	require.NoError(t, err)

	var records []model.Attendance
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, model.AttendanceLate, records[0].Status)
	assert.Equal(t, "arrived 20 minutes in", records[0].Notes)
}

func TestAttendanceDuplicateInsertTranslatesToDuplicatedKey(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAttendanceService(db)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	record, err := svc.RecordStudent(f.instructorActor(), RecordAttendanceRequest{
		StudentID:   f.student.ID,
		CourseID:    f.course.ID,
		SessionDate: "2024-03-11",
		Status:      "present",
	})
	require.NoError(t, err)

	// An insert racing past the existence check must surface the gorm
	// sentinel, which the upsert fallback keys on.
	duplicate := model.Attendance{
		StudentID:   record.StudentID,
		CourseID:    record.CourseID,
		SessionDate: record.SessionDate,
		Status:      model.AttendanceAbsent,
	}
	err = db.Create(&duplicate).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRecordStudentAttendanceDifferentDatesKeepSeparateRows(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAttendanceService(db)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentInProgress)

	for _, date := range []string{"2024-03-11", "2024-03-12"} {
		_, err := svc.RecordStudent(f.instructorActor(), RecordAttendanceRequest{
			StudentID:   f.student.ID,
			CourseID:    f.course.ID,
			SessionDate: date,
			Status:      "present",
		})
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&model.Attendance{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestRecordStudentAttendanceRejectsForeignCourse(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAttendanceService(db)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	other := model.Actor{UserID: 555, Role: model.RoleInstructor, ProfileID: f.instructor.ID + 50}
	_, err := svc.RecordStudent(other, RecordAttendanceRequest{
		StudentID:   f.student.ID,
		CourseID:    f.course.ID,
		SessionDate: "2024-03-11",
		Status:      "present",
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	var count int64
	require.NoError(t, db.Model(&model.Attendance{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestRecordStudentAttendanceRequiresActiveEnrollment(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAttendanceService(db)

	req := RecordAttendanceRequest{
		StudentID:   f.student.ID,
		CourseID:    f.course.ID,
		SessionDate: "2024-03-11",
		Status:      "present",
	}

	_, err := svc.RecordStudent(f.instructorActor(), req)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	e := enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentDropped)
	_, err = svc.RecordStudent(f.instructorActor(), req)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	e.Status = model.EnrollmentInProgress
	require.NoError(t, db.Save(&e).Error)
	_, err = svc.RecordStudent(f.instructorActor(), req)
	assert.NoError(t, err)
}

func TestRecordStudentAttendanceRejectsStudents(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAttendanceService(db)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	_, err := svc.RecordStudent(f.studentActor(), RecordAttendanceRequest{
		StudentID:   f.student.ID,
		CourseID:    f.course.ID,
		SessionDate: "2024-03-11",
		Status:      "present",
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestRecordBulkSkipsInvalidEntries(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAttendanceService(db)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	second := model.Student{
		StudentID: "STU-2024-TEST0002",
		FirstName: "Charles",
		LastName:  "Babbage",
		Email:     "charles@example.com",
		IsActive:  true,
	}
	require.NoError(t, db.Create(&second).Error)
	enroll(t, db, second.ID, f.course.ID, model.EnrollmentDropped)

	result, err := svc.RecordBulk(f.instructorActor(), BulkAttendanceRequest{
		SessionDate: "2024-03-11",
		Entries: []BulkAttendanceEntry{
			{StudentID: f.student.ID, CourseID: f.course.ID, Status: "present"},
			{StudentID: second.ID, CourseID: f.course.ID, Status: "present"},
			{StudentID: 9999, CourseID: f.course.ID, Status: "absent"},
			{StudentID: f.student.ID, CourseID: f.course.ID, Status: "asleep"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Recorded)
	require.Len(t, result.Skipped, 3)
	assert.Equal(t, "enrollment inactive", result.Skipped[0].Reason)
	assert.Equal(t, 1, result.Skipped[0].Index)
	assert.Equal(t, "student not found", result.Skipped[1].Reason)
	assert.Equal(t, "invalid status", result.Skipped[2].Reason)

	var count int64
	require.NoError(t, db.Model(&model.Attendance{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRecordBulkSkipsForeignCourses(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAttendanceService(db)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	other := model.Actor{UserID: 556, Role: model.RoleInstructor, ProfileID: f.instructor.ID + 50}
	result, err := svc.RecordBulk(other, BulkAttendanceRequest{
		SessionDate: "2024-03-11",
		Entries: []BulkAttendanceEntry{
			{StudentID: f.student.ID, CourseID: f.course.ID, Status: "present"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Recorded)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "course not taught by caller", result.Skipped[0].Reason)
}

func TestRecordTrainerAttendance(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAttendanceService(db)

	req := RecordTrainerAttendanceRequest{
		TrainerID:   f.instructor.ID,
		CourseID:    f.course.ID,
		SessionDate: "2024-03-11",
		Status:      "present",
	}

	_, err := svc.RecordTrainer(f.instructorActor(), req)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	record, err := svc.RecordTrainer(adminActor(), req)
	require.NoError(t, err)
	assert.Equal(t, f.instructor.ID, record.TrainerID)

	// Same key overwrites, not duplicates.
	req.Status = "late"
	_, err = svc.RecordTrainer(adminActor(), req)
	require.NoError(t, err)

	var records []model.TrainerAttendance
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, model.AttendanceLate, records[0].Status)
}

func TestRecordTrainerAttendanceChecksCourseOwnership(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAttendanceService(db)

	stranger := model.Instructor{
		InstructorID: "INS-2024-TEST0002",
		FirstName:    "Alan",
		LastName:     "Turing",
		Email:        "alan@example.com",
		IsActive:     true,
	}
	require.NoError(t, db.Create(&stranger).Error)

	_, err := svc.RecordTrainer(adminActor(), RecordTrainerAttendanceRequest{
		TrainerID:   stranger.ID,
		CourseID:    f.course.ID,
		SessionDate: "2024-03-11",
		Status:      "present",
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestListAttendanceScopedByRole(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAttendanceService(db)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	_, err := svc.RecordStudent(adminActor(), RecordAttendanceRequest{
		StudentID:   f.student.ID,
		CourseID:    f.course.ID,
		SessionDate: "2024-03-11",
		Status:      "present",
	})
	require.NoError(t, err)

	records, total, err := svc.List(adminActor(), AttendanceListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, records, 1)

	records, total, err = svc.List(f.instructorActor(), AttendanceListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, records, 1)

	// Instructors without courses see an empty page, not an error.
	other := model.Actor{UserID: 557, Role: model.RoleInstructor, ProfileID: f.instructor.ID + 50}
	records, total, err = svc.List(other, AttendanceListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, records)

	// Asking for a course the instructor does not teach is refused outright.
	_, _, err = svc.List(other, AttendanceListQuery{CourseID: f.course.ID})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// Students only ever see their own rows.
	records, total, err = svc.List(f.studentActor(), AttendanceListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	for _, r := range records {
		assert.Equal(t, f.student.ID, r.StudentID)
	}
}

func TestListAttendanceDateRange(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newAttendanceService(db)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	for _, date := range []string{"2024-03-10", "2024-03-11", "2024-03-15"} {
		_, err := svc.RecordStudent(adminActor(), RecordAttendanceRequest{
			StudentID:   f.student.ID,
			CourseID:    f.course.ID,
			SessionDate: date,
			Status:      "present",
		})
		require.NoError(t, err)
	}

	records, total, err := svc.List(adminActor(), AttendanceListQuery{From: "2024-03-11", To: "2024-03-14"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-03-11", SessionDate(records[0].SessionDate))
}
