package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCurriculum(t *testing.T, db *gorm.DB, courseID uint) []model.Lesson {
	t.Helper()

	module := model.CourseModule{CourseID: courseID, Title: "Basics", Order: 1}
	require.NoError(t, db.Create(&module).Error)

	lessons := []model.Lesson{
		{ModuleID: module.ID, Title: "Hello World", Order: 1, IsPublished: true},
		{ModuleID: module.ID, Title: "Variables", Order: 2, IsPublished: true},
		{ModuleID: module.ID, Title: "Draft Lesson", Order: 3, IsPublished: false},
	}
	for i := range lessons {
		require.NoError(t, db.Create(&lessons[i]).Error)
	}
	return lessons
}

func TestListPublishedHidesDrafts(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newCatalogService(db)

	draft := model.Course{
		Title:        "Unreleased",
		Code:         "CRS-2024-TEST0009",
		CategoryID:   f.category.ID,
		InstructorID: f.instructor.ID,
		IsPublished:  false,
	}
	require.NoError(t, db.Create(&draft).Error)

	courses, total, err := svc.ListPublished(CatalogQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, courses, 1)
	assert.Equal(t, f.course.ID, courses[0].ID)
}

func TestGetCourseVisibility(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newCatalogService(db)

	draft := model.Course{
		Title:        "Unreleased",
		Code:         "CRS-2024-TEST0010",
		CategoryID:   f.category.ID,
		InstructorID: f.instructor.ID,
		IsPublished:  false,
	}
	require.NoError(t, db.Create(&draft).Error)

	// Drafts look like missing courses to students.
	_, err := svc.GetCourse(f.studentActor(), draft.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	// The owning instructor and admins still see them.
	detail, err := svc.GetCourse(f.instructorActor(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, detail.Course.ID)

	_, err = svc.GetCourse(adminActor(), draft.ID)
	assert.NoError(t, err)
}

func TestGetCourseCarriesEnrollmentState(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newCatalogService(db)

	detail, err := svc.GetCourse(f.studentActor(), f.course.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsEnrolled)
	assert.Nil(t, detail.Enrollment)

	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentInProgress)
	detail, err = svc.GetCourse(f.studentActor(), f.course.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsEnrolled)
	require.NotNil(t, detail.Enrollment)

	// Dropped enrollments are reported but no longer grant access.
	require.NoError(t, db.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", f.student.ID, f.course.ID).
		Update("status", model.EnrollmentDropped).Error)
	detail, err = svc.GetCourse(f.studentActor(), f.course.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsEnrolled)
}

func TestGetLessonNavigation(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newCatalogService(db)
	lessons := seedCurriculum(t, db, f.course.ID)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)

	view, err := svc.GetLesson(f.studentActor(), f.course.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.Nil(t, view.Prev)
	require.NotNil(t, view.Next)
	assert.Equal(t, lessons[1].ID, view.Next.ID)

	// The draft lesson is invisible to students, so the published sequence
	// ends at the second lesson.
	view, err = svc.GetLesson(f.studentActor(), f.course.ID, lessons[1].ID)
	require.NoError(t, err)
	require.NotNil(t, view.Prev)
	assert.Equal(t, lessons[0].ID, view.Prev.ID)
	assert.Nil(t, view.Next)

	_, err = svc.GetLesson(f.studentActor(), f.course.ID, lessons[2].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Staff navigate the full sequence including drafts.
	view, err = svc.GetLesson(f.instructorActor(), f.course.ID, lessons[1].ID)
	require.NoError(t, err)
	require.NotNil(t, view.Next)
	assert.Equal(t, lessons[2].ID, view.Next.ID)
}

func TestGetLessonRequiresActiveEnrollment(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newCatalogService(db)
	lessons := seedCurriculum(t, db, f.course.ID)

	_, err := svc.GetLesson(f.studentActor(), f.course.ID, lessons[0].ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentDropped)
	_, err = svc.GetLesson(f.studentActor(), f.course.ID, lessons[0].ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}
