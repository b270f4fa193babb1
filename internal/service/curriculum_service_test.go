package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCurriculumService(db *gorm.DB) *CurriculumService {
	return NewCurriculumService(
		repository.NewModuleRepository(db),
		repository.NewCourseRepository(db),
	)
}

func TestCreateModuleAndLesson(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newCurriculumService(db)

	module, err := svc.CreateModule(f.instructorActor(), f.course.ID, ModuleRequest{
		Title: "Getting Started",
		Order: 1,
	})
	require.NoError(t, err)

	published := true
	lesson, err := svc.CreateLesson(f.instructorActor(), module.ID, LessonRequest{
		Title:       "Installation",
		Content:     "Install the toolchain.",
		Order:       1,
		IsPublished: &published,
	})
	require.NoError(t, err)
	assert.Equal(t, module.ID, lesson.ModuleID)
	assert.True(t, lesson.IsPublished)

	modules, err := svc.ListModules(f.instructorActor(), f.course.ID)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	require.Len(t, modules[0].Lessons, 1)
}

func TestCurriculumScopedToOwnCourses(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newCurriculumService(db)

	other := model.Actor{UserID: 562, Role: model.RoleInstructor, ProfileID: f.instructor.ID + 50}
	_, err := svc.CreateModule(other, f.course.ID, ModuleRequest{Title: "Hijack", Order: 1})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.CreateModule(f.studentActor(), f.course.ID, ModuleRequest{Title: "Hijack", Order: 1})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// Admins edit any course.
	_, err = svc.CreateModule(adminActor(), f.course.ID, ModuleRequest{Title: "Admin Module", Order: 2})
	assert.NoError(t, err)
}

func TestDeleteModuleRemovesLessons(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newCurriculumService(db)

	module, err := svc.CreateModule(adminActor(), f.course.ID, ModuleRequest{Title: "Doomed", Order: 1})
	require.NoError(t, err)
	_, err = svc.CreateLesson(adminActor(), module.ID, LessonRequest{Title: "Doomed Lesson", Order: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteModule(adminActor(), module.ID))

	var lessons int64
	require.NoError(t, db.Model(&model.Lesson{}).Where("module_id = ?", module.ID).Count(&lessons).Error)
	assert.EqualValues(t, 0, lessons)
}

func TestUpdateLesson(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := newCurriculumService(db)

	module, err := svc.CreateModule(f.instructorActor(), f.course.ID, ModuleRequest{Title: "Basics", Order: 1})
	require.NoError(t, err)
	lesson, err := svc.CreateLesson(f.instructorActor(), module.ID, LessonRequest{Title: "Draft", Order: 1})
	require.NoError(t, err)
	assert.False(t, lesson.IsPublished)

	published := true
	updated, err := svc.UpdateLesson(f.instructorActor(), lesson.ID, LessonRequest{
		Title:       "Final Title",
		Order:       1,
		IsPublished: &published,
	})
	require.NoError(t, err)
	assert.Equal(t, "Final Title", updated.Title)
	assert.True(t, updated.IsPublished)
}
