package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newContentService(t *testing.T, db *gorm.DB) (*ContentService, string) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()

	svc := NewContentService(
		repository.NewMaterialRepository(db),
		repository.NewVideoRepository(db),
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		NewStorageService(cfg),
	)
	return svc, cfg.Storage.LocalPath
}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func TestUploadMaterialStoresObjectAndRow(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc, localPath := newContentService(t, db)

	material, err := svc.UploadMaterial(context.Background(), f.instructorActor(), UploadMaterialRequest{
		CourseID: f.course.ID,
		Title:    "Lecture Notes",
	}, makeFileHeader(t, "notes.txt", []byte("week one: introductions")))
	require.NoError(t, err)

	assert.Equal(t, model.MaterialText, material.MaterialType)
	assert.Equal(t, f.instructorActor().UserID, material.UploadedByID)

	stored, err := os.ReadFile(filepath.Join(localPath, material.FileKey))
	require.NoError(t, err)
	assert.Equal(t, "week one: introductions", string(stored))
}

func TestUploadMaterialScopedToOwnCourses(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc, _ := newContentService(t, db)

	other := model.Actor{UserID: 561, Role: model.RoleInstructor, ProfileID: f.instructor.ID + 50}
	_, err := svc.UploadMaterial(context.Background(), other, UploadMaterialRequest{
		CourseID: f.course.ID,
		Title:    "Not mine",
	}, makeFileHeader(t, "notes.txt", []byte("content")))
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.UploadMaterial(context.Background(), f.studentActor(), UploadMaterialRequest{
		CourseID: f.course.ID,
		Title:    "Students cannot upload",
	}, makeFileHeader(t, "notes.txt", []byte("content")))
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestDownloadCountsAndRequiresAccess(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc, _ := newContentService(t, db)

	material, err := svc.UploadMaterial(context.Background(), f.instructorActor(), UploadMaterialRequest{
		CourseID: f.course.ID,
		Title:    "Handout",
	}, makeFileHeader(t, "handout.txt", []byte("read me")))
	require.NoError(t, err)

	// Unenrolled students cannot resolve the link.
	_, err = svc.Download(f.studentActor(), material.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)
	url, err := svc.Download(f.studentActor(), material.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+material.FileKey, url)

	var reloaded model.Material
	require.NoError(t, db.First(&reloaded, material.ID).Error)
	assert.EqualValues(t, 1, reloaded.DownloadCount)
}

func TestExternalVideoWatchReturnsExternalURL(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc, _ := newContentService(t, db)
	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentInProgress)

	video, err := svc.AddExternalVideo(f.instructorActor(), ExternalVideoRequest{
		CourseID:    f.course.ID,
		Title:       "Guest Lecture",
		ExternalURL: "https://videos.example.com/guest-lecture",
	})
	require.NoError(t, err)

	url, err := svc.Watch(f.studentActor(), video.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://videos.example.com/guest-lecture", url)

	var reloaded model.Video
	require.NoError(t, db.First(&reloaded, video.ID).Error)
	assert.EqualValues(t, 1, reloaded.ViewCount)
}

func TestListMyMaterialsFollowsEnrollments(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc, _ := newContentService(t, db)

	_, err := svc.UploadMaterial(context.Background(), f.instructorActor(), UploadMaterialRequest{
		CourseID: f.course.ID,
		Title:    "Syllabus",
	}, makeFileHeader(t, "syllabus.txt", []byte("outline")))
	require.NoError(t, err)

	materials, err := svc.ListMyMaterials(f.studentActor())
	require.NoError(t, err)
	assert.Empty(t, materials)

	enroll(t, db, f.student.ID, f.course.ID, model.EnrollmentEnrolled)
	materials, err = svc.ListMyMaterials(f.studentActor())
	require.NoError(t, err)
	assert.Len(t, materials, 1)

	materials, err = svc.ListMyMaterials(f.instructorActor())
	require.NoError(t, err)
	assert.Len(t, materials, 1)
}

func TestDeleteMaterialRemovesObject(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc, localPath := newContentService(t, db)

	material, err := svc.UploadMaterial(context.Background(), f.instructorActor(), UploadMaterialRequest{
		CourseID: f.course.ID,
		Title:    "Old Handout",
	}, makeFileHeader(t, "old.txt", []byte("obsolete")))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMaterial(context.Background(), f.instructorActor(), material.ID))

	_, err = os.Stat(filepath.Join(localPath, material.FileKey))
	assert.True(t, os.IsNotExist(err))

	materials, err := svc.ListMaterials(adminActor(), f.course.ID, repository.ContentFilter{})
	require.NoError(t, err)
	assert.Empty(t, materials)
}

func TestUpdateMaterialMetadata(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc, _ := newContentService(t, db)

	material, err := svc.UploadMaterial(context.Background(), f.instructorActor(), UploadMaterialRequest{
		CourseID: f.course.ID,
		Title:    "Draft Notes",
	}, makeFileHeader(t, "notes.txt", []byte("v1")))
	require.NoError(t, err)

	title := "Final Notes"
	inactive := false
	updated, err := svc.UpdateMaterial(f.instructorActor(), material.ID, UpdateContentRequest{
		Title:    &title,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Final Notes", updated.Title)
	assert.False(t, updated.IsActive)

	// Deactivated materials drop out of course listings.
	materials, err := svc.ListMaterials(adminActor(), f.course.ID, repository.ContentFilter{})
	require.NoError(t, err)
	assert.Empty(t, materials)

	_, err = svc.UpdateMaterial(f.studentActor(), material.ID, UpdateContentRequest{Title: &title})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestListMaterialsSearchAndTypeFilter(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc, _ := newContentService(t, db)

	_, err := svc.UploadMaterial(context.Background(), f.instructorActor(), UploadMaterialRequest{
		CourseID: f.course.ID,
		Title:    "Week 1 Slides",
	}, makeFileHeader(t, "slides.txt", []byte("a")))
	require.NoError(t, err)
	_, err = svc.UploadMaterial(context.Background(), f.instructorActor(), UploadMaterialRequest{
		CourseID: f.course.ID,
		Title:    "Week 2 Exercises",
	}, makeFileHeader(t, "exercises.txt", []byte("b")))
	require.NoError(t, err)

	materials, err := svc.ListMaterials(adminActor(), f.course.ID, repository.ContentFilter{Search: "slides"})
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, "Week 1 Slides", materials[0].Title)

	materials, err = svc.ListMaterials(adminActor(), f.course.ID, repository.ContentFilter{Type: "nonexistent"})
	require.NoError(t, err)
	assert.Empty(t, materials)
}
