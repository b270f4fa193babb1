package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var allowedMaterialTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument",
	"application/vnd.ms-excel",
	"application/vnd.ms-powerpoint",
	"application/zip",
	"application/x-zip-compressed",
	"text/plain",
	"application/octet-stream",
}

// ContentService manages uploaded course materials and videos. Objects live
// in the storage provider under opaque keys; rows carry the metadata.
type ContentService struct {
	MaterialRepo   *repository.MaterialRepository
	VideoRepo      *repository.VideoRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Storage        *StorageService
}

func NewContentService(
	materialRepo *repository.MaterialRepository,
	videoRepo *repository.VideoRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	storage *StorageService,
) *ContentService {
	return &ContentService{
		MaterialRepo:   materialRepo,
		VideoRepo:      videoRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Storage:        storage,
	}
}

func (s *ContentService) authorizeUpload(actor model.Actor, courseID uint) error {
	if actor.IsStudent() {
		return util.ErrPermissionDenied
	}
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if actor.IsInstructor() && course.InstructorID != actor.ProfileID {
		return util.ErrPermissionDenied
	}
	return nil
}

// authorizeAccess decides whether the caller may read a course's content:
// admins always, instructors for their own courses, students with an
// enrollment that still grants access.
func (s *ContentService) authorizeAccess(actor model.Actor, courseID uint) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.IsInstructor():
		course, err := s.CourseRepo.FindByID(courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrCourseNotFound
			}
			return err
		}
		if course.InstructorID != actor.ProfileID {
			return util.ErrPermissionDenied
		}
		return nil
	case actor.IsStudent():
		enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(actor.ProfileID, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrNotEnrolled
			}
			return err
		}
		if !enrollment.Status.Active() {
			return util.ErrNotEnrolled
		}
		return nil
	default:
		return util.ErrPermissionDenied
	}
}

type UploadMaterialRequest struct {
	CourseID    uint   `form:"course_id" binding:"required"`
	ModuleID    *uint  `form:"module_id"`
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
}

func (s *ContentService) UploadMaterial(ctx context.Context, actor model.Actor, req UploadMaterialRequest, fileHeader *multipart.FileHeader) (*model.Material, error) {
	if err := s.authorizeUpload(actor, req.CourseID); err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, allowedMaterialTypes)
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	fileKey := fmt.Sprintf("materials/%d/%s%s",
		req.CourseID, uuid.New().String(), filepath.Ext(fileHeader.Filename))
	if _, err := s.Storage.Upload(ctx, fileKey, file, fileHeader.Size, mimeType); err != nil {
		return nil, err
	}

	material := &model.Material{
		Title:        req.Title,
		Description:  req.Description,
		FileKey:      fileKey,
		MaterialType: util.MaterialTypeFromFilename(fileHeader.Filename),
		CourseID:     req.CourseID,
		ModuleID:     req.ModuleID,
		UploadedByID: actor.UserID,
		IsActive:     true,
	}
	if err := s.MaterialRepo.Create(material); err != nil {
		// Orphaned objects are cheaper than lost rows; still try to clean up.
		if delErr := s.Storage.Delete(ctx, fileKey); delErr != nil {
			logger.Log.Warn("failed to remove orphaned object", zap.String("key", fileKey), zap.Error(delErr))
		}
		return nil, err
	}
	return material, nil
}

type UploadVideoRequest struct {
	CourseID    uint   `form:"course_id" binding:"required"`
	ModuleID    *uint  `form:"module_id"`
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
}

// UploadVideo stores the file, probes its duration and dimensions and grabs
// a thumbnail frame. Probe failures are tolerated; the video is still saved
// without metadata.
func (s *ContentService) UploadVideo(ctx context.Context, actor model.Actor, req UploadVideoRequest, fileHeader *multipart.FileHeader) (*model.Video, error) {
	if err := s.authorizeUpload(actor, req.CourseID); err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{"video/", "application/octet-stream"})
	if err != nil {
		return nil, err
	}
	if !util.IsVideo(mimeType) && mimeType != "application/octet-stream" {
		return nil, fmt.Errorf("not a video file: %s", mimeType)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	// Stage locally so ffmpeg can probe before the object goes to storage.
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(fileHeader.Filename))
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	video := &model.Video{
		Title:        req.Title,
		Description:  req.Description,
		VideoType:    util.VideoTypeFromFilename(fileHeader.Filename),
		CourseID:     req.CourseID,
		ModuleID:     req.ModuleID,
		UploadedByID: actor.UserID,
		IsActive:     true,
	}

	if info, err := util.ProbeVideo(tmpPath); err == nil {
		video.DurationSeconds = int(info.Duration)
		video.Width = info.Width
		video.Height = info.Height
	} else {
		logger.Log.Warn("video probe failed", zap.String("file", fileHeader.Filename), zap.Error(err))
	}

	id := uuid.New().String()
	fileKey := fmt.Sprintf("videos/%d/%s%s", req.CourseID, id, filepath.Ext(fileHeader.Filename))
	if _, err := s.Storage.UploadFile(ctx, fileKey, tmpPath, mimeType); err != nil {
		return nil, err
	}
	video.FileKey = fileKey

	thumbPath := tmpPath + ".jpg"
	if err := util.GenerateThumbnail(tmpPath, thumbPath, "00:00:01"); err == nil {
		defer os.Remove(thumbPath)
		thumbKey := fmt.Sprintf("videos/%d/%s.jpg", req.CourseID, id)
		if _, err := s.Storage.UploadFile(ctx, thumbKey, thumbPath, "image/jpeg"); err == nil {
			video.Thumbnail = thumbKey
		}
	}

	if err := s.VideoRepo.Create(video); err != nil {
		if delErr := s.Storage.Delete(ctx, fileKey); delErr != nil {
			logger.Log.Warn("failed to remove orphaned object", zap.String("key", fileKey), zap.Error(delErr))
		}
		return nil, err
	}
	return video, nil
}

type ExternalVideoRequest struct {
	CourseID    uint   `json:"course_id" binding:"required"`
	ModuleID    *uint  `json:"module_id"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ExternalURL string `json:"external_url" binding:"required,url"`
}

func (s *ContentService) AddExternalVideo(actor model.Actor, req ExternalVideoRequest) (*model.Video, error) {
	if err := s.authorizeUpload(actor, req.CourseID); err != nil {
		return nil, err
	}

	video := &model.Video{
		Title:        req.Title,
		Description:  req.Description,
		ExternalURL:  req.ExternalURL,
		VideoType:    model.VideoOther,
		CourseID:     req.CourseID,
		ModuleID:     req.ModuleID,
		UploadedByID: actor.UserID,
		IsActive:     true,
	}
	if err := s.VideoRepo.Create(video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *ContentService) ListMaterials(actor model.Actor, courseID uint, filter repository.ContentFilter) ([]model.Material, error) {
	if err := s.authorizeAccess(actor, courseID); err != nil {
		return nil, err
	}
	return s.MaterialRepo.ListByCourse(courseID, filter)
}

func (s *ContentService) ListVideos(actor model.Actor, courseID uint, filter repository.ContentFilter) ([]model.Video, error) {
	if err := s.authorizeAccess(actor, courseID); err != nil {
		return nil, err
	}
	return s.VideoRepo.ListByCourse(courseID, filter)
}

// ListMyMaterials returns everything visible across the caller's courses.
func (s *ContentService) ListMyMaterials(actor model.Actor) ([]model.Material, error) {
	courseIDs, err := s.visibleCourseIDs(actor)
	if err != nil {
		return nil, err
	}
	return s.MaterialRepo.ListByCourses(courseIDs)
}

func (s *ContentService) ListMyVideos(actor model.Actor) ([]model.Video, error) {
	courseIDs, err := s.visibleCourseIDs(actor)
	if err != nil {
		return nil, err
	}
	return s.VideoRepo.ListByCourses(courseIDs)
}

func (s *ContentService) visibleCourseIDs(actor model.Actor) ([]uint, error) {
	switch {
	case actor.IsInstructor():
		return s.CourseRepo.IDsByInstructor(actor.ProfileID)
	case actor.IsStudent():
		return s.EnrollmentRepo.ActiveCourseIDs(actor.ProfileID)
	default:
		return nil, util.ErrPermissionDenied
	}
}

// Download resolves a material to its object URL and counts the download.
func (s *ContentService) Download(actor model.Actor, materialID uint) (string, error) {
	material, err := s.MaterialRepo.FindByID(materialID)
	if err != nil {
		return "", err
	}
	if err := s.authorizeAccess(actor, material.CourseID); err != nil {
		return "", err
	}
	if err := s.MaterialRepo.IncrementDownloadCount(materialID); err != nil {
		logger.Log.Warn("failed to count download", zap.Uint("material_id", materialID), zap.Error(err))
	}
	return s.Storage.GetURL(material.FileKey), nil
}

// Watch resolves a video to its playable source and counts the view.
func (s *ContentService) Watch(actor model.Actor, videoID uint) (string, error) {
	video, err := s.VideoRepo.FindByID(videoID)
	if err != nil {
		return "", err
	}
	if err := s.authorizeAccess(actor, video.CourseID); err != nil {
		return "", err
	}
	if err := s.VideoRepo.IncrementViewCount(videoID); err != nil {
		logger.Log.Warn("failed to count view", zap.Uint("video_id", videoID), zap.Error(err))
	}
	if video.ExternalURL != "" && video.FileKey == "" {
		return video.ExternalURL, nil
	}
	return s.Storage.GetURL(video.FileKey), nil
}

type UpdateContentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (s *ContentService) UpdateMaterial(actor model.Actor, materialID uint, req UpdateContentRequest) (*model.Material, error) {
	material, err := s.MaterialRepo.FindByID(materialID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeUpload(actor, material.CourseID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		material.Title = *req.Title
	}
	if req.Description != nil {
		material.Description = *req.Description
	}
	if req.IsActive != nil {
		material.IsActive = *req.IsActive
	}
	if err := s.MaterialRepo.Update(material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *ContentService) UpdateVideo(actor model.Actor, videoID uint, req UpdateContentRequest) (*model.Video, error) {
	video, err := s.VideoRepo.FindByID(videoID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeUpload(actor, video.CourseID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		video.Title = *req.Title
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if req.IsActive != nil {
		video.IsActive = *req.IsActive
	}
	if err := s.VideoRepo.Update(video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *ContentService) DeleteMaterial(ctx context.Context, actor model.Actor, materialID uint) error {
	material, err := s.MaterialRepo.FindByID(materialID)
	if err != nil {
		return err
	}
	if err := s.authorizeUpload(actor, material.CourseID); err != nil {
		return err
	}
	if err := s.MaterialRepo.Delete(materialID); err != nil {
		return err
	}
	if err := s.Storage.Delete(ctx, material.FileKey); err != nil {
		logger.Log.Warn("failed to delete object", zap.String("key", material.FileKey), zap.Error(err))
	}
	return nil
}

func (s *ContentService) DeleteVideo(ctx context.Context, actor model.Actor, videoID uint) error {
	video, err := s.VideoRepo.FindByID(videoID)
	if err != nil {
		return err
	}
	if err := s.authorizeUpload(actor, video.CourseID); err != nil {
		return err
	}
	if err := s.VideoRepo.Delete(videoID); err != nil {
		return err
	}
	if video.FileKey != "" {
		if err := s.Storage.Delete(ctx, video.FileKey); err != nil {
			logger.Log.Warn("failed to delete object", zap.String("key", video.FileKey), zap.Error(err))
		}
	}
	return nil
}
