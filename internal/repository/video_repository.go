package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	DB *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{DB: db}
}

func (r *VideoRepository) Create(video *model.Video) error {
	return r.DB.Create(video).Error
}

func (r *VideoRepository) FindByID(id uint) (*model.Video, error) {
	var video model.Video
	err := r.DB.Preload("Course").First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepository) ListByCourse(courseID uint, filter ContentFilter) ([]model.Video, error) {
	var videos []model.Video
	query := r.DB.Where("course_id = ? AND is_active = ?", courseID, true)
	if filter.Search != "" {
		query = query.Where("title LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Type != "" {
		query = query.Where("video_type = ?", filter.Type)
	}
	err := query.Order("created_at DESC").Find(&videos).Error
	return videos, err
}

func (r *VideoRepository) ListByCourses(courseIDs []uint) ([]model.Video, error) {
	if len(courseIDs) == 0 {
		return []model.Video{}, nil
	}
	var videos []model.Video
	err := r.DB.Preload("Course").
		Where("course_id IN ? AND is_active = ?", courseIDs, true).
		Order("created_at DESC").Find(&videos).Error
	return videos, err
}

func (r *VideoRepository) Update(video *model.Video) error {
	return r.DB.Save(video).Error
}

func (r *VideoRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Video{}, id).Error
}

func (r *VideoRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Video{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *VideoRepository) IncrementViewCount(id uint) error {
	return r.DB.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
