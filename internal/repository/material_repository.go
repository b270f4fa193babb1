package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	DB *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{DB: db}
}

func (r *MaterialRepository) Create(material *model.Material) error {
	return r.DB.Create(material).Error
}

func (r *MaterialRepository) FindByID(id uint) (*model.Material, error) {
	var material model.Material
	err := r.DB.Preload("Course").First(&material, id).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// ContentFilter narrows course content listings. Search matches the title,
// Type matches the exact material or video type.
type ContentFilter struct {
	Search string
	Type   string
}

func (r *MaterialRepository) ListByCourse(courseID uint, filter ContentFilter) ([]model.Material, error) {
	var materials []model.Material
	query := r.DB.Where("course_id = ? AND is_active = ?", courseID, true)
	if filter.Search != "" {
		query = query.Where("title LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Type != "" {
		query = query.Where("material_type = ?", filter.Type)
	}
	err := query.Order("created_at DESC").Find(&materials).Error
	return materials, err
}

func (r *MaterialRepository) ListByCourses(courseIDs []uint) ([]model.Material, error) {
	if len(courseIDs) == 0 {
		return []model.Material{}, nil
	}
	var materials []model.Material
	err := r.DB.Preload("Course").
		Where("course_id IN ? AND is_active = ?", courseIDs, true).
		Order("created_at DESC").Find(&materials).Error
	return materials, err
}

func (r *MaterialRepository) Update(material *model.Material) error {
	return r.DB.Save(material).Error
}

func (r *MaterialRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Material{}, id).Error
}

func (r *MaterialRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Material{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *MaterialRepository) IncrementDownloadCount(id uint) error {
	return r.DB.Model(&model.Material{}).Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}
