package model

type MaterialType string

const (
	MaterialPDF   MaterialType = "pdf"
	MaterialDoc   MaterialType = "doc"
	MaterialPPT   MaterialType = "ppt"
	MaterialXLS   MaterialType = "xls"
	MaterialText  MaterialType = "txt"
	MaterialZip   MaterialType = "zip"
	MaterialOther MaterialType = "other"
)

// Material references an opaque object key in the storage provider; the
// backend never inspects file contents.
// swagger:model Material
type Material struct {
	BaseModel
	Title         string       `gorm:"size:200;not null" json:"title"`
	Description   string       `gorm:"type:text" json:"description"`
	FileKey       string       `gorm:"size:255;not null" json:"fileKey"`
	MaterialType  MaterialType `gorm:"type:varchar(10);default:'pdf'" json:"materialType"`
	CourseID      uint         `gorm:"index;not null" json:"courseId"`
	Course        *Course      `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	ModuleID      *uint        `gorm:"index" json:"moduleId,omitempty"`
	UploadedByID  uint         `gorm:"index;not null" json:"uploadedById"`
	DownloadCount uint         `gorm:"default:0" json:"downloadCount"`
	IsActive      bool         `gorm:"default:true" json:"isActive"`
}

func (Material) TableName() string {
	return "materials"
}

type VideoType string

const (
	VideoMP4   VideoType = "mp4"
	VideoAVI   VideoType = "avi"
	VideoMOV   VideoType = "mov"
	VideoWMV   VideoType = "wmv"
	VideoFLV   VideoType = "flv"
	VideoWebM  VideoType = "webm"
	VideoOther VideoType = "other"
)

// Video holds either an uploaded object key or an external URL.
// swagger:model Video
type Video struct {
	BaseModel
	Title           string    `gorm:"size:200;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	FileKey         string    `gorm:"size:255" json:"fileKey"`
	ExternalURL     string    `gorm:"size:255" json:"externalUrl"`
	VideoType       VideoType `gorm:"type:varchar(10);default:'mp4'" json:"videoType"`
	CourseID        uint      `gorm:"index;not null" json:"courseId"`
	Course          *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	ModuleID        *uint     `gorm:"index" json:"moduleId,omitempty"`
	DurationSeconds int       `gorm:"default:0" json:"durationSeconds"`
	Width           int       `gorm:"default:0" json:"width"`
	Height          int       `gorm:"default:0" json:"height"`
	Thumbnail       string    `gorm:"size:255" json:"thumbnail"`
	UploadedByID    uint      `gorm:"index;not null" json:"uploadedById"`
	ViewCount       uint      `gorm:"default:0" json:"viewCount"`
	IsActive        bool      `gorm:"default:true" json:"isActive"`
}

func (Video) TableName() string {
	return "videos"
}

// Source returns the playable location, preferring the uploaded object.
func (v *Video) Source() string {
	if v.FileKey != "" {
		return v.FileKey
	}
	return v.ExternalURL
}
