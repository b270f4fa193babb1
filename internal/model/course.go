package model

// swagger:model Category
type Category struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Courses []Course `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// swagger:model Course
type Course struct {
	BaseModel
	Title        string      `gorm:"size:200;not null" json:"title"`
	Code         string      `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Description  string      `gorm:"type:text" json:"description"`
	CategoryID   uint        `gorm:"index;not null" json:"categoryId"`
	Category     *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	InstructorID uint        `gorm:"index;not null" json:"instructorId"`
	Instructor   *Instructor `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Thumbnail    string      `gorm:"size:255" json:"thumbnail"`
	Price        float64     `gorm:"type:decimal(10,2);default:0" json:"price"`
	IsPublished  bool        `gorm:"default:false" json:"isPublished"`

	Modules []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseModule is an ordered section of a course.
// swagger:model CourseModule
type CourseModule struct {
	BaseModel
	CourseID    uint   `gorm:"index;not null" json:"courseId"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Order       int    `gorm:"column:sort_order;not null" json:"order"`

	Lessons []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID        uint   `gorm:"index;not null" json:"moduleId"`
	Title           string `gorm:"size:200;not null" json:"title"`
	Content         string `gorm:"type:text" json:"content"`
	VideoURL        string `gorm:"size:255" json:"videoUrl"`
	Order           int    `gorm:"column:sort_order;not null" json:"order"`
	DurationSeconds int    `gorm:"default:0" json:"durationSeconds"`
	IsPublished     bool   `gorm:"default:false" json:"isPublished"`
}

func (Lesson) TableName() string {
	return "lessons"
}
