package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentEnrolled   EnrollmentStatus = "enrolled"
	EnrollmentInProgress EnrollmentStatus = "in_progress"
	EnrollmentCompleted  EnrollmentStatus = "completed"
	EnrollmentDropped    EnrollmentStatus = "dropped"
)

// Valid reports whether the status is a supported value. Transitions between
// valid statuses are deliberately unconstrained.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentEnrolled, EnrollmentInProgress, EnrollmentCompleted, EnrollmentDropped:
		return true
	default:
		return false
	}
}

// Active reports whether the enrollment makes the student eligible for
// attendance and content access.
func (s EnrollmentStatus) Active() bool {
	return s == EnrollmentEnrolled || s == EnrollmentInProgress
}

// Enrollment associates a student with a course. The (student, course) pair
// is unique; enrolling twice is a no-op.
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	StudentID   uint             `gorm:"uniqueIndex:idx_student_course;not null" json:"studentId"`
	Student     *Student         `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CourseID    uint             `gorm:"uniqueIndex:idx_student_course;not null" json:"courseId"`
	Course      *Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Status      EnrollmentStatus `gorm:"type:varchar(20);default:'enrolled'" json:"status"`
	Progress    int              `gorm:"default:0" json:"progress"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
