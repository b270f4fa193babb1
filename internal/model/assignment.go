package model

import "time"

// swagger:model Assignment
type Assignment struct {
	BaseModel
	CourseID    uint      `gorm:"index;not null" json:"courseId"`
	Course      *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `gorm:"not null" json:"dueDate"`
	MaxPoints   float64   `gorm:"type:decimal(5,2);not null" json:"maxPoints"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// AssignmentSubmission allows one submission per (student, assignment);
// resubmitting overwrites the previous one and resets grading.
// swagger:model AssignmentSubmission
type AssignmentSubmission struct {
	BaseModel
	StudentID      uint        `gorm:"uniqueIndex:idx_student_assignment;not null" json:"studentId"`
	Student        *Student    `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	AssignmentID   uint        `gorm:"uniqueIndex:idx_student_assignment;not null" json:"assignmentId"`
	Assignment     *Assignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
	SubmissionText string      `gorm:"type:text" json:"submissionText"`
	FileKey        string      `gorm:"size:255" json:"fileKey"`
	SubmittedAt    time.Time   `gorm:"autoCreateTime" json:"submittedAt"`
	Grade          *float64    `gorm:"type:decimal(5,2)" json:"grade,omitempty"`
	Feedback       string      `gorm:"type:text" json:"feedback"`
	IsGraded       bool        `gorm:"default:false" json:"isGraded"`
	GradedAt       *time.Time  `json:"gradedAt,omitempty"`
}

func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}
