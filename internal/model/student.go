package model

import "time"

// swagger:model Student
type Student struct {
	BaseModel
	UserID         *uint      `gorm:"uniqueIndex" json:"userId,omitempty"`
	User           *User      `gorm:"foreignKey:UserID" json:"-"`
	StudentID      string     `gorm:"size:20;uniqueIndex;not null" json:"studentId"`
	FirstName      string     `gorm:"size:50;not null" json:"firstName"`
	LastName       string     `gorm:"size:50;not null" json:"lastName"`
	Email          string     `gorm:"size:100;not null" json:"email"`
	Phone          string     `gorm:"size:15" json:"phone"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	ProfilePicture string     `gorm:"size:255" json:"profilePicture"`
	EnrollmentDate time.Time  `gorm:"autoCreateTime" json:"enrollmentDate"`
	IsActive       bool       `gorm:"default:true" json:"isActive"`
}

func (Student) TableName() string {
	return "students"
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
