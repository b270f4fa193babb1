package model

import "time"

// swagger:model Instructor
type Instructor struct {
	BaseModel
	UserID         *uint      `gorm:"uniqueIndex" json:"userId,omitempty"`
	User           *User      `gorm:"foreignKey:UserID" json:"-"`
	InstructorID   string     `gorm:"size:20;uniqueIndex;not null" json:"instructorId"`
	FirstName      string     `gorm:"size:50;not null" json:"firstName"`
	LastName       string     `gorm:"size:50;not null" json:"lastName"`
	Email          string     `gorm:"size:100;not null" json:"email"`
	Phone          string     `gorm:"size:15" json:"phone"`
	Bio            string     `gorm:"type:text" json:"bio"`
	ProfilePicture string     `gorm:"size:255" json:"profilePicture"`
	HireDate       *time.Time `json:"hireDate,omitempty"`
	IsActive       bool       `gorm:"default:true" json:"isActive"`
}

func (Instructor) TableName() string {
	return "instructors"
}

func (i *Instructor) FullName() string {
	return i.FirstName + " " + i.LastName
}
