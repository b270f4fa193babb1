package model

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	default:
		return false
	}
}

// Attendance is one record per (student, course, session date). Submitting
// again for the same key overwrites status, notes and recorder.
// swagger:model Attendance
type Attendance struct {
	BaseModel
	StudentID    uint             `gorm:"uniqueIndex:idx_attendance_key;not null" json:"studentId"`
	Student      *Student         `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CourseID     uint             `gorm:"uniqueIndex:idx_attendance_key;not null" json:"courseId"`
	Course       *Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	SessionDate  time.Time        `gorm:"type:date;uniqueIndex:idx_attendance_key;not null" json:"sessionDate"`
	Status       AttendanceStatus `gorm:"type:varchar(10);default:'present'" json:"status"`
	Notes        string           `gorm:"type:text" json:"notes"`
	RecordedByID *uint            `gorm:"index" json:"recordedById,omitempty"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// TrainerAttendance mirrors Attendance for instructors, keyed by
// (trainer, course, session date).
// swagger:model TrainerAttendance
type TrainerAttendance struct {
	BaseModel
	TrainerID    uint             `gorm:"uniqueIndex:idx_trainer_attendance_key;not null" json:"trainerId"`
	Trainer      *Instructor      `gorm:"foreignKey:TrainerID" json:"trainer,omitempty"`
	CourseID     uint             `gorm:"uniqueIndex:idx_trainer_attendance_key;not null" json:"courseId"`
	Course       *Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	SessionDate  time.Time        `gorm:"type:date;uniqueIndex:idx_trainer_attendance_key;not null" json:"sessionDate"`
	Status       AttendanceStatus `gorm:"type:varchar(10);default:'present'" json:"status"`
	Notes        string           `gorm:"type:text" json:"notes"`
	RecordedByID *uint            `gorm:"index" json:"recordedById,omitempty"`
}

func (TrainerAttendance) TableName() string {
	return "trainer_attendances"
}
