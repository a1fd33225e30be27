package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	StudentID uint `json:"student_id"`
	Student   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"student"`

	InstructorID uint `gorm:"index" json:"instructor_id"`
	Instructor   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"instructor"`

	SkillID uint  `json:"skill_id"`
	Skill   Skill `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"skill"`

	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DurationHours int       `json:"duration_hours"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	MeetingLink        string `gorm:"size:255" json:"meeting_link"`
	CancelledByID      *uint  `json:"cancelled_by"`
	CancellationReason string `gorm:"size:500" json:"cancellation_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
