package models

import "time"

type Skill struct {
	ID uint `gorm:"primaryKey" json:"id"`

	InstructorID uint `json:"instructor_id"`
	Instructor   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"instructor"`

	Title        string  `gorm:"size:100;not null" json:"title"`
	Description  string  `gorm:"size:1000" json:"description"`
	Category     string  `gorm:"size:50;index" json:"category"`
	PricePerHour float64 `json:"price_per_hour"`

	// Aggregate fields owned by the ratings package. Nothing else writes them.
	AverageRating float64 `gorm:"default:0" json:"average_rating"`
	ReviewCount   int     `gorm:"default:0" json:"review_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
