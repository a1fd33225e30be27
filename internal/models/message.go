package models

import "time"

const (
	AttachmentImage    = "image"
	AttachmentDocument = "document"
	AttachmentVideo    = "video"

	MessageTypeUser   = "user"
	MessageTypeSystem = "system"
)

// Message is immutable once created except for its read state.
type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint `gorm:"index:idx_messages_booking_created" json:"booking_id"`

	SenderID uint `json:"sender_id"`
	Sender   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"sender"`

	Body string `gorm:"column:message;size:2000" json:"message"`

	Attachment     string `gorm:"size:512" json:"attachment"`
	AttachmentType string `gorm:"size:20" json:"attachment_type"`

	MessageType string `gorm:"size:10;default:'user'" json:"message_type"`

	IsRead bool       `gorm:"default:false" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `gorm:"index:idx_messages_booking_created" json:"created_at"`
}
