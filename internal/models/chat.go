package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message between two users. Conversations are derived
// from the (sender, recipient) pair rather than stored as rows.
type Message struct {
	ID string `gorm:"primaryKey;type:text" json:"id"`

	SenderID    string `gorm:"index;type:text;not null;uniqueIndex:uniq_messages_sender_client,priority:1" json:"senderId"`
	RecipientID string `gorm:"index;type:text;not null" json:"recipientId"`
	Content     string `gorm:"type:text;not null" json:"content"`

	// text, image, system
	Type string `gorm:"type:text;default:'text';not null" json:"type"`

	AttachmentURL string `json:"attachmentUrl"`

	// Read tracking
	IsRead bool       `gorm:"default:false" json:"isRead"`
	ReadAt *time.Time `json:"readAt"`

	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Client-generated id for idempotent resend after flaky networks.
	// Unique per sender so a racing resend cannot insert twice.
	ClientMessageID *string `gorm:"uniqueIndex:uniq_messages_sender_client,priority:2" json:"clientMessageId"`

	Sender    User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

const (
	MessageTypeText   = "text"
	MessageTypeImage  = "image"
	MessageTypeSystem = "system"
)

func IsValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeSystem:
		return true
	}
	return false
}
