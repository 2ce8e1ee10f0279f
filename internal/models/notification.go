package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeBorrowCreated   NotificationType = "borrow_request_created"
	NotificationTypeBorrowApproved  NotificationType = "borrow_request_approved"
	NotificationTypeBorrowRejected  NotificationType = "borrow_request_rejected"
	NotificationTypeBorrowCancelled NotificationType = "borrow_request_cancelled"
	NotificationTypeBorrowCompleted NotificationType = "borrow_request_completed"
	NotificationTypeReviewReceived  NotificationType = "review_received"
	NotificationTypeChatMessage     NotificationType = "chat_message"
	NotificationTypeSystem          NotificationType = "system_announcement"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

type Notification struct {
	ID      string `gorm:"primaryKey;type:text" json:"id"`
	UserID  string `gorm:"index;type:text;not null" json:"userId"` // Recipient
	ActorID string `gorm:"index;type:text" json:"actorId"`         // Who performed the action

	Type     NotificationType     `gorm:"type:varchar(40);not null" json:"type"`
	Priority NotificationPriority `gorm:"type:varchar(10);default:'normal'" json:"priority"`

	ResourceID      *string `gorm:"index;type:text" json:"resourceId,omitempty"`
	BorrowRequestID *string `gorm:"index;type:text" json:"borrowRequestId,omitempty"`

	Message string     `gorm:"type:text" json:"message"`
	IsRead  bool       `gorm:"default:false" json:"isRead"`
	ReadAt  *time.Time `json:"readAt"`

	CreatedAt time.Time `json:"createdAt"`

	// Relations
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Actor    *User     `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Resource *Resource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return
}

// QueuedNotification is a pending dispatch row processed by the background
// dispatcher. Scheduled or broadcast notifications land here first and become
// Notification rows when dispatched.
type QueuedNotification struct {
	ID      string `gorm:"primaryKey;type:text" json:"id"`
	UserID  string `gorm:"index;type:text;not null" json:"userId"`
	ActorID string `gorm:"type:text" json:"actorId"`

	Type     NotificationType     `gorm:"type:varchar(40);not null" json:"type"`
	Priority NotificationPriority `gorm:"type:varchar(10);default:'normal'" json:"priority"`

	ResourceID      *string `gorm:"type:text" json:"resourceId,omitempty"`
	BorrowRequestID *string `gorm:"type:text" json:"borrowRequestId,omitempty"`
	Message         string  `gorm:"type:text" json:"message"`

	Sent       bool   `gorm:"index;default:false" json:"sent"`
	Dead       bool   `gorm:"index;default:false" json:"dead"`
	RetryCount int    `gorm:"default:0" json:"retryCount"`
	MaxRetries int    `gorm:"default:3" json:"maxRetries"`
	LastError  string `gorm:"type:text" json:"lastError"`

	ScheduledFor time.Time  `gorm:"index" json:"scheduledFor"`
	ExpiresAt    *time.Time `json:"expiresAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (q *QueuedNotification) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.ScheduledFor.IsZero() {
		q.ScheduledFor = time.Now()
	}
	return
}
