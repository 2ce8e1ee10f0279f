package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BorrowStatus string

const (
	BorrowStatusPending   BorrowStatus = "pending"
	BorrowStatusApproved  BorrowStatus = "approved"
	BorrowStatusRejected  BorrowStatus = "rejected"
	BorrowStatusCancelled BorrowStatus = "cancelled"
	BorrowStatusCompleted BorrowStatus = "completed"
)

// borrowTransitions encodes the legal status machine.
// Terminal states (rejected, cancelled, completed) have no outgoing edges.
var borrowTransitions = map[BorrowStatus][]BorrowStatus{
	BorrowStatusPending:  {BorrowStatusApproved, BorrowStatusRejected, BorrowStatusCancelled},
	BorrowStatusApproved: {BorrowStatusCompleted, BorrowStatusCancelled},
}

// CanTransition reports whether moving from one borrow status to another is legal
func CanTransition(from, to BorrowStatus) bool {
	for _, next := range borrowTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsValidBorrowStatus(s string) bool {
	switch BorrowStatus(s) {
	case BorrowStatusPending, BorrowStatusApproved, BorrowStatusRejected,
		BorrowStatusCancelled, BorrowStatusCompleted:
		return true
	}
	return false
}

// BorrowRequest is a time-boxed request from one user to borrow another's resource
type BorrowRequest struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ResourceID string   `gorm:"index;type:text;not null" json:"resourceId"`
	Resource   Resource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`

	RequesterID string `gorm:"index;type:text;not null" json:"requesterId"`
	Requester   User   `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`

	// Denormalized from the resource so incoming-request listings avoid a join
	OwnerID string `gorm:"index;type:text;not null" json:"ownerId"`
	Owner   User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	StartDate time.Time `gorm:"not null" json:"startDate"`
	EndDate   time.Time `gorm:"not null" json:"endDate"`

	Status  BorrowStatus `gorm:"index;type:text;default:'pending'" json:"status"`
	Message string       `gorm:"type:text" json:"message"`

	RespondedAt *time.Time `json:"respondedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (b *BorrowRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

// Overlaps reports whether the request's date range intersects [start, end]
func (b *BorrowRequest) Overlaps(start, end time.Time) bool {
	return !b.StartDate.After(end) && !start.After(b.EndDate)
}
