package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a directional rating between the two parties of a completed
// borrow request. One review per (borrow request, reviewer) enforced by a
// composite unique index.
type Review struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	BorrowRequestID string        `gorm:"index:idx_review_once,unique;type:text;not null" json:"borrowRequestId"`
	BorrowRequest   BorrowRequest `gorm:"foreignKey:BorrowRequestID" json:"-"`

	ReviewerID string `gorm:"index:idx_review_once,unique;type:text;not null" json:"reviewerId"`
	Reviewer   User   `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`

	RevieweeID string `gorm:"index;type:text;not null" json:"revieweeId"`
	Reviewee   User   `gorm:"foreignKey:RevieweeID" json:"-"`

	Rating  int    `gorm:"not null" json:"rating"` // 1..5
	Comment string `gorm:"type:text" json:"comment"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
