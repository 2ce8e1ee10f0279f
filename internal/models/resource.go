package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceStatus string

const (
	ResourceStatusAvailable ResourceStatus = "available"
	ResourceStatusBorrowed  ResourceStatus = "borrowed"
	ResourceStatusUnlisted  ResourceStatus = "unlisted"
)

type ResourceCondition string

const (
	ConditionNew     ResourceCondition = "new"
	ConditionLikeNew ResourceCondition = "like_new"
	ConditionGood    ResourceCondition = "good"
	ConditionFair    ResourceCondition = "fair"
	ConditionWorn    ResourceCondition = "worn"
)

// ResourceCategories is the closed set the frontend filter dropdown uses
var ResourceCategories = []string{
	"tools", "electronics", "books", "sports", "outdoor",
	"kitchen", "garden", "games", "music", "other",
}

func IsValidCategory(category string) bool {
	for _, c := range ResourceCategories {
		if c == category {
			return true
		}
	}
	return false
}

func IsValidCondition(condition string) bool {
	switch ResourceCondition(condition) {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionWorn:
		return true
	}
	return false
}

// Resource is an item a user lists for lending
type Resource struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID string `gorm:"index;type:text;not null" json:"ownerId"`
	Owner   User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Title       string            `gorm:"not null" json:"title"`
	Description string            `gorm:"type:text" json:"description"`
	Category    string            `gorm:"index;not null" json:"category"`
	Condition   ResourceCondition `gorm:"type:text;default:'good'" json:"condition"`
	Status      ResourceStatus    `gorm:"index;type:text;default:'available'" json:"status"`

	Photos []ResourcePhoto `gorm:"foreignKey:ResourceID" json:"photos,omitempty"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

type ResourcePhoto struct {
	ID         string    `gorm:"primaryKey;type:text" json:"id"`
	ResourceID string    `gorm:"index;type:text;not null" json:"resourceId"`
	URL        string    `gorm:"not null" json:"url"`
	Position   int       `gorm:"default:0" json:"position"`
	IsPrimary  bool      `gorm:"default:false" json:"isPrimary"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (p *ResourcePhoto) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
