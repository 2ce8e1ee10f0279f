package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `json:"name"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Username string `gorm:"uniqueIndex" json:"username"`
	Password string `json:"-"`

	Bio       string `gorm:"type:text" json:"bio"`
	AvatarURL string `json:"avatarUrl"`
	Phone     string `json:"phone"`

	// Location used for nearby listings
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// Rating aggregate maintained from reviews
	RatingAverage float64 `gorm:"default:0" json:"ratingAverage"`
	RatingCount   int     `gorm:"default:0" json:"ratingCount"`

	Role      Role `gorm:"type:text;default:'USER'" json:"role"`
	IsBlocked bool `gorm:"default:false" json:"isBlocked"`

	ResetToken       string    `json:"-"`
	ResetTokenExpiry time.Time `json:"-"`

	// Relations
	Resources []Resource `gorm:"foreignKey:OwnerID" json:"resources,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
