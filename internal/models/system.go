package models

import "time"

// SystemSetting is a key/value row backing feature flags and maintenance mode
type SystemSetting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}

// Well-known setting keys
const (
	SettingMaintenanceMode  = "maintenance_mode"
	SettingMaintenanceETA   = "maintenance_eta"
	SettingRegistrationOpen = "registration_open"
	SettingFeatureChat      = "feature_chat"
	SettingFeatureReviews   = "feature_reviews"
)
