package models

import "gorm.io/gorm"

// Activity is the audit record of a user action (favorite, cart, subscription, recipe lifecycle).
type Activity struct {
	gorm.Model
	UserID       uint   `gorm:"index"`
	RecipeID     uint   `gorm:"index"`
	TargetUserID uint   `gorm:"index"`
	Action       string `gorm:"size:32;not null"`
}
