package models

import "time"

const (
	MaxEmailLength    = 254
	MaxUsernameLength = 150
)

// User is an account. Email is the login identifier.
type User struct {
	ID         uint      `gorm:"primaryKey"`
	Email      string    `gorm:"size:254;uniqueIndex;not null"`
	Username   string    `gorm:"size:150;uniqueIndex;not null"`
	FirstName  string    `gorm:"size:150;not null"`
	LastName   string    `gorm:"size:150;not null"`
	Password   string    `gorm:"size:255;not null"`
	IsAdmin    bool      `gorm:"not null;default:false"`
	DateJoined time.Time `gorm:"autoCreateTime"`
}

// Subscription means UserID follows AuthorID.
type Subscription struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:uniq_subscription"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:uniq_subscription;index;check:chk_subscription_not_self,author_id <> user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
