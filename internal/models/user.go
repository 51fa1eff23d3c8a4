package models

import "time"

// User represents an application account. Anonymous visitors have no User;
// their sessions live only in the local cache.
type User struct {
	ID           string `gorm:"primaryKey;size:64"` // UUID
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Email        string `gorm:"size:128"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	FailedLoginAttempts int        `gorm:"default:0"`
	LockedUntil         *time.Time `gorm:"index"`
	LastLoginAt         *time.Time
	LastLoginIP         string `gorm:"size:64"`
}
