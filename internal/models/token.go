// Package models contains data structures for the application's domain models.
package models

import "time"

// Token is an opaque API credential bound to exactly one user. Only the
// SHA-256 hash of the plaintext is stored; the plaintext is handed to the
// client once at issuance. A token stays valid until it is deleted, which
// happens for all of a user's tokens on logout.
type Token struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"-"`
	Name       string     `gorm:"size:255;not null" json:"name"`
	Hash       string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
