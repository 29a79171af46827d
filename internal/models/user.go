package models

import (
	"time"

	"github.com/google/uuid"
)

// UserType represents the type of user
type UserType string

const (
	UserTypeCreator UserType = "creator"
	UserTypeBrand   UserType = "brand"
	UserTypeAdmin   UserType = "admin"
)

// User represents a user in the system
type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	UserType      UserType  `json:"user_type" db:"user_type"`
	EmailVerified bool      `json:"email_verified" db:"email_verified"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// CreatorProfile holds a creator's onboarding flags and content record.
// The flags are mutated only on confirmed backend events (URL submission,
// OAuth callback confirmation), never asserted client-side.
type CreatorProfile struct {
	UserID               uuid.UUID `json:"user_id" db:"user_id"`
	DisplayName          string    `json:"display_name" db:"display_name"`
	URLsSubmitted        bool      `json:"urls_submitted" db:"urls_submitted"`
	SubmittedURLs        []string  `json:"submitted_urls" db:"submitted_urls"`
	ConnectSkipped       bool      `json:"connect_skipped" db:"connect_skipped"`
	TrialUsed            bool      `json:"trial_used" db:"trial_used"`
	Verified             bool      `json:"verified" db:"verified"`
	ApprovedContentCount int       `json:"approved_content_count" db:"approved_content_count"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}
