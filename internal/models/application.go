package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus represents the lifecycle of a campaign application
type ApplicationStatus string

const (
	ApplicationStatusApplied  ApplicationStatus = "Applied"
	ApplicationStatusApproved ApplicationStatus = "Approved"
	ApplicationStatusRejected ApplicationStatus = "Rejected"
)

// Application associates a creator with a campaign they applied to.
// Counted marks whether the application counts toward the rolling monthly
// cap; applications to the review-challenge campaign are stored uncounted.
type Application struct {
	ID         uuid.UUID         `json:"id" db:"id"`
	CampaignID uuid.UUID         `json:"campaign_id" db:"campaign_id"`
	UserID     uuid.UUID         `json:"user_id" db:"user_id"`
	Status     ApplicationStatus `json:"status" db:"status"`
	Counted    bool              `json:"counted" db:"counted"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at" db:"updated_at"`
}

// PaidAccessGrant records an admin granting a creator access to paid
// campaigns after the review-challenge unlock condition is met
type PaidAccessGrant struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	GrantedBy uuid.UUID `json:"granted_by" db:"granted_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RewardAdjustment is the audit record written when an admin edits a
// creator's approved content count
type RewardAdjustment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	AdminID   uuid.UUID `json:"admin_id" db:"admin_id"`
	OldCount  int       `json:"old_count" db:"old_count"`
	NewCount  int       `json:"new_count" db:"new_count"`
	Note      string    `json:"note" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
