package models

import (
	"time"

	"github.com/google/uuid"
)

// CampaignType represents the type of campaign
type CampaignType string

const (
	CampaignTypeGifted CampaignType = "gifted"
	CampaignTypePaid   CampaignType = "paid"
)

// Campaign status values. The stored status is free text owned by brand
// tooling; these are the values the resolver gives meaning to.
const (
	CampaignStatusRecruiting = "Recruiting"
	CampaignStatusClosed     = "Closed"
	CampaignStatusDeactive   = "Deactive"
)

// Campaign represents a brand's UGC campaign
type Campaign struct {
	ID                 uuid.UUID    `json:"id" db:"id"`
	BrandID            uuid.UUID    `json:"brand_id" db:"brand_id"`
	Title              string       `json:"title" db:"title"`
	BrandName          string       `json:"brand_name" db:"brand_name"`
	CampaignType       CampaignType `json:"campaign_type" db:"campaign_type"`
	CampaignStatus     string       `json:"campaign_status" db:"campaign_status"`
	RecruitmentEndDate time.Time    `json:"recruitment_end_date" db:"recruitment_end_date"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at" db:"updated_at"`
}

// CampaignBlock records a brand-side block of a specific creator for a
// specific campaign
type CampaignBlock struct {
	CampaignID uuid.UUID `json:"campaign_id" db:"campaign_id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
