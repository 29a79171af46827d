package eligibility

import (
	"time"

	"github.com/google/uuid"
	"github.com/wavelit/creatorhub/internal/config"
	"github.com/wavelit/creatorhub/internal/models"
)

// Decision is the outcome of resolving a campaign against a creator context.
// Decisions are recomputed on every evaluation and never persisted.
type Decision string

const (
	DecisionCanApply                    Decision = "can_apply"
	DecisionAlreadyApplied              Decision = "already_applied"
	DecisionClosed                      Decision = "closed"
	DecisionMonthlyLimitReached         Decision = "monthly_limit_reached"
	DecisionBlockedByBrand              Decision = "blocked_by_brand"
	DecisionRequiresSignIn              Decision = "requires_sign_in"
	DecisionLockedPendingReviewApproval Decision = "locked_pending_review_approval"
	DecisionLockedPendingAdminApproval  Decision = "locked_pending_admin_approval"
)

// CreatorContext is the snapshot of creator state a resolution runs against.
// It is passed explicitly so Resolve stays a pure function; callers rebuild
// it from the backend after any mutating call.
type CreatorContext struct {
	Authenticated    bool
	UserID           uuid.UUID
	Applications     map[uuid.UUID]models.ApplicationStatus
	AppliedThisMonth int
	PaidAccess       bool
	BlockedCampaigns map[uuid.UUID]bool
}

// Applied reports whether the creator has an application for the campaign
func (cc *CreatorContext) Applied(campaignID uuid.UUID) bool {
	if cc == nil || cc.Applications == nil {
		return false
	}
	_, ok := cc.Applications[campaignID]
	return ok
}

// Blocked reports whether the brand has blocked this creator for the campaign
func (cc *CreatorContext) Blocked(campaignID uuid.UUID) bool {
	if cc == nil || cc.BlockedCampaigns == nil {
		return false
	}
	return cc.BlockedCampaigns[campaignID]
}

// CampaignSnapshot pairs a campaign with its effective status, derived once
// against a single reference time so one rendering pass cannot disagree with
// itself about the clock.
type CampaignSnapshot struct {
	Campaign        models.Campaign
	EffectiveStatus string
}

// NewCampaignSnapshot derives the effective status: a campaign is Deactive
// when its stored status says so or its recruitment window has passed.
func NewCampaignSnapshot(c models.Campaign, now time.Time) CampaignSnapshot {
	status := c.CampaignStatus
	if c.CampaignStatus == models.CampaignStatusDeactive || c.RecruitmentEndDate.Before(now) {
		status = models.CampaignStatusDeactive
	}
	return CampaignSnapshot{Campaign: c, EffectiveStatus: status}
}

// Result is a resolved decision plus whether the campaign should appear in
// the creator's listing at all.
type Result struct {
	Decision Decision `json:"decision"`
	Visible  bool     `json:"visible"`
}

// Resolver applies the campaign access rules. It holds only policy
// configuration and no mutable state.
type Resolver struct {
	reviewChallengeID uuid.UUID
	monthlyLimit      int
}

// NewResolver creates a resolver from campaign policy configuration
func NewResolver(cfg *config.CampaignConfig) *Resolver {
	return &Resolver{
		reviewChallengeID: cfg.ReviewChallengeCampaignID,
		monthlyLimit:      cfg.MonthlyApplicationLimit,
	}
}

// ReviewChallengeID returns the designated review-challenge campaign id
func (r *Resolver) ReviewChallengeID() uuid.UUID {
	return r.reviewChallengeID
}

// ReviewChallengeApproved reports whether the creator's applications satisfy
// the paid-unlock condition: an Approved application to the designated
// review-challenge campaign.
func (r *Resolver) ReviewChallengeApproved(cc *CreatorContext) bool {
	if cc == nil || cc.Applications == nil {
		return false
	}
	return cc.Applications[r.reviewChallengeID] == models.ApplicationStatusApproved
}

// Resolve evaluates the access rules in order; the first matching rule wins.
//
// AlreadyApplied dominates the closing, block and limit rules so a creator
// can always see confirmation of a prior application. The review-challenge
// campaign is exempt from the monthly cap so it stays usable as the paid
// unlock regardless of cap state.
func (r *Resolver) Resolve(cs CampaignSnapshot, cc *CreatorContext) Result {
	// Anonymous users see everything read-only.
	if cc == nil || !cc.Authenticated {
		return Result{Decision: DecisionRequiresSignIn, Visible: true}
	}

	// Paid campaigns are gated until the creator holds both the
	// review-challenge approval and an explicit admin grant.
	if cs.Campaign.CampaignType == models.CampaignTypePaid && !cc.PaidAccess {
		if !r.ReviewChallengeApproved(cc) {
			return Result{Decision: DecisionLockedPendingReviewApproval, Visible: false}
		}
		return Result{Decision: DecisionLockedPendingAdminApproval, Visible: true}
	}

	applied := cc.Applied(cs.Campaign.ID)

	// Effectively deactivated campaigns drop out of the listing unless the
	// creator already applied.
	if cs.EffectiveStatus == models.CampaignStatusDeactive && !applied {
		return Result{Decision: DecisionClosed, Visible: false}
	}

	if applied {
		return Result{Decision: DecisionAlreadyApplied, Visible: true}
	}

	if cc.Blocked(cs.Campaign.ID) {
		return Result{Decision: DecisionBlockedByBrand, Visible: true}
	}

	if cs.EffectiveStatus == models.CampaignStatusClosed {
		return Result{Decision: DecisionClosed, Visible: true}
	}

	if cc.AppliedThisMonth >= r.monthlyLimit && cs.Campaign.ID != r.reviewChallengeID {
		return Result{Decision: DecisionMonthlyLimitReached, Visible: true}
	}

	return Result{Decision: DecisionCanApply, Visible: true}
}
