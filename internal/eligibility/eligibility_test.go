package eligibility

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wavelit/creatorhub/internal/config"
	"github.com/wavelit/creatorhub/internal/models"
	"pgregory.net/rapid"
)

var (
	testNow         = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	reviewChallenge = uuid.MustParse("11111111-1111-1111-1111-111111111111")
)

func newTestResolver() *Resolver {
	return NewResolver(&config.CampaignConfig{
		ReviewChallengeCampaignID: reviewChallenge,
		MonthlyApplicationLimit:   5,
	})
}

func testCampaign(ctype models.CampaignType, status string, end time.Time) models.Campaign {
	return models.Campaign{
		ID:                 uuid.New(),
		BrandID:            uuid.New(),
		Title:              "Summer Collection",
		BrandName:          "Acme",
		CampaignType:       ctype,
		CampaignStatus:     status,
		RecruitmentEndDate: end,
	}
}

func signedIn() *CreatorContext {
	return &CreatorContext{
		Authenticated:    true,
		UserID:           uuid.New(),
		Applications:     make(map[uuid.UUID]models.ApplicationStatus),
		BlockedCampaigns: make(map[uuid.UUID]bool),
	}
}

func TestResolve_Anonymous(t *testing.T) {
	r := newTestResolver()
	c := testCampaign(models.CampaignTypeGifted, models.CampaignStatusRecruiting, testNow.Add(24*time.Hour))

	for _, cc := range []*CreatorContext{nil, {Authenticated: false}} {
		result := r.Resolve(NewCampaignSnapshot(c, testNow), cc)
		if result.Decision != DecisionRequiresSignIn {
			t.Errorf("Expected requires_sign_in for anonymous, got %s", result.Decision)
		}
		if !result.Visible {
			t.Error("Anonymous users must still see the campaign")
		}
	}
}

func TestResolve_AnonymousSeesExpiredCampaign(t *testing.T) {
	r := newTestResolver()
	c := testCampaign(models.CampaignTypeGifted, models.CampaignStatusRecruiting, testNow.Add(-24*time.Hour))

	result := r.Resolve(NewCampaignSnapshot(c, testNow), nil)
	if result.Decision != DecisionRequiresSignIn || !result.Visible {
		t.Errorf("Anonymous view is read-only and unfiltered, got %+v", result)
	}
}

func TestResolve_ExpiredCampaignHiddenFromNonApplicant(t *testing.T) {
	r := newTestResolver()
	// Stored status still says Recruiting but the window has passed.
	c := testCampaign(models.CampaignTypeGifted, models.CampaignStatusRecruiting, testNow.Add(-time.Hour))

	result := r.Resolve(NewCampaignSnapshot(c, testNow), signedIn())
	if result.Decision != DecisionClosed {
		t.Errorf("Expected closed for expired campaign, got %s", result.Decision)
	}
	if result.Visible {
		t.Error("Expired campaign must be hidden from a creator who never applied")
	}
}

func TestResolve_ExpiredCampaignVisibleToApplicant(t *testing.T) {
	r := newTestResolver()
	c := testCampaign(models.CampaignTypeGifted, models.CampaignStatusRecruiting, testNow.Add(-time.Hour))

	cc := signedIn()
	cc.Applications[c.ID] = models.ApplicationStatusApplied

	result := r.Resolve(NewCampaignSnapshot(c, testNow), cc)
	if result.Decision != DecisionAlreadyApplied {
		t.Errorf("Applicant must keep seeing their application, got %s", result.Decision)
	}
	if !result.Visible {
		t.Error("Expired campaign must stay visible to its applicant")
	}
}

func TestResolve_AlreadyAppliedDominates(t *testing.T) {
	r := newTestResolver()
	c := testCampaign(models.CampaignTypeGifted, models.CampaignStatusClosed, testNow.Add(-time.Hour))

	cc := signedIn()
	cc.Applications[c.ID] = models.ApplicationStatusApplied
	cc.BlockedCampaigns[c.ID] = true
	cc.AppliedThisMonth = 99

	result := r.Resolve(NewCampaignSnapshot(c, testNow), cc)
	if result.Decision != DecisionAlreadyApplied {
		t.Errorf("already_applied must win over closed, blocked and the cap, got %s", result.Decision)
	}
}

func TestResolve_BlockedByBrand(t *testing.T) {
	r := newTestResolver()
	c := testCampaign(models.CampaignTypeGifted, models.CampaignStatusRecruiting, testNow.Add(24*time.Hour))

	cc := signedIn()
	cc.BlockedCampaigns[c.ID] = true

	result := r.Resolve(NewCampaignSnapshot(c, testNow), cc)
	if result.Decision != DecisionBlockedByBrand {
		t.Errorf("Expected blocked_by_brand, got %s", result.Decision)
	}
	if !result.Visible {
		t.Error("Blocked campaigns stay visible; only applying is denied")
	}
}

func TestResolve_MonthlyLimit(t *testing.T) {
	r := newTestResolver()
	c := testCampaign(models.CampaignTypeGifted, models.CampaignStatusRecruiting, testNow.Add(24*time.Hour))

	cc := signedIn()
	cc.AppliedThisMonth = 5

	result := r.Resolve(NewCampaignSnapshot(c, testNow), cc)
	if result.Decision != DecisionMonthlyLimitReached {
		t.Errorf("Expected monthly_limit_reached at the cap, got %s", result.Decision)
	}

	cc.AppliedThisMonth = 4
	result = r.Resolve(NewCampaignSnapshot(c, testNow), cc)
	if result.Decision != DecisionCanApply {
		t.Errorf("Expected can_apply below the cap, got %s", result.Decision)
	}
}

func TestResolve_ReviewChallengeExemptFromCap(t *testing.T) {
	r := newTestResolver()
	c := testCampaign(models.CampaignTypeGifted, models.CampaignStatusRecruiting, testNow.Add(24*time.Hour))
	c.ID = reviewChallenge

	cc := signedIn()
	cc.AppliedThisMonth = 5

	result := r.Resolve(NewCampaignSnapshot(c, testNow), cc)
	if result.Decision != DecisionCanApply {
		t.Errorf("Review challenge must ignore the monthly cap, got %s", result.Decision)
	}
}

func TestResolve_PaidCampaignGating(t *testing.T) {
	r := newTestResolver()
	c := testCampaign(models.CampaignTypePaid, models.CampaignStatusRecruiting, testNow.Add(24*time.Hour))

	// No review approval: locked and hidden.
	cc := signedIn()
	result := r.Resolve(NewCampaignSnapshot(c, testNow), cc)
	if result.Decision != DecisionLockedPendingReviewApproval {
		t.Errorf("Expected locked_pending_review_approval, got %s", result.Decision)
	}
	if result.Visible {
		t.Error("Paid campaign must be hidden before the review challenge is approved")
	}

	// Review approved but no admin grant: visible, still locked.
	cc.Applications[reviewChallenge] = models.ApplicationStatusApproved
	result = r.Resolve(NewCampaignSnapshot(c, testNow), cc)
	if result.Decision != DecisionLockedPendingAdminApproval {
		t.Errorf("Expected locked_pending_admin_approval, got %s", result.Decision)
	}
	if !result.Visible {
		t.Error("Paid campaign becomes visible once the review challenge is approved")
	}

	// Full paid access: the normal rules apply.
	cc.PaidAccess = true
	result = r.Resolve(NewCampaignSnapshot(c, testNow), cc)
	if result.Decision != DecisionCanApply {
		t.Errorf("Expected can_apply with paid access, got %s", result.Decision)
	}
}

func TestResolve_ReviewChallengeAppliedIsNotApproved(t *testing.T) {
	r := newTestResolver()
	c := testCampaign(models.CampaignTypePaid, models.CampaignStatusRecruiting, testNow.Add(24*time.Hour))

	cc := signedIn()
	cc.Applications[reviewChallenge] = models.ApplicationStatusApplied

	result := r.Resolve(NewCampaignSnapshot(c, testNow), cc)
	if result.Decision != DecisionLockedPendingReviewApproval {
		t.Errorf("A pending review-challenge application must not unlock paid campaigns, got %s", result.Decision)
	}
}

func TestResolve_ClosedStatus(t *testing.T) {
	r := newTestResolver()
	c := testCampaign(models.CampaignTypeGifted, models.CampaignStatusClosed, testNow.Add(24*time.Hour))

	result := r.Resolve(NewCampaignSnapshot(c, testNow), signedIn())
	if result.Decision != DecisionClosed {
		t.Errorf("Expected closed, got %s", result.Decision)
	}
	if !result.Visible {
		t.Error("Closed campaigns stay listed; only deactivated ones are hidden")
	}
}

// TestProperty_AlreadyAppliedAlwaysWins randomizes every other piece of
// creator and campaign state and checks that a prior application still
// resolves to already_applied.
func TestProperty_AlreadyAppliedAlwaysWins(t *testing.T) {
	r := newTestResolver()

	rapid.Check(t, func(rt *rapid.T) {
		status := rapid.SampledFrom([]string{
			models.CampaignStatusRecruiting,
			models.CampaignStatusClosed,
			models.CampaignStatusDeactive,
		}).Draw(rt, "status")
		endOffset := rapid.IntRange(-72, 72).Draw(rt, "endOffsetHours")

		c := testCampaign(models.CampaignTypeGifted, status, testNow.Add(time.Duration(endOffset)*time.Hour))

		cc := signedIn()
		cc.Applications[c.ID] = rapid.SampledFrom([]models.ApplicationStatus{
			models.ApplicationStatusApplied,
			models.ApplicationStatusApproved,
			models.ApplicationStatusRejected,
		}).Draw(rt, "appStatus")
		cc.AppliedThisMonth = rapid.IntRange(0, 20).Draw(rt, "appliedThisMonth")
		if rapid.Bool().Draw(rt, "blocked") {
			cc.BlockedCampaigns[c.ID] = true
		}

		result := r.Resolve(NewCampaignSnapshot(c, testNow), cc)
		if result.Decision != DecisionAlreadyApplied {
			t.Fatalf("PROPERTY VIOLATION: prior application resolved to %s (status=%s, end=%+dh)",
				result.Decision, status, endOffset)
		}
		if !result.Visible {
			t.Fatal("PROPERTY VIOLATION: applied campaign became invisible")
		}
	})
}

// TestProperty_AnonymousNeverHidden checks that no campaign state can hide a
// campaign from an anonymous viewer.
func TestProperty_AnonymousNeverHidden(t *testing.T) {
	r := newTestResolver()

	rapid.Check(t, func(rt *rapid.T) {
		status := rapid.SampledFrom([]string{
			models.CampaignStatusRecruiting,
			models.CampaignStatusClosed,
			models.CampaignStatusDeactive,
		}).Draw(rt, "status")
		ctype := rapid.SampledFrom([]models.CampaignType{
			models.CampaignTypeGifted,
			models.CampaignTypePaid,
		}).Draw(rt, "type")
		endOffset := rapid.IntRange(-72, 72).Draw(rt, "endOffsetHours")

		c := testCampaign(ctype, status, testNow.Add(time.Duration(endOffset)*time.Hour))
		result := r.Resolve(NewCampaignSnapshot(c, testNow), nil)

		if result.Decision != DecisionRequiresSignIn || !result.Visible {
			t.Fatalf("PROPERTY VIOLATION: anonymous resolution returned %+v", result)
		}
	})
}

func TestNewCampaignSnapshot_EffectiveStatus(t *testing.T) {
	cases := []struct {
		name     string
		status   string
		end      time.Time
		expected string
	}{
		{"recruiting within window", models.CampaignStatusRecruiting, testNow.Add(time.Hour), models.CampaignStatusRecruiting},
		{"recruiting past window", models.CampaignStatusRecruiting, testNow.Add(-time.Hour), models.CampaignStatusDeactive},
		{"closed within window", models.CampaignStatusClosed, testNow.Add(time.Hour), models.CampaignStatusClosed},
		{"deactive within window", models.CampaignStatusDeactive, testNow.Add(time.Hour), models.CampaignStatusDeactive},
		{"end date exactly now", models.CampaignStatusRecruiting, testNow, models.CampaignStatusRecruiting},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := testCampaign(models.CampaignTypeGifted, tc.status, tc.end)
			cs := NewCampaignSnapshot(c, testNow)
			if cs.EffectiveStatus != tc.expected {
				t.Errorf("Expected effective status %s, got %s", tc.expected, cs.EffectiveStatus)
			}
		})
	}
}
