package eligibility

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wavelit/creatorhub/internal/config"
	"github.com/wavelit/creatorhub/internal/models"
	"github.com/wavelit/creatorhub/internal/monitoring"
	"github.com/wavelit/creatorhub/internal/snapshot"
)

// Service errors
var (
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrAlreadyApplied      = errors.New("already applied to this campaign")
	ErrCampaignClosed      = errors.New("campaign is closed")
	ErrBlockedByBrand      = errors.New("creator is blocked for this campaign")
	ErrMonthlyLimitReached = errors.New("monthly application limit reached")
	ErrPaidAccessLocked    = errors.New("paid campaigns are locked")
	ErrUnlockNotMet        = errors.New("review challenge approval required")
	ErrSignInRequired      = errors.New("sign in required")
)

// CampaignView is a campaign annotated with the creator's resolved decision
type CampaignView struct {
	Campaign models.Campaign `json:"campaign"`
	Decision Decision        `json:"decision"`
}

// PaidAccessStatus is the result of a paid-access check
type PaidAccessStatus struct {
	Access bool   `json:"access"`
	Reason string `json:"reason"`
}

// Paid access reasons
const (
	ReasonGranted              = "paid_access_granted"
	ReasonPendingAdminApproval = "pending_admin_approval"
	ReasonReviewNotApproved    = "review_challenge_not_approved"
)

// Service loads creator context snapshots and evaluates campaign access.
// All decisions run over an already-fetched snapshot; mutations invalidate
// the cached snapshot so the next evaluation re-fetches.
type Service struct {
	db       *pgxpool.Pool
	cache    *snapshot.Cache
	resolver *Resolver
}

// NewService creates a new eligibility service
func NewService(db *pgxpool.Pool, cache *snapshot.Cache, cfg *config.CampaignConfig) *Service {
	return &Service{
		db:       db,
		cache:    cache,
		resolver: NewResolver(cfg),
	}
}

// Resolver returns the pure resolver, e.g. for direct evaluation in tests
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// AnonymousContext returns the context used for unauthenticated requests
func AnonymousContext() *CreatorContext {
	return &CreatorContext{}
}

// LoadContext builds the creator context snapshot: applications, the rolling
// monthly counter, brand blocks and the paid-access grant. Snapshots are
// cached briefly; cache failures fall through to the database.
func (s *Service) LoadContext(ctx context.Context, userID uuid.UUID) (*CreatorContext, error) {
	key := snapshot.CreatorContextKey(userID)
	if s.cache != nil {
		var cached CreatorContext
		if s.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	cc := &CreatorContext{
		Authenticated:    true,
		UserID:           userID,
		Applications:     make(map[uuid.UUID]models.ApplicationStatus),
		BlockedCampaigns: make(map[uuid.UUID]bool),
	}

	rows, err := s.db.Query(ctx, `
		SELECT campaign_id, status FROM applications WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var campaignID uuid.UUID
		var status models.ApplicationStatus
		if err := rows.Scan(&campaignID, &status); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		cc.Applications[campaignID] = status
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	// Rolling monthly counter over counted applications only; the
	// review-challenge campaign is stored uncounted.
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM applications
		WHERE user_id = $1 AND counted = true AND created_at >= NOW() - INTERVAL '1 month'
	`, userID).Scan(&cc.AppliedThisMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to count monthly applications: %w", err)
	}

	blockRows, err := s.db.Query(ctx, `
		SELECT campaign_id FROM campaign_blocks WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign blocks: %w", err)
	}
	defer blockRows.Close()
	for blockRows.Next() {
		var campaignID uuid.UUID
		if err := blockRows.Scan(&campaignID); err != nil {
			return nil, fmt.Errorf("failed to scan campaign block: %w", err)
		}
		cc.BlockedCampaigns[campaignID] = true
	}
	if err := blockRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaign blocks: %w", err)
	}

	err = s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM paid_access_grants WHERE user_id = $1)
	`, userID).Scan(&cc.PaidAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to check paid access grant: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, cc)
	}

	return cc, nil
}

// invalidateContext drops the creator's cached snapshot after a mutation
func (s *Service) invalidateContext(ctx context.Context, userID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, snapshot.CreatorContextKey(userID))
	}
}

// fetchCampaignPage loads one page of campaigns, newest first. One extra
// row is fetched to detect whether another page exists.
func (s *Service) fetchCampaignPage(ctx context.Context, page, perPage int) ([]models.Campaign, bool, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	rows, err := s.db.Query(ctx, `
		SELECT id, brand_id, title, brand_name, campaign_type, campaign_status,
		       recruitment_end_date, created_at, updated_at
		FROM campaigns
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, perPage+1, offset)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(
			&c.ID, &c.BrandID, &c.Title, &c.BrandName, &c.CampaignType, &c.CampaignStatus,
			&c.RecruitmentEndDate, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, false, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("failed to iterate campaigns: %w", err)
	}

	hasMore := len(campaigns) > perPage
	if hasMore {
		campaigns = campaigns[:perPage]
	}

	return campaigns, hasMore, nil
}

// ListCampaignsRaw returns a page of campaigns without access resolution,
// for the admin table
func (s *Service) ListCampaignsRaw(ctx context.Context, page, perPage int) ([]models.Campaign, bool, error) {
	return s.fetchCampaignPage(ctx, page, perPage)
}

// ListCampaigns returns the page of campaigns visible to the creator, each
// annotated with its resolved decision. Effective statuses are derived once
// against a single reference time for the whole page.
func (s *Service) ListCampaigns(ctx context.Context, cc *CreatorContext, page, perPage int) ([]CampaignView, bool, error) {
	campaigns, hasMore, err := s.fetchCampaignPage(ctx, page, perPage)
	if err != nil {
		return nil, false, err
	}

	now := time.Now()
	views := make([]CampaignView, 0, len(campaigns))
	for _, c := range campaigns {
		result := s.resolver.Resolve(NewCampaignSnapshot(c, now), cc)
		monitoring.RecordEligibilityDecision(string(result.Decision))
		if !result.Visible {
			continue
		}
		views = append(views, CampaignView{Campaign: c, Decision: result.Decision})
	}

	return views, hasMore, nil
}

// GetCampaign loads a single campaign
func (s *Service) GetCampaign(ctx context.Context, campaignID uuid.UUID) (models.Campaign, error) {
	var c models.Campaign
	err := s.db.QueryRow(ctx, `
		SELECT id, brand_id, title, brand_name, campaign_type, campaign_status,
		       recruitment_end_date, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`, campaignID).Scan(
		&c.ID, &c.BrandID, &c.Title, &c.BrandName, &c.CampaignType, &c.CampaignStatus,
		&c.RecruitmentEndDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Campaign{}, ErrCampaignNotFound
		}
		return models.Campaign{}, fmt.Errorf("failed to get campaign: %w", err)
	}
	return c, nil
}

// Resolve evaluates a single campaign for the given context
func (s *Service) Resolve(ctx context.Context, campaignID uuid.UUID, cc *CreatorContext) (Result, error) {
	c, err := s.GetCampaign(ctx, campaignID)
	if err != nil {
		return Result{}, err
	}
	result := s.resolver.Resolve(NewCampaignSnapshot(c, time.Now()), cc)
	monitoring.RecordEligibilityDecision(string(result.Decision))
	return result, nil
}

// Apply re-resolves the campaign server-side and, when the decision allows,
// records the application. Applications to the review-challenge campaign are
// stored uncounted so they never consume the monthly cap.
func (s *Service) Apply(ctx context.Context, cc *CreatorContext, campaignID uuid.UUID) error {
	result, err := s.Resolve(ctx, campaignID, cc)
	if err != nil {
		return err
	}

	if err := decisionError(result.Decision); err != nil {
		return err
	}

	counted := campaignID != s.resolver.ReviewChallengeID()
	tag, err := s.db.Exec(ctx, `
		INSERT INTO applications (id, campaign_id, user_id, status, counted)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (campaign_id, user_id) DO NOTHING
	`, uuid.New(), campaignID, cc.UserID, models.ApplicationStatusApplied, counted)
	if err != nil {
		return fmt.Errorf("failed to record application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Lost a race with a concurrent apply from the same creator.
		return ErrAlreadyApplied
	}

	s.invalidateContext(ctx, cc.UserID)
	monitoring.RecordApplication(string(models.ApplicationStatusApplied))
	return nil
}

// decisionError maps a non-applicable decision to its sentinel error
func decisionError(d Decision) error {
	switch d {
	case DecisionCanApply:
		return nil
	case DecisionAlreadyApplied:
		return ErrAlreadyApplied
	case DecisionClosed:
		return ErrCampaignClosed
	case DecisionBlockedByBrand:
		return ErrBlockedByBrand
	case DecisionMonthlyLimitReached:
		return ErrMonthlyLimitReached
	case DecisionRequiresSignIn:
		return ErrSignInRequired
	case DecisionLockedPendingReviewApproval, DecisionLockedPendingAdminApproval:
		return ErrPaidAccessLocked
	default:
		return fmt.Errorf("unexpected decision %q", d)
	}
}

// AppliedCampaign is one row of a creator's application history
type AppliedCampaign struct {
	CampaignID uuid.UUID                `json:"campaign_id"`
	Title      string                   `json:"title"`
	Status     models.ApplicationStatus `json:"status"`
	AppliedAt  time.Time                `json:"applied_at"`
}

// Applications returns the creator's application history plus the rolling
// monthly counter
func (s *Service) Applications(ctx context.Context, userID uuid.UUID) ([]AppliedCampaign, int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT a.campaign_id, c.title, a.status, a.created_at
		FROM applications a
		JOIN campaigns c ON a.campaign_id = c.id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC
	`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var applied []AppliedCampaign
	for rows.Next() {
		var a AppliedCampaign
		if err := rows.Scan(&a.CampaignID, &a.Title, &a.Status, &a.AppliedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan application: %w", err)
		}
		applied = append(applied, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate applications: %w", err)
	}

	var appliedThisMonth int
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM applications
		WHERE user_id = $1 AND counted = true AND created_at >= NOW() - INTERVAL '1 month'
	`, userID).Scan(&appliedThisMonth)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count monthly applications: %w", err)
	}

	return applied, appliedThisMonth, nil
}

// PaidAccess reports whether the creator may see paid campaigns and why not
// otherwise
func (s *Service) PaidAccess(cc *CreatorContext) PaidAccessStatus {
	switch {
	case !s.resolver.ReviewChallengeApproved(cc):
		return PaidAccessStatus{Access: false, Reason: ReasonReviewNotApproved}
	case !cc.PaidAccess:
		return PaidAccessStatus{Access: false, Reason: ReasonPendingAdminApproval}
	default:
		return PaidAccessStatus{Access: true, Reason: ReasonGranted}
	}
}

// RequestPaidAccess records a creator's request for admin review. The
// review-challenge approval must already be in place.
func (s *Service) RequestPaidAccess(ctx context.Context, cc *CreatorContext) error {
	if !s.resolver.ReviewChallengeApproved(cc) {
		return ErrUnlockNotMet
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO paid_access_requests (user_id, status)
		VALUES ($1, 'pending')
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
	`, cc.UserID)
	if err != nil {
		return fmt.Errorf("failed to record paid access request: %w", err)
	}

	s.invalidateContext(ctx, cc.UserID)
	return nil
}

// GrantPaidAccess records an admin's grant of paid-campaign access
func (s *Service) GrantPaidAccess(ctx context.Context, adminID, userID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO paid_access_grants (user_id, granted_by)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, adminID)
	if err != nil {
		return fmt.Errorf("failed to record paid access grant: %w", err)
	}

	s.invalidateContext(ctx, userID)
	return nil
}
