package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wavelit/creatorhub/internal/config"
	"github.com/wavelit/creatorhub/internal/models"
)

// Service errors
var (
	ErrProfileNotFound = errors.New("creator profile not found")
	ErrInvalidPlatform = errors.New("unsupported social platform")
)

// Service handles onboarding state persistence. Profile flags change only
// through these confirmed operations; a failed operation leaves the prior
// state untouched.
type Service struct {
	db           *pgxpool.Pool
	requiredURLs int
}

// NewService creates a new onboarding service
func NewService(db *pgxpool.Pool, cfg *config.CampaignConfig) *Service {
	return &Service{
		db:           db,
		requiredURLs: cfg.RequiredContentURLs,
	}
}

// RequiredURLs returns the number of content URLs a creator must submit
func (s *Service) RequiredURLs() int {
	return s.requiredURLs
}

// GetProfile loads a creator's profile
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error) {
	var p models.CreatorProfile
	err := s.db.QueryRow(ctx, `
		SELECT user_id, display_name, urls_submitted, submitted_urls, connect_skipped,
		       trial_used, verified, approved_content_count, created_at, updated_at
		FROM creator_profiles
		WHERE user_id = $1
	`, userID).Scan(
		&p.UserID, &p.DisplayName, &p.URLsSubmitted, &p.SubmittedURLs, &p.ConnectSkipped,
		&p.TrialUsed, &p.Verified, &p.ApprovedContentCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get creator profile: %w", err)
	}
	return &p, nil
}

// SocialStatus reads the confirmed per-platform connection state
func (s *Service) SocialStatus(ctx context.Context, userID uuid.UUID) (models.SocialStatus, error) {
	rows, err := s.db.Query(ctx, `
		SELECT platform FROM social_connections
		WHERE user_id = $1 AND connected = true
	`, userID)
	if err != nil {
		return models.SocialStatus{}, fmt.Errorf("failed to get social connections: %w", err)
	}
	defer rows.Close()

	var status models.SocialStatus
	for rows.Next() {
		var platform models.SocialPlatform
		if err := rows.Scan(&platform); err != nil {
			return models.SocialStatus{}, fmt.Errorf("failed to scan social connection: %w", err)
		}
		switch platform {
		case models.PlatformInstagram:
			status.Instagram = true
		case models.PlatformTikTok:
			status.TikTok = true
		}
	}
	if err := rows.Err(); err != nil {
		return models.SocialStatus{}, fmt.Errorf("failed to iterate social connections: %w", err)
	}

	return status, nil
}

// ResolveStep loads the creator's persisted state and resolves their current
// onboarding step. The requested step, when present, lets a creator resume
// mid-flow after an external OAuth callback.
func (s *Service) ResolveStep(ctx context.Context, userID uuid.UUID, requested Step) (Step, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	social, err := s.SocialStatus(ctx, userID)
	if err != nil {
		return "", err
	}
	return ResolveStep(profile, social, requested, s.requiredURLs), nil
}

// SubmitURLs validates and persists the creator's content URLs. Validation
// failures reject the whole set; the profile advances only when every URL
// passes.
func (s *Service) SubmitURLs(ctx context.Context, userID uuid.UUID, urls []string) error {
	if err := ValidateContentURLs(urls, s.requiredURLs); err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE creator_profiles
		SET urls_submitted = true, submitted_urls = $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, urls)
	if err != nil {
		return fmt.Errorf("failed to save submitted urls: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// ConfirmConnection records a confirmed OAuth connection for one platform
// and returns the re-queried connection state. Callers must rely on the
// returned state, not on any client-side success flag.
func (s *Service) ConfirmConnection(ctx context.Context, userID uuid.UUID, platform models.SocialPlatform, handle string) (models.SocialStatus, error) {
	if !models.ValidPlatform(platform) {
		return models.SocialStatus{}, ErrInvalidPlatform
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO social_connections (user_id, platform, handle, connected, connected_at)
		VALUES ($1, $2, $3, true, NOW())
		ON CONFLICT (user_id, platform)
		DO UPDATE SET handle = $3, connected = true, connected_at = NOW()
	`, userID, platform, handle)
	if err != nil {
		return models.SocialStatus{}, fmt.Errorf("failed to record social connection: %w", err)
	}

	// Confirmation round-trip: report what is actually stored.
	return s.SocialStatus(ctx, userID)
}

// SkipConnect records the creator's explicit choice to bypass the social
// connection step. The flag is persisted so the bypass survives later
// resolutions; see ResolveStep.
func (s *Service) SkipConnect(ctx context.Context, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE creator_profiles
		SET connect_skipped = true, updated_at = NOW()
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to record connect skip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
