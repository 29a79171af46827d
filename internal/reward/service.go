package reward

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wavelit/creatorhub/internal/monitoring"
)

// Service errors
var (
	ErrCreatorNotFound = errors.New("creator not found")
)

// CreatorReward is one admin-view row: identity plus the computed record
type CreatorReward struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Record Record    `json:"record"`
}

// Service exposes reward records for the admin tool. Records are computed on
// demand from the stored approved counts; nothing here is cached.
type Service struct {
	db   *pgxpool.Pool
	calc *Calculator
}

// NewService creates a new reward service
func NewService(db *pgxpool.Pool, calc *Calculator) *Service {
	return &Service{db: db, calc: calc}
}

// Calculator returns the underlying ladder calculator
func (s *Service) Calculator() *Calculator {
	return s.calc
}

// ListCreatorRewards returns every creator with their computed reward record
func (s *Service) ListCreatorRewards(ctx context.Context) ([]CreatorReward, error) {
	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.email, p.approved_content_count
		FROM users u
		JOIN creator_profiles p ON p.user_id = u.id
		WHERE u.user_type = 'creator'
		ORDER BY u.email
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list creator rewards: %w", err)
	}
	defer rows.Close()

	var rewards []CreatorReward
	for rows.Next() {
		var userID uuid.UUID
		var email string
		var count int
		if err := rows.Scan(&userID, &email, &count); err != nil {
			return nil, fmt.Errorf("failed to scan creator reward: %w", err)
		}

		record, err := s.calc.Calculate(count, email)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate reward for %s: %w", userID, err)
		}
		monitoring.RecordRewardCalculation()

		rewards = append(rewards, CreatorReward{UserID: userID, Email: email, Record: record})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate creator rewards: %w", err)
	}

	return rewards, nil
}

// GetCreatorReward computes the reward record for one creator
func (s *Service) GetCreatorReward(ctx context.Context, userID uuid.UUID) (CreatorReward, error) {
	var email string
	var count int
	err := s.db.QueryRow(ctx, `
		SELECT u.email, p.approved_content_count
		FROM users u
		JOIN creator_profiles p ON p.user_id = u.id
		WHERE u.id = $1 AND u.user_type = 'creator'
	`, userID).Scan(&email, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CreatorReward{}, ErrCreatorNotFound
		}
		return CreatorReward{}, fmt.Errorf("failed to get creator reward: %w", err)
	}

	record, err := s.calc.Calculate(count, email)
	if err != nil {
		return CreatorReward{}, err
	}
	monitoring.RecordRewardCalculation()

	return CreatorReward{UserID: userID, Email: email, Record: record}, nil
}

// UpdateApprovedCount sets a creator's approved content count and writes the
// audit record in the same transaction. The count is validated before
// anything is touched.
func (s *Service) UpdateApprovedCount(ctx context.Context, adminID, userID uuid.UUID, newCount int, note string) (CreatorReward, error) {
	if newCount < 0 {
		return CreatorReward{}, ErrInvalidCount
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return CreatorReward{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var oldCount int
	err = tx.QueryRow(ctx, `
		SELECT approved_content_count FROM creator_profiles WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&oldCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CreatorReward{}, ErrCreatorNotFound
		}
		return CreatorReward{}, fmt.Errorf("failed to read approved count: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE creator_profiles
		SET approved_content_count = $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, newCount)
	if err != nil {
		return CreatorReward{}, fmt.Errorf("failed to update approved count: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reward_adjustments (id, user_id, admin_id, old_count, new_count, note)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), userID, adminID, oldCount, newCount, note)
	if err != nil {
		return CreatorReward{}, fmt.Errorf("failed to record reward adjustment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return CreatorReward{}, fmt.Errorf("failed to commit reward adjustment: %w", err)
	}

	monitoring.RecordRewardAdjustment()

	return s.GetCreatorReward(ctx, userID)
}
