package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/happyharvest/garden/internal/domain"
)

// BonusRepository implements the invite bonus repository for PostgreSQL
type BonusRepository struct {
	db *pgxpool.Pool
}

// NewBonusRepository creates a new BonusRepository
func NewBonusRepository(db *pgxpool.Pool) *BonusRepository {
	return &BonusRepository{db: db}
}

// Grant inserts a new invite bonus
func (r *BonusRepository) Grant(ctx context.Context, bonus *domain.InviteBonus) error {
	query := `
		INSERT INTO invite_bonuses (bonus_id, user_id, multiplier, expires_at, reason, is_consumed, created_at)
		VALUES ($1, $2, $3, $4, $5, false, $6)
	`
	_, err := r.db.Exec(ctx, query, bonus.ID, bonus.UserID, bonus.Multiplier,
		bonus.ExpiresAt, bonus.Reason, bonus.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert invite bonus: %w", err)
	}
	return nil
}

// ActiveMultiplier returns the strongest live multiplier for a user, or
// 1.0 when none applies.
func (r *BonusRepository) ActiveMultiplier(ctx context.Context, userID string, now time.Time) (float64, error) {
	query := `
		SELECT COALESCE(MAX(multiplier), 1.0)
		FROM invite_bonuses
		WHERE user_id = $1 AND NOT is_consumed AND expires_at > $2
	`
	var multiplier float64
	if err := r.db.QueryRow(ctx, query, userID, now).Scan(&multiplier); err != nil {
		return 0, fmt.Errorf("failed to get active multiplier: %w", err)
	}
	return multiplier, nil
}

// CountReferrals counts users who registered with this referrer
func (r *BonusRepository) CountReferrals(ctx context.Context, referrerID string) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE referrer_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, referrerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count referrals: %w", err)
	}
	return count, nil
}
