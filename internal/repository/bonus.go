package repository

import (
	"context"
	"time"

	"github.com/happyharvest/garden/internal/domain"
)

// Bonus defines the interface for invite bonus data access
type Bonus interface {
	Grant(ctx context.Context, bonus *domain.InviteBonus) error

	// ActiveMultiplier returns the strongest unexpired, unconsumed
	// multiplier for a user, or 1.0 when none applies.
	ActiveMultiplier(ctx context.Context, userID string, now time.Time) (float64, error)

	// CountReferrals counts users who registered with this referrer.
	CountReferrals(ctx context.Context, referrerID string) (int, error)
}
