// Package economy is the single gateway for balance changes. Every coin,
// star and XP adjustment in the game flows through the Ledger so debit
// guards and level-up detection live in one place.
package economy

import (
	"context"
	"fmt"

	"github.com/happyharvest/garden/internal/concurrency"
	"github.com/happyharvest/garden/internal/domain"
	"github.com/happyharvest/garden/internal/event"
	"github.com/happyharvest/garden/internal/logger"
	"github.com/happyharvest/garden/internal/repository"
)

// Delta is one balance adjustment. Negative values are debits.
type Delta struct {
	Coins  int
	Stars  int
	XP     int
	Reason string // e.g. "plot_harvest", "animal_purchase"
}

// ApplyResult carries the post-adjustment balances and level transition.
type ApplyResult struct {
	User      *domain.User `json:"user"`
	LeveledUp bool         `json:"leveled_up"`
	OldLevel  int          `json:"old_level"`
	NewLevel  int          `json:"new_level"`
}

// Ledger defines the interface for balance operations
type Ledger interface {
	// Apply atomically applies a delta to a user. Debits are validated
	// before any credit lands; an insufficient balance fails the whole
	// delta with domain.ErrInsufficientFunds.
	Apply(ctx context.Context, userID string, delta Delta) (*ApplyResult, error)

	// ApplyClamped deducts coins flooring the balance at zero. Used for
	// theft damage where the thief pays what they can.
	ApplyClamped(ctx context.Context, userID string, coins int, reason string) (*domain.User, error)
}

type ledger struct {
	users repository.User
	bus   event.Bus
	locks *concurrency.LockManager
}

// NewLedger creates a new Ledger
func NewLedger(users repository.User, bus event.Bus, locks *concurrency.LockManager) Ledger {
	return &ledger{users: users, bus: bus, locks: locks}
}

func (l *ledger) Apply(ctx context.Context, userID string, delta Delta) (*ApplyResult, error) {
	log := logger.FromContext(ctx)

	lock := l.locks.GetLock(concurrency.UserKey(userID))
	lock.Lock()
	defer lock.Unlock()

	before, err := l.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	updated, err := l.users.ApplyDelta(ctx, userID, delta.Coins, delta.Stars, delta.XP)
	if err != nil {
		return nil, fmt.Errorf("failed to apply balance delta: %w", err)
	}

	oldLevel, _ := before.Level()
	newLevel, _ := updated.Level()
	result := &ApplyResult{
		User:      updated,
		LeveledUp: newLevel > oldLevel,
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
	}

	log.Info("Balance delta applied",
		"user_id", userID,
		"coins", delta.Coins,
		"stars", delta.Stars,
		"xp", delta.XP,
		"reason", delta.Reason)

	if result.LeveledUp && l.bus != nil {
		err := l.bus.Publish(ctx, event.Event{
			Version: event.EventSchemaVersion,
			Type:    event.UserLeveledUp,
			Payload: event.UserLeveledUpPayloadV1{
				UserID:   userID,
				OldLevel: oldLevel,
				NewLevel: newLevel,
				XP:       updated.XP,
			},
		})
		if err != nil {
			log.Warn("Failed to publish level-up event", "error", err)
		}
	}

	return result, nil
}

func (l *ledger) ApplyClamped(ctx context.Context, userID string, coins int, reason string) (*domain.User, error) {
	log := logger.FromContext(ctx)

	lock := l.locks.GetLock(concurrency.UserKey(userID))
	lock.Lock()
	defer lock.Unlock()

	updated, err := l.users.AdjustCoinsClamped(ctx, userID, coins)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust coins: %w", err)
	}

	log.Info("Clamped coin adjustment applied",
		"user_id", userID,
		"coins", coins,
		"reason", reason)

	return updated, nil
}
