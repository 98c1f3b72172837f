// Package cooldown throttles repeatable actions. Theft is the main
// client: one attempt per thief per garden every few hours.
package cooldown

import (
	"context"
	"fmt"
	"time"
)

// Service manages scoped action cooldowns for users. Scope narrows the
// cooldown to a target, e.g. the garden a theft hit; an empty scope
// makes the cooldown global for the user.
type Service interface {
	// CheckCooldown checks if a user's scoped action is on cooldown
	// Returns: (onCooldown bool, remaining time.Duration, error)
	CheckCooldown(ctx context.Context, userID, action, scope string) (bool, time.Duration, error)

	// EnforceCooldown atomically checks the cooldown and executes fn if
	// allowed. The cooldown is only stamped when fn succeeds.
	EnforceCooldown(ctx context.Context, userID, action, scope string, fn func() error) error

	// ResetCooldown manually resets a cooldown (admin/testing)
	ResetCooldown(ctx context.Context, userID, action, scope string) error

	// GetLastUsed returns when the action was last performed (for UI display)
	GetLastUsed(ctx context.Context, userID, action, scope string) (*time.Time, error)
}

// ErrOnCooldown is returned when an action is still on cooldown
type ErrOnCooldown struct {
	Action    string
	Remaining time.Duration
}

func (e ErrOnCooldown) Error() string {
	minutes := int(e.Remaining.Minutes())
	seconds := int(e.Remaining.Seconds()) % 60

	if minutes > 0 {
		return fmt.Sprintf("action '%s' on cooldown: %dm %ds remaining", e.Action, minutes, seconds)
	}
	return fmt.Sprintf("action '%s' on cooldown: %ds remaining", e.Action, seconds)
}

// Is allows errors.Is() to work with ErrOnCooldown
func (e ErrOnCooldown) Is(target error) bool {
	_, ok := target.(ErrOnCooldown)
	return ok
}
