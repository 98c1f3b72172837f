package domain

import "time"

// InviteBonus is a temporary growth multiplier granted for referring
// friends. Active while unexpired and unconsumed.
type InviteBonus struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Multiplier float64   `json:"multiplier"`
	ExpiresAt  time.Time `json:"expires_at"`
	Reason     string    `json:"reason,omitempty"`
	IsConsumed bool      `json:"is_consumed"`
	CreatedAt  time.Time `json:"created_at"`
}

// Active reports whether the bonus still applies at now.
func (b InviteBonus) Active(now time.Time) bool {
	return !b.IsConsumed && b.ExpiresAt.After(now)
}

// Invite bonus policy constants
const (
	InviteBonusMultiplier   = 2.0
	InviteBonusDurationDays = 3
	InviteBonusMinReferrals = 2
)
