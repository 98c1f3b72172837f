package cooldown

import (
	"time"

	"github.com/happyharvest/garden/internal/domain"
)

// Action names tracked by the cooldown service
const (
	ActionTheft = "theft"
)

// DefaultCooldownDuration is the fallback when no specific duration is configured
const DefaultCooldownDuration = 5 * time.Minute

// Config holds cooldown service configuration
type Config struct {
	// DevMode bypasses all cooldowns when true
	DevMode bool

	// Cooldowns maps action names to their durations.
	// If not specified, defaults from the domain package are used.
	Cooldowns map[string]time.Duration
}

// GetCooldownDuration returns the cooldown duration for an action
func (c *Config) GetCooldownDuration(action string) time.Duration {
	if c.Cooldowns != nil {
		if duration, ok := c.Cooldowns[action]; ok {
			return duration
		}
	}

	switch action {
	case ActionTheft:
		return domain.TheftCooldownHours * time.Hour
	default:
		return DefaultCooldownDuration
	}
}
