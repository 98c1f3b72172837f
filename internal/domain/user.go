package domain

import (
	"math"
	"time"
)

// User represents a registered player. Coins, stars and xp are the
// ledger targets of every economic effect in the game.
type User struct {
	ID         string    `json:"id"`
	TelegramID string    `json:"telegram_id,omitempty"`
	Username   string    `json:"username"`
	ReferrerID string    `json:"referrer_id,omitempty"`
	Coins      int       `json:"coins"`
	Stars      int       `json:"stars"`
	XP         int       `json:"xp"`
	CreatedAt  time.Time `json:"created_at"`
}

// Level computation constants: level n costs 100 * n^1.5 XP on top of
// the previous levels.
const (
	BaseLevelXP   = 100
	LevelExponent = 1.5
)

// Level returns the user's current level and the XP still needed for the
// next one.
func (u User) Level() (level int, nextLevelXP int) {
	return LevelForXP(u.XP)
}

// LevelForXP derives a level from a cumulative XP total.
func LevelForXP(xp int) (level int, nextLevelXP int) {
	level = 1
	required := BaseLevelXP
	totalForNext := required

	for xp >= totalForNext {
		level++
		required = int(math.Floor(BaseLevelXP * math.Pow(float64(level), LevelExponent)))
		totalForNext += required
	}

	return level, totalForNext - xp
}
