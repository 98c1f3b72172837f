package repository

import (
	"context"

	"github.com/happyharvest/garden/internal/domain"
)

// User defines the interface for user data access
type User interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByTelegramID(ctx context.Context, telegramID string) (*domain.User, error)

	// ApplyDelta atomically adjusts coins, stars and XP for a user and
	// returns the updated row. The update must fail with
	// domain.ErrInsufficientFunds when a debit would drive coins or stars
	// below zero.
	ApplyDelta(ctx context.Context, id string, coins, stars, xp int) (*domain.User, error)

	// AdjustCoinsClamped adds coins to a user, flooring the balance at
	// zero instead of failing. Used for theft damage where the thief pays
	// what they can.
	AdjustCoinsClamped(ctx context.Context, id string, coins int) (*domain.User, error)
}
