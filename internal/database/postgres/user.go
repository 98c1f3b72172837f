package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/happyharvest/garden/internal/domain"
)

// UserRepository implements the user repository for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `user_id, telegram_id, username, COALESCE(referrer_id, ''), coins, stars, xp, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.ReferrerID,
		&u.Coins, &u.Stars, &u.XP, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, telegram_id, username, referrer_id, coins, stars, xp, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.TelegramID, user.Username,
		user.ReferrerID, user.Coins, user.Stars, user.XP, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by primary key
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByTelegramID fetches a user by telegram id
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by telegram id: %w", err)
	}
	return u, nil
}

// ApplyDelta atomically adjusts balances. The guard in the WHERE clause
// rejects any delta that would drive coins or stars negative, so the
// check and the update are one statement.
func (r *UserRepository) ApplyDelta(ctx context.Context, id string, coins, stars, xp int) (*domain.User, error) {
	query := `
		UPDATE users
		SET coins = coins + $2, stars = stars + $3, xp = xp + $4
		WHERE user_id = $1 AND coins + $2 >= 0 AND stars + $3 >= 0
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query, id, coins, stars, xp))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to apply balance delta: %w", err)
	}

	// No row updated: either the user is missing or the guard fired
	var exists bool
	if checkErr := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, id).Scan(&exists); checkErr != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", checkErr)
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	return nil, domain.ErrInsufficientFunds
}

// AdjustCoinsClamped adds coins, flooring the balance at zero
func (r *UserRepository) AdjustCoinsClamped(ctx context.Context, id string, coins int) (*domain.User, error) {
	query := `
		UPDATE users
		SET coins = GREATEST(0, coins + $2)
		WHERE user_id = $1
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query, id, coins))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to adjust coins: %w", err)
	}
	return u, nil
}
