package cooldown

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/happyharvest/garden/internal/logger"
)

// postgresBackend implements Service using PostgreSQL
type postgresBackend struct {
	db     *pgxpool.Pool
	config Config
}

// NewPostgresService creates a new cooldown service with Postgres backend
func NewPostgresService(db *pgxpool.Pool, config Config) Service {
	return &postgresBackend{
		db:     db,
		config: config,
	}
}

// CheckCooldown checks if a user's scoped action is on cooldown (unlocked read)
func (b *postgresBackend) CheckCooldown(ctx context.Context, userID, action, scope string) (bool, time.Duration, error) {
	if b.config.DevMode {
		return false, 0, nil
	}

	lastUsed, err := b.getLastUsed(ctx, userID, action, scope)
	if err != nil {
		return false, 0, fmt.Errorf(ErrMsgCheckCooldownFailed, err)
	}

	if lastUsed == nil {
		// Never used - not on cooldown
		return false, 0, nil
	}

	onCooldown, remaining := checkCooldownInternal(lastUsed, b.config.GetCooldownDuration(action))
	return onCooldown, remaining, nil
}

// EnforceCooldown atomically checks cooldown and executes fn if allowed.
// Uses check-then-lock: a cheap unlocked read rejects most throttled
// requests before the advisory-lock transaction runs.
func (b *postgresBackend) EnforceCooldown(ctx context.Context, userID, action, scope string, fn func() error) error {
	log := logger.FromContext(ctx)

	onCooldown, remaining, err := b.CheckCooldown(ctx, userID, action, scope)
	if err != nil {
		return err
	}
	if onCooldown {
		return ErrOnCooldown{Action: action, Remaining: remaining}
	}

	if b.config.DevMode {
		log.Debug(LogMsgDevModeBypass, "action", action, "userID", userID)
		if err := fn(); err != nil {
			return err
		}
		// Still update cooldown for testing purposes
		return b.updateCooldown(ctx, userID, action, scope, time.Now())
	}

	// Advisory locks work even when no row exists (unlike SELECT FOR UPDATE)
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	lockKey := hashUserActionScope(userID, action, scope)
	_, err = tx.Exec(ctx, SQLAdvisoryLock, lockKey)
	if err != nil {
		return fmt.Errorf(ErrMsgAcquireLockFailed, err)
	}

	// Recheck with the exclusive lock held
	lastUsed, err := b.getLastUsedTx(ctx, tx, userID, action, scope)
	if err != nil {
		return fmt.Errorf(ErrMsgGetCooldownTxFailed, err)
	}

	if lastUsed != nil {
		onCooldown, remaining := checkCooldownInternal(lastUsed, b.config.GetCooldownDuration(action))
		if onCooldown {
			log.Debug(LogMsgRaceConditionDetected,
				"action", action, "userID", userID, "remaining", remaining)
			return ErrOnCooldown{Action: action, Remaining: remaining}
		}
	}

	if err := fn(); err != nil {
		// Action failed - rollback, don't stamp the cooldown
		return err
	}

	if err := b.updateCooldownTx(ctx, tx, userID, action, scope, time.Now()); err != nil {
		return fmt.Errorf(ErrMsgUpdateCooldownFailed, err)
	}

	// Commit releases the advisory lock
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Debug(LogMsgCooldownEnforced, "action", action, "userID", userID)
	return nil
}

// ResetCooldown manually resets a cooldown
func (b *postgresBackend) ResetCooldown(ctx context.Context, userID, action, scope string) error {
	_, err := b.db.Exec(ctx, SQLDeleteCooldown, userID, action, scope)
	if err != nil {
		return fmt.Errorf(ErrMsgResetCooldownFailed, err)
	}
	return nil
}

// GetLastUsed returns when the action was last performed
func (b *postgresBackend) GetLastUsed(ctx context.Context, userID, action, scope string) (*time.Time, error) {
	return b.getLastUsed(ctx, userID, action, scope)
}

func (b *postgresBackend) getLastUsed(ctx context.Context, userID, action, scope string) (*time.Time, error) {
	var lastUsed time.Time
	err := b.db.QueryRow(ctx, SQLSelectLastUsed, userID, action, scope).Scan(&lastUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf(ErrMsgGetLastUsedFailed, err)
	}
	return &lastUsed, nil
}

func (b *postgresBackend) getLastUsedTx(ctx context.Context, tx pgx.Tx, userID, action, scope string) (*time.Time, error) {
	var lastUsed time.Time
	err := tx.QueryRow(ctx, SQLSelectLastUsed, userID, action, scope).Scan(&lastUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &lastUsed, nil
}

func (b *postgresBackend) updateCooldown(ctx context.Context, userID, action, scope string, timestamp time.Time) error {
	_, err := b.db.Exec(ctx, SQLUpsertCooldown, userID, action, scope, timestamp)
	return err
}

func (b *postgresBackend) updateCooldownTx(ctx context.Context, tx pgx.Tx, userID, action, scope string, timestamp time.Time) error {
	_, err := tx.Exec(ctx, SQLUpsertCooldown, userID, action, scope, timestamp)
	return err
}

// hashUserActionScope produces a stable positive int64 advisory lock key
func hashUserActionScope(userID, action, scope string) int64 {
	h := sha256.Sum256([]byte(userID + HashSeparator + action + HashSeparator + scope))
	return int64(binary.BigEndian.Uint64(h[:8])) & HashMaskPositiveInt64
}

// checkCooldownInternal computes whether a last-used timestamp is still
// inside the cooldown window
func checkCooldownInternal(lastUsed *time.Time, duration time.Duration) (bool, time.Duration) {
	if lastUsed == nil {
		return false, 0
	}
	elapsed := time.Since(*lastUsed)
	if elapsed >= duration {
		return false, 0
	}
	return true, duration - elapsed
}
