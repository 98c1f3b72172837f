package cooldown

// Hash constants for advisory lock keys
const (
	// HashSeparator joins userID, action and scope for advisory lock hashing
	HashSeparator = ":"

	// HashMaskPositiveInt64 masks the MSB so advisory lock keys stay
	// positive int64 values PostgreSQL accepts
	HashMaskPositiveInt64 = 0x7FFFFFFFFFFFFFFF
)

// SQL query constants
const (
	// SQLAdvisoryLock acquires a PostgreSQL advisory transaction lock
	SQLAdvisoryLock = "SELECT pg_advisory_xact_lock($1)"

	// SQLSelectLastUsed retrieves the last used timestamp for a scoped user action
	SQLSelectLastUsed = `
		SELECT last_used_at
		FROM user_cooldowns
		WHERE user_id = $1 AND action_name = $2 AND scope = $3
	`

	// SQLDeleteCooldown removes a cooldown record
	SQLDeleteCooldown = `DELETE FROM user_cooldowns WHERE user_id = $1 AND action_name = $2 AND scope = $3`

	// SQLUpsertCooldown inserts or updates a cooldown timestamp
	SQLUpsertCooldown = `
		INSERT INTO user_cooldowns (user_id, action_name, scope, last_used_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, action_name, scope) DO UPDATE
		SET last_used_at = EXCLUDED.last_used_at
	`
)

// Error message constants
const (
	ErrMsgCheckCooldownFailed     = "failed to check cooldown: %w"
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgAcquireLockFailed       = "failed to acquire advisory lock: %w"
	ErrMsgGetCooldownTxFailed     = "failed to get cooldown within transaction: %w"
	ErrMsgUpdateCooldownFailed    = "failed to update cooldown: %w"
	ErrMsgCommitTransactionFailed = "failed to commit cooldown transaction: %w"
	ErrMsgResetCooldownFailed     = "failed to reset cooldown: %w"
	ErrMsgGetLastUsedFailed       = "failed to get last used: %w"
)

// Log message constants
const (
	LogMsgDevModeBypass         = "DEV_MODE: Bypassing cooldown enforcement"
	LogMsgRaceConditionDetected = "Race condition detected - concurrent request on cooldown"
	LogMsgCooldownEnforced      = "Cooldown enforced successfully"
)
