// Package user implements registration and profile reads.
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/happyharvest/garden/internal/domain"
	"github.com/happyharvest/garden/internal/logger"
	"github.com/happyharvest/garden/internal/repository"
)

// StartingCoins is every new player's opening balance
const StartingCoins = 100

const inviteBonusReason = "Invited 2+ friends"

// Profile is a user enriched with derived level data
type Profile struct {
	domain.User
	Level       int `json:"level"`
	NextLevelXP int `json:"next_level_xp"`
}

// Service defines the user operations
type Service interface {
	Register(ctx context.Context, telegramID, username, referrerID string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*Profile, error)
	GetByTelegramID(ctx context.Context, telegramID string) (*Profile, error)
}

type service struct {
	users   repository.User
	bonuses repository.Bonus
	now     func() time.Time
}

// NewService creates a new user service
func NewService(users repository.User, bonuses repository.Bonus) Service {
	return &service{users: users, bonuses: bonuses, now: time.Now}
}

// Register creates a user, or returns the existing one for a known
// telegram id. A referrer earns an invite bonus once enough referrals
// accumulate.
func (s *service) Register(ctx context.Context, telegramID, username, referrerID string) (*domain.User, error) {
	log := logger.FromContext(ctx)

	telegramID = strings.TrimSpace(telegramID)
	if telegramID == "" {
		return nil, fmt.Errorf("%w: telegram id is required", domain.ErrInvalidInput)
	}

	existing, err := s.users.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return existing, nil
	}
	if !domain.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	u := &domain.User{
		ID:         uuid.New().String(),
		TelegramID: telegramID,
		Username:   strings.TrimSpace(username),
		ReferrerID: referrerID,
		Coins:      StartingCoins,
		CreatedAt:  s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("User registered", "user_id", u.ID, "username", u.Username)

	if referrerID != "" {
		s.processReferral(ctx, referrerID)
	}

	return u, nil
}

// processReferral grants the referrer a growth bonus once they have
// brought in enough players. Failures are logged, never surfaced: the
// registration itself already succeeded.
func (s *service) processReferral(ctx context.Context, referrerID string) {
	log := logger.FromContext(ctx)

	if _, err := s.users.GetByID(ctx, referrerID); err != nil {
		log.Warn("Referrer not found", "referrer_id", referrerID, "error", err)
		return
	}

	count, err := s.bonuses.CountReferrals(ctx, referrerID)
	if err != nil {
		log.Error("Failed to count referrals", "error", err, "referrer_id", referrerID)
		return
	}
	if count < domain.InviteBonusMinReferrals {
		return
	}

	now := s.now()
	bonus := &domain.InviteBonus{
		ID:         uuid.New().String(),
		UserID:     referrerID,
		Multiplier: domain.InviteBonusMultiplier,
		ExpiresAt:  now.Add(domain.InviteBonusDurationDays * 24 * time.Hour),
		Reason:     inviteBonusReason,
		CreatedAt:  now,
	}
	if err := s.bonuses.Grant(ctx, bonus); err != nil {
		log.Error("Failed to grant invite bonus", "error", err, "referrer_id", referrerID)
		return
	}

	log.Info("Invite bonus granted", "referrer_id", referrerID,
		"multiplier", bonus.Multiplier, "expires_at", bonus.ExpiresAt)
}

func (s *service) Get(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileOf(u), nil
}

func (s *service) GetByTelegramID(ctx context.Context, telegramID string) (*Profile, error) {
	u, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return profileOf(u), nil
}

func profileOf(u *domain.User) *Profile {
	level, next := u.Level()
	return &Profile{User: *u, Level: level, NextLevelXP: next}
}
