package user

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/happyharvest/garden/internal/domain"
)

// MockUserRepository implements repository.User for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByTelegramID(ctx context.Context, telegramID string) (*domain.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ApplyDelta(ctx context.Context, id string, coins, stars, xp int) (*domain.User, error) {
	args := m.Called(ctx, id, coins, stars, xp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) AdjustCoinsClamped(ctx context.Context, id string, coins int) (*domain.User, error) {
	args := m.Called(ctx, id, coins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockBonusRepository implements repository.Bonus for testing
type MockBonusRepository struct {
	mock.Mock
}

func (m *MockBonusRepository) Grant(ctx context.Context, bonus *domain.InviteBonus) error {
	args := m.Called(ctx, bonus)
	return args.Error(0)
}

func (m *MockBonusRepository) ActiveMultiplier(ctx context.Context, userID string, now time.Time) (float64, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockBonusRepository) CountReferrals(ctx context.Context, referrerID string) (int, error) {
	args := m.Called(ctx, referrerID)
	return args.Int(0), args.Error(1)
}
