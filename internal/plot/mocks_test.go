package plot

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/happyharvest/garden/internal/cooldown"
	"github.com/happyharvest/garden/internal/domain"
	"github.com/happyharvest/garden/internal/economy"
)

// MockPlotRepository implements repository.Plot for testing
type MockPlotRepository struct {
	mock.Mock
}

func (m *MockPlotRepository) GetByID(ctx context.Context, id string) (*domain.Plot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plot), args.Error(1)
}

func (m *MockPlotRepository) GetByCell(ctx context.Context, gardenID string, x, y int) (*domain.Plot, error) {
	args := m.Called(ctx, gardenID, x, y)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plot), args.Error(1)
}

func (m *MockPlotRepository) ListByGarden(ctx context.Context, gardenID string) ([]domain.Plot, error) {
	args := m.Called(ctx, gardenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Plot), args.Error(1)
}

func (m *MockPlotRepository) Plant(ctx context.Context, id string, plantID string, plantedAt time.Time) error {
	args := m.Called(ctx, id, plantID, plantedAt)
	return args.Error(0)
}

func (m *MockPlotRepository) SetLastWatered(ctx context.Context, id string, plantedAt, wateredAt time.Time) error {
	args := m.Called(ctx, id, plantedAt, wateredAt)
	return args.Error(0)
}

func (m *MockPlotRepository) SetStolePercent(ctx context.Context, id string, stolePercent int) error {
	args := m.Called(ctx, id, stolePercent)
	return args.Error(0)
}

func (m *MockPlotRepository) SetPest(ctx context.Context, id string, pest bool) error {
	args := m.Called(ctx, id, pest)
	return args.Error(0)
}

func (m *MockPlotRepository) Clear(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGardenRepository implements the subset of repository.Garden the
// plot service touches
type MockGardenRepository struct {
	mock.Mock
}

func (m *MockGardenRepository) Create(ctx context.Context, g *domain.Garden) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGardenRepository) GetByID(ctx context.Context, id string) (*domain.Garden, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Garden), args.Error(1)
}

func (m *MockGardenRepository) GetByOwner(ctx context.Context, ownerID string) (*domain.Garden, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Garden), args.Error(1)
}

func (m *MockGardenRepository) ListForUser(ctx context.Context, userID string) ([]domain.Garden, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Garden), args.Error(1)
}

func (m *MockGardenRepository) AddMember(ctx context.Context, gardenID, userID string, role domain.MemberRole) error {
	args := m.Called(ctx, gardenID, userID, role)
	return args.Error(0)
}

func (m *MockGardenRepository) GetMembers(ctx context.Context, gardenID string) ([]domain.GardenMember, error) {
	args := m.Called(ctx, gardenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GardenMember), args.Error(1)
}

func (m *MockGardenRepository) IsMember(ctx context.Context, gardenID, userID string) (bool, error) {
	args := m.Called(ctx, gardenID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGardenRepository) SetHasDog(ctx context.Context, gardenID string, hasDog bool) error {
	args := m.Called(ctx, gardenID, hasDog)
	return args.Error(0)
}

func (m *MockGardenRepository) SetDogFedAt(ctx context.Context, gardenID string, fedAt time.Time) error {
	args := m.Called(ctx, gardenID, fedAt)
	return args.Error(0)
}

func (m *MockGardenRepository) AdjustStorageCapacity(ctx context.Context, gardenID string, delta int) (int, error) {
	args := m.Called(ctx, gardenID, delta)
	return args.Int(0), args.Error(1)
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

// MockMembership implements Membership for testing
type MockMembership struct {
	mock.Mock
}

func (m *MockMembership) IsMember(ctx context.Context, gardenID, userID string) (bool, error) {
	args := m.Called(ctx, gardenID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembership) IsOwner(ctx context.Context, gardenID, userID string) (bool, error) {
	args := m.Called(ctx, gardenID, userID)
	return args.Bool(0), args.Error(1)
}

// MockLedger implements economy.Ledger for testing
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Apply(ctx context.Context, userID string, delta economy.Delta) (*economy.ApplyResult, error) {
	args := m.Called(ctx, userID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*economy.ApplyResult), args.Error(1)
}

func (m *MockLedger) ApplyClamped(ctx context.Context, userID string, coins int, reason string) (*domain.User, error) {
	args := m.Called(ctx, userID, coins, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// fakeCooldown runs actions immediately, optionally simulating an
// active cooldown
type fakeCooldown struct {
	onCooldown bool
	remaining  time.Duration
	enforced   int
}

func (f *fakeCooldown) CheckCooldown(ctx context.Context, userID, action, scope string) (bool, time.Duration, error) {
	return f.onCooldown, f.remaining, nil
}

func (f *fakeCooldown) EnforceCooldown(ctx context.Context, userID, action, scope string, fn func() error) error {
	if f.onCooldown {
		return cooldown.ErrOnCooldown{Action: action, Remaining: f.remaining}
	}
	f.enforced++
	return fn()
}

func (f *fakeCooldown) ResetCooldown(ctx context.Context, userID, action, scope string) error {
	return nil
}

func (f *fakeCooldown) GetLastUsed(ctx context.Context, userID, action, scope string) (*time.Time, error) {
	return nil, nil
}
