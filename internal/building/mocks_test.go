package building

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/happyharvest/garden/internal/domain"
	"github.com/happyharvest/garden/internal/economy"
)

// MockBuildingRepository implements repository.Building for testing
type MockBuildingRepository struct {
	mock.Mock
}

func (m *MockBuildingRepository) Create(ctx context.Context, building *domain.Building) error {
	args := m.Called(ctx, building)
	return args.Error(0)
}

func (m *MockBuildingRepository) GetByID(ctx context.Context, id string) (*domain.Building, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Building), args.Error(1)
}

func (m *MockBuildingRepository) ListByGarden(ctx context.Context, gardenID string) ([]domain.Building, error) {
	args := m.Called(ctx, gardenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Building), args.Error(1)
}

func (m *MockBuildingRepository) StartProduction(ctx context.Context, id, recipeID string, startedAt, endsAt time.Time) error {
	args := m.Called(ctx, id, recipeID, startedAt, endsAt)
	return args.Error(0)
}

func (m *MockBuildingRepository) FinishProduction(ctx context.Context, id string, collectedAt time.Time) error {
	args := m.Called(ctx, id, collectedAt)
	return args.Error(0)
}

func (m *MockBuildingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGardenRepository implements the subset of repository.Garden the
// building service touches
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

// MockCellOccupancy implements repository.CellOccupancy for testing
type MockCellOccupancy struct {
	mock.Mock
}

func (m *MockCellOccupancy) CellOccupied(ctx context.Context, gardenID string, x, y int) (bool, error) {
	args := m.Called(ctx, gardenID, x, y)
	return args.Bool(0), args.Error(1)
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
