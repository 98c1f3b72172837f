package garden

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/happyharvest/garden/internal/domain"
)

// MockGardenRepository implements repository.Garden for testing
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

// MockTreeRepository implements repository.Tree for testing
type MockTreeRepository struct {
	mock.Mock
}

func (m *MockTreeRepository) Create(ctx context.Context, tree *domain.Tree) error {
	args := m.Called(ctx, tree)
	return args.Error(0)
}

func (m *MockTreeRepository) GetByID(ctx context.Context, id string) (*domain.Tree, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tree), args.Error(1)
}

func (m *MockTreeRepository) ListByGarden(ctx context.Context, gardenID string) ([]domain.Tree, error) {
	args := m.Called(ctx, gardenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tree), args.Error(1)
}

func (m *MockTreeRepository) SetLastHarvested(ctx context.Context, id string, harvestedAt time.Time) error {
	args := m.Called(ctx, id, harvestedAt)
	return args.Error(0)
}

func (m *MockTreeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAnimalRepository implements repository.Animal for testing
type MockAnimalRepository struct {
	mock.Mock
}

func (m *MockAnimalRepository) Create(ctx context.Context, animal *domain.Animal) error {
	args := m.Called(ctx, animal)
	return args.Error(0)
}

func (m *MockAnimalRepository) GetByID(ctx context.Context, id string) (*domain.Animal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Animal), args.Error(1)
}

func (m *MockAnimalRepository) ListByGarden(ctx context.Context, gardenID string) ([]domain.Animal, error) {
	args := m.Called(ctx, gardenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Animal), args.Error(1)
}

func (m *MockAnimalRepository) SetLastFed(ctx context.Context, id string, fedAt time.Time) error {
	args := m.Called(ctx, id, fedAt)
	return args.Error(0)
}

func (m *MockAnimalRepository) SetPosition(ctx context.Context, id string, x, y int) error {
	args := m.Called(ctx, id, x, y)
	return args.Error(0)
}

func (m *MockAnimalRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnimalRepository) CountByType(ctx context.Context, gardenID, animalTypeID string) (int, error) {
	args := m.Called(ctx, gardenID, animalTypeID)
	return args.Int(0), args.Error(1)
}

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

// fakeFeed records subscriptions made during snapshot reads
type fakeFeed struct {
	subs      [][2]string
	connected map[string]int
}

func (f *fakeFeed) Subscribe(gardenID, userID string) {
	f.subs = append(f.subs, [2]string{gardenID, userID})
}

func (f *fakeFeed) ConnectionCount(userID string) int {
	return f.connected[userID]
}
