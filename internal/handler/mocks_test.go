package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/happyharvest/garden/internal/domain"
	"github.com/happyharvest/garden/internal/garden"
	"github.com/happyharvest/garden/internal/plot"
	"github.com/happyharvest/garden/internal/user"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, telegramID, username, referrerID string) (*domain.User, error) {
	args := m.Called(ctx, telegramID, username, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, userID string) (*user.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Profile), args.Error(1)
}

func (m *MockUserService) GetByTelegramID(ctx context.Context, telegramID string) (*user.Profile, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Profile), args.Error(1)
}

type MockGardenService struct {
	mock.Mock
}

func (m *MockGardenService) Create(ctx context.Context, userID, name string) (*domain.Garden, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Garden), args.Error(1)
}

func (m *MockGardenService) Join(ctx context.Context, userID, inviteLink string) (string, error) {
	args := m.Called(ctx, userID, inviteLink)
	return args.String(0), args.Error(1)
}

func (m *MockGardenService) GenerateInviteLink(ctx context.Context, userID, gardenID string) (string, error) {
	args := m.Called(ctx, userID, gardenID)
	return args.String(0), args.Error(1)
}

func (m *MockGardenService) Snapshot(ctx context.Context, userID, gardenID string) (*garden.Snapshot, error) {
	args := m.Called(ctx, userID, gardenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*garden.Snapshot), args.Error(1)
}

func (m *MockGardenService) ListForUser(ctx context.Context, userID string) ([]domain.Garden, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Garden), args.Error(1)
}

func (m *MockGardenService) IsMember(ctx context.Context, gardenID, userID string) (bool, error) {
	args := m.Called(ctx, gardenID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGardenService) IsOwner(ctx context.Context, gardenID, userID string) (bool, error) {
	args := m.Called(ctx, gardenID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGardenService) CanWatch(ctx context.Context, gardenID, userID string) (bool, error) {
	args := m.Called(ctx, gardenID, userID)
	return args.Bool(0), args.Error(1)
}

type MockPlotService struct {
	mock.Mock
}

func (m *MockPlotService) Plant(ctx context.Context, userID, plotID, cropID string) (*domain.Plot, error) {
	args := m.Called(ctx, userID, plotID, cropID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plot), args.Error(1)
}

func (m *MockPlotService) Water(ctx context.Context, userID, plotID string) (*domain.Plot, error) {
	args := m.Called(ctx, userID, plotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plot), args.Error(1)
}

func (m *MockPlotService) Harvest(ctx context.Context, userID, plotID string) (*plot.HarvestResult, error) {
	args := m.Called(ctx, userID, plotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plot.HarvestResult), args.Error(1)
}

func (m *MockPlotService) RemoveWeed(ctx context.Context, userID, plotID string) error {
	args := m.Called(ctx, userID, plotID)
	return args.Error(0)
}

func (m *MockPlotService) Steal(ctx context.Context, thiefID, plotID string, protectionItemIDs []string) (*plot.StealResult, error) {
	args := m.Called(ctx, thiefID, plotID, protectionItemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plot.StealResult), args.Error(1)
}
