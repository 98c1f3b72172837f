package repository

import (
	"context"
	"time"

	"github.com/happyharvest/garden/internal/domain"
)

// Garden defines the interface for garden data access
type Garden interface {
	// Create inserts the garden and pre-creates one empty plot per grid
	// cell in a single transaction.
	Create(ctx context.Context, garden *domain.Garden) error
	GetByID(ctx context.Context, id string) (*domain.Garden, error)
	GetByOwner(ctx context.Context, ownerID string) (*domain.Garden, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Garden, error)

	AddMember(ctx context.Context, gardenID, userID string, role domain.MemberRole) error
	GetMembers(ctx context.Context, gardenID string) ([]domain.GardenMember, error)
	IsMember(ctx context.Context, gardenID, userID string) (bool, error)

	SetHasDog(ctx context.Context, gardenID string, hasDog bool) error
	SetDogFedAt(ctx context.Context, gardenID string, fedAt time.Time) error

	// AdjustStorageCapacity adds delta to the garden's storage capacity
	// and returns the new value.
	AdjustStorageCapacity(ctx context.Context, gardenID string, delta int) (int, error)
}
