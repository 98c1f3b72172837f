package repository

import (
	"context"
	"time"

	"github.com/happyharvest/garden/internal/domain"
)

// Tree defines the interface for tree data access
type Tree interface {
	Create(ctx context.Context, tree *domain.Tree) error
	GetByID(ctx context.Context, id string) (*domain.Tree, error)
	ListByGarden(ctx context.Context, gardenID string) ([]domain.Tree, error)
	SetLastHarvested(ctx context.Context, id string, harvestedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// Animal defines the interface for animal data access
type Animal interface {
	Create(ctx context.Context, animal *domain.Animal) error
	GetByID(ctx context.Context, id string) (*domain.Animal, error)
	ListByGarden(ctx context.Context, gardenID string) ([]domain.Animal, error)
	SetLastFed(ctx context.Context, id string, fedAt time.Time) error
	SetPosition(ctx context.Context, id string, x, y int) error
	Delete(ctx context.Context, id string) error

	// CountByType counts a garden's animals of one catalog type. Used to
	// detect when the last dog leaves the garden.
	CountByType(ctx context.Context, gardenID, animalTypeID string) (int, error)
}

// Building defines the interface for building data access
type Building interface {
	Create(ctx context.Context, building *domain.Building) error
	GetByID(ctx context.Context, id string) (*domain.Building, error)
	ListByGarden(ctx context.Context, gardenID string) ([]domain.Building, error)

	// StartProduction records a running recipe. The update is conditional
	// on the building being idle and must fail with
	// domain.ErrInvalidState when production is already running.
	StartProduction(ctx context.Context, id, recipeID string, startedAt, endsAt time.Time) error

	// FinishProduction returns the building to idle and stamps the
	// collection time.
	FinishProduction(ctx context.Context, id string, collectedAt time.Time) error

	Delete(ctx context.Context, id string) error
}

// CellOccupancy checks whether any entity occupies a garden cell.
// Plots live on every cell; trees, animals and buildings claim cells
// exclusively among themselves.
type CellOccupancy interface {
	CellOccupied(ctx context.Context, gardenID string, x, y int) (bool, error)
}
