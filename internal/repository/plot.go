package repository

import (
	"context"
	"time"

	"github.com/happyharvest/garden/internal/domain"
)

// Plot defines the interface for plot data access
type Plot interface {
	GetByID(ctx context.Context, id string) (*domain.Plot, error)
	GetByCell(ctx context.Context, gardenID string, x, y int) (*domain.Plot, error)
	ListByGarden(ctx context.Context, gardenID string) ([]domain.Plot, error)

	// Plant transitions an empty plot to seed. The update is conditional
	// on the plot still being empty and must fail with domain.ErrOccupied
	// when another planting won the race.
	Plant(ctx context.Context, id string, plantID string, plantedAt time.Time) error

	SetLastWatered(ctx context.Context, id string, plantedAt, wateredAt time.Time) error
	SetStolePercent(ctx context.Context, id string, stolePercent int) error
	SetPest(ctx context.Context, id string, pest bool) error

	// Clear resets a plot back to empty, dropping the plant and all
	// growth bookkeeping.
	Clear(ctx context.Context, id string) error
}
