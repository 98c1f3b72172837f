package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OccupancyRepository answers cell occupancy queries across all placeable
// entity tables.
type OccupancyRepository struct {
	db *pgxpool.Pool
}

// NewOccupancyRepository creates a new OccupancyRepository
func NewOccupancyRepository(db *pgxpool.Pool) *OccupancyRepository {
	return &OccupancyRepository{db: db}
}

// CellOccupied reports whether any tree, animal, or building sits at the
// given cell.
func (r *OccupancyRepository) CellOccupied(ctx context.Context, gardenID string, x, y int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM trees WHERE garden_id = $1 AND x = $2 AND y = $3
			UNION
			SELECT 1 FROM animals WHERE garden_id = $1 AND x = $2 AND y = $3
			UNION
			SELECT 1 FROM buildings WHERE garden_id = $1 AND x = $2 AND y = $3
		)
	`
	var occupied bool
	if err := r.db.QueryRow(ctx, query, gardenID, x, y).Scan(&occupied); err != nil {
		return false, fmt.Errorf("failed to check cell occupancy: %w", err)
	}
	return occupied, nil
}
