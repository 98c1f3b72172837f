package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/happyharvest/garden/internal/domain"
)

// BuildingRepository implements the building repository for PostgreSQL
type BuildingRepository struct {
	db *pgxpool.Pool
}

// NewBuildingRepository creates a new BuildingRepository
func NewBuildingRepository(db *pgxpool.Pool) *BuildingRepository {
	return &BuildingRepository{db: db}
}

const buildingColumns = `building_id, garden_id, building_type_id, x, y, built_at,
	production_status, COALESCE(current_recipe_id, ''), production_started_at,
	production_ends_at, last_collected_at`

func scanBuilding(row pgx.Row) (*domain.Building, error) {
	var b domain.Building
	err := row.Scan(&b.ID, &b.GardenID, &b.BuildingTypeID, &b.X, &b.Y, &b.BuiltAt,
		&b.ProductionStatus, &b.CurrentRecipeID, &b.ProductionStartedAt,
		&b.ProductionEndsAt, &b.LastCollectedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new building
func (r *BuildingRepository) Create(ctx context.Context, building *domain.Building) error {
	query := `
		INSERT INTO buildings (building_id, garden_id, building_type_id, x, y, built_at,
			production_status, last_collected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query, building.ID, building.GardenID, building.BuildingTypeID,
		building.X, building.Y, building.BuiltAt, building.ProductionStatus, building.LastCollectedAt)
	if err != nil {
		return fmt.Errorf("failed to insert building: %w", err)
	}
	return nil
}

// GetByID fetches a building by primary key
func (r *BuildingRepository) GetByID(ctx context.Context, id string) (*domain.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE building_id = $1`
	b, err := scanBuilding(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBuildingNotFound
		}
		return nil, fmt.Errorf("failed to get building: %w", err)
	}
	return b, nil
}

// ListByGarden lists a garden's buildings
func (r *BuildingRepository) ListByGarden(ctx context.Context, gardenID string) ([]domain.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE garden_id = $1 ORDER BY built_at`
	rows, err := r.db.Query(ctx, query, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	defer rows.Close()

	var buildings []domain.Building
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan building: %w", err)
		}
		buildings = append(buildings, *b)
	}
	return buildings, rows.Err()
}

// StartProduction records a running recipe. The status condition makes
// the update conditional; a concurrent start loses with
// domain.ErrInvalidState.
func (r *BuildingRepository) StartProduction(ctx context.Context, id, recipeID string, startedAt, endsAt time.Time) error {
	query := `
		UPDATE buildings
		SET production_status = $2, current_recipe_id = $3,
		    production_started_at = $4, production_ends_at = $5
		WHERE building_id = $1 AND production_status = $6
	`
	tag, err := r.db.Exec(ctx, query, id, domain.ProductionProducing, recipeID,
		startedAt, endsAt, domain.ProductionIdle)
	if err != nil {
		return fmt.Errorf("failed to start production: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if checkErr := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM buildings WHERE building_id = $1)`, id).Scan(&exists); checkErr != nil {
			return fmt.Errorf("failed to check building existence: %w", checkErr)
		}
		if !exists {
			return domain.ErrBuildingNotFound
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidState, domain.ErrMsgAlreadyProducing)
	}
	return nil
}

// FinishProduction returns the building to idle and stamps the
// collection time.
func (r *BuildingRepository) FinishProduction(ctx context.Context, id string, collectedAt time.Time) error {
	query := `
		UPDATE buildings
		SET production_status = $2, current_recipe_id = NULL,
		    production_started_at = NULL, production_ends_at = NULL,
		    last_collected_at = $3
		WHERE building_id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, domain.ProductionIdle, collectedAt)
	if err != nil {
		return fmt.Errorf("failed to finish production: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBuildingNotFound
	}
	return nil
}

// Delete removes a building
func (r *BuildingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM buildings WHERE building_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete building: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBuildingNotFound
	}
	return nil
}
