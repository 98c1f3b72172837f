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

// PlotRepository implements the plot repository for PostgreSQL
type PlotRepository struct {
	db *pgxpool.Pool
}

// NewPlotRepository creates a new PlotRepository
func NewPlotRepository(db *pgxpool.Pool) *PlotRepository {
	return &PlotRepository{db: db}
}

const plotColumns = `plot_id, garden_id, x, y, stage, COALESCE(plant_id, ''), planted_at, last_watered_at, stole_percent, pest`

func scanPlot(row pgx.Row) (*domain.Plot, error) {
	var p domain.Plot
	err := row.Scan(&p.ID, &p.GardenID, &p.X, &p.Y, &p.Stage, &p.PlantID,
		&p.PlantedAt, &p.LastWateredAt, &p.StolePercent, &p.Pest)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID fetches a plot by primary key
func (r *PlotRepository) GetByID(ctx context.Context, id string) (*domain.Plot, error) {
	query := `SELECT ` + plotColumns + ` FROM plots WHERE plot_id = $1`
	p, err := scanPlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlotNotFound
		}
		return nil, fmt.Errorf("failed to get plot: %w", err)
	}
	return p, nil
}

// GetByCell fetches a plot by garden coordinates
func (r *PlotRepository) GetByCell(ctx context.Context, gardenID string, x, y int) (*domain.Plot, error) {
	query := `SELECT ` + plotColumns + ` FROM plots WHERE garden_id = $1 AND x = $2 AND y = $3`
	p, err := scanPlot(r.db.QueryRow(ctx, query, gardenID, x, y))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlotNotFound
		}
		return nil, fmt.Errorf("failed to get plot by cell: %w", err)
	}
	return p, nil
}

// ListByGarden lists all plots of a garden in grid order
func (r *PlotRepository) ListByGarden(ctx context.Context, gardenID string) ([]domain.Plot, error) {
	query := `SELECT ` + plotColumns + ` FROM plots WHERE garden_id = $1 ORDER BY y, x`
	rows, err := r.db.Query(ctx, query, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plots: %w", err)
	}
	defer rows.Close()

	var plots []domain.Plot
	for rows.Next() {
		p, err := scanPlot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plot: %w", err)
		}
		plots = append(plots, *p)
	}
	return plots, rows.Err()
}

// Plant seeds an empty plot. The stage condition makes the update
// conditional; a concurrent planter loses with domain.ErrOccupied.
func (r *PlotRepository) Plant(ctx context.Context, id string, plantID string, plantedAt time.Time) error {
	query := `
		UPDATE plots
		SET stage = $2, plant_id = $3, planted_at = $4, last_watered_at = $4,
		    stole_percent = 0, pest = false
		WHERE plot_id = $1 AND stage = $5
	`
	tag, err := r.db.Exec(ctx, query, id, domain.StageSeed, plantID, plantedAt, domain.StageEmpty)
	if err != nil {
		return fmt.Errorf("failed to plant plot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if checkErr := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM plots WHERE plot_id = $1)`, id).Scan(&exists); checkErr != nil {
			return fmt.Errorf("failed to check plot existence: %w", checkErr)
		}
		if !exists {
			return domain.ErrPlotNotFound
		}
		return domain.ErrOccupied
	}
	return nil
}

// SetLastWatered stores the rewound plantedAt together with the
// watering timestamp.
func (r *PlotRepository) SetLastWatered(ctx context.Context, id string, plantedAt, wateredAt time.Time) error {
	query := `UPDATE plots SET planted_at = $2, last_watered_at = $3 WHERE plot_id = $1`
	tag, err := r.db.Exec(ctx, query, id, plantedAt, wateredAt)
	if err != nil {
		return fmt.Errorf("failed to water plot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlotNotFound
	}
	return nil
}

// SetStolePercent stores the plot's cumulative stolen percentage
func (r *PlotRepository) SetStolePercent(ctx context.Context, id string, stolePercent int) error {
	tag, err := r.db.Exec(ctx, `UPDATE plots SET stole_percent = $2 WHERE plot_id = $1`, id, stolePercent)
	if err != nil {
		return fmt.Errorf("failed to set stolen percent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlotNotFound
	}
	return nil
}

// SetPest toggles the plot's pest flag
func (r *PlotRepository) SetPest(ctx context.Context, id string, pest bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE plots SET pest = $2 WHERE plot_id = $1`, id, pest)
	if err != nil {
		return fmt.Errorf("failed to set pest flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlotNotFound
	}
	return nil
}

// Clear resets a plot to empty after harvest
func (r *PlotRepository) Clear(ctx context.Context, id string) error {
	query := `
		UPDATE plots
		SET stage = $2, plant_id = NULL, planted_at = NULL, last_watered_at = NULL,
		    stole_percent = 0, pest = false
		WHERE plot_id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, domain.StageEmpty)
	if err != nil {
		return fmt.Errorf("failed to clear plot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlotNotFound
	}
	return nil
}
