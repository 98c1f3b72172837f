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

// TreeRepository implements the tree repository for PostgreSQL
type TreeRepository struct {
	db *pgxpool.Pool
}

// NewTreeRepository creates a new TreeRepository
func NewTreeRepository(db *pgxpool.Pool) *TreeRepository {
	return &TreeRepository{db: db}
}

const treeColumns = `tree_id, garden_id, tree_type_id, x, y, planted_at, last_harvested_at`

func scanTree(row pgx.Row) (*domain.Tree, error) {
	var t domain.Tree
	err := row.Scan(&t.ID, &t.GardenID, &t.TreeTypeID, &t.X, &t.Y,
		&t.PlantedAt, &t.LastHarvestedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new tree
func (r *TreeRepository) Create(ctx context.Context, tree *domain.Tree) error {
	query := `
		INSERT INTO trees (tree_id, garden_id, tree_type_id, x, y, planted_at, last_harvested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, tree.ID, tree.GardenID, tree.TreeTypeID,
		tree.X, tree.Y, tree.PlantedAt, tree.LastHarvestedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tree: %w", err)
	}
	return nil
}

// GetByID fetches a tree by primary key
func (r *TreeRepository) GetByID(ctx context.Context, id string) (*domain.Tree, error) {
	query := `SELECT ` + treeColumns + ` FROM trees WHERE tree_id = $1`
	t, err := scanTree(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTreeNotFound
		}
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}
	return t, nil
}

// ListByGarden lists a garden's trees
func (r *TreeRepository) ListByGarden(ctx context.Context, gardenID string) ([]domain.Tree, error) {
	query := `SELECT ` + treeColumns + ` FROM trees WHERE garden_id = $1 ORDER BY planted_at`
	rows, err := r.db.Query(ctx, query, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trees: %w", err)
	}
	defer rows.Close()

	var trees []domain.Tree
	for rows.Next() {
		t, err := scanTree(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tree: %w", err)
		}
		trees = append(trees, *t)
	}
	return trees, rows.Err()
}

// SetLastHarvested stamps the harvest time
func (r *TreeRepository) SetLastHarvested(ctx context.Context, id string, harvestedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE trees SET last_harvested_at = $2 WHERE tree_id = $1`, id, harvestedAt)
	if err != nil {
		return fmt.Errorf("failed to stamp tree harvest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTreeNotFound
	}
	return nil
}

// Delete removes a tree
func (r *TreeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trees WHERE tree_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tree: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTreeNotFound
	}
	return nil
}
