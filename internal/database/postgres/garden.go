package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/happyharvest/garden/internal/domain"
)

// GardenRepository implements the garden repository for PostgreSQL
type GardenRepository struct {
	db *pgxpool.Pool
}

// NewGardenRepository creates a new GardenRepository
func NewGardenRepository(db *pgxpool.Pool) *GardenRepository {
	return &GardenRepository{db: db}
}

const gardenColumns = `garden_id, owner_id, name, width, height, has_dog, dog_fed_at, storage_capacity, created_at`

func scanGarden(row pgx.Row) (*domain.Garden, error) {
	var g domain.Garden
	err := row.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Width, &g.Height,
		&g.HasDog, &g.DogFedAt, &g.StorageCapacity, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a garden, its owner membership and the full plot grid
// in one transaction.
func (r *GardenRepository) Create(ctx context.Context, g *domain.Garden) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer SafeRollback(ctx, tx)

	gardenQuery := `
		INSERT INTO gardens (garden_id, owner_id, name, width, height, has_dog, storage_capacity, created_at)
		VALUES ($1, $2, $3, $4, $5, false, $6, $7)
	`
	_, err = tx.Exec(ctx, gardenQuery, g.ID, g.OwnerID, g.Name, g.Width, g.Height,
		g.StorageCapacity, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert garden: %w", err)
	}

	memberQuery := `
		INSERT INTO garden_members (garden_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.Exec(ctx, memberQuery, g.ID, g.OwnerID, domain.RoleOwner, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert owner membership: %w", err)
	}

	plotQuery := `
		INSERT INTO plots (plot_id, garden_id, x, y, stage)
		VALUES ($1, $2, $3, $4, $5)
	`
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			_, err = tx.Exec(ctx, plotQuery, uuid.New().String(), g.ID, x, y, domain.StageEmpty)
			if err != nil {
				return fmt.Errorf("failed to insert plot (%d,%d): %w", x, y, err)
			}
		}
	}

	return tx.Commit(ctx)
}

// GetByID fetches a garden by primary key
func (r *GardenRepository) GetByID(ctx context.Context, id string) (*domain.Garden, error) {
	query := `SELECT ` + gardenColumns + ` FROM gardens WHERE garden_id = $1`
	g, err := scanGarden(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGardenNotFound
		}
		return nil, fmt.Errorf("failed to get garden: %w", err)
	}
	return g, nil
}

// GetByOwner fetches a user's own garden
func (r *GardenRepository) GetByOwner(ctx context.Context, ownerID string) (*domain.Garden, error) {
	query := `SELECT ` + gardenColumns + ` FROM gardens WHERE owner_id = $1`
	g, err := scanGarden(r.db.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGardenNotFound
		}
		return nil, fmt.Errorf("failed to get garden by owner: %w", err)
	}
	return g, nil
}

// ListForUser lists gardens the user is a member of, own garden included
func (r *GardenRepository) ListForUser(ctx context.Context, userID string) ([]domain.Garden, error) {
	query := `
		SELECT ` + gardenColumns + `
		FROM gardens g
		JOIN garden_members gm ON g.garden_id = gm.garden_id
		WHERE gm.user_id = $1
		ORDER BY gm.joined_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gardens: %w", err)
	}
	defer rows.Close()

	var gardens []domain.Garden
	for rows.Next() {
		g, err := scanGarden(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan garden: %w", err)
		}
		gardens = append(gardens, *g)
	}
	return gardens, rows.Err()
}

// AddMember adds a user to a garden, idempotently
func (r *GardenRepository) AddMember(ctx context.Context, gardenID, userID string, role domain.MemberRole) error {
	query := `
		INSERT INTO garden_members (garden_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (garden_id, user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, gardenID, userID, role)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// GetMembers lists a garden's memberships
func (r *GardenRepository) GetMembers(ctx context.Context, gardenID string) ([]domain.GardenMember, error) {
	query := `
		SELECT user_id, garden_id, role, joined_at
		FROM garden_members
		WHERE garden_id = $1
		ORDER BY joined_at
	`
	rows, err := r.db.Query(ctx, query, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []domain.GardenMember
	for rows.Next() {
		var m domain.GardenMember
		if err := rows.Scan(&m.UserID, &m.GardenID, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// IsMember reports whether the user belongs to the garden
func (r *GardenRepository) IsMember(ctx context.Context, gardenID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM garden_members WHERE garden_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, gardenID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// SetHasDog toggles the garden's dog flag
func (r *GardenRepository) SetHasDog(ctx context.Context, gardenID string, hasDog bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE gardens SET has_dog = $2 WHERE garden_id = $1`, gardenID, hasDog)
	if err != nil {
		return fmt.Errorf("failed to set dog flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGardenNotFound
	}
	return nil
}

// SetDogFedAt refreshes the dog protection window
func (r *GardenRepository) SetDogFedAt(ctx context.Context, gardenID string, fedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE gardens SET dog_fed_at = $2 WHERE garden_id = $1`, gardenID, fedAt)
	if err != nil {
		return fmt.Errorf("failed to set dog feeding time: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGardenNotFound
	}
	return nil
}

// AdjustStorageCapacity adds delta to the garden's storage capacity,
// clamped at zero, and returns the new value.
func (r *GardenRepository) AdjustStorageCapacity(ctx context.Context, gardenID string, delta int) (int, error) {
	query := `
		UPDATE gardens
		SET storage_capacity = GREATEST(0, storage_capacity + $2)
		WHERE garden_id = $1
		RETURNING storage_capacity
	`
	var capacity int
	err := r.db.QueryRow(ctx, query, gardenID, delta).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrGardenNotFound
		}
		return 0, fmt.Errorf("failed to adjust storage capacity: %w", err)
	}
	return capacity, nil
}
