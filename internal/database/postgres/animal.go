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

// AnimalRepository implements the animal repository for PostgreSQL
type AnimalRepository struct {
	db *pgxpool.Pool
}

// NewAnimalRepository creates a new AnimalRepository
func NewAnimalRepository(db *pgxpool.Pool) *AnimalRepository {
	return &AnimalRepository{db: db}
}

const animalColumns = `animal_id, garden_id, animal_type_id, x, y, purchased_at, last_fed_at`

func scanAnimal(row pgx.Row) (*domain.Animal, error) {
	var a domain.Animal
	err := row.Scan(&a.ID, &a.GardenID, &a.AnimalTypeID, &a.X, &a.Y,
		&a.PurchasedAt, &a.LastFedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new animal
func (r *AnimalRepository) Create(ctx context.Context, animal *domain.Animal) error {
	query := `
		INSERT INTO animals (animal_id, garden_id, animal_type_id, x, y, purchased_at, last_fed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, animal.ID, animal.GardenID, animal.AnimalTypeID,
		animal.X, animal.Y, animal.PurchasedAt, animal.LastFedAt)
	if err != nil {
		return fmt.Errorf("failed to insert animal: %w", err)
	}
	return nil
}

// GetByID fetches an animal by primary key
func (r *AnimalRepository) GetByID(ctx context.Context, id string) (*domain.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE animal_id = $1`
	a, err := scanAnimal(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAnimalNotFound
		}
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}
	return a, nil
}

// ListByGarden lists a garden's animals
func (r *AnimalRepository) ListByGarden(ctx context.Context, gardenID string) ([]domain.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE garden_id = $1 ORDER BY purchased_at`
	rows, err := r.db.Query(ctx, query, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}
	defer rows.Close()

	var animals []domain.Animal
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan animal: %w", err)
		}
		animals = append(animals, *a)
	}
	return animals, rows.Err()
}

// SetLastFed stamps the feeding time
func (r *AnimalRepository) SetLastFed(ctx context.Context, id string, fedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE animals SET last_fed_at = $2 WHERE animal_id = $1`, id, fedAt)
	if err != nil {
		return fmt.Errorf("failed to stamp feeding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnimalNotFound
	}
	return nil
}

// SetPosition moves an animal to a new cell
func (r *AnimalRepository) SetPosition(ctx context.Context, id string, x, y int) error {
	tag, err := r.db.Exec(ctx, `UPDATE animals SET x = $2, y = $3 WHERE animal_id = $1`, id, x, y)
	if err != nil {
		return fmt.Errorf("failed to move animal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnimalNotFound
	}
	return nil
}

// Delete removes an animal
func (r *AnimalRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM animals WHERE animal_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete animal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnimalNotFound
	}
	return nil
}

// CountByType counts a garden's animals of one catalog type
func (r *AnimalRepository) CountByType(ctx context.Context, gardenID, animalTypeID string) (int, error) {
	query := `SELECT COUNT(*) FROM animals WHERE garden_id = $1 AND animal_type_id = $2`
	var count int
	if err := r.db.QueryRow(ctx, query, gardenID, animalTypeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count animals: %w", err)
	}
	return count, nil
}
