// Package animal implements animal actions: purchase, feed, move, sell.
package animal

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/happyharvest/garden/internal/catalog"
	"github.com/happyharvest/garden/internal/concurrency"
	"github.com/happyharvest/garden/internal/domain"
	"github.com/happyharvest/garden/internal/economy"
	"github.com/happyharvest/garden/internal/event"
	"github.com/happyharvest/garden/internal/growth"
	"github.com/happyharvest/garden/internal/logger"
	"github.com/happyharvest/garden/internal/repository"
)

// Ledger delta reasons
const (
	reasonPurchase   = "animal_purchase"
	reasonFeed       = "animal_feed"
	reasonProduction = "animal_production"
	reasonSalvage    = "animal_salvage"
)

// Production item kinds from the catalog
const (
	itemCoin = "coin"
	itemStar = "star"
)

// Membership is the authorization surface supplied by the garden service
type Membership interface {
	IsMember(ctx context.Context, gardenID, userID string) (bool, error)
	IsOwner(ctx context.Context, gardenID, userID string) (bool, error)
}

// FeedResult is returned by Feed
type FeedResult struct {
	Item     string `json:"item,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	XP       int    `json:"xp"`
}

// Service defines the animal operations
type Service interface {
	Purchase(ctx context.Context, userID, gardenID, animalTypeID string, x, y int) (*domain.Animal, error)
	Feed(ctx context.Context, userID, animalID string) (*FeedResult, error)
	Move(ctx context.Context, userID, animalID string, x, y int) (*domain.Animal, error)
	Sell(ctx context.Context, userID, animalID string) (int, error)
}

type service struct {
	animals    repository.Animal
	gardens    repository.Garden
	cells      repository.CellOccupancy
	catalog    *catalog.Catalog
	membership Membership
	ledger     economy.Ledger
	locks      *concurrency.LockManager
	bus        event.Bus
	now        func() time.Time
}

// NewService creates a new animal service
func NewService(
	animals repository.Animal,
	gardens repository.Garden,
	cells repository.CellOccupancy,
	cat *catalog.Catalog,
	membership Membership,
	ledger economy.Ledger,
	locks *concurrency.LockManager,
	bus event.Bus,
) Service {
	return &service{
		animals:    animals,
		gardens:    gardens,
		cells:      cells,
		catalog:    cat,
		membership: membership,
		ledger:     ledger,
		locks:      locks,
		bus:        bus,
		now:        time.Now,
	}
}

func (s *service) Purchase(ctx context.Context, userID, gardenID, animalTypeID string, x, y int) (*domain.Animal, error) {
	log := logger.FromContext(ctx)

	animalType, err := s.catalog.Animal(animalTypeID)
	if err != nil {
		return nil, err
	}

	isOwner, err := s.membership.IsOwner(ctx, gardenID, userID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, fmt.Errorf("%w: only the owner can buy animals", domain.ErrNotOwner)
	}

	g, err := s.gardens.GetByID(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to get garden: %w", err)
	}
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return nil, fmt.Errorf("%w: cell out of bounds", domain.ErrInvalidInput)
	}

	lock := s.locks.GetLock(concurrency.CellKey(gardenID, x, y))
	lock.Lock()
	defer lock.Unlock()

	occupied, err := s.cells.CellOccupied(ctx, gardenID, x, y)
	if err != nil {
		return nil, fmt.Errorf("failed to check cell: %w", err)
	}
	if occupied {
		return nil, fmt.Errorf("%w: cell (%d,%d)", domain.ErrOccupied, x, y)
	}

	if _, err := s.ledger.Apply(ctx, userID, economy.Delta{
		Coins: -animalType.Cost, XP: domain.XPBuyAnimal, Reason: reasonPurchase,
	}); err != nil {
		return nil, err
	}

	now := s.now()
	a := &domain.Animal{
		ID:           uuid.New().String(),
		GardenID:     gardenID,
		AnimalTypeID: animalTypeID,
		X:            x,
		Y:            y,
		PurchasedAt:  now,
		LastFedAt:    now,
	}
	if err := s.animals.Create(ctx, a); err != nil {
		if _, refundErr := s.ledger.Apply(ctx, userID, economy.Delta{Coins: animalType.Cost, Reason: reasonPurchase}); refundErr != nil {
			log.Error("Failed to refund animal cost", "error", refundErr, "user_id", userID)
		}
		return nil, fmt.Errorf("failed to create animal: %w", err)
	}

	// A new dog arms the garden's theft protection immediately
	if animalTypeID == domain.DogAnimalTypeID {
		if err := s.gardens.SetHasDog(ctx, gardenID, true); err != nil {
			log.Error("Failed to set dog flag", "error", err, "garden_id", gardenID)
		}
		if err := s.gardens.SetDogFedAt(ctx, gardenID, now); err != nil {
			log.Error("Failed to stamp dog feeding", "error", err, "garden_id", gardenID)
		}
		s.publishGarden(ctx, gardenID, "dog_acquired", userID)
	}

	log.Info("Animal purchased", "animal_id", a.ID, "garden_id", gardenID,
		"animal_type_id", animalTypeID, "user_id", userID)
	s.publishAnimal(ctx, a, "purchase", userID)
	return a, nil
}

func (s *service) Feed(ctx context.Context, userID, animalID string) (*FeedResult, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.AnimalKey(animalID))
	lock.Lock()
	defer lock.Unlock()

	a, err := s.animals.GetByID(ctx, animalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}

	isMember, err := s.membership.IsMember(ctx, a.GardenID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotMember, domain.ErrMsgNotMember)
	}

	animalType, err := s.catalog.Animal(a.AnimalTypeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	isDog := a.AnimalTypeID == domain.DogAnimalTypeID

	// Dogs are always feedable; everything else waits out its interval
	if !isDog {
		ready, left := growth.IntervalReady(a.LastFedAt, animalType.FeedHours, now)
		if !ready {
			return nil, fmt.Errorf("%w: fed again in %.1fh", domain.ErrInvalidState, left)
		}
	}

	if err := s.animals.SetLastFed(ctx, animalID, now); err != nil {
		return nil, fmt.Errorf("failed to stamp feeding: %w", err)
	}
	a.LastFedAt = now

	// Feeding the dog refreshes the garden's protection window
	if isDog {
		if err := s.gardens.SetDogFedAt(ctx, a.GardenID, now); err != nil {
			log.Error("Failed to refresh dog protection", "error", err, "garden_id", a.GardenID)
		}
	}

	result := &FeedResult{XP: domain.XPFeedAnimal}
	delta := economy.Delta{XP: domain.XPFeedAnimal, Reason: reasonFeed}

	if p := animalType.Production; p != nil {
		result.Item = p.Item
		result.Quantity = p.Quantity
		delta.Reason = reasonProduction
		switch p.Item {
		case itemCoin:
			delta.Coins = p.Quantity
		case itemStar:
			delta.Stars = p.Quantity
		}
	}

	if _, err := s.ledger.Apply(ctx, userID, delta); err != nil {
		return nil, err
	}

	log.Info("Animal fed", "animal_id", animalID, "user_id", userID,
		"item", result.Item, "quantity", result.Quantity)
	s.publishAnimal(ctx, a, "feed", userID)
	return result, nil
}

func (s *service) Move(ctx context.Context, userID, animalID string, x, y int) (*domain.Animal, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.AnimalKey(animalID))
	lock.Lock()
	defer lock.Unlock()

	a, err := s.animals.GetByID(ctx, animalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}

	isOwner, err := s.membership.IsOwner(ctx, a.GardenID, userID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, fmt.Errorf("%w: only the owner can move animals", domain.ErrNotOwner)
	}

	if x == a.X && y == a.Y {
		return a, nil
	}

	g, err := s.gardens.GetByID(ctx, a.GardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to get garden: %w", err)
	}
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return nil, fmt.Errorf("%w: cell out of bounds", domain.ErrInvalidInput)
	}

	cellLock := s.locks.GetLock(concurrency.CellKey(a.GardenID, x, y))
	cellLock.Lock()
	defer cellLock.Unlock()

	// The animal's own cell never counts: the target is a different cell
	occupied, err := s.cells.CellOccupied(ctx, a.GardenID, x, y)
	if err != nil {
		return nil, fmt.Errorf("failed to check cell: %w", err)
	}
	if occupied {
		return nil, fmt.Errorf("%w: cell (%d,%d)", domain.ErrOccupied, x, y)
	}

	if err := s.animals.SetPosition(ctx, animalID, x, y); err != nil {
		return nil, fmt.Errorf("failed to move animal: %w", err)
	}
	a.X, a.Y = x, y

	log.Info("Animal moved", "animal_id", animalID, "user_id", userID, "x", x, "y", y)
	s.publishAnimal(ctx, a, "move", userID)
	return a, nil
}

func (s *service) Sell(ctx context.Context, userID, animalID string) (int, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.AnimalKey(animalID))
	lock.Lock()
	defer lock.Unlock()

	a, err := s.animals.GetByID(ctx, animalID)
	if err != nil {
		return 0, fmt.Errorf("failed to get animal: %w", err)
	}

	isOwner, err := s.membership.IsOwner(ctx, a.GardenID, userID)
	if err != nil {
		return 0, err
	}
	if !isOwner {
		return 0, fmt.Errorf("%w: only the owner can sell animals", domain.ErrNotOwner)
	}

	animalType, err := s.catalog.Animal(a.AnimalTypeID)
	if err != nil {
		return 0, err
	}
	salvage := int(math.Floor(float64(animalType.Cost) * domain.SalvageFractionAnimal))

	if err := s.animals.Delete(ctx, animalID); err != nil {
		return 0, fmt.Errorf("failed to delete animal: %w", err)
	}

	// Selling the last dog disarms the garden; another dog keeps it armed
	if a.AnimalTypeID == domain.DogAnimalTypeID {
		remaining, err := s.animals.CountByType(ctx, a.GardenID, domain.DogAnimalTypeID)
		if err != nil {
			log.Error("Failed to count remaining dogs", "error", err, "garden_id", a.GardenID)
		} else if remaining == 0 {
			if err := s.gardens.SetHasDog(ctx, a.GardenID, false); err != nil {
				log.Error("Failed to clear dog flag", "error", err, "garden_id", a.GardenID)
			}
			s.publishGarden(ctx, a.GardenID, "dog_lost", userID)
		}
	}

	if _, err := s.ledger.Apply(ctx, userID, economy.Delta{Coins: salvage, Reason: reasonSalvage}); err != nil {
		log.Error("Failed to credit animal salvage", "error", err, "user_id", userID)
	}

	log.Info("Animal sold", "animal_id", animalID, "user_id", userID, "salvage", salvage)
	s.publishAnimal(ctx, a, "sell", userID)
	return salvage, nil
}

func (s *service) publishAnimal(ctx context.Context, a *domain.Animal, action, actorID string) {
	log := logger.FromContext(ctx)
	err := s.bus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.AnimalUpdated,
		Payload: event.EntityUpdatedPayloadV1{
			GardenID: a.GardenID,
			EntityID: a.ID,
			Action:   action,
			ActorID:  actorID,
			Entity:   a,
		},
	})
	if err != nil {
		log.Warn("Failed to publish animal update", "error", err, "animal_id", a.ID)
	}
}

func (s *service) publishGarden(ctx context.Context, gardenID, action, actorID string) {
	log := logger.FromContext(ctx)
	err := s.bus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.GardenUpdated,
		Payload: event.GardenUpdatedPayloadV1{
			GardenID: gardenID,
			Action:   action,
			ActorID:  actorID,
		},
	})
	if err != nil {
		log.Warn("Failed to publish garden update", "error", err, "garden_id", gardenID)
	}
}
