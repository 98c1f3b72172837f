// Package building implements building actions: build, production
// start/collect, demolish.
package building

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
	reasonBuild   = "building_build"
	reasonStart   = "building_production_start"
	reasonCollect = "building_production_collect"
	reasonSalvage = "building_salvage"
)

// Product kinds from the catalog
const (
	productCoin = "coin"
	productStar = "star"
)

// Membership is the authorization surface supplied by the garden service
type Membership interface {
	IsMember(ctx context.Context, gardenID, userID string) (bool, error)
	IsOwner(ctx context.Context, gardenID, userID string) (bool, error)
}

// CollectResult is returned by Collect
type CollectResult struct {
	Product string `json:"product"`
	Amount  int    `json:"amount"`
	XP      int    `json:"xp"`
}

// Service defines the building operations
type Service interface {
	Build(ctx context.Context, userID, gardenID, buildingTypeID string, x, y int) (*domain.Building, error)
	StartProduction(ctx context.Context, userID, buildingID, recipeID string) (*domain.Building, error)
	Collect(ctx context.Context, userID, buildingID string) (*CollectResult, error)
	Demolish(ctx context.Context, userID, buildingID string) (int, error)
}

type service struct {
	buildings  repository.Building
	gardens    repository.Garden
	cells      repository.CellOccupancy
	catalog    *catalog.Catalog
	membership Membership
	ledger     economy.Ledger
	locks      *concurrency.LockManager
	bus        event.Bus
	now        func() time.Time
}

// NewService creates a new building service
func NewService(
	buildings repository.Building,
	gardens repository.Garden,
	cells repository.CellOccupancy,
	cat *catalog.Catalog,
	membership Membership,
	ledger economy.Ledger,
	locks *concurrency.LockManager,
	bus event.Bus,
) Service {
	return &service{
		buildings:  buildings,
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

func (s *service) Build(ctx context.Context, userID, gardenID, buildingTypeID string, x, y int) (*domain.Building, error) {
	log := logger.FromContext(ctx)

	buildingType, err := s.catalog.Building(buildingTypeID)
	if err != nil {
		return nil, err
	}

	isOwner, err := s.membership.IsOwner(ctx, gardenID, userID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, fmt.Errorf("%w: only the owner can build", domain.ErrNotOwner)
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
		Coins: -buildingType.Cost, XP: domain.XPBuildBuilding, Reason: reasonBuild,
	}); err != nil {
		return nil, err
	}

	now := s.now()
	b := &domain.Building{
		ID:               uuid.New().String(),
		GardenID:         gardenID,
		BuildingTypeID:   buildingTypeID,
		X:                x,
		Y:                y,
		BuiltAt:          now,
		ProductionStatus: domain.ProductionIdle,
		LastCollectedAt:  now,
	}
	if err := s.buildings.Create(ctx, b); err != nil {
		if _, refundErr := s.ledger.Apply(ctx, userID, economy.Delta{Coins: buildingType.Cost, Reason: reasonBuild}); refundErr != nil {
			log.Error("Failed to refund building cost", "error", refundErr, "user_id", userID)
		}
		return nil, fmt.Errorf("failed to create building: %w", err)
	}

	// Storage buildings expand the garden's capacity
	if buildingType.SpecialType == catalog.SpecialTypeStorage && buildingType.StorageBonus > 0 {
		capacity, err := s.gardens.AdjustStorageCapacity(ctx, gardenID, buildingType.StorageBonus)
		if err != nil {
			log.Error("Failed to expand storage capacity", "error", err, "garden_id", gardenID)
		} else {
			log.Info("Storage capacity expanded", "garden_id", gardenID, "capacity", capacity)
			s.publishGarden(ctx, gardenID, "storage_changed", userID)
		}
	}

	log.Info("Building built", "building_id", b.ID, "garden_id", gardenID,
		"building_type_id", buildingTypeID, "user_id", userID)
	s.publishBuilding(ctx, b, "build", userID)
	return b, nil
}

func (s *service) StartProduction(ctx context.Context, userID, buildingID, recipeID string) (*domain.Building, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.BuildingKey(buildingID))
	lock.Lock()
	defer lock.Unlock()

	b, err := s.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get building: %w", err)
	}

	isOwner, err := s.membership.IsOwner(ctx, b.GardenID, userID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, fmt.Errorf("%w: only the owner can start production", domain.ErrNotOwner)
	}

	buildingType, err := s.catalog.Building(b.BuildingTypeID)
	if err != nil {
		return nil, err
	}
	if !buildingType.IsFactory() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidState, domain.ErrMsgNotAFactory)
	}

	recipe, ok := buildingType.FindRecipe(recipeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, recipeID)
	}

	if b.ProductionStatus != domain.ProductionIdle {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidState, domain.ErrMsgAlreadyProducing)
	}

	if _, err := s.ledger.Apply(ctx, userID, economy.Delta{
		Coins: -recipe.IngredientCost, Reason: reasonStart,
	}); err != nil {
		return nil, err
	}

	now := s.now()
	endsAt := now.Add(time.Duration(recipe.ProductionTime) * time.Second)
	if err := s.buildings.StartProduction(ctx, buildingID, recipeID, now, endsAt); err != nil {
		if _, refundErr := s.ledger.Apply(ctx, userID, economy.Delta{Coins: recipe.IngredientCost, Reason: reasonStart}); refundErr != nil {
			log.Error("Failed to refund ingredient cost", "error", refundErr, "user_id", userID)
		}
		return nil, err
	}

	b.ProductionStatus = domain.ProductionProducing
	b.CurrentRecipeID = recipeID
	b.ProductionStartedAt = &now
	b.ProductionEndsAt = &endsAt

	log.Info("Production started", "building_id", buildingID, "recipe_id", recipeID,
		"user_id", userID, "ends_at", endsAt)
	s.publishBuilding(ctx, b, "production_start", userID)
	return b, nil
}

func (s *service) Collect(ctx context.Context, userID, buildingID string) (*CollectResult, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.BuildingKey(buildingID))
	lock.Lock()
	defer lock.Unlock()

	b, err := s.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get building: %w", err)
	}

	isOwner, err := s.membership.IsOwner(ctx, b.GardenID, userID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, fmt.Errorf("%w: only the owner can collect production", domain.ErrNotOwner)
	}

	now := s.now()
	state := growth.DeriveProduction(*b, now)
	if state.Status != domain.ProductionReady {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidState, domain.ErrMsgNotProducing)
	}

	buildingType, err := s.catalog.Building(b.BuildingTypeID)
	if err != nil {
		return nil, err
	}
	recipe, ok := buildingType.FindRecipe(b.CurrentRecipeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, b.CurrentRecipeID)
	}

	if err := s.buildings.FinishProduction(ctx, buildingID, now); err != nil {
		return nil, fmt.Errorf("failed to finish production: %w", err)
	}

	delta := economy.Delta{XP: domain.XPCollect, Reason: reasonCollect}
	switch recipe.Product {
	case productCoin:
		delta.Coins = recipe.ProductAmount
	case productStar:
		delta.Stars = recipe.ProductAmount
	}
	if _, err := s.ledger.Apply(ctx, userID, delta); err != nil {
		return nil, err
	}

	b.ProductionStatus = domain.ProductionIdle
	b.CurrentRecipeID = ""
	b.ProductionStartedAt = nil
	b.ProductionEndsAt = nil
	b.LastCollectedAt = now

	log.Info("Production collected", "building_id", buildingID, "user_id", userID,
		"product", recipe.Product, "amount", recipe.ProductAmount)
	s.publishBuilding(ctx, b, "production_collect", userID)
	return &CollectResult{Product: recipe.Product, Amount: recipe.ProductAmount, XP: domain.XPCollect}, nil
}

func (s *service) Demolish(ctx context.Context, userID, buildingID string) (int, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.BuildingKey(buildingID))
	lock.Lock()
	defer lock.Unlock()

	b, err := s.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return 0, fmt.Errorf("failed to get building: %w", err)
	}

	isOwner, err := s.membership.IsOwner(ctx, b.GardenID, userID)
	if err != nil {
		return 0, err
	}
	if !isOwner {
		return 0, fmt.Errorf("%w: only the owner can demolish", domain.ErrNotOwner)
	}

	buildingType, err := s.catalog.Building(b.BuildingTypeID)
	if err != nil {
		return 0, err
	}
	salvage := int(math.Floor(float64(buildingType.Cost) * domain.SalvageFractionBuilding))

	if err := s.buildings.Delete(ctx, buildingID); err != nil {
		return 0, fmt.Errorf("failed to delete building: %w", err)
	}

	// Tearing down storage shrinks capacity; the repository clamps at zero
	if buildingType.SpecialType == catalog.SpecialTypeStorage && buildingType.StorageBonus > 0 {
		capacity, err := s.gardens.AdjustStorageCapacity(ctx, b.GardenID, -buildingType.StorageBonus)
		if err != nil {
			log.Error("Failed to shrink storage capacity", "error", err, "garden_id", b.GardenID)
		} else {
			log.Info("Storage capacity shrunk", "garden_id", b.GardenID, "capacity", capacity)
			s.publishGarden(ctx, b.GardenID, "storage_changed", userID)
		}
	}

	if _, err := s.ledger.Apply(ctx, userID, economy.Delta{Coins: salvage, Reason: reasonSalvage}); err != nil {
		log.Error("Failed to credit building salvage", "error", err, "user_id", userID)
	}

	log.Info("Building demolished", "building_id", buildingID, "user_id", userID, "salvage", salvage)
	s.publishBuilding(ctx, b, "demolish", userID)
	return salvage, nil
}

func (s *service) publishBuilding(ctx context.Context, b *domain.Building, action, actorID string) {
	log := logger.FromContext(ctx)
	err := s.bus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.BuildingUpdated,
		Payload: event.EntityUpdatedPayloadV1{
			GardenID: b.GardenID,
			EntityID: b.ID,
			Action:   action,
			ActorID:  actorID,
			Entity:   b,
		},
	})
	if err != nil {
		log.Warn("Failed to publish building update", "error", err, "building_id", b.ID)
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
