// Package tree implements tree actions: plant, harvest, remove.
package tree

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
	reasonPlant      = "tree_plant"
	reasonHarvest    = "tree_harvest"
	reasonOwnerShare = "tree_harvest_owner_share"
	reasonSalvage    = "tree_salvage"
)

// Membership is the authorization surface supplied by the garden service
type Membership interface {
	IsMember(ctx context.Context, gardenID, userID string) (bool, error)
	IsOwner(ctx context.Context, gardenID, userID string) (bool, error)
}

// HarvestResult is returned by Harvest
type HarvestResult struct {
	Coins      int  `json:"coins"`
	XP         int  `json:"xp"`
	OwnerCoins int  `json:"owner_coins,omitempty"`
	Neighbor   bool `json:"neighbor"`
}

// Service defines the tree operations
type Service interface {
	Plant(ctx context.Context, userID, gardenID, treeTypeID string, x, y int) (*domain.Tree, error)
	Harvest(ctx context.Context, userID, treeID string) (*HarvestResult, error)
	Remove(ctx context.Context, userID, treeID string) (int, error)
}

type service struct {
	trees      repository.Tree
	gardens    repository.Garden
	cells      repository.CellOccupancy
	catalog    *catalog.Catalog
	membership Membership
	ledger     economy.Ledger
	locks      *concurrency.LockManager
	bus        event.Bus
	now        func() time.Time
}

// NewService creates a new tree service
func NewService(
	trees repository.Tree,
	gardens repository.Garden,
	cells repository.CellOccupancy,
	cat *catalog.Catalog,
	membership Membership,
	ledger economy.Ledger,
	locks *concurrency.LockManager,
	bus event.Bus,
) Service {
	return &service{
		trees:      trees,
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

func (s *service) Plant(ctx context.Context, userID, gardenID, treeTypeID string, x, y int) (*domain.Tree, error) {
	log := logger.FromContext(ctx)

	treeType, err := s.catalog.Tree(treeTypeID)
	if err != nil {
		return nil, err
	}

	isOwner, err := s.membership.IsOwner(ctx, gardenID, userID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, fmt.Errorf("%w: only the owner can plant trees", domain.ErrNotOwner)
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
		Coins: -treeType.Cost, XP: domain.XPPlantTree, Reason: reasonPlant,
	}); err != nil {
		return nil, err
	}

	now := s.now()
	t := &domain.Tree{
		ID:              uuid.New().String(),
		GardenID:        gardenID,
		TreeTypeID:      treeTypeID,
		X:               x,
		Y:               y,
		PlantedAt:       now,
		LastHarvestedAt: now,
	}
	if err := s.trees.Create(ctx, t); err != nil {
		if _, refundErr := s.ledger.Apply(ctx, userID, economy.Delta{Coins: treeType.Cost, Reason: reasonPlant}); refundErr != nil {
			log.Error("Failed to refund tree cost", "error", refundErr, "user_id", userID)
		}
		return nil, fmt.Errorf("failed to create tree: %w", err)
	}

	log.Info("Tree planted", "tree_id", t.ID, "garden_id", gardenID,
		"tree_type_id", treeTypeID, "user_id", userID)
	s.publishTree(ctx, t, "plant", userID)
	return t, nil
}

func (s *service) Harvest(ctx context.Context, userID, treeID string) (*HarvestResult, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.TreeKey(treeID))
	lock.Lock()
	defer lock.Unlock()

	t, err := s.trees.GetByID(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}

	isMember, err := s.membership.IsMember(ctx, t.GardenID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotMember, domain.ErrMsgNotMember)
	}

	treeType, err := s.catalog.Tree(t.TreeTypeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ready, left := growth.IntervalReady(t.LastHarvestedAt, treeType.HarvestHours, now)
	if !ready {
		return nil, fmt.Errorf("%w: ready in %.1fh", domain.ErrInvalidState, left)
	}

	g, err := s.gardens.GetByID(ctx, t.GardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to get garden: %w", err)
	}

	if err := s.trees.SetLastHarvested(ctx, treeID, now); err != nil {
		return nil, fmt.Errorf("failed to stamp harvest: %w", err)
	}
	t.LastHarvestedAt = now

	base := treeType.Harvest.Coins
	result := &HarvestResult{}

	if g.OwnerID == userID {
		result.Coins = base
		result.XP = domain.XPHarvestTree
		if _, err := s.ledger.Apply(ctx, userID, economy.Delta{
			Coins: base, XP: domain.XPHarvestTree, Reason: reasonHarvest,
		}); err != nil {
			return nil, err
		}
	} else {
		// Neighbor harvest: the harvester takes half the base reward and
		// the owner independently receives a quarter of the base.
		result.Neighbor = true
		result.Coins = int(math.Floor(float64(base) * domain.NeighborHarvestShare))
		result.OwnerCoins = int(math.Floor(float64(base) * domain.OwnerHarvestShare))
		result.XP = domain.XPHarvestTree

		if _, err := s.ledger.Apply(ctx, userID, economy.Delta{
			Coins: result.Coins, XP: domain.XPHarvestTree, Reason: reasonHarvest,
		}); err != nil {
			return nil, err
		}
		if _, err := s.ledger.Apply(ctx, g.OwnerID, economy.Delta{
			Coins: result.OwnerCoins, XP: domain.XPTreeOwnerCut, Reason: reasonOwnerShare,
		}); err != nil {
			log.Error("Failed to credit tree owner share", "error", err, "owner_id", g.OwnerID)
		}
	}

	log.Info("Tree harvested", "tree_id", treeID, "user_id", userID,
		"coins", result.Coins, "neighbor", result.Neighbor)
	s.publishTree(ctx, t, "harvest", userID)
	return result, nil
}

func (s *service) Remove(ctx context.Context, userID, treeID string) (int, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.TreeKey(treeID))
	lock.Lock()
	defer lock.Unlock()

	t, err := s.trees.GetByID(ctx, treeID)
	if err != nil {
		return 0, fmt.Errorf("failed to get tree: %w", err)
	}

	isOwner, err := s.membership.IsOwner(ctx, t.GardenID, userID)
	if err != nil {
		return 0, err
	}
	if !isOwner {
		return 0, fmt.Errorf("%w: only the owner can remove trees", domain.ErrNotOwner)
	}

	treeType, err := s.catalog.Tree(t.TreeTypeID)
	if err != nil {
		return 0, err
	}
	salvage := int(math.Floor(float64(treeType.Cost) * domain.SalvageFractionTree))

	if err := s.trees.Delete(ctx, treeID); err != nil {
		return 0, fmt.Errorf("failed to delete tree: %w", err)
	}

	if _, err := s.ledger.Apply(ctx, userID, economy.Delta{Coins: salvage, Reason: reasonSalvage}); err != nil {
		log.Error("Failed to credit tree salvage", "error", err, "user_id", userID)
	}

	log.Info("Tree removed", "tree_id", treeID, "user_id", userID, "salvage", salvage)
	s.publishTree(ctx, t, "remove", userID)
	return salvage, nil
}

func (s *service) publishTree(ctx context.Context, t *domain.Tree, action, actorID string) {
	log := logger.FromContext(ctx)
	err := s.bus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.TreeUpdated,
		Payload: event.EntityUpdatedPayloadV1{
			GardenID: t.GardenID,
			EntityID: t.ID,
			Action:   action,
			ActorID:  actorID,
			Entity:   t,
		},
	})
	if err != nil {
		log.Warn("Failed to publish tree update", "error", err, "tree_id", t.ID)
	}
}
