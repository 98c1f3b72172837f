// Package plot implements actions on planting plots: plant, water,
// harvest, weed removal, and steal attempts.
package plot

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/happyharvest/garden/internal/catalog"
	"github.com/happyharvest/garden/internal/concurrency"
	"github.com/happyharvest/garden/internal/cooldown"
	"github.com/happyharvest/garden/internal/domain"
	"github.com/happyharvest/garden/internal/economy"
	"github.com/happyharvest/garden/internal/event"
	"github.com/happyharvest/garden/internal/growth"
	"github.com/happyharvest/garden/internal/logger"
	"github.com/happyharvest/garden/internal/repository"
	"github.com/happyharvest/garden/internal/theft"
)

// Ledger delta reasons
const (
	reasonPlant       = "plot_plant"
	reasonWaterHelper = "plot_water_helper"
	reasonWaterOwner  = "plot_water_owner"
	reasonHarvest     = "plot_harvest"
	reasonWeed        = "plot_weed"
	reasonTheftGain   = "theft_gain"
	reasonTheftDamage = "theft_damage"
	reasonTheftRepay  = "theft_damage_repaid"
)

// Membership is the authorization surface supplied by the garden service
type Membership interface {
	IsMember(ctx context.Context, gardenID, userID string) (bool, error)
	IsOwner(ctx context.Context, gardenID, userID string) (bool, error)
}

// HarvestResult is returned by Harvest
type HarvestResult struct {
	Coins        int `json:"coins"`
	XP           int `json:"xp"`
	StolePercent int `json:"stole_percent"`
}

// StealResult is the surfaced outcome of a steal attempt
type StealResult struct {
	Success       bool   `json:"success"`
	StolenPercent int    `json:"stolen_percent"`
	StolenValue   int    `json:"stolen_value"`
	ThiefDamage   int    `json:"thief_damage"`
	Reason        string `json:"reason"`
}

// Service defines the plot operations
type Service interface {
	Plant(ctx context.Context, userID, plotID, cropID string) (*domain.Plot, error)
	Water(ctx context.Context, userID, plotID string) (*domain.Plot, error)
	Harvest(ctx context.Context, userID, plotID string) (*HarvestResult, error)
	RemoveWeed(ctx context.Context, userID, plotID string) error
	Steal(ctx context.Context, thiefID, plotID string, protectionItemIDs []string) (*StealResult, error)
}

type service struct {
	plots      repository.Plot
	gardens    repository.Garden
	bonuses    repository.Bonus
	catalog    *catalog.Catalog
	membership Membership
	ledger     economy.Ledger
	cooldowns  cooldown.Service
	resolver   *theft.Resolver
	locks      *concurrency.LockManager
	bus        event.Bus
	now        func() time.Time
}

// NewService creates a new plot service
func NewService(
	plots repository.Plot,
	gardens repository.Garden,
	bonuses repository.Bonus,
	cat *catalog.Catalog,
	membership Membership,
	ledger economy.Ledger,
	cooldowns cooldown.Service,
	resolver *theft.Resolver,
	locks *concurrency.LockManager,
	bus event.Bus,
) Service {
	return &service{
		plots:      plots,
		gardens:    gardens,
		bonuses:    bonuses,
		catalog:    cat,
		membership: membership,
		ledger:     ledger,
		cooldowns:  cooldowns,
		resolver:   resolver,
		locks:      locks,
		bus:        bus,
		now:        time.Now,
	}
}

func (s *service) Plant(ctx context.Context, userID, plotID, cropID string) (*domain.Plot, error) {
	log := logger.FromContext(ctx)

	crop, err := s.catalog.Crop(cropID)
	if err != nil {
		return nil, err
	}

	lock := s.locks.GetLock(concurrency.PlotKey(plotID))
	lock.Lock()
	defer lock.Unlock()

	p, err := s.plots.GetByID(ctx, plotID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plot: %w", err)
	}

	if err := s.requireMember(ctx, p.GardenID, userID); err != nil {
		return nil, err
	}

	if p.Stage != domain.StageEmpty {
		return nil, fmt.Errorf("%w: plot is not empty", domain.ErrOccupied)
	}

	// Debit the seed cost before touching the plot; a failed update
	// below rolls this back.
	if _, err := s.ledger.Apply(ctx, userID, economy.Delta{Coins: -crop.SeedCost, Reason: reasonPlant}); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.plots.Plant(ctx, plotID, cropID, now); err != nil {
		// Conditional update lost: refund the seed
		if _, refundErr := s.ledger.Apply(ctx, userID, economy.Delta{Coins: crop.SeedCost, Reason: reasonPlant}); refundErr != nil {
			log.Error("Failed to refund seed cost after plant race", "error", refundErr, "user_id", userID)
		}
		return nil, err
	}

	p.Stage = domain.StageSeed
	p.PlantID = cropID
	p.PlantedAt = &now
	p.LastWateredAt = &now
	p.StolePercent = 0
	p.Pest = false

	log.Info("Plot planted", "plot_id", plotID, "crop_id", cropID, "user_id", userID)
	s.publishPlot(ctx, p, "plant", userID)
	return p, nil
}

func (s *service) Water(ctx context.Context, userID, plotID string) (*domain.Plot, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.PlotKey(plotID))
	lock.Lock()
	defer lock.Unlock()

	p, err := s.plots.GetByID(ctx, plotID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plot: %w", err)
	}

	if err := s.requireMember(ctx, p.GardenID, userID); err != nil {
		return nil, err
	}

	now := s.now()
	params, result, err := s.derive(ctx, p, now)
	if err != nil {
		return nil, err
	}
	if result.Stage == domain.StageEmpty || result.Stage == domain.StageHarvest {
		return nil, fmt.Errorf("%w: nothing to water", domain.ErrInvalidState)
	}

	// Watering rewinds plantedAt by 10% of the remaining grow time
	newPlantedAt := growth.ApplyWatering(params, now)
	if err := s.plots.SetLastWatered(ctx, plotID, newPlantedAt, now); err != nil {
		return nil, fmt.Errorf("failed to water plot: %w", err)
	}
	p.PlantedAt = &newPlantedAt
	p.LastWateredAt = &now

	// Helping a neighbor's garden earns XP on both sides
	g, err := s.gardens.GetByID(ctx, p.GardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to get garden: %w", err)
	}
	if g.OwnerID != userID {
		if _, err := s.ledger.Apply(ctx, userID, economy.Delta{XP: domain.XPWaterHelper, Reason: reasonWaterHelper}); err != nil {
			log.Warn("Failed to grant helper XP", "error", err, "user_id", userID)
		}
		if _, err := s.ledger.Apply(ctx, g.OwnerID, economy.Delta{XP: domain.XPWaterOwner, Reason: reasonWaterOwner}); err != nil {
			log.Warn("Failed to grant owner XP", "error", err, "user_id", g.OwnerID)
		}
	}

	log.Info("Plot watered", "plot_id", plotID, "user_id", userID)
	s.publishPlot(ctx, p, "water", userID)
	return p, nil
}

func (s *service) Harvest(ctx context.Context, userID, plotID string) (*HarvestResult, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.PlotKey(plotID))
	lock.Lock()
	defer lock.Unlock()

	p, err := s.plots.GetByID(ctx, plotID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plot: %w", err)
	}

	isOwner, err := s.membership.IsOwner(ctx, p.GardenID, userID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, fmt.Errorf("%w: only the owner can harvest", domain.ErrNotOwner)
	}

	now := s.now()
	_, result, err := s.derive(ctx, p, now)
	if err != nil {
		return nil, err
	}
	if result.Stage != domain.StageHarvest {
		return nil, fmt.Errorf("%w: plot is not ready to harvest", domain.ErrInvalidState)
	}

	crop, err := s.catalog.Crop(p.PlantID)
	if err != nil {
		return nil, err
	}

	// Both rewards shrink by the cumulative stolen percentage
	keep := 1 - float64(p.StolePercent)/100
	coins := int(math.Floor(float64(crop.Yield) * keep))
	xp := int(math.Floor(float64(crop.XP) * keep))

	// Credit before clearing so a failed credit leaves the plot intact
	if _, err := s.ledger.Apply(ctx, userID, economy.Delta{Coins: coins, XP: xp, Reason: reasonHarvest}); err != nil {
		return nil, err
	}

	if err := s.plots.Clear(ctx, plotID); err != nil {
		if _, refundErr := s.ledger.Apply(ctx, userID, economy.Delta{Coins: -coins, XP: -xp, Reason: reasonHarvest}); refundErr != nil {
			log.Error("Failed to revert harvest reward after clear failure", "error", refundErr, "user_id", userID)
		}
		return nil, fmt.Errorf("failed to clear plot: %w", err)
	}

	harvested := HarvestResult{Coins: coins, XP: xp, StolePercent: p.StolePercent}

	p.Stage = domain.StageEmpty
	p.PlantID = ""
	p.PlantedAt = nil
	p.LastWateredAt = nil
	p.StolePercent = 0
	p.Pest = false

	log.Info("Plot harvested", "plot_id", plotID, "user_id", userID,
		"coins", coins, "xp", xp)
	s.publishPlot(ctx, p, "harvest", userID)
	return &harvested, nil
}

func (s *service) RemoveWeed(ctx context.Context, userID, plotID string) error {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.PlotKey(plotID))
	lock.Lock()
	defer lock.Unlock()

	p, err := s.plots.GetByID(ctx, plotID)
	if err != nil {
		return fmt.Errorf("failed to get plot: %w", err)
	}

	if err := s.requireMember(ctx, p.GardenID, userID); err != nil {
		return err
	}

	if !p.Pest {
		return fmt.Errorf("%w: no weed on this plot", domain.ErrInvalidState)
	}

	if err := s.plots.SetPest(ctx, plotID, false); err != nil {
		return fmt.Errorf("failed to clear pest: %w", err)
	}
	p.Pest = false

	if _, err := s.ledger.Apply(ctx, userID, economy.Delta{XP: domain.XPRemoveWeed, Reason: reasonWeed}); err != nil {
		log.Warn("Failed to grant weeding XP", "error", err, "user_id", userID)
	}

	log.Info("Weed removed", "plot_id", plotID, "user_id", userID)
	s.publishPlot(ctx, p, "weed", userID)
	return nil
}

func (s *service) Steal(ctx context.Context, thiefID, plotID string, protectionItemIDs []string) (*StealResult, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.PlotKey(plotID))
	lock.Lock()
	defer lock.Unlock()

	p, err := s.plots.GetByID(ctx, plotID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plot: %w", err)
	}

	g, err := s.gardens.GetByID(ctx, p.GardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to get garden: %w", err)
	}
	if g.OwnerID == thiefID {
		return nil, fmt.Errorf("%w: cannot steal from your own garden", domain.ErrNotPermitted)
	}

	now := s.now()
	_, derived, err := s.derive(ctx, p, now)
	if err != nil {
		return nil, err
	}

	var crop catalog.Crop
	if p.PlantID != "" {
		crop, err = s.catalog.Crop(p.PlantID)
		if err != nil {
			return nil, err
		}
	}

	var out StealResult
	err = s.cooldowns.EnforceCooldown(ctx, thiefID, cooldown.ActionTheft, p.GardenID, func() error {
		result := s.resolver.Resolve(theft.Params{
			PlotStage:       derived.Stage,
			HasDog:          g.HasDog,
			DogFedAt:        g.DogFedAt,
			PlotValue:       crop.Yield,
			ProtectionItems: s.catalog.ProtectionItems(protectionItemIDs),
		}, now)

		out = StealResult(result)
		if !result.Success {
			// A legal attempt that failed by game rule; burn the
			// cooldown but change nothing.
			return nil
		}

		return s.applyTheft(ctx, p, g, thiefID, result)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Steal attempt resolved", "plot_id", plotID, "thief_id", thiefID,
		"success", out.Success, "stolen_percent", out.StolenPercent,
		"stolen_value", out.StolenValue, "thief_damage", out.ThiefDamage)

	if pubErr := s.bus.Publish(ctx, event.NewTheftAttemptedEvent(
		p.GardenID, p.ID, g.OwnerID, thiefID, out.Success,
		out.StolenPercent, out.StolenValue, out.ThiefDamage, out.Reason,
	)); pubErr != nil {
		log.Warn("Failed to publish theft event", "error", pubErr)
	}

	return &out, nil
}

// applyTheft moves the stolen value and damage between the thief, the
// plot and the owner.
func (s *service) applyTheft(ctx context.Context, p *domain.Plot, g *domain.Garden, thiefID string, result theft.Result) error {
	log := logger.FromContext(ctx)

	newPercent := p.StolePercent + result.StolenPercent
	if newPercent > 100 {
		newPercent = 100
	}
	if err := s.plots.SetStolePercent(ctx, p.ID, newPercent); err != nil {
		return fmt.Errorf("failed to record stolen percent: %w", err)
	}
	p.StolePercent = newPercent

	// Thief gains the loot, then pays damage clamped at zero
	thiefBefore, err := s.ledger.Apply(ctx, thiefID, economy.Delta{
		Coins: result.StolenValue, XP: domain.XPTheftSuccess, Reason: reasonTheftGain,
	})
	if err != nil {
		return err
	}

	if result.ThiefDamage > 0 {
		after, err := s.ledger.ApplyClamped(ctx, thiefID, -result.ThiefDamage, reasonTheftDamage)
		if err != nil {
			return err
		}

		// The owner receives what the thief actually paid, which can be
		// less than the nominal damage when the clamp hit.
		actualLoss := thiefBefore.User.Coins - after.Coins
		if actualLoss > 0 {
			if _, err := s.ledger.Apply(ctx, g.OwnerID, economy.Delta{Coins: actualLoss, Reason: reasonTheftRepay}); err != nil {
				log.Error("Failed to credit owner with theft damage", "error", err, "owner_id", g.OwnerID)
			}
		}
	}

	return nil
}

// derive computes a plot's current growth state with the owner's bonuses
func (s *service) derive(ctx context.Context, p *domain.Plot, now time.Time) (growth.Params, growth.Result, error) {
	if p.Stage == domain.StageEmpty || p.PlantedAt == nil {
		return growth.Params{}, growth.Result{Stage: domain.StageEmpty}, nil
	}

	crop, err := s.catalog.Crop(p.PlantID)
	if err != nil {
		return growth.Params{}, growth.Result{}, err
	}

	g, err := s.gardens.GetByID(ctx, p.GardenID)
	if err != nil {
		return growth.Params{}, growth.Result{}, fmt.Errorf("failed to get garden: %w", err)
	}

	multiplier := 1.0
	if s.bonuses != nil {
		multiplier, err = s.bonuses.ActiveMultiplier(ctx, g.OwnerID, now)
		if err != nil {
			return growth.Params{}, growth.Result{}, fmt.Errorf("failed to get active bonus: %w", err)
		}
	}

	params := growth.Params{
		PlantedAt:     *p.PlantedAt,
		LastWateredAt: p.LastWateredAt,
		GrowTime:      time.Duration(crop.GrowTime) * time.Second,
		Multipliers:   growth.Multipliers{InviteBonus: multiplier},
	}
	return params, growth.Derive(params, now), nil
}

func (s *service) requireMember(ctx context.Context, gardenID, userID string) error {
	isMember, err := s.membership.IsMember(ctx, gardenID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return fmt.Errorf("%w: not a garden member", domain.ErrNotMember)
	}
	return nil
}

func (s *service) publishPlot(ctx context.Context, p *domain.Plot, action, actorID string) {
	log := logger.FromContext(ctx)
	err := s.bus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.PlotUpdated,
		Payload: event.PlotUpdatedPayloadV1{
			GardenID: p.GardenID,
			PlotID:   p.ID,
			Action:   action,
			ActorID:  actorID,
			Plot:     p,
		},
	})
	if err != nil {
		log.Warn("Failed to publish plot update", "error", err, "plot_id", p.ID)
	}
}
