// Package growth computes derived lifecycle state for garden entities.
// State is never stored as a discrete machine transition log: everything
// here is a pure function of persisted timestamps and catalog durations,
// so it can be recomputed on every read without drift.
package growth

import (
	"time"

	"github.com/happyharvest/garden/internal/domain"
)

// Multipliers are the active growth bonuses for a plot. A factor only
// applies when it is strictly greater than 1: bonuses speed growth up,
// they never slow it down.
type Multipliers struct {
	InviteBonus     float64
	FertilizerBonus float64
	WeatherBonus    float64
	NeighborHelp    float64
}

// Compound returns the product of all applicable factors.
func (m Multipliers) Compound() float64 {
	effective := 1.0
	for _, f := range []float64{m.InviteBonus, m.FertilizerBonus, m.WeatherBonus, m.NeighborHelp} {
		if f > 1 {
			effective *= f
		}
	}
	return effective
}

// Params are the inputs for a plot growth derivation
type Params struct {
	PlantedAt     time.Time
	LastWateredAt *time.Time
	GrowTime      time.Duration // base growth duration from the catalog
	Multipliers   Multipliers
}

// Result is the derived state of a growing plot
type Result struct {
	Stage           domain.PlotStage
	ProgressPercent float64 // 0-100
	Remaining       time.Duration
	ReadyAt         time.Time
	NeedsWater      bool
}

// Stage thresholds as progress percentages. Boundaries are inclusive on
// the upper side only: exactly 100 is harvest-ready, not mature.
const (
	sproutThreshold  = 25.0
	matureThreshold  = 75.0
	harvestThreshold = 100.0
)

// Derive computes the current growth state of a planted plot.
// It is deterministic and idempotent for a fixed now, and progress is
// monotonic in now.
func Derive(p Params, now time.Time) Result {
	effective := time.Duration(float64(p.GrowTime) / p.Multipliers.Compound())

	elapsed := now.Sub(p.PlantedAt)
	remaining := effective - elapsed
	if remaining < 0 {
		remaining = 0
	}

	progress := 0.0
	if effective > 0 {
		progress = float64(elapsed) / float64(effective) * 100
	}
	if progress > harvestThreshold {
		progress = harvestThreshold
	}
	if progress < 0 {
		progress = 0
	}

	lastWatered := p.PlantedAt
	if p.LastWateredAt != nil {
		lastWatered = *p.LastWateredAt
	}

	return Result{
		Stage:           stageFor(progress),
		ProgressPercent: progress,
		Remaining:       remaining,
		ReadyAt:         p.PlantedAt.Add(effective),
		NeedsWater:      now.Sub(lastWatered) > domain.NeedsWaterAfterHours*time.Hour,
	}
}

func stageFor(progress float64) domain.PlotStage {
	switch {
	case progress >= harvestThreshold:
		return domain.StageHarvest
	case progress >= matureThreshold:
		return domain.StageMature
	case progress >= sproutThreshold:
		return domain.StageSprout
	default:
		return domain.StageSeed
	}
}

// ApplyWatering returns the new plantedAt produced by watering at now.
// Watering rewinds plantedAt by 10% of the remaining effective growth
// time, which is the mechanism by which it accelerates growth; it never
// advances the discrete stage directly. The caller persists the returned
// timestamp together with lastWateredAt = now.
func ApplyWatering(p Params, now time.Time) time.Time {
	waterBoost := float64(domain.WateringBoostPercent) / 100

	effective := time.Duration(float64(p.GrowTime) / p.Multipliers.Compound())
	remaining := effective - now.Sub(p.PlantedAt)
	if remaining <= 0 {
		return p.PlantedAt
	}

	skip := time.Duration(float64(remaining) * waterBoost)
	return p.PlantedAt.Add(-skip)
}

// HoursSince returns fractional hours elapsed between then and now.
func HoursSince(then, now time.Time) float64 {
	return now.Sub(then).Hours()
}

// IntervalReady reports whether an interval-cycled entity (tree harvest,
// animal feed) is ready again, plus the remaining hours when it is not.
func IntervalReady(last time.Time, intervalHours float64, now time.Time) (bool, float64) {
	left := intervalHours - HoursSince(last, now)
	if left <= 0 {
		return true, 0
	}
	return false, left
}

// ProductionState derives a building's effective production status from
// its stored fields. "ready" exists only here, never in storage.
type ProductionState struct {
	Status          domain.ProductionStatus
	ProgressPercent float64
	Remaining       time.Duration
}

// DeriveProduction computes a building's current production state.
func DeriveProduction(b domain.Building, now time.Time) ProductionState {
	if b.ProductionStatus != domain.ProductionProducing || b.ProductionStartedAt == nil || b.ProductionEndsAt == nil {
		return ProductionState{Status: domain.ProductionIdle}
	}

	start := *b.ProductionStartedAt
	end := *b.ProductionEndsAt
	if !now.Before(end) {
		return ProductionState{Status: domain.ProductionReady, ProgressPercent: 100}
	}

	total := end.Sub(start)
	progress := 0.0
	if total > 0 {
		progress = float64(now.Sub(start)) / float64(total) * 100
	}

	return ProductionState{
		Status:          domain.ProductionProducing,
		ProgressPercent: progress,
		Remaining:       end.Sub(now),
	}
}
