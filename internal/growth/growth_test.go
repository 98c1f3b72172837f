package growth

import (
	"testing"
	"time"

	"github.com/happyharvest/garden/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseParams(plantedAt time.Time) Params {
	return Params{
		PlantedAt: plantedAt,
		GrowTime:  time.Hour,
	}
}

func TestDerive_StageThresholds(t *testing.T) {
	plantedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := baseParams(plantedAt)

	tests := []struct {
		name     string
		elapsed  time.Duration
		expected domain.PlotStage
	}{
		{"just planted", 0, domain.StageSeed},
		{"under sprout boundary", 14 * time.Minute, domain.StageSeed},
		{"at sprout boundary", 15 * time.Minute, domain.StageSprout},
		{"under mature boundary", 44 * time.Minute, domain.StageSprout},
		{"at mature boundary", 45 * time.Minute, domain.StageMature},
		{"just under full", 59*time.Minute + 59*time.Second, domain.StageMature},
		{"exactly full is harvest-ready", 60 * time.Minute, domain.StageHarvest},
		{"past full stays harvest-ready", 3 * time.Hour, domain.StageHarvest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Derive(p, plantedAt.Add(tt.elapsed))
			assert.Equal(t, tt.expected, result.Stage)
		})
	}
}

func TestDerive_Idempotent(t *testing.T) {
	plantedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := baseParams(plantedAt)
	now := plantedAt.Add(30 * time.Minute)

	first := Derive(p, now)
	second := Derive(p, now)

	assert.Equal(t, first, second)
}

func TestDerive_MonotonicInNow(t *testing.T) {
	plantedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := baseParams(plantedAt)

	prev := -1.0
	for elapsed := time.Duration(0); elapsed <= 2*time.Hour; elapsed += 5 * time.Minute {
		result := Derive(p, plantedAt.Add(elapsed))
		require.GreaterOrEqual(t, result.ProgressPercent, prev,
			"progress must never decrease as time advances")
		prev = result.ProgressPercent
	}
}

func TestDerive_ProgressClamped(t *testing.T) {
	plantedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := baseParams(plantedAt)

	result := Derive(p, plantedAt.Add(10*time.Hour))
	assert.Equal(t, 100.0, result.ProgressPercent)
	assert.Equal(t, time.Duration(0), result.Remaining)
}

func TestDerive_MultipliersSpeedUpOnly(t *testing.T) {
	plantedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := plantedAt.Add(30 * time.Minute)

	// 2x invite bonus halves the effective duration
	p := baseParams(plantedAt)
	p.Multipliers.InviteBonus = 2.0
	result := Derive(p, now)
	assert.Equal(t, domain.StageHarvest, result.Stage, "30m elapsed of a 30m effective duration")

	// Factors <= 1 are ignored, never multiplied in
	p = baseParams(plantedAt)
	p.Multipliers.WeatherBonus = 0.5
	p.Multipliers.FertilizerBonus = 1.0
	slowed := Derive(p, now)
	plain := Derive(baseParams(plantedAt), now)
	assert.Equal(t, plain.ProgressPercent, slowed.ProgressPercent,
		"sub-unity factors must not slow growth down")
}

func TestDerive_CompoundMultipliers(t *testing.T) {
	m := Multipliers{InviteBonus: 2.0, FertilizerBonus: 1.5, WeatherBonus: 0.8}
	assert.InDelta(t, 3.0, m.Compound(), 1e-9)
}

func TestDerive_NeedsWater(t *testing.T) {
	plantedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := Params{PlantedAt: plantedAt, GrowTime: 100 * time.Hour}

	fresh := Derive(p, plantedAt.Add(7*time.Hour))
	assert.False(t, fresh.NeedsWater)

	thirsty := Derive(p, plantedAt.Add(9*time.Hour))
	assert.True(t, thirsty.NeedsWater)

	// A recent watering resets the clock even when plantedAt is old
	watered := plantedAt.Add(8 * time.Hour)
	p.LastWateredAt = &watered
	result := Derive(p, plantedAt.Add(9*time.Hour))
	assert.False(t, result.NeedsWater)
}

func TestApplyWatering_RewindsByTenPercentOfRemaining(t *testing.T) {
	plantedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := baseParams(plantedAt) // 1h grow time
	now := plantedAt.Add(30 * time.Minute)

	before := Derive(p, now)
	require.Equal(t, 30*time.Minute, before.Remaining)

	newPlantedAt := ApplyWatering(p, now)
	assert.Equal(t, plantedAt.Add(-3*time.Minute), newPlantedAt,
		"rewind must be exactly 10%% of the pre-water remaining time")

	p.PlantedAt = newPlantedAt
	after := Derive(p, now)
	assert.Equal(t, 27*time.Minute, after.Remaining)
	assert.Less(t, after.Remaining, before.Remaining,
		"watering always strictly decreases remaining time")
}

func TestApplyWatering_FullyGrownIsNoop(t *testing.T) {
	plantedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := baseParams(plantedAt)

	newPlantedAt := ApplyWatering(p, plantedAt.Add(2*time.Hour))
	assert.Equal(t, plantedAt, newPlantedAt)
}

func TestApplyWatering_DoesNotSkipStages(t *testing.T) {
	plantedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := baseParams(plantedAt)
	now := plantedAt.Add(10 * time.Minute) // seed stage

	p.PlantedAt = ApplyWatering(p, now)
	result := Derive(p, now)

	// 10% of 50m remaining = 5m; progress goes from 10/60 to 15/60 = 25%
	assert.Equal(t, domain.StageSprout, result.Stage)
	assert.InDelta(t, 25.0, result.ProgressPercent, 0.01)
}

func TestIntervalReady(t *testing.T) {
	last := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	ready, left := IntervalReady(last, 24, last.Add(23*time.Hour))
	assert.False(t, ready)
	assert.InDelta(t, 1.0, left, 1e-9)

	ready, left = IntervalReady(last, 24, last.Add(24*time.Hour))
	assert.True(t, ready)
	assert.Zero(t, left)
}

func TestDeriveProduction(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	producing := domain.Building{
		ProductionStatus:    domain.ProductionProducing,
		ProductionStartedAt: &start,
		ProductionEndsAt:    &end,
	}

	mid := DeriveProduction(producing, start.Add(30*time.Minute))
	assert.Equal(t, domain.ProductionProducing, mid.Status)
	assert.InDelta(t, 50.0, mid.ProgressPercent, 0.01)
	assert.Equal(t, 30*time.Minute, mid.Remaining)

	done := DeriveProduction(producing, end)
	assert.Equal(t, domain.ProductionReady, done.Status)
	assert.Equal(t, 100.0, done.ProgressPercent)

	idle := DeriveProduction(domain.Building{ProductionStatus: domain.ProductionIdle}, start)
	assert.Equal(t, domain.ProductionIdle, idle.Status)
}
