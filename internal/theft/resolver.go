// Package theft resolves steal attempts against mature plots,
// incorporating guard-dog protection and stacked protection items.
package theft

import (
	"math"
	"math/rand"
	"time"

	"github.com/happyharvest/garden/internal/catalog"
	"github.com/happyharvest/garden/internal/domain"
)

// Outcome reason codes surfaced to the actor
const (
	ReasonNotMature  = "cannot_steal_immature"
	ReasonWithDamage = "theft_with_damage"
	ReasonSuccess    = "theft_success"
)

// Params describe a single steal attempt
type Params struct {
	PlotStage       domain.PlotStage
	HasDog          bool
	DogFedAt        *time.Time
	PlotValue       int // catalog yield of the target plot's crop
	ProtectionItems []catalog.ProtectionItem
}

// Result is the computed outcome of a steal attempt. A failed attempt
// (non-mature target) is a defined outcome, not an error.
type Result struct {
	Success       bool   `json:"success"`
	StolenPercent int    `json:"stolen_percent"`
	StolenValue   int    `json:"stolen_value"`
	ThiefDamage   int    `json:"thief_damage"`
	Reason        string `json:"reason"`
}

// Resolver computes theft outcomes. The randomness source is injected so
// outcomes are reproducible in tests.
type Resolver struct {
	rng *rand.Rand
}

// NewResolver creates a Resolver backed by the given source.
func NewResolver(src rand.Source) *Resolver {
	return &Resolver{rng: rand.New(src)}
}

// Resolve computes the outcome of a steal attempt at now.
// Preconditions (thief is not the owner, cooldown elapsed) are checked by
// the caller; this only encodes the protection math and the draw.
func (r *Resolver) Resolve(p Params, now time.Time) Result {
	if p.PlotStage != domain.StageMature {
		return Result{Reason: ReasonNotMature}
	}

	maxPercent := float64(domain.MaxTheftPercent)
	thiefDamage := 0

	if p.HasDog && dogFedWithinDay(p.DogFedAt, now) {
		maxPercent *= domain.DogProtectionFactor
		thiefDamage += domain.DogDamageAmount
	}

	for _, item := range p.ProtectionItems {
		maxPercent *= 1 - float64(item.ProtectionPercent)/100
		thiefDamage += item.DamageToThief
	}

	// Theft always takes at least 10% when it succeeds at all. The floor
	// is applied after the ceiling, so a plot protected down below 10%
	// still loses exactly 10% per successful attempt.
	drawn := math.Floor(r.rng.Float64() * maxPercent)
	actual := math.Max(domain.MinTheftPercent, math.Min(drawn, maxPercent))
	actualPercent := int(actual)

	stolenValue := int(math.Floor(float64(p.PlotValue) * actual / 100))

	reason := ReasonSuccess
	if thiefDamage > 0 {
		reason = ReasonWithDamage
	}

	return Result{
		Success:       true,
		StolenPercent: actualPercent,
		StolenValue:   stolenValue,
		ThiefDamage:   thiefDamage,
		Reason:        reason,
	}
}

func dogFedWithinDay(fedAt *time.Time, now time.Time) bool {
	if fedAt == nil {
		return false
	}
	return now.Sub(*fedAt) < domain.DogProtectionHours*time.Hour
}

// CanAttempt reports whether the per-garden theft cooldown has elapsed.
func CanAttempt(lastAttempt *time.Time, now time.Time) bool {
	if lastAttempt == nil {
		return true
	}
	return now.Sub(*lastAttempt).Hours() >= domain.TheftCooldownHours
}
