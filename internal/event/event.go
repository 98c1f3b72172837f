package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Event types published by the game services
const (
	PlotUpdated     Type = "plot.updated"
	GardenUpdated   Type = "garden.updated"
	TreeUpdated     Type = "tree.updated"
	AnimalUpdated   Type = "animal.updated"
	BuildingUpdated Type = "building.updated"
	TheftAttempted  Type = "theft.attempted"
	UserLeveledUp   Type = "user.leveled_up"
)

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// EventSchemaVersion is the current event schema version
const EventSchemaVersion = "1.0"

// Typed event payloads for type safety

// PlotUpdatedPayloadV1 carries the garden scope plus the changed plot.
// The plot is sent as a derived snapshot so subscribers never have to
// compute growth themselves.
type PlotUpdatedPayloadV1 struct {
	GardenID string      `json:"garden_id"`
	PlotID   string      `json:"plot_id"`
	Action   string      `json:"action"` // plant, water, harvest, steal, weed
	ActorID  string      `json:"actor_id"`
	Plot     interface{} `json:"plot"`
}

// GardenUpdatedPayloadV1 signals garden-level changes (membership, dog,
// storage capacity).
type GardenUpdatedPayloadV1 struct {
	GardenID string      `json:"garden_id"`
	Action   string      `json:"action"`
	ActorID  string      `json:"actor_id"`
	Garden   interface{} `json:"garden,omitempty"`
}

// EntityUpdatedPayloadV1 covers tree, animal and building changes.
type EntityUpdatedPayloadV1 struct {
	GardenID string      `json:"garden_id"`
	EntityID string      `json:"entity_id"`
	Action   string      `json:"action"` // plant, harvest, feed, move, sell, build, collect, demolish
	ActorID  string      `json:"actor_id"`
	Entity   interface{} `json:"entity,omitempty"`
}

// TheftAttemptedPayloadV1 is broadcast to the victim garden after a
// steal attempt resolves, successful or not.
type TheftAttemptedPayloadV1 struct {
	GardenID      string `json:"garden_id"`
	PlotID        string `json:"plot_id"`
	OwnerID       string `json:"owner_id"`
	ThiefID       string `json:"thief_id"`
	Success       bool   `json:"success"`
	StolenPercent int    `json:"stolen_percent"`
	StolenValue   int    `json:"stolen_value"`
	ThiefDamage   int    `json:"thief_damage"`
	Reason        string `json:"reason"`
	Timestamp     int64  `json:"timestamp"`
}

// UserLeveledUpPayloadV1 is delivered only to the user who leveled.
type UserLeveledUpPayloadV1 struct {
	UserID   string `json:"user_id"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
	XP       int    `json:"xp"`
}

// NewTheftAttemptedEvent builds a theft event with the current timestamp.
func NewTheftAttemptedEvent(gardenID, plotID, ownerID, thiefID string, success bool, stolenPercent, stolenValue, thiefDamage int, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TheftAttempted,
		Payload: TheftAttemptedPayloadV1{
			GardenID:      gardenID,
			PlotID:        plotID,
			OwnerID:       ownerID,
			ThiefID:       thiefID,
			Success:       success,
			StolenPercent: stolenPercent,
			StolenValue:   stolenValue,
			ThiefDamage:   thiefDamage,
			Reason:        reason,
			Timestamp:     time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run
// synchronously; a failing handler does not stop the rest.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("encountered %d errors while handling event %s: %v", len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
