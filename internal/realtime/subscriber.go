package realtime

import (
	"context"
	"log/slog"

	"github.com/happyharvest/garden/internal/event"
)

// Subscriber bridges the internal event bus to the websocket hub.
// Garden-scoped events broadcast to the garden's watchers; level-ups
// unicast to the affected user only, and theft outcomes additionally
// unicast to the garden owner.
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new realtime subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers handlers for all relevant event types
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.PlotUpdated, s.handlePlotUpdated)
	s.bus.Subscribe(event.GardenUpdated, s.handleGardenUpdated)
	s.bus.Subscribe(event.TreeUpdated, s.handleEntityUpdated(event.TreeUpdated))
	s.bus.Subscribe(event.AnimalUpdated, s.handleEntityUpdated(event.AnimalUpdated))
	s.bus.Subscribe(event.BuildingUpdated, s.handleEntityUpdated(event.BuildingUpdated))
	s.bus.Subscribe(event.TheftAttempted, s.handleTheftAttempted)
	s.bus.Subscribe(event.UserLeveledUp, s.handleUserLeveledUp)

	slog.Info("Realtime subscriber registered for event types",
		"types", []string{
			string(event.PlotUpdated),
			string(event.GardenUpdated),
			string(event.TreeUpdated),
			string(event.AnimalUpdated),
			string(event.BuildingUpdated),
			string(event.TheftAttempted),
			string(event.UserLeveledUp),
		})
}

func (s *Subscriber) handlePlotUpdated(_ context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.PlotUpdatedPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn("Invalid plot update payload", "error", err)
		return nil
	}
	s.hub.Broadcast(payload.GardenID, NewMessage(string(evt.Type), payload))
	return nil
}

func (s *Subscriber) handleGardenUpdated(_ context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.GardenUpdatedPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn("Invalid garden update payload", "error", err)
		return nil
	}
	s.hub.Broadcast(payload.GardenID, NewMessage(string(evt.Type), payload))
	return nil
}

func (s *Subscriber) handleEntityUpdated(t event.Type) event.Handler {
	return func(_ context.Context, evt event.Event) error {
		payload, err := event.DecodePayload[event.EntityUpdatedPayloadV1](evt.Payload)
		if err != nil {
			slog.Warn("Invalid entity update payload", "error", err, "type", t)
			return nil
		}
		s.hub.Broadcast(payload.GardenID, NewMessage(string(t), payload))
		return nil
	}
}

func (s *Subscriber) handleTheftAttempted(_ context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.TheftAttemptedPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn("Invalid theft payload", "error", err)
		return nil
	}
	msg := NewMessage(string(evt.Type), payload)
	s.hub.Broadcast(payload.GardenID, msg)

	// The owner hears about thefts even when not watching the garden.
	// A watching owner already got the broadcast.
	if payload.OwnerID != "" && !s.hub.IsSubscribed(payload.GardenID, payload.OwnerID) {
		s.hub.Unicast(payload.OwnerID, msg)
	}
	return nil
}

func (s *Subscriber) handleUserLeveledUp(_ context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.UserLeveledUpPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn("Invalid level-up payload", "error", err)
		return nil
	}
	s.hub.Unicast(payload.UserID, NewMessage(string(evt.Type), payload))
	return nil
}
