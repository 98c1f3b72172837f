package metrics

import (
	"context"

	"github.com/happyharvest/garden/internal/event"
	"github.com/happyharvest/garden/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.PlotUpdated,
		event.GardenUpdated,
		event.TreeUpdated,
		event.AnimalUpdated,
		event.BuildingUpdated,
		event.TheftAttempted,
		event.UserLeveledUp,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	// Record business metrics based on event type
	switch payload := evt.Payload.(type) {
	case event.PlotUpdatedPayloadV1:
		PlotActions.WithLabelValues(payload.Action).Inc()

	case event.TheftAttemptedPayloadV1:
		TheftsAttempted.Inc()
		if payload.Success {
			TheftsSucceeded.Inc()
			CoinsStolen.Add(float64(payload.StolenValue))
		}

	case event.UserLeveledUpPayloadV1:
		LevelUps.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
