package events

import (
	"context"
	"encoding/json"
	"log/slog"
)

// EventReader is the subscribe-side facade used by the index worker.
type EventReader struct {
	bus    Bus
	config *EventConfig
	logger *slog.Logger
}

func NewEventReader(bus Bus, config *EventConfig, logger *slog.Logger) *EventReader {
	return &EventReader{
		bus:    bus,
		config: config,
		logger: logger,
	}
}

const queue = "index-worker"

func (r *EventReader) SubscribeToIndexListingEvents(handler func(evt IndexListingEvent) error) error {
	subject := r.config.IndexListing
	r.logger.Info("Subscribing to IndexListing events", "subject", subject)

	_, err := r.bus.Subscribe(subject, queue, func(ctx context.Context, payload []byte) error {
		var evt IndexListingEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			// Poison pill: ack by returning nil, otherwise it redelivers forever.
			r.logger.Error("Discarding malformed JSON event", "subject", subject, "error", err)
			return nil
		}
		return handler(evt)
	})
	return err
}

func (r *EventReader) SubscribeToDeleteListingEvents(handler func(evt DeleteListingEvent) error) error {
	subject := r.config.DeleteListing
	r.logger.Info("Subscribing to DeleteListing events", "subject", subject)

	_, err := r.bus.Subscribe(subject, queue, func(ctx context.Context, payload []byte) error {
		var evt DeleteListingEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			r.logger.Error("Discarding malformed JSON event", "subject", subject, "error", err)
			return nil
		}
		return handler(evt)
	})
	return err
}
