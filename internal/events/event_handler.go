package events

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// EventHandler is the publish-side facade: typed events in, bus messages out.
type EventHandler struct {
	bus    Bus
	config *EventConfig
	logger *slog.Logger
}

func NewEventHandler(bus Bus, config *EventConfig, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		bus:    bus,
		config: config,
		logger: logger,
	}
}

// indexMsgID builds a per-publish Msg-Id. JetStream drops repeated Msg-Ids
// inside the stream's duplicate window, and the same listing legitimately
// reindexes many times in quick succession (create then update, status flips),
// so the ID must never repeat across publishes.
func indexMsgID(kind, listingID string) string {
	return fmt.Sprintf("%s.%s.%s", kind, listingID, uuid.NewString())
}

// RaiseIndexListingEvent is fired after every successful listing write. If the
// publish fails the listing is still committed; the index catches up on the
// next write or a manual reindex.
func (h *EventHandler) RaiseIndexListingEvent(evt IndexListingEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("Failed to marshal IndexListingEvent", "error", err)
		return err
	}

	return h.bus.Publish(h.config.IndexListing, data, indexMsgID("index", evt.ListingID))
}

func (h *EventHandler) RaiseDeleteListingEvent(evt DeleteListingEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("Failed to marshal DeleteListingEvent", "error", err)
		return err
	}

	return h.bus.Publish(h.config.DeleteListing, data, indexMsgID("delete", evt.ListingID))
}
