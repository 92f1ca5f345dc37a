package events

import (
	"os"
)

// IndexListingEvent asks the worker to (re)index one listing.
type IndexListingEvent struct {
	ListingID string `json:"listing_id"`
	TraceID   string `json:"trace_id"`
}

// DeleteListingEvent asks the worker to drop a listing from the search index.
type DeleteListingEvent struct {
	ListingID string `json:"listing_id"`
	TraceID   string `json:"trace_id"`
}

type EventConfig struct {
	IndexListing  string
	DeleteListing string
}

func NewEventConfig() *EventConfig {
	return &EventConfig{
		IndexListing:  os.Getenv("EVENT_INDEX_LISTING"),
		DeleteListing: os.Getenv("EVENT_DELETE_LISTING"),
	}
}
