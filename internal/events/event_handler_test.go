package events_test

import (
	"log/slog"
	"strings"
	"testing"

	"farmgate/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRaiseIndexListingEvent_MsgIDUniquePerPublish(t *testing.T) {
	// Repeated Msg-Ids are dropped server-side inside the stream's duplicate
	// window, so a create followed by a quick update would never reindex if
	// the ID were derived from the listing alone.
	mockBus := new(MockBus)
	config := &events.EventConfig{IndexListing: "listing.index"}
	handler := events.NewEventHandler(mockBus, config, slog.Default())

	var msgIDs []string
	mockBus.On("Publish", "listing.index", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			msgIDs = append(msgIDs, args.String(2))
		}).
		Return(nil)

	evt := events.IndexListingEvent{ListingID: "abc-123"}
	require.NoError(t, handler.RaiseIndexListingEvent(evt))
	require.NoError(t, handler.RaiseIndexListingEvent(evt))

	require.Len(t, msgIDs, 2)
	assert.True(t, strings.HasPrefix(msgIDs[0], "index.abc-123."))
	assert.NotEqual(t, msgIDs[0], msgIDs[1])
}

func TestRaiseDeleteListingEvent_MsgIDUniquePerPublish(t *testing.T) {
	// Re-creating and deleting a listing within the dedup window must still
	// deliver the second delete.
	mockBus := new(MockBus)
	config := &events.EventConfig{DeleteListing: "listing.delete"}
	handler := events.NewEventHandler(mockBus, config, slog.Default())

	var msgIDs []string
	mockBus.On("Publish", "listing.delete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			msgIDs = append(msgIDs, args.String(2))
		}).
		Return(nil)

	evt := events.DeleteListingEvent{ListingID: "abc-123"}
	require.NoError(t, handler.RaiseDeleteListingEvent(evt))
	require.NoError(t, handler.RaiseDeleteListingEvent(evt))

	require.Len(t, msgIDs, 2)
	assert.True(t, strings.HasPrefix(msgIDs[0], "delete.abc-123."))
	assert.NotEqual(t, msgIDs[0], msgIDs[1])
}
