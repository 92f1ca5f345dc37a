package events_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"farmgate/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBus struct {
	mock.Mock
}

func (m *MockBus) Publish(subject string, data []byte, msgID string) error {
	args := m.Called(subject, data, msgID)
	return args.Error(0)
}

func (m *MockBus) Drain() error { return nil }

func (m *MockBus) Subscribe(subject, group string, handler events.Handler) (events.Subscription, error) {
	args := m.Called(subject, group, handler)
	return args.Get(0).(events.Subscription), args.Error(1)
}

func TestSubscribe_Wiring_CorrectSubjectAndQueue(t *testing.T) {
	mockBus := new(MockBus)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	config := &events.EventConfig{IndexListing: "listing.index"}

	reader := events.NewEventReader(mockBus, config, logger)

	mockBus.On("Subscribe", "listing.index", "index-worker", mock.Anything).
		Return(events.Subscription{}, nil)

	err := reader.SubscribeToIndexListingEvents(func(e events.IndexListingEvent) error { return nil })

	assert.NoError(t, err)
	mockBus.AssertExpectations(t)
}

func TestSubscribe_PoisonPill_AcksBadJSON(t *testing.T) {
	// Malformed JSON must be acked (handler returns nil) and must never reach
	// the service logic, or the broker would redeliver it forever.
	mockBus := new(MockBus)
	reader := events.NewEventReader(mockBus, &events.EventConfig{IndexListing: "subj"}, slog.Default())

	var natsHandler events.Handler
	mockBus.On("Subscribe", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			natsHandler = args.Get(2).(events.Handler)
		}).
		Return(events.Subscription{}, nil)

	serviceCalled := false
	_ = reader.SubscribeToIndexListingEvents(func(e events.IndexListingEvent) error {
		serviceCalled = true
		return nil
	})

	err := natsHandler(context.Background(), []byte(`{ NOT VALID JSON`))

	assert.NoError(t, err, "handler must return nil (ack) for bad JSON")
	assert.False(t, serviceCalled, "service logic must not run for bad JSON")
}

func TestSubscribe_HappyPath_ParsesAndForwards(t *testing.T) {
	mockBus := new(MockBus)
	reader := events.NewEventReader(mockBus, &events.EventConfig{IndexListing: "subj"}, slog.Default())

	var natsHandler events.Handler
	mockBus.On("Subscribe", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			natsHandler = args.Get(2).(events.Handler)
		}).
		Return(events.Subscription{}, nil)

	var received events.IndexListingEvent
	_ = reader.SubscribeToIndexListingEvents(func(e events.IndexListingEvent) error {
		received = e
		return nil
	})

	err := natsHandler(context.Background(), []byte(`{"listing_id":"abc-123","trace_id":"t1"}`))

	assert.NoError(t, err)
	assert.Equal(t, "abc-123", received.ListingID)
	assert.Equal(t, "t1", received.TraceID)
}

func TestSubscribe_TransientFailure_PropagatesError(t *testing.T) {
	// A failing handler (search engine down) must surface the error so the
	// bus nacks and retries.
	mockBus := new(MockBus)
	reader := events.NewEventReader(mockBus, &events.EventConfig{IndexListing: "subj"}, slog.Default())

	var natsHandler events.Handler
	mockBus.On("Subscribe", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			natsHandler = args.Get(2).(events.Handler)
		}).
		Return(events.Subscription{}, nil)

	boom := errors.New("typesense unavailable")
	_ = reader.SubscribeToIndexListingEvents(func(e events.IndexListingEvent) error {
		return boom
	})

	err := natsHandler(context.Background(), []byte(`{"listing_id":"abc-123"}`))
	assert.ErrorIs(t, err, boom)
}
