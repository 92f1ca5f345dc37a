package events

import "context"

// Handler processes one delivered message. Returning nil acknowledges the
// message; returning an error nacks it so the broker redelivers later.
type Handler func(ctx context.Context, payload []byte) error

type Subscription struct {
	Unsubscribe func() error
}

// Bus is implemented by the NATS client; both the API (publish side) and the
// worker (subscribe side) speak through it.
type Bus interface {
	Publish(subject string, data []byte, msgID string) error
	Subscribe(subject string, group string, handler Handler) (Subscription, error)
	Drain() error
}
