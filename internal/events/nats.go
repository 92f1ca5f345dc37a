package events

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nats-io/nats.go"
)

var _ Bus = (*NATSBus)(nil)

type NATSBus struct {
	nats *nats.Conn
	js   nats.JetStreamContext
	log  *slog.Logger
}

func NewNATSBus(addr, clientName string, logger *slog.Logger) (*NATSBus, error) {
	opts := []nats.Option{
		nats.Name(clientName),

		// Reconnect forever with a 3s backoff; a marketplace without its
		// event bus can still serve reads, so don't give up.
		nats.MaxReconnects(-1),
		nats.ReconnectWait(3 * time.Second),

		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected, buffering messages", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),

		// A permanently closed connection (auth failure etc) is unrecoverable
		// in-process; exit so the orchestrator restarts us.
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Error("NATS connection closed permanently. Exiting process.")
			os.Exit(1)
		}),
	}

	nc, err := nats.Connect(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create nats client: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}

	return &NATSBus{nats: nc, js: js, log: logger}, nil
}

func (b *NATSBus) Publish(subject string, data []byte, msgID string) error {
	b.log.Debug("Publishing event", "subject", subject, "data_size", len(data))

	_, err := b.js.Publish(subject, data, nats.MsgId(msgID))
	return err
}

func (b *NATSBus) Subscribe(subject string, group string, handler Handler) (Subscription, error) {
	b.log.Info("Subscribing to subject", "subject", subject, "queue", group)

	opts := []nats.SubOpt{
		nats.ManualAck(),
		nats.AckExplicit(),
		nats.DeliverAll(),      // catch up on anything missed during a restart
		nats.MaxAckPending(10), // flow control so a slow indexer isn't buried
	}

	sub, err := b.js.QueueSubscribe(subject, group, func(msg *nats.Msg) {
		// Fresh per-message context with a deadline; a stuck handler must not
		// wedge the subscription.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := handler(ctx, msg.Data); err != nil {
			b.log.Error("Handler failed, nacking message", "subject", subject, "error", err)
			msg.Nak()
			return
		}

		if err := msg.Ack(); err != nil {
			b.log.Error("Failed to ack message", "subject", subject, "error", err)
		}
	}, opts...)

	if err != nil {
		return Subscription{}, fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	return Subscription{
		Unsubscribe: func() error { return sub.Unsubscribe() },
	}, nil
}

// Drain lets in-flight messages finish before the connection closes.
func (b *NATSBus) Drain() error {
	b.log.Info("Draining NATS connection")
	return b.nats.Drain()
}
