// Package notify dispatches push/email/SMS notification events to the
// delivery pipeline. Dispatch is fire-and-forget: a failed publish is logged
// and never rolls back the transition that produced it.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"vendorpay/internal/app/logger"
)

type EventKind string

const (
	EventAssigned     EventKind = "assigned"
	EventAccepted     EventKind = "accepted"
	EventDeclined     EventKind = "declined"
	EventCompleted    EventKind = "completed"
	EventCancelled    EventKind = "cancelled"
	EventAutoRejected EventKind = "auto_rejected"
	EventSettled      EventKind = "settled"
)

type Event struct {
	Kind     EventKind `json:"kind"`
	UnitID   uuid.UUID `json:"unit_id"`
	VendorID uuid.UUID `json:"vendor_id"`
	Message  string    `json:"message,omitempty"`
	At       time.Time `json:"at"`
}

// Dispatcher is what the services see; failures never propagate.
type Dispatcher interface {
	Notify(ctx context.Context, e Event)
}

// Redis publishes events on a per-kind pub/sub channel. The delivery workers
// (push/email/SMS senders) subscribe elsewhere. A circuit breaker keeps a
// dead broker from slowing every transition down to its dial timeout.
type Redis struct {
	logger  logger.Logger
	rdb     redis.UniversalClient
	channel string
	breaker *gobreaker.CircuitBreaker
}

var _ Dispatcher = (*Redis)(nil)

func NewRedis(rdb redis.UniversalClient, channel string) *Redis {
	return &Redis{
		logger:  logger.Global().WithComponent("Notify.Redis"),
		rdb:     rdb,
		channel: channel,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "notify",
			Timeout: 30 * time.Second,
		}),
	}
}

func (d *Redis) Notify(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	payload, err := json.Marshal(e)
	if err != nil {
		d.logger.Error().Err(err).Msg("Event encode failed")
		return
	}

	_, err = d.breaker.Execute(func() (interface{}, error) {
		return nil, d.rdb.Publish(ctx, d.channel+"."+string(e.Kind), payload).Err()
	})
	if err != nil {
		d.logger.Error().
			Err(errors.Wrap(err, "notification publish")).
			Str("kind", string(e.Kind)).
			Str("unit_id", e.UnitID.String()).
			Msg("Notification dropped")
	}
}

// Nop swallows events; used in tests and when no broker is configured.
type Nop struct{}

var _ Dispatcher = Nop{}

func (Nop) Notify(context.Context, Event) {}
