package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/shop_api/internal/logging"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Event struct {
	Type      string    `json:"type"`
	UserID    uint      `json:"user_id,omitempty"`
	ProductID uint      `json:"product_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Price     *float64  `json:"price,omitempty"`
	Removed   int64     `json:"removed,omitempty"`
	At        time.Time `json:"at"`
}

// Events publishes domain events. Failures are logged and never returned to
// the caller. A nil *Events drops everything.
type Events struct {
	Pub     Publisher
	Observe func(topic string, err error)
}

func (e *Events) emit(ctx context.Context, topic, key string, ev Event) {
	if e == nil || e.Pub == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	err := e.Pub.PublishEvent(ctx, topic, key, ev)
	if e.Observe != nil {
		e.Observe(topic, err)
	}
	if err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}
