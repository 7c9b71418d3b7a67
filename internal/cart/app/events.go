package app

import (
	"context"
	"time"
)

type EventType string

const (
	EventItemAdded       EventType = "CartItemAdded"
	EventQuantityUpdated EventType = "CartItemQuantityUpdated"
	EventItemRemoved     EventType = "CartItemRemoved"
	EventCartCleared     EventType = "CartCleared"
)

// Event is emitted after a cart mutation has been persisted.
type Event struct {
	Type       EventType `json:"type"`
	CartID     string    `json:"cart_id"`
	SessionKey string    `json:"session_key"`
	ItemID     string    `json:"item_id,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
