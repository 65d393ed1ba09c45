package models

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys, also stored as outbox event_type.
const (
	TypeOrderBooked  = "orders.booked"
	TypeOrderDeleted = "orders.deleted"
)

type Event[T any] struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Version int       `json:"version"`
	Time    time.Time `json:"time"`
	OrderID string    `json:"order_id"`
	Payload T         `json:"payload"`
}

func NewEvent[T any](eventType, orderID string, payload T) Event[T] {
	return Event[T]{
		ID:      uuid.NewString(),
		Type:    eventType,
		Version: 1,
		Time:    time.Now().UTC(),
		OrderID: orderID,
		Payload: payload,
	}
}
