package domain

import "time"

type EventType string

const (
	EventTypeCreated   EventType = "CREATED"
	EventTypeDeparted  EventType = "DEPARTED"
	EventTypeArrived   EventType = "ARRIVED"
	EventTypeDelivered EventType = "DELIVERED"
	EventTypeCancelled EventType = "CANCELLED"
)

// TimelineEvent is an append-only record of a booking lifecycle milestone.
// Events are never mutated after insertion; display order is CreatedAt ascending.
type TimelineEvent struct {
	ID         int64
	BookingID  int64
	EventType  EventType
	Location   string
	FlightInfo map[string]any
	Notes      string
	CreatedAt  time.Time
}
