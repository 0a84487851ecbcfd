package domain

import "time"

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusDeparted  BookingStatus = "DEPARTED"
	BookingStatusArrived   BookingStatus = "ARRIVED"
	BookingStatusDelivered BookingStatus = "DELIVERED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusBooked, BookingStatusDeparted, BookingStatusArrived, BookingStatusDelivered, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

type Booking struct {
	ID          int64
	RefID       string
	UserID      int64
	Origin      string
	Destination string
	Pieces      int
	WeightKg    int
	Status      BookingStatus
	FlightIDs   []int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
