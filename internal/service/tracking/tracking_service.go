package tracking

import (
	"context"
	"fmt"

	"github.com/rsharma91/aircargo/internal/domain"
	"github.com/rsharma91/aircargo/internal/repository"
	"github.com/rsharma91/aircargo/internal/service/routes"
)

type TimelineEntry struct {
	Event       domain.TimelineEvent
	Description string
}

type BookingHistory struct {
	Booking  domain.Booking
	Timeline []TimelineEntry
	Flights  []domain.FlightDetails
	Airlines []domain.Airline
}

type TrackingUseCase interface {
	GetHistory(ctx context.Context, refID string) (*BookingHistory, error)
}

type TrackingService struct {
	bookings repository.BookingRepository
	timeline repository.TimelineRepository
	routes   routes.RouteUseCase
}

func NewTrackingService(bookings repository.BookingRepository, timeline repository.TimelineRepository, routeFinder routes.RouteUseCase) *TrackingService {
	return &TrackingService{bookings: bookings, timeline: timeline, routes: routeFinder}
}

// GetHistory joins a booking with its ordered timeline, the flights of its
// stored itinerary and the distinct carriers operating them. An itinerary
// that no longer resolves yields an empty flight list, not an error.
func (s *TrackingService) GetHistory(ctx context.Context, refID string) (*BookingHistory, error) {
	booking, err := s.bookings.GetByRefID(ctx, refID)
	if err != nil {
		return nil, err
	}

	events, err := s.timeline.ListByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	flights, err := s.routes.GetFlightDetails(ctx, booking.FlightIDs)
	if err != nil {
		flights = []domain.FlightDetails{}
	}

	seen := make(map[int64]bool)
	airlines := make([]domain.Airline, 0)
	for _, f := range flights {
		if seen[f.AirlineID] {
			continue
		}
		seen[f.AirlineID] = true
		airlines = append(airlines, domain.Airline{ID: f.AirlineID, Name: f.AirlineName, Code: f.AirlineCode})
	}

	timeline := make([]TimelineEntry, 0, len(events))
	for _, e := range events {
		timeline = append(timeline, TimelineEntry{Event: e, Description: Describe(e)})
	}

	return &BookingHistory{
		Booking:  *booking,
		Timeline: timeline,
		Flights:  flights,
		Airlines: airlines,
	}, nil
}

// Describe renders a timeline event as a short human sentence.
func Describe(e domain.TimelineEvent) string {
	switch e.EventType {
	case domain.EventTypeCreated:
		return "Booking created"
	case domain.EventTypeDeparted:
		return fmt.Sprintf("Cargo departed from %s", e.Location)
	case domain.EventTypeArrived:
		return fmt.Sprintf("Cargo arrived at %s", e.Location)
	case domain.EventTypeDelivered:
		return fmt.Sprintf("Cargo delivered at %s", e.Location)
	case domain.EventTypeCancelled:
		return "Booking cancelled"
	default:
		return fmt.Sprintf("%s at %s", e.EventType, e.Location)
	}
}

var _ TrackingUseCase = (*TrackingService)(nil)
