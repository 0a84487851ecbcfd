package booking

import (
	"context"
	"fmt"
	"log"

	"github.com/rsharma91/aircargo/internal/domain"
	"github.com/rsharma91/aircargo/internal/kafka"
	"github.com/rsharma91/aircargo/internal/repository"
	"github.com/rsharma91/aircargo/internal/service/routes"
)

type BookingUseCase interface {
	Create(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, *domain.TimelineEvent, error)
	Depart(ctx context.Context, refID string, input TransitionInput) (*domain.Booking, error)
	Arrive(ctx context.Context, refID string, input TransitionInput) (*domain.Booking, error)
	Deliver(ctx context.Context, refID string, input TransitionInput) (*domain.Booking, error)
	Cancel(ctx context.Context, refID string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

// notifyRetries bounds redelivery attempts for notification events, which
// drive user-facing email and are worth a few extra tries.
const notifyRetries = 3

type CreateBookingInput struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Pieces      int     `json:"pieces"`
	WeightKg    int     `json:"weight_kg"`
	FlightIDs   []int64 `json:"flight_ids"`
}

type TransitionInput struct {
	Location   string         `json:"location"`
	FlightInfo map[string]any `json:"flight_info,omitempty"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	routes             routes.RouteUseCase
	producer           Producer
	bookingTopic       string
	notificationsTopic string
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	routeFinder routes.RouteUseCase,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		routes:       routeFinder,
		producer:     producer,
		bookingTopic: bookingTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create validates the request fully before the first write: origin and
// destination differ, the flight sequence is usable, and the sequence
// endpoints match the requested route. The booking row, its reference id and
// the CREATED event are persisted in a single transaction; the event comes
// back with the booking so callers can render the initial timeline.
func (s *BookingService) Create(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, *domain.TimelineEvent, error) {
	if input.Origin == input.Destination {
		return nil, nil, domain.ErrInvalidRoute
	}
	if err := s.routes.ValidateFlightSequence(ctx, input.FlightIDs); err != nil {
		return nil, nil, err
	}

	flights, err := s.routes.GetFlightDetails(ctx, input.FlightIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(flights) == 0 {
		return nil, nil, domain.ErrInvalidFlights
	}
	first, last := flights[0], flights[len(flights)-1]
	if first.Origin != input.Origin || last.Destination != input.Destination {
		return nil, nil, domain.ErrRouteMismatch
	}

	booking := &domain.Booking{
		UserID:      userID,
		Origin:      input.Origin,
		Destination: input.Destination,
		Pieces:      input.Pieces,
		WeightKg:    input.WeightKg,
		Status:      domain.BookingStatusBooked,
		FlightIDs:   input.FlightIDs,
	}
	created := &domain.TimelineEvent{
		EventType: domain.EventTypeCreated,
		Location:  input.Origin,
		Notes:     fmt.Sprintf("%d pieces, %d kg", input.Pieces, input.WeightKg),
	}
	if err := s.bookings.Create(ctx, booking, created); err != nil {
		return nil, nil, err
	}

	s.publish(ctx, "booking_created", booking, input.Origin)
	return booking, created, nil
}

func (s *BookingService) Depart(ctx context.Context, refID string, input TransitionInput) (*domain.Booking, error) {
	return s.transition(ctx, refID,
		[]domain.BookingStatus{domain.BookingStatusBooked},
		domain.BookingStatusDeparted, domain.EventTypeDeparted, "booking_departed", input)
}

func (s *BookingService) Arrive(ctx context.Context, refID string, input TransitionInput) (*domain.Booking, error) {
	return s.transition(ctx, refID,
		[]domain.BookingStatus{domain.BookingStatusDeparted},
		domain.BookingStatusArrived, domain.EventTypeArrived, "booking_arrived", input)
}

func (s *BookingService) Deliver(ctx context.Context, refID string, input TransitionInput) (*domain.Booking, error) {
	return s.transition(ctx, refID,
		[]domain.BookingStatus{domain.BookingStatusArrived},
		domain.BookingStatusDelivered, domain.EventTypeDelivered, "booking_delivered", input)
}

// Cancel is allowed while the cargo has not arrived. The status check and the
// write are one conditional update, so racing cancels (or a racing arrival)
// resolve to exactly one winner.
func (s *BookingService) Cancel(ctx context.Context, refID string) (*domain.Booking, error) {
	return s.transition(ctx, refID,
		[]domain.BookingStatus{domain.BookingStatusBooked, domain.BookingStatusDeparted},
		domain.BookingStatusCancelled, domain.EventTypeCancelled, "booking_cancelled", TransitionInput{})
}

func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) transition(ctx context.Context, refID string, allowed []domain.BookingStatus, to domain.BookingStatus, eventType domain.EventType, kafkaType string, input TransitionInput) (*domain.Booking, error) {
	event := &domain.TimelineEvent{
		EventType:  eventType,
		Location:   input.Location,
		FlightInfo: input.FlightInfo,
	}
	updated, err := s.bookings.Transition(ctx, refID, allowed, to, event)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, kafkaType, updated, input.Location)
	return updated, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, location string) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		RefID:       booking.RefID,
		UserID:      booking.UserID,
		Origin:      booking.Origin,
		Destination: booking.Destination,
		Status:      string(booking.Status),
		Pieces:      booking.Pieces,
		WeightKg:    booking.WeightKg,
		Location:    location,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.RefID, event); err != nil {
		log.Printf("publish %s for booking %s: %v", eventType, booking.RefID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.PublishWithRetry(ctx, s.notificationsTopic, booking.RefID, event, notifyRetries); err != nil {
			log.Printf("publish notification for booking %s: %v", booking.RefID, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
