package api

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/rsharma91/aircargo/internal/domain"
	"github.com/rsharma91/aircargo/internal/service/routes"
)

var (
	airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	refIDPattern       = regexp.MustCompile(`^AC-\d{8}-\d{4}$`)
)

type flightResponse struct {
	ID            int64  `json:"id"`
	FlightNumber  string `json:"flight_number"`
	AirlineName   string `json:"airline_name"`
	AirlineCode   string `json:"airline_code"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
}

type transitRouteResponse struct {
	FirstLeg              flightResponse `json:"first_leg"`
	SecondLeg             flightResponse `json:"second_leg"`
	Hub                   string         `json:"hub"`
	ConnectionTimeMinutes int            `json:"connection_time_minutes"`
	TotalDurationMinutes  int            `json:"total_duration_minutes"`
}

type timelineEventResponse struct {
	EventType   string         `json:"event_type"`
	Location    string         `json:"location"`
	FlightInfo  map[string]any `json:"flight_info,omitempty"`
	Notes       string         `json:"notes"`
	Description string         `json:"description"`
	CreatedAt   string         `json:"created_at"`
}

type bookingResponse struct {
	RefID       string  `json:"ref_id"`
	Status      string  `json:"status"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Pieces      int     `json:"pieces"`
	WeightKg    int     `json:"weight_kg"`
	FlightIDs   []int64 `json:"flight_ids"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toFlightResponse(f domain.FlightDetails) flightResponse {
	return flightResponse{
		ID:            f.ID,
		FlightNumber:  f.FlightNumber,
		AirlineName:   f.AirlineName,
		AirlineCode:   f.AirlineCode,
		Origin:        f.Origin,
		Destination:   f.Destination,
		DepartureTime: f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:   f.ArrivalTime.Format(time.RFC3339),
	}
}

func toFlightResponses(flights []domain.FlightDetails) []flightResponse {
	out := make([]flightResponse, 0, len(flights))
	for _, f := range flights {
		out = append(out, toFlightResponse(f))
	}
	return out
}

func toTransitResponse(t routes.TransitRoute) transitRouteResponse {
	return transitRouteResponse{
		FirstLeg:              toFlightResponse(t.FirstLeg),
		SecondLeg:             toFlightResponse(t.SecondLeg),
		Hub:                   t.Hub,
		ConnectionTimeMinutes: t.ConnectionTimeMinutes,
		TotalDurationMinutes:  t.TotalDurationMinutes,
	}
}

type createBookingResponse struct {
	bookingResponse
	Timeline []timelineEventResponse `json:"timeline"`
}

func toTimelineEventResponse(e domain.TimelineEvent, description string) timelineEventResponse {
	return timelineEventResponse{
		EventType:   string(e.EventType),
		Location:    e.Location,
		FlightInfo:  e.FlightInfo,
		Notes:       e.Notes,
		Description: description,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		RefID:       b.RefID,
		Status:      string(b.Status),
		Origin:      b.Origin,
		Destination: b.Destination,
		Pieces:      b.Pieces,
		WeightKg:    b.WeightKg,
		FlightIDs:   b.FlightIDs,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
}

// errorStatus maps the domain error taxonomy onto HTTP status codes so store
// internals never leak to the caller.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidRoute),
		errors.Is(err, domain.ErrInvalidSequence),
		errors.Is(err, domain.ErrRouteBreak),
		errors.Is(err, domain.ErrInsufficientConnection),
		errors.Is(err, domain.ErrConnectionTooLong),
		errors.Is(err, domain.ErrInvalidFlights),
		errors.Is(err, domain.ErrRouteMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	if errorStatus(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
