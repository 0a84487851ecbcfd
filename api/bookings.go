package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rsharma91/aircargo/internal/auth"
	"github.com/rsharma91/aircargo/internal/domain"
	"github.com/rsharma91/aircargo/internal/service/booking"
	"github.com/rsharma91/aircargo/internal/service/tracking"
)

type BookingHandler struct {
	service  booking.BookingUseCase
	tracking tracking.TrackingUseCase
}

type createBookingRequest struct {
	Origin      string  `json:"origin" binding:"required"`
	Destination string  `json:"destination" binding:"required"`
	Pieces      int     `json:"pieces" binding:"required,min=1,max=1000"`
	WeightKg    int     `json:"weight_kg" binding:"required,min=1,max=50000"`
	FlightIDs   []int64 `json:"flight_ids" binding:"required,min=1,max=2,unique,dive,gt=0"`
}

type transitionRequest struct {
	Location   string         `json:"location" binding:"required,max=100"`
	FlightInfo map[string]any `json:"flight_info"`
}

func NewBookingHandler(service booking.BookingUseCase, trackingSvc tracking.TrackingUseCase) *BookingHandler {
	return &BookingHandler{service: service, tracking: trackingSvc}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.POST("/:ref_id/depart", h.depart)
	router.POST("/:ref_id/arrive", h.arrive)
	router.POST("/:ref_id/deliver", h.deliver)
	router.POST("/:ref_id/cancel", h.cancel)
	router.GET("/:ref_id/history", h.history)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	origin := strings.ToUpper(req.Origin)
	destination := strings.ToUpper(req.Destination)
	if !airportCodePattern.MatchString(origin) || !airportCodePattern.MatchString(destination) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and destination must be 3-letter airport codes"})
		return
	}

	created, event, err := h.service.Create(c.Request.Context(), auth.UserID(c), booking.CreateBookingInput{
		Origin:      origin,
		Destination: destination,
		Pieces:      req.Pieces,
		WeightKg:    req.WeightKg,
		FlightIDs:   req.FlightIDs,
	})
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": errorMessage(err)})
		return
	}
	c.JSON(http.StatusCreated, createBookingResponse{
		bookingResponse: toBookingResponse(created),
		Timeline:        []timelineEventResponse{toTimelineEventResponse(*event, tracking.Describe(*event))},
	})
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListByUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": errorMessage(err)})
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) depart(c *gin.Context) {
	h.transition(c, h.service.Depart)
}

func (h *BookingHandler) arrive(c *gin.Context) {
	h.transition(c, h.service.Arrive)
}

func (h *BookingHandler) deliver(c *gin.Context) {
	h.transition(c, h.service.Deliver)
}

func (h *BookingHandler) transition(c *gin.Context, op func(ctx context.Context, refID string, input booking.TransitionInput) (*domain.Booking, error)) {
	refID, ok := h.refID(c)
	if !ok {
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := op(c.Request.Context(), refID, booking.TransitionInput{
		Location:   req.Location,
		FlightInfo: req.FlightInfo,
	})
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": errorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	refID, ok := h.refID(c)
	if !ok {
		return
	}
	updated, err := h.service.Cancel(c.Request.Context(), refID)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": errorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) history(c *gin.Context) {
	refID, ok := h.refID(c)
	if !ok {
		return
	}
	history, err := h.tracking.GetHistory(c.Request.Context(), refID)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": errorMessage(err)})
		return
	}

	timeline := make([]timelineEventResponse, 0, len(history.Timeline))
	for _, entry := range history.Timeline {
		timeline = append(timeline, toTimelineEventResponse(entry.Event, entry.Description))
	}
	airlines := make([]gin.H, 0, len(history.Airlines))
	for _, a := range history.Airlines {
		airlines = append(airlines, gin.H{"id": a.ID, "name": a.Name, "code": a.Code})
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":  toBookingResponse(&history.Booking),
		"timeline": timeline,
		"flights":  toFlightResponses(history.Flights),
		"airlines": airlines,
	})
}

func (h *BookingHandler) refID(c *gin.Context) (string, bool) {
	refID := c.Param("ref_id")
	if !refIDPattern.MatchString(refID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking reference"})
		return "", false
	}
	return refID, true
}
