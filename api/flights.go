package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rsharma91/aircargo/internal/service/routes"
)

type RouteHandler struct {
	service routes.RouteUseCase
}

func NewRouteHandler(service routes.RouteUseCase) *RouteHandler {
	return &RouteHandler{service: service}
}

func (h *RouteHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.search)
}

func (h *RouteHandler) RegisterFlights(router *gin.RouterGroup) {
	router.GET("/:id", h.getFlight)
}

func (h *RouteHandler) search(c *gin.Context) {
	origin := strings.ToUpper(c.Query("origin"))
	destination := strings.ToUpper(c.Query("destination"))
	if !airportCodePattern.MatchString(origin) || !airportCodePattern.MatchString(destination) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and destination must be 3-letter airport codes"})
		return
	}
	if origin == destination {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and destination must differ"})
		return
	}

	day, err := time.ParseInLocation("2006-01-02", c.Query("departure_date"), time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departure_date must be YYYY-MM-DD"})
		return
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if day.Before(today) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departure_date must not be in the past"})
		return
	}

	result, err := h.service.FindRoutes(c.Request.Context(), origin, destination, day)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": errorMessage(err)})
		return
	}

	transit := make([]transitRouteResponse, 0, len(result.TransitRoutes))
	for _, t := range result.TransitRoutes {
		transit = append(transit, toTransitResponse(t))
	}
	c.JSON(http.StatusOK, gin.H{
		"direct_flights": toFlightResponses(result.DirectFlights),
		"transit_routes": transit,
	})
}

func (h *RouteHandler) getFlight(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.service.GetFlight(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "flight not found"})
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(*flight))
}
