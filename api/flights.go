package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/aviabooking/internal/domain"
	"github.com/mpetrov/aviabooking/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type flightResponse struct {
	ID              int64  `json:"id"`
	CompanyID       int64  `json:"company_id"`
	FlightNumber    string `json:"flight_number"`
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	DepartureTime   string `json:"departure_time"`
	ArrivalTime     string `json:"arrival_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Stops           int    `json:"stops"`
	PriceCents      int64  `json:"price_cents"`
	SeatsTotal      int    `json:"seats_total"`
	SeatsAvailable  int    `json:"seats_available"`
	Active          bool   `json:"active"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.search)
	router.GET("/:id", h.get)
}

func (h *FlightHandler) search(c *gin.Context) {
	filter := domain.FlightFilter{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		Airline:     c.Query("airline"),
		Sort:        c.Query("sort"),
	}
	if v := c.Query("date"); v != "" {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		filter.DepartureDate = &date
	}
	if v := c.Query("passengers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid passengers"})
			return
		}
		filter.Passengers = n
	}
	if v := c.Query("min_price_cents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price_cents"})
			return
		}
		filter.MinPriceCents = &n
	}
	if v := c.Query("max_price_cents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price_cents"})
			return
		}
		filter.MaxPriceCents = &n
	}
	if v := c.Query("stops"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stops"})
			return
		}
		filter.Stops = &n
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]flightResponse, 0, len(list))
	for _, f := range list {
		resp = append(resp, toFlightResponse(f))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(*flight))
}

func toFlightResponse(f domain.Flight) flightResponse {
	return flightResponse{
		ID:              f.ID,
		CompanyID:       f.CompanyID,
		FlightNumber:    f.FlightNumber,
		Origin:          f.Origin,
		Destination:     f.Destination,
		DepartureTime:   f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:     f.ArrivalTime.Format(time.RFC3339),
		DurationMinutes: f.DurationMinutes,
		Stops:           f.Stops,
		PriceCents:      f.PriceCents,
		SeatsTotal:      f.SeatsTotal,
		SeatsAvailable:  f.SeatsAvailable,
		Active:          f.Active,
	}
}
