package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/aviabooking/internal/domain"
	"github.com/mpetrov/aviabooking/internal/service/flights"
	"github.com/mpetrov/aviabooking/internal/service/stats"
)

// CompanyHandler serves the company-manager surface: flight CRUD scoped to
// the manager's own company, the passenger manifest and company stats.
type CompanyHandler struct {
	flights flights.FlightUseCase
	stats   stats.StatsUseCase
}

type flightRequest struct {
	FlightNumber    string `json:"flight_number" binding:"required"`
	Origin          string `json:"origin" binding:"required"`
	Destination     string `json:"destination" binding:"required"`
	DepartureTime   string `json:"departure_time" binding:"required"`
	ArrivalTime     string `json:"arrival_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1"`
	Stops           int    `json:"stops"`
	PriceCents      int64  `json:"price_cents" binding:"required,min=0"`
	SeatsTotal      int    `json:"seats_total" binding:"required,min=1"`
	Active          *bool  `json:"active"`
}

type passengerResponse struct {
	TicketID       int64   `json:"ticket_id"`
	UserID         int64   `json:"user_id"`
	UserName       string  `json:"user_name"`
	UserEmail      string  `json:"user_email"`
	PassengerName  string  `json:"passenger_name"`
	Status         string  `json:"status"`
	ConfirmationID string  `json:"confirmation_id"`
	PricePaidCents int64   `json:"price_paid_cents"`
	PurchasedAt    string  `json:"purchased_at"`
	CanceledAt     *string `json:"canceled_at"`
}

type companyStatsResponse struct {
	TotalFlights      int64 `json:"total_flights"`
	ActiveFlights     int64 `json:"active_flights"`
	CompletedFlights  int64 `json:"completed_flights"`
	TotalPassengers   int64 `json:"total_passengers"`
	TotalRevenueCents int64 `json:"total_revenue_cents"`
}

func NewCompanyHandler(flightSvc flights.FlightUseCase, statsSvc stats.StatsUseCase) *CompanyHandler {
	return &CompanyHandler{flights: flightSvc, stats: statsSvc}
}

func (h *CompanyHandler) Register(router *gin.RouterGroup) {
	router.POST("/flights", h.createFlight)
	router.GET("/flights", h.listFlights)
	router.PUT("/flights/:id", h.updateFlight)
	router.DELETE("/flights/:id", h.deleteFlight)
	router.GET("/flights/:id/passengers", h.passengers)
	router.GET("/stats", h.companyStats)
}

func (h *CompanyHandler) createFlight(c *gin.Context) {
	flight, ok := bindFlight(c)
	if !ok {
		return
	}

	if err := h.flights.CreateForManager(c.Request.Context(), actorID(c), flight); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(*flight))
}

func (h *CompanyHandler) updateFlight(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, ok := bindFlight(c)
	if !ok {
		return
	}
	flight.ID = id

	if err := h.flights.UpdateForManager(c.Request.Context(), actorID(c), flight); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(*flight))
}

func (h *CompanyHandler) deleteFlight(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.flights.DeleteForManager(c.Request.Context(), actorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *CompanyHandler) listFlights(c *gin.Context) {
	upcoming := c.Query("upcoming") == "true"
	completed := c.Query("completed") == "true"

	list, err := h.flights.ListForManager(c.Request.Context(), actorID(c), upcoming, completed)
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

func (h *CompanyHandler) passengers(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	list, err := h.flights.PassengersForManager(c.Request.Context(), actorID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]passengerResponse, 0, len(list))
	for _, p := range list {
		var canceledAt *string
		if p.CanceledAt != nil {
			s := p.CanceledAt.Format(time.RFC3339)
			canceledAt = &s
		}
		resp = append(resp, passengerResponse{
			TicketID:       p.TicketID,
			UserID:         p.UserID,
			UserName:       p.UserName,
			UserEmail:      p.UserEmail,
			PassengerName:  p.PassengerName,
			Status:         string(p.Status),
			ConfirmationID: p.ConfirmationID,
			PricePaidCents: p.PricePaidCents,
			PurchasedAt:    p.PurchasedAt.Format(time.RFC3339),
			CanceledAt:     canceledAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CompanyHandler) companyStats(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	s, err := h.stats.ForManager(c.Request.Context(), actorID(c), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, companyStatsResponse{
		TotalFlights:      s.TotalFlights,
		ActiveFlights:     s.ActiveFlights,
		CompletedFlights:  s.CompletedFlights,
		TotalPassengers:   s.TotalPassengers,
		TotalRevenueCents: s.TotalRevenueCents,
	})
}

func bindFlight(c *gin.Context) (*domain.Flight, bool) {
	var req flightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure_time"})
		return nil, false
	}
	arrival, err := time.Parse(time.RFC3339, req.ArrivalTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid arrival_time"})
		return nil, false
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &domain.Flight{
		FlightNumber:    req.FlightNumber,
		Origin:          req.Origin,
		Destination:     req.Destination,
		DepartureTime:   departure,
		ArrivalTime:     arrival,
		DurationMinutes: req.DurationMinutes,
		Stops:           req.Stops,
		PriceCents:      req.PriceCents,
		SeatsTotal:      req.SeatsTotal,
		Active:          active,
	}, true
}

// dateRange parses optional start/end day-granularity query params.
func dateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	var start, end *time.Time
	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start, expected YYYY-MM-DD"})
			return nil, nil, false
		}
		start = &t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end, expected YYYY-MM-DD"})
			return nil, nil, false
		}
		end = &t
	}
	return start, end, true
}
