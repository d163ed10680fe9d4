package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/aviabooking/internal/domain"
	"github.com/mpetrov/aviabooking/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type passengerRequest struct {
	Name      string `json:"name" binding:"required"`
	Birthdate string `json:"birthdate"`
}

type bookRequest struct {
	Passengers    []passengerRequest `json:"passengers" binding:"required"`
	PaymentMethod string             `json:"payment_method"`
}

type ticketResponse struct {
	ID             int64   `json:"id"`
	FlightID       int64   `json:"flight_id"`
	Status         string  `json:"status"`
	ConfirmationID string  `json:"confirmation_id"`
	PassengerName  string  `json:"passenger_name"`
	PricePaidCents int64   `json:"price_paid_cents"`
	PurchasedAt    string  `json:"purchased_at"`
	CanceledAt     *string `json:"canceled_at"`
}

type bookResponse struct {
	ConfirmationID string           `json:"confirmation_id"`
	Tickets        []ticketResponse `json:"tickets"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register wires the authenticated booking routes.
func (h *BookingHandler) Register(flights, tickets *gin.RouterGroup) {
	flights.POST("/:id/book", h.book)
	tickets.POST("/:id/cancel", h.cancel)
	tickets.GET("/me", h.myTickets)
}

func (h *BookingHandler) book(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passengers := make([]domain.Passenger, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		passengers = append(passengers, domain.Passenger{Name: p.Name, Birthdate: p.Birthdate})
	}

	result, err := h.service.Book(c.Request.Context(), flightID, actorID(c), passengers)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := bookResponse{ConfirmationID: result.ConfirmationID}
	for _, t := range result.Tickets {
		resp.Tickets = append(resp.Tickets, toTicketResponse(t))
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	ticket, err := h.service.Cancel(c.Request.Context(), ticketID, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(*ticket))
}

func (h *BookingHandler) myTickets(c *gin.Context) {
	tickets, err := h.service.MyTickets(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, toTicketResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	var canceledAt *string
	if t.CanceledAt != nil {
		s := t.CanceledAt.Format(time.RFC3339)
		canceledAt = &s
	}
	return ticketResponse{
		ID:             t.ID,
		FlightID:       t.FlightID,
		Status:         string(t.Status),
		ConfirmationID: t.ConfirmationID,
		PassengerName:  t.PassengerName,
		PricePaidCents: t.PricePaidCents,
		PurchasedAt:    t.PurchasedAt.Format(time.RFC3339),
		CanceledAt:     canceledAt,
	}
}
