package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mpetrov/aviabooking/internal/domain"
	"github.com/mpetrov/aviabooking/internal/service/booking"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Book(ctx context.Context, flightID, actorUserID int64, passengers []domain.Passenger) (*booking.BookingResult, error) {
	args := m.Called(ctx, flightID, actorUserID, passengers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookingResult), args.Error(1)
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, ticketID, actorUserID int64) (*domain.Ticket, error) {
	args := m.Called(ctx, ticketID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockBookingUseCase) MyTickets(ctx context.Context, actorUserID int64) ([]domain.Ticket, error) {
	args := m.Called(ctx, actorUserID)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockBookingUseCase) AggregateBookings(ctx context.Context, start, end *time.Time) ([]domain.BookingAggregate, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]domain.BookingAggregate), args.Error(1)
}

func TestBookingHandler_book(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(bookRequest{
		Passengers: []passengerRequest{{Name: "Ivan Petrov"}, {Name: "Anna Petrova"}},
	})
	c.Request = httptest.NewRequest("POST", "/api/flights/4/book", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	c.Set(ctxUserIDKey, int64(7))

	purchasedAt := time.Date(2024, 3, 1, 15, 45, 12, 0, time.UTC)
	result := &booking.BookingResult{
		ConfirmationID: "CONF-20240301154512-abc123",
		Tickets: []domain.Ticket{
			{ID: 1, FlightID: 4, Status: domain.TicketStatusPaid, ConfirmationID: "CONF-20240301154512-abc123", PassengerName: "Ivan Petrov", PricePaidCents: 150_00, PurchasedAt: purchasedAt},
			{ID: 2, FlightID: 4, Status: domain.TicketStatusPaid, ConfirmationID: "CONF-20240301154512-abc123", PassengerName: "Anna Petrova", PricePaidCents: 150_00, PurchasedAt: purchasedAt},
		},
	}

	passengers := []domain.Passenger{{Name: "Ivan Petrov"}, {Name: "Anna Petrova"}}
	mockService.On("Book", c.Request.Context(), int64(4), int64(7), passengers).Return(result, nil)

	handler.book(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "CONF-20240301154512-abc123", response.ConfirmationID)
	assert.Len(t, response.Tickets, 2)
	assert.Equal(t, string(domain.TicketStatusPaid), response.Tickets[0].Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_book_insufficientSeats(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(bookRequest{Passengers: []passengerRequest{{Name: "Ivan"}}})
	c.Request = httptest.NewRequest("POST", "/api/flights/4/book", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	c.Set(ctxUserIDKey, int64(7))

	mockService.On("Book", c.Request.Context(), int64(4), int64(7), mock.Anything).Return(nil, domain.ErrInsufficientSeats)

	handler.book(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_book_invalidFlightID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/api/flights/abc/book", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.book(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Book")
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/api/tickets/10/cancel", nil)
	c.Params = gin.Params{{Key: "id", Value: "10"}}
	c.Set(ctxUserIDKey, int64(7))

	canceledAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{
		ID:             10,
		FlightID:       4,
		Status:         domain.TicketStatusRefunded,
		ConfirmationID: "CONF-20240301154512-abc123",
		PricePaidCents: 150_00,
		PurchasedAt:    canceledAt.Add(-time.Hour),
		CanceledAt:     &canceledAt,
	}

	mockService.On("Cancel", c.Request.Context(), int64(10), int64(7)).Return(ticket, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response ticketResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.TicketStatusRefunded), response.Status)
	assert.NotNil(t, response.CanceledAt)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_notCancelable(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/api/tickets/10/cancel", nil)
	c.Params = gin.Params{{Key: "id", Value: "10"}}
	c.Set(ctxUserIDKey, int64(7))

	mockService.On("Cancel", c.Request.Context(), int64(10), int64(7)).Return(nil, domain.ErrTicketNotCancelable)

	handler.cancel(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_myTickets(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/api/tickets/me", nil)
	c.Set(ctxUserIDKey, int64(7))

	tickets := []domain.Ticket{
		{ID: 1, FlightID: 4, Status: domain.TicketStatusPaid, ConfirmationID: "CONF-1", PurchasedAt: time.Now().UTC()},
		{ID: 2, FlightID: 5, Status: domain.TicketStatusCanceled, ConfirmationID: "CONF-2", PurchasedAt: time.Now().UTC()},
	}
	mockService.On("MyTickets", c.Request.Context(), int64(7)).Return(tickets, nil)

	handler.myTickets(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []ticketResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)

	mockService.AssertExpectations(t)
}
