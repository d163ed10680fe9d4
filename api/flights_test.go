package api

import (
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
)

// MockFlightUseCase is a mock implementation of flights.FlightUseCase
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) CreateForManager(ctx context.Context, managerID int64, f *domain.Flight) error {
	args := m.Called(ctx, managerID, f)
	return args.Error(0)
}

func (m *MockFlightUseCase) UpdateForManager(ctx context.Context, managerID int64, f *domain.Flight) error {
	args := m.Called(ctx, managerID, f)
	return args.Error(0)
}

func (m *MockFlightUseCase) DeleteForManager(ctx context.Context, managerID, flightID int64) error {
	args := m.Called(ctx, managerID, flightID)
	return args.Error(0)
}

func (m *MockFlightUseCase) ListForManager(ctx context.Context, managerID int64, upcoming, completed bool) ([]domain.Flight, error) {
	args := m.Called(ctx, managerID, upcoming, completed)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) PassengersForManager(ctx context.Context, managerID, flightID int64) ([]domain.FlightPassenger, error) {
	args := m.Called(ctx, managerID, flightID)
	return args.Get(0).([]domain.FlightPassenger), args.Error(1)
}

func TestFlightHandler_search(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/api/flights?origin=LED&destination=SVO&passengers=2&limit=5", nil)

	expectedFilter := domain.FlightFilter{
		Origin:      "LED",
		Destination: "SVO",
		Passengers:  2,
		Limit:       5,
	}
	departure := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	flights := []domain.Flight{
		{ID: 1, CompanyID: 2, FlightNumber: "SU-100", Origin: "LED", Destination: "SVO", DepartureTime: departure, ArrivalTime: departure.Add(90 * time.Minute), PriceCents: 150_00, SeatsTotal: 100, SeatsAvailable: 42, Active: true},
	}
	mockService.On("Search", c.Request.Context(), expectedFilter).Return(flights, nil)

	handler.search(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []flightResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "SU-100", response[0].FlightNumber)
	assert.Equal(t, 42, response[0].SeatsAvailable)

	mockService.AssertExpectations(t)
}

func TestFlightHandler_search_invalidDate(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/api/flights?date=03-2024", nil)

	handler.search(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Search")
}

func TestFlightHandler_search_dateFilter(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/api/flights?date=2024-03-02", nil)

	date := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	expectedFilter := domain.FlightFilter{DepartureDate: &date, Limit: 10}
	mockService.On("Search", c.Request.Context(), expectedFilter).Return([]domain.Flight{}, nil)

	handler.search(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_get(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/api/flights/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	flight := &domain.Flight{ID: 1, FlightNumber: "SU-100", Origin: "LED", Destination: "SVO", Active: true}
	mockService.On("GetByID", c.Request.Context(), int64(1)).Return(flight, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response flightResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "SU-100", response.FlightNumber)

	mockService.AssertExpectations(t)
}

func TestFlightHandler_get_notFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/api/flights/99", nil)
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	mockService.On("GetByID", c.Request.Context(), int64(99)).Return(nil, domain.ErrNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}
