package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/mpetrov/aviabooking/internal/domain"
	"github.com/mpetrov/aviabooking/internal/kafka"
)

// Mock структуры

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) CreateBooking(ctx context.Context, flightID, userID int64, confirmationID string, passengers []domain.Passenger, purchasedAt time.Time) ([]domain.Ticket, error) {
	args := m.Called(ctx, flightID, userID, confirmationID, passengers, purchasedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*domain.Ticket, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListPassengers(ctx context.Context, flightID int64) ([]domain.FlightPassenger, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]domain.FlightPassenger), args.Error(1)
}

func (m *MockTicketRepository) CountByFlight(ctx context.Context, flightID int64) (int64, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) Cancel(ctx context.Context, ticketID int64, status domain.TicketStatus, canceledAt time.Time) (*domain.Ticket, error) {
	args := m.Called(ctx, ticketID, status, canceledAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) AggregateBookings(ctx context.Context, start, end time.Time) ([]domain.BookingAggregate, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]domain.BookingAggregate), args.Error(1)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, f *domain.Flight) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightRepository) ListByCompany(ctx context.Context, companyID int64, upcoming, completed bool) ([]domain.Flight, error) {
	args := m.Called(ctx, companyID, upcoming, completed)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) DeactivateDeparted(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProducer - реализует интерфейс Producer напрямую
type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func newTestService(tickets *MockTicketRepository, flights *MockFlightRepository, users *MockUserRepository, producer *MockProducer, now time.Time) *BookingService {
	return &BookingService{
		tickets:     tickets,
		flights:     flights,
		users:       users,
		producer:    producer,
		eventsTopic: "ticket_events",
		logger:      zap.NewNop(),
		now:         func() time.Time { return now },
	}
}

// ============================ Тесты для Book ============================

// Тест 1: Бронирование - успешный сценарий с несколькими пассажирами
func TestBookingService_Book_Success(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}

	now := time.Date(2024, 3, 1, 15, 45, 12, 0, time.UTC)
	service := newTestService(mockTickets, mockFlights, mockUsers, mockProducer, now)

	ctx := context.Background()
	passengers := []domain.Passenger{{Name: "Ivan Petrov"}, {Name: "Anna Petrova"}}

	flight := &domain.Flight{ID: 4, PriceCents: 150_00, SeatsAvailable: 10, Active: true}
	issued := []domain.Ticket{
		{ID: 1, FlightID: 4, UserID: 7, Status: domain.TicketStatusPaid, ConfirmationID: "CONF-20240301154512-abc123", PassengerName: "Ivan Petrov", PricePaidCents: 150_00, PurchasedAt: now},
		{ID: 2, FlightID: 4, UserID: 7, Status: domain.TicketStatusPaid, ConfirmationID: "CONF-20240301154512-abc123", PassengerName: "Anna Petrova", PricePaidCents: 150_00, PurchasedAt: now},
	}

	// Настройка моков
	mockFlights.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()
	mockTickets.On("CreateBooking", ctx, int64(4), int64(7), mock.AnythingOfType("string"), passengers, now).Return(issued, nil).Once()
	mockUsers.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Email: "test@example.com"}, nil).Once()
	mockProducer.On("Publish", ctx, "ticket_events", mock.Anything, mock.Anything).Return(nil).Once()

	// Выполнение
	result, err := service.Book(ctx, 4, 7, passengers)

	// Проверки
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Len(t, result.Tickets, 2)
	assert.Contains(t, result.ConfirmationID, "CONF-20240301154512-")
	for _, ticket := range result.Tickets {
		assert.Equal(t, domain.TicketStatusPaid, ticket.Status)
		assert.Equal(t, issued[0].ConfirmationID, ticket.ConfirmationID)
		assert.Equal(t, int64(150_00), ticket.PricePaidCents)
		assert.Equal(t, now, ticket.PurchasedAt)
	}

	mockFlights.AssertExpectations(t)
	mockTickets.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

// Тест 2: Бронирование - пустой список пассажиров
func TestBookingService_Book_NoPassengers(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}

	service := newTestService(mockTickets, mockFlights, mockUsers, mockProducer, time.Now())
	ctx := context.Background()

	result, err := service.Book(ctx, 4, 7, nil)

	assert.ErrorIs(t, err, domain.ErrNoPassengers)
	assert.Nil(t, result)
	mockFlights.AssertNotCalled(t, "GetByID")
	mockTickets.AssertNotCalled(t, "CreateBooking")
}

// Тест 3: Бронирование - пассажир с пустым именем
func TestBookingService_Book_BlankPassengerName(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}

	service := newTestService(mockTickets, mockFlights, mockUsers, mockProducer, time.Now())
	ctx := context.Background()

	result, err := service.Book(ctx, 4, 7, []domain.Passenger{{Name: "Ivan"}, {Name: "   "}})

	assert.ErrorIs(t, err, domain.ErrNoPassengers)
	assert.Nil(t, result)
	mockTickets.AssertNotCalled(t, "CreateBooking")
}

// Тест 4: Бронирование - рейс не активен
func TestBookingService_Book_InactiveFlight(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}

	service := newTestService(mockTickets, mockFlights, mockUsers, mockProducer, time.Now())
	ctx := context.Background()

	mockFlights.On("GetByID", ctx, int64(4)).Return(&domain.Flight{ID: 4, Active: false}, nil).Once()

	result, err := service.Book(ctx, 4, 7, []domain.Passenger{{Name: "Ivan"}})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, result)
	mockTickets.AssertNotCalled(t, "CreateBooking")
}

// Тест 5: Бронирование - недостаточно мест, событие не публикуется
func TestBookingService_Book_InsufficientSeats(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}

	service := newTestService(mockTickets, mockFlights, mockUsers, mockProducer, time.Now())
	ctx := context.Background()
	passengers := []domain.Passenger{{Name: "Ivan"}, {Name: "Anna"}}

	mockFlights.On("GetByID", ctx, int64(4)).Return(&domain.Flight{ID: 4, SeatsAvailable: 1, Active: true}, nil).Once()
	mockTickets.On("CreateBooking", ctx, int64(4), int64(7), mock.Anything, passengers, mock.Anything).Return(nil, domain.ErrInsufficientSeats).Once()

	result, err := service.Book(ctx, 4, 7, passengers)

	assert.ErrorIs(t, err, domain.ErrInsufficientSeats)
	assert.Nil(t, result)
	mockProducer.AssertNotCalled(t, "Publish")
}

// Тест 6: Бронирование - ошибка транзакции скрывается за ErrBookingFailed
func TestBookingService_Book_RepositoryError(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}

	service := newTestService(mockTickets, mockFlights, mockUsers, mockProducer, time.Now())
	ctx := context.Background()
	passengers := []domain.Passenger{{Name: "Ivan"}}

	mockFlights.On("GetByID", ctx, int64(4)).Return(&domain.Flight{ID: 4, SeatsAvailable: 5, Active: true}, nil).Once()
	mockTickets.On("CreateBooking", ctx, int64(4), int64(7), mock.Anything, passengers, mock.Anything).Return(nil, errors.New("database error")).Once()

	result, err := service.Book(ctx, 4, 7, passengers)

	assert.ErrorIs(t, err, domain.ErrBookingFailed)
	assert.Nil(t, result)
	mockProducer.AssertNotCalled(t, "Publish")
}

// ============================ Тесты для Cancel ============================

func cancelFixture(now time.Time, departureIn time.Duration) (*domain.Ticket, *domain.Flight) {
	ticket := &domain.Ticket{
		ID:             10,
		UserID:         7,
		FlightID:       4,
		Status:         domain.TicketStatusPaid,
		ConfirmationID: "CONF-20240301154512-abc123",
		PricePaidCents: 150_00,
	}
	flight := &domain.Flight{ID: 4, DepartureTime: now.Add(departureIn), Active: true}
	return ticket, flight
}

// Тест 7: Отмена ровно за 24 часа до вылета - возврат средств (граница включительно)
func TestBookingService_Cancel_RefundAtBoundary(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	service := newTestService(mockTickets, mockFlights, mockUsers, mockProducer, now)
	ctx := context.Background()

	ticket, flight := cancelFixture(now, 24*time.Hour)
	refunded := *ticket
	refunded.Status = domain.TicketStatusRefunded
	refunded.CanceledAt = &now

	mockTickets.On("GetByIDForUser", ctx, int64(10), int64(7)).Return(ticket, nil).Once()
	mockFlights.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()
	mockTickets.On("Cancel", ctx, int64(10), domain.TicketStatusRefunded, now).Return(&refunded, nil).Once()
	mockUsers.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Email: "test@example.com"}, nil).Once()
	mockProducer.On("Publish", ctx, "ticket_events", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := service.Cancel(ctx, 10, 7)

	assert.NoError(t, err)
	assert.Equal(t, domain.TicketStatusRefunded, updated.Status)
	mockTickets.AssertExpectations(t)
}

// Тест 8: Отмена менее чем за 24 часа - без возврата
func TestBookingService_Cancel_NoRefundInsideWindow(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	service := newTestService(mockTickets, mockFlights, mockUsers, mockProducer, now)
	ctx := context.Background()

	ticket, flight := cancelFixture(now, 23*time.Hour)
	canceled := *ticket
	canceled.Status = domain.TicketStatusCanceled
	canceled.CanceledAt = &now

	mockTickets.On("GetByIDForUser", ctx, int64(10), int64(7)).Return(ticket, nil).Once()
	mockFlights.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()
	mockTickets.On("Cancel", ctx, int64(10), domain.TicketStatusCanceled, now).Return(&canceled, nil).Once()
	mockUsers.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Email: "test@example.com"}, nil).Once()
	mockProducer.On("Publish", ctx, "ticket_events", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := service.Cancel(ctx, 10, 7)

	assert.NoError(t, err)
	assert.Equal(t, domain.TicketStatusCanceled, updated.Status)
	mockTickets.AssertExpectations(t)
}

// Тест 9: Повторная отмена отклоняется
func TestBookingService_Cancel_AlreadyCanceled(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	service := newTestService(mockTickets, mockFlights, mockUsers, mockProducer, now)
	ctx := context.Background()

	ticket, flight := cancelFixture(now, 48*time.Hour)
	ticket.Status = domain.TicketStatusRefunded

	mockTickets.On("GetByIDForUser", ctx, int64(10), int64(7)).Return(ticket, nil).Once()
	mockFlights.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()

	updated, err := service.Cancel(ctx, 10, 7)

	assert.ErrorIs(t, err, domain.ErrTicketNotCancelable)
	assert.Nil(t, updated)
	mockTickets.AssertNotCalled(t, "Cancel")
	mockProducer.AssertNotCalled(t, "Publish")
}

// Тест 10: Отмена чужого билета - не найдено
func TestBookingService_Cancel_NotOwned(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}

	service := newTestService(mockTickets, mockFlights, mockUsers, mockProducer, time.Now())
	ctx := context.Background()

	mockTickets.On("GetByIDForUser", ctx, int64(10), int64(99)).Return(nil, domain.ErrNotFound).Once()

	updated, err := service.Cancel(ctx, 10, 99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, updated)
	mockTickets.AssertNotCalled(t, "Cancel")
}

// ============================ Тесты для AggregateBookings ============================

// Тест 11: Агрегация - конечная дата включает весь день
func TestBookingService_AggregateBookings_InclusiveEnd(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	service := newTestService(mockTickets, mockFlights, mockUsers, mockProducer, now)
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	end := time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)

	expectedFrom := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	expectedUntil := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

	companyID := int64(2)
	aggregates := []domain.BookingAggregate{
		{ConfirmationID: "CONF-20240301154512-abc123", CompanyID: &companyID, TotalAmountCents: 300_00, PurchasedAt: start},
	}
	mockTickets.On("AggregateBookings", ctx, expectedFrom, expectedUntil).Return(aggregates, nil).Once()

	result, err := service.AggregateBookings(ctx, &start, &end)

	assert.NoError(t, err)
	assert.Equal(t, aggregates, result)
	mockTickets.AssertExpectations(t)
}

// Тест 12: Агрегация без дат - открытый диапазон
func TestBookingService_AggregateBookings_NoRange(t *testing.T) {
	mockTickets := &MockTicketRepository{}
	mockFlights := &MockFlightRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	service := newTestService(mockTickets, mockFlights, mockUsers, mockProducer, now)
	ctx := context.Background()

	mockTickets.On("AggregateBookings", ctx, time.Unix(0, 0).UTC(), now.Add(24*time.Hour)).Return([]domain.BookingAggregate{}, nil).Once()

	result, err := service.AggregateBookings(ctx, nil, nil)

	assert.NoError(t, err)
	assert.Empty(t, result)
	mockTickets.AssertExpectations(t)
}

// Тест 13: Публикация без producer не падает
func TestBookingService_Publish_NoProducer(t *testing.T) {
	service := &BookingService{
		logger: zap.NewNop(),
	}

	service.publish(context.Background(), kafka.TicketEvent{Type: kafka.EventBookingCreated})
}

// Тест 14: Публикация в обе темы при включенных уведомлениях
func TestBookingService_Publish_WithNotifications(t *testing.T) {
	mockProducer := &MockProducer{}

	service := &BookingService{
		producer:           mockProducer,
		eventsTopic:        "ticket_events",
		notificationsTopic: "notifications",
		logger:             zap.NewNop(),
	}

	ctx := context.Background()
	event := kafka.TicketEvent{Type: kafka.EventBookingCreated, ConfirmationID: "CONF-1"}

	mockProducer.On("Publish", ctx, "ticket_events", "CONF-1", event).Return(nil).Once()
	mockProducer.On("Publish", ctx, "notifications", "CONF-1", event).Return(nil).Once()

	service.publish(ctx, event)

	mockProducer.AssertExpectations(t)
}
