package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mpetrov/aviabooking/internal/domain"
	"github.com/mpetrov/aviabooking/internal/kafka"
	"github.com/mpetrov/aviabooking/internal/repository"
)

// refundWindow is the cancellation policy boundary: a ticket canceled at
// least this long before departure is refunded, otherwise it is canceled
// without a refund. The boundary is inclusive.
const refundWindow = 24 * time.Hour

type BookingUseCase interface {
	Book(ctx context.Context, flightID, actorUserID int64, passengers []domain.Passenger) (*BookingResult, error)
	Cancel(ctx context.Context, ticketID, actorUserID int64) (*domain.Ticket, error)
	MyTickets(ctx context.Context, actorUserID int64) ([]domain.Ticket, error)
	AggregateBookings(ctx context.Context, start, end *time.Time) ([]domain.BookingAggregate, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// BookingResult is the outcome of one booking call: a confirmation id shared
// by every ticket in the group.
type BookingResult struct {
	ConfirmationID string
	Tickets        []domain.Ticket
}

type BookingService struct {
	tickets            repository.TicketRepository
	flights            repository.FlightRepository
	users              repository.UserRepository
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	logger             *zap.Logger
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithClock replaces the time source, used by tests of the refund boundary.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	tickets repository.TicketRepository,
	flights repository.FlightRepository,
	users repository.UserRepository,
	producer Producer,
	eventsTopic string,
	logger *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		tickets:     tickets,
		flights:     flights,
		users:       users,
		producer:    producer,
		eventsTopic: eventsTopic,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Book reserves len(passengers) seats on the flight and issues one PAID
// ticket per passenger, all sharing a single confirmation id. The seat
// decrement and the ticket inserts commit as one transaction; on any failure
// nothing is persisted and the call is safe to retry.
func (s *BookingService) Book(ctx context.Context, flightID, actorUserID int64, passengers []domain.Passenger) (*BookingResult, error) {
	if len(passengers) == 0 {
		return nil, domain.ErrNoPassengers
	}
	for _, p := range passengers {
		if strings.TrimSpace(p.Name) == "" {
			return nil, domain.ErrNoPassengers
		}
	}

	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if !flight.Active {
		return nil, domain.ErrNotFound
	}

	now := s.now().UTC()
	confirmationID := newConfirmationID(now)

	tickets, err := s.tickets.CreateBooking(ctx, flightID, actorUserID, confirmationID, passengers, now)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientSeats) {
			return nil, err
		}
		s.logger.Error("booking transaction failed",
			zap.Int64("flight_id", flightID),
			zap.Int64("user_id", actorUserID),
			zap.Error(err))
		return nil, domain.ErrBookingFailed
	}

	var total int64
	for _, t := range tickets {
		total += t.PricePaidCents
	}
	s.publish(ctx, kafka.TicketEvent{
		Type:           kafka.EventBookingCreated,
		ConfirmationID: confirmationID,
		FlightID:       flightID,
		UserID:         actorUserID,
		UserEmail:      s.userEmail(ctx, actorUserID),
		Status:         string(domain.TicketStatusPaid),
		Tickets:        len(tickets),
		AmountCents:    total,
		OccurredAt:     now,
	})

	return &BookingResult{ConfirmationID: confirmationID, Tickets: tickets}, nil
}

// Cancel moves the caller's PAID ticket to REFUNDED when the flight departs
// in 24 hours or more (boundary inclusive), otherwise to CANCELED, and
// restores one seat to the flight atomically with the status change. A ticket
// that already left PAID is rejected with ErrTicketNotCancelable; the seat is
// never incremented twice for one ticket.
func (s *BookingService) Cancel(ctx context.Context, ticketID, actorUserID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByIDForUser(ctx, ticketID, actorUserID)
	if err != nil {
		return nil, err
	}

	flight, err := s.flights.GetByID(ctx, ticket.FlightID)
	if err != nil {
		return nil, err
	}

	if !ticket.Status.CanTransitionTo(domain.TicketStatusCanceled) {
		return nil, domain.ErrTicketNotCancelable
	}

	now := s.now().UTC()
	status := domain.TicketStatusCanceled
	if flight.DepartureTime.Sub(now) >= refundWindow {
		status = domain.TicketStatusRefunded
	}

	updated, err := s.tickets.Cancel(ctx, ticket.ID, status, now)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.TicketEvent{
		Type:           kafka.EventTicketCanceled,
		ConfirmationID: updated.ConfirmationID,
		FlightID:       updated.FlightID,
		UserID:         actorUserID,
		UserEmail:      s.userEmail(ctx, actorUserID),
		Status:         string(updated.Status),
		Tickets:        1,
		AmountCents:    updated.PricePaidCents,
		OccurredAt:     now,
	})

	return updated, nil
}

func (s *BookingService) MyTickets(ctx context.Context, actorUserID int64) ([]domain.Ticket, error) {
	return s.tickets.ListByUser(ctx, actorUserID)
}

// AggregateBookings groups tickets purchased in the date range by
// confirmation id. Dates are day-granular UTC; the end date includes the
// whole day.
func (s *BookingService) AggregateBookings(ctx context.Context, start, end *time.Time) ([]domain.BookingAggregate, error) {
	from := time.Unix(0, 0).UTC()
	if start != nil {
		from = start.UTC().Truncate(24 * time.Hour)
	}
	until := s.now().UTC().Add(24 * time.Hour)
	if end != nil {
		until = end.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	}
	return s.tickets.AggregateBookings(ctx, from, until)
}

func (s *BookingService) publish(ctx context.Context, event kafka.TicketEvent) {
	if s.producer == nil {
		return
	}
	topics := []string{s.eventsTopic}
	if s.notificationsTopic != "" {
		topics = append(topics, s.notificationsTopic)
	}
	for _, topic := range topics {
		if topic == "" {
			continue
		}
		if err := s.producer.Publish(ctx, topic, event.ConfirmationID, event); err != nil {
			s.logger.Warn("failed to publish ticket event",
				zap.String("topic", topic),
				zap.String("type", event.Type),
				zap.String("confirmation_id", event.ConfirmationID),
				zap.Error(err))
		}
	}
}

func (s *BookingService) userEmail(ctx context.Context, userID int64) string {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ""
	}
	return user.Email
}

// newConfirmationID builds a time-ordered id with a short random suffix,
// e.g. CONF-20240301154512-7f3a1b. A unique index on tickets.confirmation_id
// is the last-resort guard against a collision.
func newConfirmationID(now time.Time) string {
	return fmt.Sprintf("CONF-%s-%s", now.Format("20060102150405"), uuid.NewString()[:6])
}

var _ BookingUseCase = (*BookingService)(nil)
