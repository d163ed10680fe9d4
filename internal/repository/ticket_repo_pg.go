package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpetrov/aviabooking/internal/domain"
)

type TicketRepository interface {
	CreateBooking(ctx context.Context, flightID, userID int64, confirmationID string, passengers []domain.Passenger, purchasedAt time.Time) ([]domain.Ticket, error)
	GetByIDForUser(ctx context.Context, id, userID int64) (*domain.Ticket, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error)
	ListPassengers(ctx context.Context, flightID int64) ([]domain.FlightPassenger, error)
	CountByFlight(ctx context.Context, flightID int64) (int64, error)
	Cancel(ctx context.Context, ticketID int64, status domain.TicketStatus, canceledAt time.Time) (*domain.Ticket, error)
	AggregateBookings(ctx context.Context, start, end time.Time) ([]domain.BookingAggregate, error)
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

const ticketColumns = `id, user_id, flight_id, status, confirmation_id, passenger_name, price_paid_cents, purchased_at, canceled_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(&t.ID, &t.UserID, &t.FlightID, &t.Status, &t.ConfirmationID, &t.PassengerName, &t.PricePaidCents, &t.PurchasedAt, &t.CanceledAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateBooking reserves len(passengers) seats and inserts the ticket group as
// one transaction. The conditional decrement takes the row lock on the flight
// and checks availability in the same statement, so two concurrent bookings
// can never both consume the last seats: the loser's UPDATE matches no row and
// nothing is mutated.
func (r *PGTicketRepository) CreateBooking(ctx context.Context, flightID, userID int64, confirmationID string, passengers []domain.Passenger, purchasedAt time.Time) ([]domain.Ticket, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var priceCents int64
	err = tx.QueryRow(ctx, `UPDATE flights SET seats_available = seats_available - $2, updated_at = now() WHERE id=$1 AND seats_available >= $2 RETURNING price_cents`,
		flightID, len(passengers)).Scan(&priceCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInsufficientSeats
	}
	if err != nil {
		return nil, err
	}

	tickets := make([]domain.Ticket, 0, len(passengers))
	for _, p := range passengers {
		t := domain.Ticket{
			UserID:         userID,
			FlightID:       flightID,
			Status:         domain.TicketStatusPaid,
			ConfirmationID: confirmationID,
			PassengerName:  p.Name,
			PricePaidCents: priceCents,
			PurchasedAt:    purchasedAt,
		}
		if err := tx.QueryRow(ctx, `INSERT INTO tickets (user_id, flight_id, status, confirmation_id, passenger_name, price_paid_cents, purchased_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			t.UserID, t.FlightID, t.Status, t.ConfirmationID, t.PassengerName, t.PricePaidCents, t.PurchasedAt).
			Scan(&t.ID); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetByIDForUser filters by owner in the query itself so non-owners get the
// same ErrNotFound as a missing ticket.
func (r *PGTicketRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1 AND user_id=$2`, id, userID)
	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return t, err
}

func (r *PGTicketRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE user_id=$1 ORDER BY purchased_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

func (r *PGTicketRepository) ListPassengers(ctx context.Context, flightID int64) ([]domain.FlightPassenger, error) {
	rows, err := r.db.Query(ctx, `SELECT t.id, t.user_id, u.name, u.email, t.passenger_name, t.status, t.confirmation_id, t.price_paid_cents, t.purchased_at, t.canceled_at
		FROM tickets t
		JOIN users u ON u.id = t.user_id
		WHERE t.flight_id=$1
		ORDER BY t.purchased_at`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passengers := make([]domain.FlightPassenger, 0)
	for rows.Next() {
		var p domain.FlightPassenger
		if err := rows.Scan(&p.TicketID, &p.UserID, &p.UserName, &p.UserEmail, &p.PassengerName, &p.Status, &p.ConfirmationID, &p.PricePaidCents, &p.PurchasedAt, &p.CanceledAt); err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

func (r *PGTicketRepository) CountByFlight(ctx context.Context, flightID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM tickets WHERE flight_id=$1`, flightID).Scan(&n)
	return n, err
}

// Cancel moves a PAID ticket to its terminal status and restores one seat to
// the flight in the same transaction. The status guard in the WHERE clause
// makes the transition first-wins: a second cancel matches no row and the
// seat is not incremented again.
func (r *PGTicketRepository) Cancel(ctx context.Context, ticketID int64, status domain.TicketStatus, canceledAt time.Time) (*domain.Ticket, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE tickets SET status=$2, canceled_at=$3 WHERE id=$1 AND status=$4 RETURNING `+ticketColumns,
		ticketID, status, canceledAt, domain.TicketStatusPaid)
	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTicketNotCancelable
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE flights SET seats_available = seats_available + 1, updated_at = now() WHERE id=$1`, t.FlightID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// AggregateBookings groups tickets purchased in [start, end) by confirmation
// id. Company id comes through a LEFT JOIN so groups whose flight record is
// gone aggregate with a nil company.
func (r *PGTicketRepository) AggregateBookings(ctx context.Context, start, end time.Time) ([]domain.BookingAggregate, error) {
	rows, err := r.db.Query(ctx, `SELECT t.confirmation_id, MIN(f.company_id), SUM(t.price_paid_cents), MIN(t.purchased_at)
		FROM tickets t
		LEFT JOIN flights f ON f.id = t.flight_id
		WHERE t.purchased_at >= $1 AND t.purchased_at < $2
		GROUP BY t.confirmation_id`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aggregates := make([]domain.BookingAggregate, 0)
	for rows.Next() {
		var a domain.BookingAggregate
		if err := rows.Scan(&a.ConfirmationID, &a.CompanyID, &a.TotalAmountCents, &a.PurchasedAt); err != nil {
			return nil, err
		}
		aggregates = append(aggregates, a)
	}
	return aggregates, rows.Err()
}

var _ TicketRepository = (*PGTicketRepository)(nil)
