package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpetrov/aviabooking/internal/domain"
)

type FlightRepository interface {
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, f *domain.Flight) error
	Update(ctx context.Context, f *domain.Flight) error
	Delete(ctx context.Context, id int64) error
	ListByCompany(ctx context.Context, companyID int64, upcoming, completed bool) ([]domain.Flight, error)
	DeactivateDeparted(ctx context.Context, now time.Time) (int64, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, company_id, flight_number, origin, destination, departure_time, arrival_time, duration_minutes, stops, price_cents, seats_total, seats_available, active, created_at, updated_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.CompanyID, &f.FlightNumber, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.DurationMinutes, &f.Stops, &f.PriceCents, &f.SeatsTotal, &f.SeatsAvailable, &f.Active, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	where = append(where, "f.active = TRUE")
	if filter.Origin != "" {
		where = append(where, "f.origin ILIKE "+arg("%"+filter.Origin+"%"))
	}
	if filter.Destination != "" {
		where = append(where, "f.destination ILIKE "+arg("%"+filter.Destination+"%"))
	}
	if filter.DepartureDate != nil {
		dayStart := filter.DepartureDate.UTC().Truncate(24 * time.Hour)
		where = append(where, "f.departure_time >= "+arg(dayStart))
		where = append(where, "f.departure_time < "+arg(dayStart.Add(24*time.Hour)))
	}
	if filter.Passengers > 0 {
		where = append(where, "f.seats_available >= "+arg(filter.Passengers))
	}
	if filter.MinPriceCents != nil {
		where = append(where, "f.price_cents >= "+arg(*filter.MinPriceCents))
	}
	if filter.MaxPriceCents != nil {
		where = append(where, "f.price_cents <= "+arg(*filter.MaxPriceCents))
	}
	if filter.Stops != nil {
		where = append(where, "f.stops = "+arg(*filter.Stops))
	}

	join := ""
	if filter.Airline != "" {
		join = " JOIN airline_companies c ON c.id = f.company_id"
		where = append(where, "c.name ILIKE "+arg("%"+filter.Airline+"%"))
	}

	orderBy := "f.departure_time"
	if filter.Sort == "price" {
		orderBy = "f.price_cents"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	cols := "f." + strings.ReplaceAll(flightColumns, ", ", ", f.")
	query := fmt.Sprintf(`SELECT %s FROM flights f%s WHERE %s ORDER BY %s LIMIT %s OFFSET %s`,
		cols, join, strings.Join(where, " AND "), orderBy, arg(limit), arg(filter.Offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	f, err := scanFlight(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return f, err
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (company_id, flight_number, origin, destination, departure_time, arrival_time, duration_minutes, stops, price_cents, seats_total, seats_available, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10, $11)
		RETURNING id, seats_available, created_at, updated_at`,
		f.CompanyID, f.FlightNumber, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime, f.DurationMinutes, f.Stops, f.PriceCents, f.SeatsTotal, f.Active).
		Scan(&f.ID, &f.SeatsAvailable, &f.CreatedAt, &f.UpdatedAt)
}

// Update rewrites schedule and pricing fields. Seat counters are mutated only
// by the booking transactions in the ticket repository.
func (r *PGFlightRepository) Update(ctx context.Context, f *domain.Flight) error {
	cmd, err := r.db.Exec(ctx, `UPDATE flights SET flight_number=$2, origin=$3, destination=$4, departure_time=$5, arrival_time=$6, duration_minutes=$7, stops=$8, price_cents=$9, active=$10, updated_at=now() WHERE id=$1`,
		f.ID, f.FlightNumber, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime, f.DurationMinutes, f.Stops, f.PriceCents, f.Active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) ListByCompany(ctx context.Context, companyID int64, upcoming, completed bool) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE company_id=$1`
	if upcoming {
		query += ` AND departure_time > now()`
	}
	if completed {
		query += ` AND departure_time <= now()`
	}
	query += ` ORDER BY departure_time`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) DeactivateDeparted(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE flights SET active = FALSE, updated_at = now() WHERE active = TRUE AND departure_time <= $1`, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
