package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpetrov/aviabooking/internal/domain"
)

type StatsRepository interface {
	PlatformStats(ctx context.Context, start, end *time.Time) (*domain.PlatformStats, error)
	CompanyStats(ctx context.Context, companyID int64, start, end *time.Time) (*domain.CompanyStats, error)
}

type PGStatsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) StatsRepository {
	return &PGStatsRepository{db: db}
}

func (r *PGStatsRepository) PlatformStats(ctx context.Context, start, end *time.Time) (*domain.PlatformStats, error) {
	var s domain.PlatformStats

	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&s.TotalUsers); err != nil {
		return nil, err
	}
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM airline_companies WHERE is_active = TRUE`).Scan(&s.TotalCompanies); err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx, `SELECT count(*),
			count(*) FILTER (WHERE departure_time > now()),
			count(*) FILTER (WHERE departure_time <= now())
		FROM flights
		WHERE ($1::timestamptz IS NULL OR departure_time >= $1)
		  AND ($2::timestamptz IS NULL OR departure_time < $2)`, start, end).
		Scan(&s.TotalFlights, &s.ActiveFlights, &s.CompletedFlights); err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx, `SELECT count(*),
			COALESCE(SUM(price_paid_cents) FILTER (WHERE status = $3), 0)
		FROM tickets
		WHERE ($1::timestamptz IS NULL OR purchased_at >= $1)
		  AND ($2::timestamptz IS NULL OR purchased_at < $2)`, start, end, domain.TicketStatusPaid).
		Scan(&s.TotalPassengers, &s.TotalRevenueCents); err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *PGStatsRepository) CompanyStats(ctx context.Context, companyID int64, start, end *time.Time) (*domain.CompanyStats, error) {
	var s domain.CompanyStats

	if err := r.db.QueryRow(ctx, `SELECT count(*),
			count(*) FILTER (WHERE departure_time > now()),
			count(*) FILTER (WHERE departure_time <= now())
		FROM flights
		WHERE company_id = $1
		  AND ($2::timestamptz IS NULL OR departure_time >= $2)
		  AND ($3::timestamptz IS NULL OR departure_time < $3)`, companyID, start, end).
		Scan(&s.TotalFlights, &s.ActiveFlights, &s.CompletedFlights); err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx, `SELECT count(*),
			COALESCE(SUM(t.price_paid_cents) FILTER (WHERE t.status = $2), 0)
		FROM tickets t
		JOIN flights f ON f.id = t.flight_id
		WHERE f.company_id = $1`, companyID, domain.TicketStatusPaid).
		Scan(&s.TotalPassengers, &s.TotalRevenueCents); err != nil {
		return nil, err
	}

	return &s, nil
}

var _ StatsRepository = (*PGStatsRepository)(nil)
