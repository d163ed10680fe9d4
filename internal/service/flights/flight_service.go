package flights

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mpetrov/aviabooking/internal/domain"
	"github.com/mpetrov/aviabooking/internal/repository"
)

type FlightUseCase interface {
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	CreateForManager(ctx context.Context, managerID int64, f *domain.Flight) error
	UpdateForManager(ctx context.Context, managerID int64, f *domain.Flight) error
	DeleteForManager(ctx context.Context, managerID, flightID int64) error
	ListForManager(ctx context.Context, managerID int64, upcoming, completed bool) ([]domain.Flight, error)
	PassengersForManager(ctx context.Context, managerID, flightID int64) ([]domain.FlightPassenger, error)
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	flights   repository.FlightRepository
	companies repository.CompanyRepository
	tickets   repository.TicketRepository
	cache     Cache
	logger    *zap.Logger
}

func NewFlightService(
	flights repository.FlightRepository,
	companies repository.CompanyRepository,
	tickets repository.TicketRepository,
	cache Cache,
	logger *zap.Logger,
) *FlightService {
	return &FlightService{flights: flights, companies: companies, tickets: tickets, cache: cache, logger: logger}
}

// Search runs a filtered flight search. The plain first-page listing is
// served from cache when possible; filtered searches always hit the store.
func (s *FlightService) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	if s.cache != nil && cacheable(filter) {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && cacheable(filter) {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.logger.Warn("failed to cache flight list", zap.Error(err))
		}
	}
	return flights, nil
}

func cacheable(filter domain.FlightFilter) bool {
	empty := domain.FlightFilter{Limit: filter.Limit}
	return filter == empty
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

func (s *FlightService) CreateForManager(ctx context.Context, managerID int64, f *domain.Flight) error {
	company, err := s.managedCompany(ctx, managerID)
	if err != nil {
		return err
	}
	f.CompanyID = company.ID
	f.Active = true
	if err := s.flights.Create(ctx, f); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) UpdateForManager(ctx context.Context, managerID int64, f *domain.Flight) error {
	if _, err := s.ownedFlight(ctx, managerID, f.ID); err != nil {
		return err
	}
	if err := s.flights.Update(ctx, f); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// DeleteForManager removes a flight owned by the manager's company. Deletion
// is blocked while any ticket references the flight.
func (s *FlightService) DeleteForManager(ctx context.Context, managerID, flightID int64) error {
	if _, err := s.ownedFlight(ctx, managerID, flightID); err != nil {
		return err
	}
	count, err := s.tickets.CountByFlight(ctx, flightID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrFlightHasTickets
	}
	if err := s.flights.Delete(ctx, flightID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) ListForManager(ctx context.Context, managerID int64, upcoming, completed bool) ([]domain.Flight, error) {
	company, err := s.managedCompany(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return s.flights.ListByCompany(ctx, company.ID, upcoming, completed)
}

func (s *FlightService) PassengersForManager(ctx context.Context, managerID, flightID int64) ([]domain.FlightPassenger, error) {
	if _, err := s.ownedFlight(ctx, managerID, flightID); err != nil {
		return nil, err
	}
	return s.tickets.ListPassengers(ctx, flightID)
}

func (s *FlightService) managedCompany(ctx context.Context, managerID int64) (*domain.Company, error) {
	company, err := s.companies.GetByManager(ctx, managerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoCompany
	}
	return company, err
}

// ownedFlight resolves the manager's company and the flight, returning
// ErrNotFound when the flight belongs to another company.
func (s *FlightService) ownedFlight(ctx context.Context, managerID, flightID int64) (*domain.Flight, error) {
	company, err := s.managedCompany(ctx, managerID)
	if err != nil {
		return nil, err
	}
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if flight.CompanyID != company.ID {
		return nil, domain.ErrNotFound
	}
	return flight, nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.logger.Warn("failed to invalidate flight cache", zap.Error(err))
	}
}

var _ FlightUseCase = (*FlightService)(nil)
