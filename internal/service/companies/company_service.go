package companies

import (
	"context"
	"errors"

	"github.com/mpetrov/aviabooking/internal/domain"
	"github.com/mpetrov/aviabooking/internal/repository"
)

type CompanyUseCase interface {
	Create(ctx context.Context, name string, managerID *int64) (*domain.Company, error)
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	List(ctx context.Context, isActive *bool, limit, offset int) ([]domain.Company, error)
	Update(ctx context.Context, id int64, input UpdateCompanyInput) (*domain.Company, error)
	Deactivate(ctx context.Context, id int64) error
}

// UpdateCompanyInput carries partial updates; nil fields are left as is.
// A ManagerID pointing at zero removes the manager.
type UpdateCompanyInput struct {
	Name      *string
	IsActive  *bool
	ManagerID *int64
}

type CompanyService struct {
	companies repository.CompanyRepository
	users     repository.UserRepository
}

func NewCompanyService(companies repository.CompanyRepository, users repository.UserRepository) *CompanyService {
	return &CompanyService{companies: companies, users: users}
}

func (s *CompanyService) Create(ctx context.Context, name string, managerID *int64) (*domain.Company, error) {
	if _, err := s.companies.GetByName(ctx, name); err == nil {
		return nil, domain.ErrCompanyNameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if managerID != nil {
		if err := s.checkManager(ctx, *managerID); err != nil {
			return nil, err
		}
	}

	company := &domain.Company{Name: name, IsActive: true, ManagerID: managerID}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *CompanyService) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	return s.companies.GetByID(ctx, id)
}

func (s *CompanyService) List(ctx context.Context, isActive *bool, limit, offset int) ([]domain.Company, error) {
	return s.companies.List(ctx, isActive, limit, offset)
}

func (s *CompanyService) Update(ctx context.Context, id int64, input UpdateCompanyInput) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		company.Name = *input.Name
	}
	if input.IsActive != nil {
		company.IsActive = *input.IsActive
	}
	if input.ManagerID != nil {
		if *input.ManagerID == 0 {
			company.ManagerID = nil
		} else {
			if err := s.checkManager(ctx, *input.ManagerID); err != nil {
				return nil, err
			}
			company.ManagerID = input.ManagerID
		}
	}
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *CompanyService) Deactivate(ctx context.Context, id int64) error {
	return s.companies.Deactivate(ctx, id)
}

func (s *CompanyService) checkManager(ctx context.Context, managerID int64) error {
	manager, err := s.users.GetByID(ctx, managerID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidManager
	}
	if err != nil {
		return err
	}
	if manager.Role != domain.RoleCompanyManager {
		return domain.ErrInvalidManager
	}
	return nil
}

var _ CompanyUseCase = (*CompanyService)(nil)
