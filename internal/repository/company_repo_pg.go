package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpetrov/aviabooking/internal/domain"
)

type CompanyRepository interface {
	Create(ctx context.Context, c *domain.Company) error
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	GetByName(ctx context.Context, name string) (*domain.Company, error)
	GetByManager(ctx context.Context, managerID int64) (*domain.Company, error)
	List(ctx context.Context, isActive *bool, limit, offset int) ([]domain.Company, error)
	Update(ctx context.Context, c *domain.Company) error
	Deactivate(ctx context.Context, id int64) error
}

type PGCompanyRepository struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) CompanyRepository {
	return &PGCompanyRepository{db: db}
}

const companyColumns = `id, name, is_active, manager_id, created_at`

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var c domain.Company
	if err := row.Scan(&c.ID, &c.Name, &c.IsActive, &c.ManagerID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGCompanyRepository) Create(ctx context.Context, c *domain.Company) error {
	return r.db.QueryRow(ctx, `INSERT INTO airline_companies (name, is_active, manager_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		c.Name, c.IsActive, c.ManagerID).
		Scan(&c.ID, &c.CreatedAt)
}

func (r *PGCompanyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	row := r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM airline_companies WHERE id=$1`, id)
	c, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (r *PGCompanyRepository) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	row := r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM airline_companies WHERE name=$1`, name)
	c, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (r *PGCompanyRepository) GetByManager(ctx context.Context, managerID int64) (*domain.Company, error) {
	row := r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM airline_companies WHERE manager_id=$1`, managerID)
	c, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (r *PGCompanyRepository) List(ctx context.Context, isActive *bool, limit, offset int) ([]domain.Company, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + companyColumns + ` FROM airline_companies`
	args := []interface{}{limit, offset}
	if isActive != nil {
		query += ` WHERE is_active=$3`
		args = append(args, *isActive)
	}
	query += ` ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]domain.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, rows.Err()
}

func (r *PGCompanyRepository) Update(ctx context.Context, c *domain.Company) error {
	cmd, err := r.db.Exec(ctx, `UPDATE airline_companies SET name=$2, is_active=$3, manager_id=$4 WHERE id=$1`,
		c.ID, c.Name, c.IsActive, c.ManagerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGCompanyRepository) Deactivate(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE airline_companies SET is_active = FALSE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ CompanyRepository = (*PGCompanyRepository)(nil)
