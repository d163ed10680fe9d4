package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpetrov/aviabooking/internal/domain"
)

type BannerRepository interface {
	Create(ctx context.Context, b *domain.Banner) error
	List(ctx context.Context, isActive *bool) ([]domain.Banner, error)
	Update(ctx context.Context, b *domain.Banner) error
	Delete(ctx context.Context, id int64) error
}

type PGBannerRepository struct {
	db *pgxpool.Pool
}

func NewBannerRepository(db *pgxpool.Pool) BannerRepository {
	return &PGBannerRepository{db: db}
}

const bannerColumns = `id, title, description, image_url, link_url, is_active, created_at`

func (r *PGBannerRepository) Create(ctx context.Context, b *domain.Banner) error {
	return r.db.QueryRow(ctx, `INSERT INTO banners (title, description, image_url, link_url, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		b.Title, b.Description, b.ImageURL, b.LinkURL, b.IsActive).
		Scan(&b.ID, &b.CreatedAt)
}

func (r *PGBannerRepository) List(ctx context.Context, isActive *bool) ([]domain.Banner, error) {
	query := `SELECT ` + bannerColumns + ` FROM banners`
	var args []interface{}
	if isActive != nil {
		query += ` WHERE is_active=$1`
		args = append(args, *isActive)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	banners := make([]domain.Banner, 0)
	for rows.Next() {
		var b domain.Banner
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.ImageURL, &b.LinkURL, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, err
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

func (r *PGBannerRepository) Update(ctx context.Context, b *domain.Banner) error {
	cmd, err := r.db.Exec(ctx, `UPDATE banners SET title=$2, description=$3, image_url=$4, link_url=$5, is_active=$6 WHERE id=$1`,
		b.ID, b.Title, b.Description, b.ImageURL, b.LinkURL, b.IsActive)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGBannerRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM banners WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ BannerRepository = (*PGBannerRepository)(nil)
