package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/pkg/database"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

// BannerRepository implements repository.BannerRepository using PostgreSQL.
type BannerRepository struct {
	db database.DBTX
}

// NewBannerRepository creates a new PostgreSQL-backed banner repository.
func NewBannerRepository(db database.DBTX) *BannerRepository {
	return &BannerRepository{db: db}
}

const bannerColumns = "id, title, image_url, link_url, active, category_id, countdown, created_at"

// Create inserts a new banner.
func (r *BannerRepository) Create(ctx context.Context, b *domain.Banner) error {
	query := `
		INSERT INTO banners (id, title, image_url, link_url, active, category_id, countdown, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		b.ID,
		b.Title,
		b.ImageURL,
		b.LinkURL,
		b.Active,
		b.CategoryID,
		b.Countdown,
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert banner: %w", err)
	}

	return nil
}

// GetByID retrieves a banner by its ID.
func (r *BannerRepository) GetByID(ctx context.Context, id string) (*domain.Banner, error) {
	query := fmt.Sprintf(`SELECT %s FROM banners WHERE id = $1`, bannerColumns)

	var b domain.Banner
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Title,
		&b.ImageURL,
		&b.LinkURL,
		&b.Active,
		&b.CategoryID,
		&b.Countdown,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("banner", id)
		}
		return nil, fmt.Errorf("scan banner: %w", err)
	}

	return &b, nil
}

// ListLive returns active banners whose countdown has not elapsed, plus
// active banners without a countdown.
func (r *BannerRepository) ListLive(ctx context.Context) ([]domain.Banner, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM banners
		WHERE active = TRUE AND (countdown IS NULL OR countdown > $1)
		ORDER BY created_at DESC`, bannerColumns)

	rows, err := r.db.Query(ctx, query, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("list live banners: %w", err)
	}
	defer rows.Close()

	var banners []domain.Banner
	for rows.Next() {
		var b domain.Banner
		if err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.ImageURL,
			&b.LinkURL,
			&b.Active,
			&b.CategoryID,
			&b.Countdown,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan banner row: %w", err)
		}
		banners = append(banners, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate banner rows: %w", err)
	}

	if banners == nil {
		banners = []domain.Banner{}
	}

	return banners, nil
}

// Update modifies an existing banner.
func (r *BannerRepository) Update(ctx context.Context, b *domain.Banner) error {
	query := `
		UPDATE banners
		SET title = $1, image_url = $2, link_url = $3, active = $4,
		    category_id = $5, countdown = $6
		WHERE id = $7`

	ct, err := r.db.Exec(ctx, query,
		b.Title,
		b.ImageURL,
		b.LinkURL,
		b.Active,
		b.CategoryID,
		b.Countdown,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("update banner: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("banner", b.ID)
	}

	return nil
}

// Delete removes a banner by its ID.
func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("banner", id)
	}

	return nil
}

// CategoryRepository implements repository.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	db database.DBTX
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(db database.DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (id, name, description) VALUES ($1, $2, $3)`

	if _, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Description); err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "name", c.Name)
		}
		return fmt.Errorf("insert category: %w", err)
	}

	return nil
}

// List returns every category ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	if categories == nil {
		categories = []domain.Category{}
	}

	return categories, nil
}

// Delete removes a category by its ID.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", id)
	}

	return nil
}
