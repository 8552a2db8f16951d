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

// GardenRepository implements repository.GardenRepository using PostgreSQL.
type GardenRepository struct {
	db database.DBTX
}

// NewGardenRepository creates a new PostgreSQL-backed garden repository.
func NewGardenRepository(db database.DBTX) *GardenRepository {
	return &GardenRepository{db: db}
}

// Create inserts a new garden into the database.
func (r *GardenRepository) Create(ctx context.Context, g *domain.Garden) error {
	query := `
		INSERT INTO gardens (id, name, location, size, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		g.ID,
		g.Name,
		g.Location,
		g.Size,
		g.Description,
		g.CreatedAt,
		g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert garden: %w", err)
	}

	return nil
}

// GetByID retrieves a garden by its ID.
func (r *GardenRepository) GetByID(ctx context.Context, id string) (*domain.Garden, error) {
	query := `
		SELECT id, name, location, size, description, created_at, updated_at
		FROM gardens
		WHERE id = $1`

	var g domain.Garden
	err := r.db.QueryRow(ctx, query, id).Scan(
		&g.ID,
		&g.Name,
		&g.Location,
		&g.Size,
		&g.Description,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("garden", id)
		}
		return nil, fmt.Errorf("scan garden: %w", err)
	}

	return &g, nil
}

// List returns gardens with the total count.
func (r *GardenRepository) List(ctx context.Context, page, perPage int) ([]domain.Garden, int, error) {
	if perPage <= 0 {
		perPage = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * perPage
	}

	query := `
		SELECT id, name, location, size, description, created_at, updated_at, count(*) OVER() AS total_count
		FROM gardens
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list gardens: %w", err)
	}
	defer rows.Close()

	var (
		gardens    []domain.Garden
		totalCount int
	)

	for rows.Next() {
		var g domain.Garden
		if err := rows.Scan(&g.ID, &g.Name, &g.Location, &g.Size, &g.Description, &g.CreatedAt, &g.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan garden row: %w", err)
		}
		gardens = append(gardens, g)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate garden rows: %w", err)
	}

	if gardens == nil {
		gardens = []domain.Garden{}
	}

	return gardens, totalCount, nil
}

// Update modifies an existing garden.
func (r *GardenRepository) Update(ctx context.Context, g *domain.Garden) error {
	g.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE gardens
		SET name = $1, location = $2, size = $3, description = $4, updated_at = $5
		WHERE id = $6`

	ct, err := r.db.Exec(ctx, query, g.Name, g.Location, g.Size, g.Description, g.UpdatedAt, g.ID)
	if err != nil {
		return fmt.Errorf("update garden: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("garden", g.ID)
	}

	return nil
}

// Delete removes a garden by its ID.
func (r *GardenRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM gardens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete garden: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("garden", id)
	}

	return nil
}
