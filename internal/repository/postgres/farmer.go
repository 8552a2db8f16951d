package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/pkg/database"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

// FarmerRepository implements repository.FarmerRepository using PostgreSQL.
type FarmerRepository struct {
	db database.DBTX
}

// NewFarmerRepository creates a new PostgreSQL-backed farmer repository.
func NewFarmerRepository(db database.DBTX) *FarmerRepository {
	return &FarmerRepository{db: db}
}

// Create inserts a new farmer profile.
func (r *FarmerRepository) Create(ctx context.Context, f *domain.Farmer) error {
	query := `
		INSERT INTO farmers (id, product_id, name, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.db.Exec(ctx, query, f.ID, f.ProductID, f.Name, f.Email, f.Phone, f.CreatedAt); err != nil {
		return fmt.Errorf("insert farmer: %w", err)
	}

	return nil
}

// GetByID retrieves a farmer by its ID.
func (r *FarmerRepository) GetByID(ctx context.Context, id string) (*domain.Farmer, error) {
	query := `
		SELECT id, product_id, name, email, phone, created_at
		FROM farmers
		WHERE id = $1`

	var f domain.Farmer
	err := r.db.QueryRow(ctx, query, id).Scan(&f.ID, &f.ProductID, &f.Name, &f.Email, &f.Phone, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("farmer", id)
		}
		return nil, fmt.Errorf("scan farmer: %w", err)
	}

	return &f, nil
}

// ListByProduct returns the farmers behind a product listing.
func (r *FarmerRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Farmer, error) {
	query := `
		SELECT id, product_id, name, email, phone, created_at
		FROM farmers
		WHERE product_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list farmers: %w", err)
	}
	defer rows.Close()

	var farmers []domain.Farmer
	for rows.Next() {
		var f domain.Farmer
		if err := rows.Scan(&f.ID, &f.ProductID, &f.Name, &f.Email, &f.Phone, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan farmer row: %w", err)
		}
		farmers = append(farmers, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate farmer rows: %w", err)
	}

	if farmers == nil {
		farmers = []domain.Farmer{}
	}

	return farmers, nil
}

// Update modifies an existing farmer profile.
func (r *FarmerRepository) Update(ctx context.Context, f *domain.Farmer) error {
	query := `
		UPDATE farmers
		SET name = $1, email = $2, phone = $3
		WHERE id = $4`

	ct, err := r.db.Exec(ctx, query, f.Name, f.Email, f.Phone, f.ID)
	if err != nil {
		return fmt.Errorf("update farmer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("farmer", f.ID)
	}

	return nil
}

// Delete removes a farmer profile by its ID.
func (r *FarmerRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM farmers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete farmer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("farmer", id)
	}

	return nil
}
