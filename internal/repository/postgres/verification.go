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

// VerificationRepository implements repository.VerificationRepository using PostgreSQL.
type VerificationRepository struct {
	db database.DBTX
}

// NewVerificationRepository creates a new PostgreSQL-backed verification repository.
func NewVerificationRepository(db database.DBTX) *VerificationRepository {
	return &VerificationRepository{db: db}
}

const verificationColumns = "id, user_id, document_type, document_number, document_image_url, photo_image_url, status, rejection_field, rejection_reason, created_at, updated_at"

// Create inserts a new verification record.
func (r *VerificationRepository) Create(ctx context.Context, v *domain.IDVerification) error {
	query := `
		INSERT INTO id_verifications (id, user_id, document_type, document_number, document_image_url, photo_image_url, status, rejection_field, rejection_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		v.ID,
		v.UserID,
		v.DocumentType,
		v.DocumentNumber,
		v.DocumentImageURL,
		v.PhotoImageURL,
		v.Status,
		v.RejectionField,
		v.RejectionReason,
		v.CreatedAt,
		v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("verification", "user", v.UserID)
		}
		return fmt.Errorf("insert verification: %w", err)
	}

	return nil
}

// GetByID retrieves a verification record by its ID.
func (r *VerificationRepository) GetByID(ctx context.Context, id string) (*domain.IDVerification, error) {
	query := fmt.Sprintf(`SELECT %s FROM id_verifications WHERE id = $1`, verificationColumns)
	return r.scanVerification(ctx, query, id)
}

// GetByUser retrieves the latest verification record for a user.
func (r *VerificationRepository) GetByUser(ctx context.Context, userID string) (*domain.IDVerification, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM id_verifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, verificationColumns)
	return r.scanVerification(ctx, query, userID)
}

// Update modifies an existing verification record.
func (r *VerificationRepository) Update(ctx context.Context, v *domain.IDVerification) error {
	v.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE id_verifications
		SET document_type = $1, document_number = $2, document_image_url = $3,
		    photo_image_url = $4, status = $5, rejection_field = $6,
		    rejection_reason = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.db.Exec(ctx, query,
		v.DocumentType,
		v.DocumentNumber,
		v.DocumentImageURL,
		v.PhotoImageURL,
		v.Status,
		v.RejectionField,
		v.RejectionReason,
		v.UpdatedAt,
		v.ID,
	)
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("verification", v.ID)
	}

	return nil
}

func (r *VerificationRepository) scanVerification(ctx context.Context, query string, args ...any) (*domain.IDVerification, error) {
	var v domain.IDVerification
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&v.ID,
		&v.UserID,
		&v.DocumentType,
		&v.DocumentNumber,
		&v.DocumentImageURL,
		&v.PhotoImageURL,
		&v.Status,
		&v.RejectionField,
		&v.RejectionReason,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan verification: %w", err)
	}

	return &v, nil
}
