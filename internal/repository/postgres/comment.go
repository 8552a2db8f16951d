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

// CommentRepository implements repository.CommentRepository using PostgreSQL.
type CommentRepository struct {
	db database.DBTX
}

// NewCommentRepository creates a new PostgreSQL-backed comment repository.
func NewCommentRepository(db database.DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a new comment into the database.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (id, blog_id, user_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		c.ID,
		c.BlogID,
		c.UserID,
		c.Content,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by its ID.
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `
		SELECT id, blog_id, user_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1`

	var c domain.Comment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.BlogID,
		&c.UserID,
		&c.Content,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("comment", id)
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}

	return &c, nil
}

// ListByBlog returns a page of the comments on a blog post, oldest first,
// with the total comment count.
func (r *CommentRepository) ListByBlog(ctx context.Context, blogID string, page, perPage int) ([]domain.Comment, int, error) {
	if perPage <= 0 {
		perPage = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * perPage
	}

	query := `
		SELECT id, blog_id, user_id, content, created_at, updated_at, count(*) OVER() AS total_count
		FROM comments
		WHERE blog_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, blogID, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var (
		comments   []domain.Comment
		totalCount int
	)

	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID,
			&c.BlogID,
			&c.UserID,
			&c.Content,
			&c.CreatedAt,
			&c.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comment rows: %w", err)
	}

	if comments == nil {
		comments = []domain.Comment{}
	}

	return comments, totalCount, nil
}

// Update modifies an existing comment.
func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) error {
	c.UpdatedAt = time.Now().UTC()

	ct, err := r.db.Exec(ctx,
		`UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`,
		c.Content, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("comment", c.ID)
	}

	return nil
}

// Delete removes a comment by its ID.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("comment", id)
	}

	return nil
}
