package postgres

import (
	"context"
	"fmt"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/pkg/database"
)

// LikeRepository implements repository.LikeRepository using PostgreSQL.
// Likes are append-only; there is no uniqueness constraint on (blog, user).
type LikeRepository struct {
	db database.DBTX
}

// NewLikeRepository creates a new PostgreSQL-backed like repository.
func NewLikeRepository(db database.DBTX) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts a new like.
func (r *LikeRepository) Create(ctx context.Context, l *domain.Like) error {
	query := `
		INSERT INTO likes (id, blog_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, l.ID, l.BlogID, l.UserID, l.CreatedAt); err != nil {
		return fmt.Errorf("insert like: %w", err)
	}

	return nil
}

// CountByBlog returns the number of likes on a blog post.
func (r *LikeRepository) CountByBlog(ctx context.Context, blogID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM likes WHERE blog_id = $1`, blogID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

// ShareRepository implements repository.ShareRepository using PostgreSQL.
type ShareRepository struct {
	db database.DBTX
}

// NewShareRepository creates a new PostgreSQL-backed share repository.
func NewShareRepository(db database.DBTX) *ShareRepository {
	return &ShareRepository{db: db}
}

// Create inserts a new share.
func (r *ShareRepository) Create(ctx context.Context, s *domain.Share) error {
	query := `
		INSERT INTO shares (id, blog_id, user_id, shared_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, s.ID, s.BlogID, s.UserID, s.SharedAt); err != nil {
		return fmt.Errorf("insert share: %w", err)
	}

	return nil
}

// CountByBlog returns the number of shares on a blog post.
func (r *ShareRepository) CountByBlog(ctx context.Context, blogID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM shares WHERE blog_id = $1`, blogID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count shares: %w", err)
	}
	return count, nil
}
