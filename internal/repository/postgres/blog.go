package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/repository"
	"github.com/freshmarket/freshmarket/pkg/database"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

// BlogRepository implements repository.BlogRepository using PostgreSQL.
type BlogRepository struct {
	db database.DBTX
}

// NewBlogRepository creates a new PostgreSQL-backed blog repository.
func NewBlogRepository(db database.DBTX) *BlogRepository {
	return &BlogRepository{db: db}
}

// blogDetailColumns selects a blog row plus its interaction counts via
// correlated subqueries.
const blogDetailColumns = `
	b.id, b.author_id, b.title, b.slug, b.content, b.image_url, b.created_at, b.updated_at,
	(SELECT count(*) FROM comments c WHERE c.blog_id = b.id) AS comment_count,
	(SELECT count(*) FROM likes l WHERE l.blog_id = b.id) AS like_count,
	(SELECT count(*) FROM shares s WHERE s.blog_id = b.id) AS share_count`

// Create inserts a new blog post into the database.
func (r *BlogRepository) Create(ctx context.Context, b *domain.Blog) error {
	query := `
		INSERT INTO blogs (id, author_id, title, slug, content, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		b.ID,
		b.AuthorID,
		b.Title,
		b.Slug,
		b.Content,
		b.ImageURL,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("blog", "slug", b.Slug)
		}
		return fmt.Errorf("insert blog: %w", err)
	}

	return nil
}

// GetByID retrieves a blog post with its interaction counts.
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*domain.BlogDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM blogs b WHERE b.id = $1`, blogDetailColumns)
	return r.scanBlogDetail(ctx, query, id)
}

// GetBySlug retrieves a blog post by its slug.
func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*domain.BlogDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM blogs b WHERE b.slug = $1`, blogDetailColumns)
	return r.scanBlogDetail(ctx, query, slug)
}

// List returns blog posts matching the filter with the total count. Search
// matches a case-insensitive substring of the title or content.
func (r *BlogRepository) List(ctx context.Context, filter repository.BlogFilter) ([]domain.BlogDetail, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(b.title ILIKE $%d OR b.content ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	if filter.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("b.author_id = $%d", argIndex))
		args = append(args, *filter.AuthorID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM blogs b
		%s
		ORDER BY b.created_at DESC
		LIMIT $%d OFFSET $%d`,
		blogDetailColumns, whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	var (
		blogs      []domain.BlogDetail
		totalCount int
	)

	for rows.Next() {
		var b domain.BlogDetail
		if err := rows.Scan(
			&b.ID,
			&b.AuthorID,
			&b.Title,
			&b.Slug,
			&b.Content,
			&b.ImageURL,
			&b.CreatedAt,
			&b.UpdatedAt,
			&b.CommentCount,
			&b.LikeCount,
			&b.ShareCount,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan blog row: %w", err)
		}
		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate blog rows: %w", err)
	}

	if blogs == nil {
		blogs = []domain.BlogDetail{}
	}

	return blogs, totalCount, nil
}

// Update modifies an existing blog post.
func (r *BlogRepository) Update(ctx context.Context, b *domain.Blog) error {
	b.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE blogs
		SET title = $1, slug = $2, content = $3, image_url = $4, updated_at = $5
		WHERE id = $6`

	ct, err := r.db.Exec(ctx, query,
		b.Title,
		b.Slug,
		b.Content,
		b.ImageURL,
		b.UpdatedAt,
		b.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("blog", "slug", b.Slug)
		}
		return fmt.Errorf("update blog: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("blog", b.ID)
	}

	return nil
}

// Delete removes a blog post. Comments, likes, and shares are removed by
// the ON DELETE CASCADE constraints.
func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("blog", id)
	}

	return nil
}

func (r *BlogRepository) scanBlogDetail(ctx context.Context, query string, args ...any) (*domain.BlogDetail, error) {
	var b domain.BlogDetail
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&b.ID,
		&b.AuthorID,
		&b.Title,
		&b.Slug,
		&b.Content,
		&b.ImageURL,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.CommentCount,
		&b.LikeCount,
		&b.ShareCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan blog: %w", err)
	}

	return &b, nil
}
