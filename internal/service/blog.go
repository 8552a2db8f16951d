package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/event"
	"github.com/freshmarket/freshmarket/internal/moderation"
	"github.com/freshmarket/freshmarket/internal/repository"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

// slugRegexp matches characters not allowed in a slug.
var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// BlogService implements the business logic for blog posts and their
// comments, likes, and shares.
type BlogService struct {
	blogs     repository.BlogRepository
	comments  repository.CommentRepository
	likes     repository.LikeRepository
	shares    repository.ShareRepository
	moderator moderation.Moderator
	producer  *event.Producer
	logger    *slog.Logger
}

// NewBlogService creates a new blog service.
func NewBlogService(
	blogs repository.BlogRepository,
	comments repository.CommentRepository,
	likes repository.LikeRepository,
	shares repository.ShareRepository,
	moderator moderation.Moderator,
	producer *event.Producer,
	logger *slog.Logger,
) *BlogService {
	return &BlogService{
		blogs:     blogs,
		comments:  comments,
		likes:     likes,
		shares:    shares,
		moderator: moderator,
		producer:  producer,
		logger:    logger,
	}
}

// CreateBlogInput holds the parameters for publishing a blog post.
type CreateBlogInput struct {
	AuthorID string
	Title    string
	Content  string
	ImageURL string
}

// UpdateBlogInput holds the parameters for updating a blog post. Nil fields
// are left unchanged.
type UpdateBlogInput struct {
	Title    *string
	Content  *string
	ImageURL *string
}

// CreateBlog publishes a new blog post.
func (s *BlogService) CreateBlog(ctx context.Context, input *CreateBlogInput) (*domain.Blog, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.FieldError("title", "Title cannot be empty.")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.FieldError("content", "Content cannot be empty.")
	}

	now := time.Now().UTC()
	blog := &domain.Blog{
		ID:        uuid.New().String(),
		AuthorID:  input.AuthorID,
		Title:     strings.TrimSpace(input.Title),
		Slug:      generateSlug(input.Title),
		Content:   input.Content,
		ImageURL:  input.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}

	if err := s.producer.PublishBlogPublished(ctx, blog); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish blog.published event",
			slog.String("blog_id", blog.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "blog published",
		slog.String("blog_id", blog.ID),
		slog.String("slug", blog.Slug),
	)

	return blog, nil
}

// GetBlog retrieves a blog post with its interaction counts.
func (s *BlogService) GetBlog(ctx context.Context, id string) (*domain.BlogDetail, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get blog by id: %w", err)
	}
	return blog, nil
}

// GetBlogBySlug retrieves a blog post by its slug.
func (s *BlogService) GetBlogBySlug(ctx context.Context, slug string) (*domain.BlogDetail, error) {
	blog, err := s.blogs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get blog by slug: %w", err)
	}
	return blog, nil
}

// ListBlogs returns blog posts matching the filter with the total count.
func (s *BlogService) ListBlogs(ctx context.Context, filter repository.BlogFilter) ([]domain.BlogDetail, int, error) {
	blogs, total, err := s.blogs.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	return blogs, total, nil
}

// UpdateBlog applies the non-nil input fields to a blog post. Only the author
// may update it.
func (s *BlogService) UpdateBlog(ctx context.Context, id, authorID string, input *UpdateBlogInput) (*domain.Blog, error) {
	detail, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get blog for update: %w", err)
	}

	if detail.AuthorID != authorID {
		return nil, apperrors.Forbidden("only the author can update this post")
	}

	blog := detail.Blog
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperrors.FieldError("title", "Title cannot be empty.")
		}
		blog.Title = strings.TrimSpace(*input.Title)
		blog.Slug = generateSlug(blog.Title)
	}
	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, apperrors.FieldError("content", "Content cannot be empty.")
		}
		blog.Content = *input.Content
	}
	if input.ImageURL != nil {
		blog.ImageURL = *input.ImageURL
	}

	if err := s.blogs.Update(ctx, &blog); err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}

	return &blog, nil
}

// DeleteBlog removes a blog post and its interactions. Only the author may
// delete it.
func (s *BlogService) DeleteBlog(ctx context.Context, id, authorID string) error {
	detail, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get blog for delete: %w", err)
	}

	if detail.AuthorID != authorID {
		return apperrors.Forbidden("only the author can delete this post")
	}

	if err := s.blogs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}

	s.logger.InfoContext(ctx, "blog deleted", slog.String("blog_id", id))

	return nil
}

// AddComment posts a comment on a blog. The content passes through the
// moderator before it is persisted.
func (s *BlogService) AddComment(ctx context.Context, blogID, userID, content string) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.FieldError("content", "Comment cannot be empty.")
	}
	if !s.moderator.Acceptable(content) {
		return nil, apperrors.FieldError("content", "Comment contains prohibited or inappropriate content.")
	}

	if _, err := s.blogs.GetByID(ctx, blogID); err != nil {
		return nil, fmt.Errorf("get blog for comment: %w", err)
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		ID:        uuid.New().String(),
		BlogID:    blogID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	return comment, nil
}

// ListComments returns a page of the comments on a blog post, oldest
// first, with the total comment count.
func (s *BlogService) ListComments(ctx context.Context, blogID string, page, perPage int) ([]domain.Comment, int, error) {
	comments, total, err := s.comments.ListByBlog(ctx, blogID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

// UpdateComment edits a comment. Only its author may edit it.
func (s *BlogService) UpdateComment(ctx context.Context, commentID, userID, content string) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.FieldError("content", "Comment cannot be empty.")
	}
	if !s.moderator.Acceptable(content) {
		return nil, apperrors.FieldError("content", "Comment contains prohibited or inappropriate content.")
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("get comment for update: %w", err)
	}

	if comment.UserID != userID {
		return nil, apperrors.Forbidden("only the comment author can edit it")
	}

	comment.Content = content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	return comment, nil
}

// DeleteComment removes a comment. The comment author or the blog author may
// delete it.
func (s *BlogService) DeleteComment(ctx context.Context, commentID, userID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("get comment for delete: %w", err)
	}

	if comment.UserID != userID {
		blog, err := s.blogs.GetByID(ctx, comment.BlogID)
		if err != nil {
			return fmt.Errorf("get blog for comment delete: %w", err)
		}
		if blog.AuthorID != userID {
			return apperrors.Forbidden("only the comment author or the blog author can delete it")
		}
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	return nil
}

// LikeBlog records a like. Likes are append-only; repeat likes from the same
// user are counted again.
func (s *BlogService) LikeBlog(ctx context.Context, blogID, userID string) (int, error) {
	if _, err := s.blogs.GetByID(ctx, blogID); err != nil {
		return 0, fmt.Errorf("get blog for like: %w", err)
	}

	like := &domain.Like{
		ID:        uuid.New().String(),
		BlogID:    blogID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.likes.Create(ctx, like); err != nil {
		return 0, fmt.Errorf("create like: %w", err)
	}

	count, err := s.likes.CountByBlog(ctx, blogID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return count, nil
}

// ShareBlog records a share and returns the updated share count.
func (s *BlogService) ShareBlog(ctx context.Context, blogID, userID string) (int, error) {
	if _, err := s.blogs.GetByID(ctx, blogID); err != nil {
		return 0, fmt.Errorf("get blog for share: %w", err)
	}

	share := &domain.Share{
		ID:       uuid.New().String(),
		BlogID:   blogID,
		UserID:   userID,
		SharedAt: time.Now().UTC(),
	}

	if err := s.shares.Create(ctx, share); err != nil {
		return 0, fmt.Errorf("create share: %w", err)
	}

	count, err := s.shares.CountByBlog(ctx, blogID)
	if err != nil {
		return 0, fmt.Errorf("count shares: %w", err)
	}

	return count, nil
}

// generateSlug converts a title to a URL-friendly slug.
func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugRegexp.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
