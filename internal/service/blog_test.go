package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/moderation"
	"github.com/freshmarket/freshmarket/internal/repository"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

type mockBlogRepository struct {
	mock.Mock
}

func (m *mockBlogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *mockBlogRepository) GetByID(ctx context.Context, id string) (*domain.BlogDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BlogDetail), args.Error(1)
}

func (m *mockBlogRepository) GetBySlug(ctx context.Context, slug string) (*domain.BlogDetail, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BlogDetail), args.Error(1)
}

func (m *mockBlogRepository) List(ctx context.Context, filter repository.BlogFilter) ([]domain.BlogDetail, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.BlogDetail), args.Int(1), args.Error(2)
}

func (m *mockBlogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *mockBlogRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) ListByBlog(ctx context.Context, blogID string, page, perPage int) ([]domain.Comment, int, error) {
	args := m.Called(ctx, blogID, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Comment), args.Int(1), args.Error(2)
}

func (m *mockCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockLikeRepository struct {
	mock.Mock
}

func (m *mockLikeRepository) Create(ctx context.Context, like *domain.Like) error {
	args := m.Called(ctx, like)
	return args.Error(0)
}

func (m *mockLikeRepository) CountByBlog(ctx context.Context, blogID string) (int, error) {
	args := m.Called(ctx, blogID)
	return args.Int(0), args.Error(1)
}

type mockShareRepository struct {
	mock.Mock
}

func (m *mockShareRepository) Create(ctx context.Context, share *domain.Share) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

func (m *mockShareRepository) CountByBlog(ctx context.Context, blogID string) (int, error) {
	args := m.Called(ctx, blogID)
	return args.Int(0), args.Error(1)
}

type blogTestMocks struct {
	blogs    *mockBlogRepository
	comments *mockCommentRepository
	likes    *mockLikeRepository
	shares   *mockShareRepository
}

func newBlogTestService() (*BlogService, blogTestMocks) {
	m := blogTestMocks{
		blogs:    new(mockBlogRepository),
		comments: new(mockCommentRepository),
		likes:    new(mockLikeRepository),
		shares:   new(mockShareRepository),
	}
	svc := NewBlogService(m.blogs, m.comments, m.likes, m.shares,
		moderation.NewLexiconModerator("spam"), newTestProducer(), newTestLogger())
	return svc, m
}

func testBlogDetail(authorID string) *domain.BlogDetail {
	return &domain.BlogDetail{
		Blog: domain.Blog{
			ID:       "blog-001",
			AuthorID: authorID,
			Title:    "Companion Planting Basics",
			Slug:     "companion-planting-basics",
			Content:  "Plant basil next to tomatoes.",
		},
	}
}

func TestBlogService_CreateBlog_GeneratesSlug(t *testing.T) {
	svc, m := newBlogTestService()
	m.blogs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Blog")).Return(nil)

	blog, err := svc.CreateBlog(context.Background(), &CreateBlogInput{
		AuthorID: "user-001",
		Title:    "  Companion Planting: Basics & Beyond!  ",
		Content:  "Plant basil next to tomatoes.",
	})
	require.NoError(t, err)
	assert.Equal(t, "companion-planting-basics-beyond", blog.Slug)
	assert.Equal(t, "Companion Planting: Basics & Beyond!", blog.Title)
}

func TestBlogService_CreateBlog_EmptyFields(t *testing.T) {
	svc, m := newBlogTestService()

	_, err := svc.CreateBlog(context.Background(), &CreateBlogInput{AuthorID: "user-001", Title: " ", Content: "body"})
	require.Error(t, err)
	assert.Equal(t, "Title cannot be empty.", fieldReason(t, err, "title"))

	_, err = svc.CreateBlog(context.Background(), &CreateBlogInput{AuthorID: "user-001", Title: "title", Content: ""})
	require.Error(t, err)
	assert.Equal(t, "Content cannot be empty.", fieldReason(t, err, "content"))

	m.blogs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBlogService_UpdateBlog_AuthorOnly(t *testing.T) {
	svc, m := newBlogTestService()
	m.blogs.On("GetByID", mock.Anything, "blog-001").Return(testBlogDetail("user-001"), nil)

	title := "New Title"
	_, err := svc.UpdateBlog(context.Background(), "blog-001", "user-999", &UpdateBlogInput{Title: &title})
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	m.blogs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBlogService_AddComment_Moderated(t *testing.T) {
	svc, m := newBlogTestService()

	_, err := svc.AddComment(context.Background(), "blog-001", "user-002", "this is pure spam honestly")
	require.Error(t, err)
	assert.Equal(t, "Comment contains prohibited or inappropriate content.", fieldReason(t, err, "content"))
	m.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBlogService_AddComment_Success(t *testing.T) {
	svc, m := newBlogTestService()
	m.blogs.On("GetByID", mock.Anything, "blog-001").Return(testBlogDetail("user-001"), nil)
	m.comments.On("Create", mock.Anything, mock.AnythingOfType("*domain.Comment")).Return(nil)

	comment, err := svc.AddComment(context.Background(), "blog-001", "user-002", "Great post, trying this weekend.")
	require.NoError(t, err)
	assert.Equal(t, "blog-001", comment.BlogID)
	assert.Equal(t, "user-002", comment.UserID)
}

func TestBlogService_ListComments_ReturnsPageWithTotal(t *testing.T) {
	svc, m := newBlogTestService()

	page := []domain.Comment{
		{ID: "comment-001", BlogID: "blog-001", UserID: "user-002", Content: "First!"},
		{ID: "comment-002", BlogID: "blog-001", UserID: "user-003", Content: "Second."},
	}
	m.comments.On("ListByBlog", mock.Anything, "blog-001", 2, 2).Return(page, 7, nil)

	comments, total, err := svc.ListComments(context.Background(), "blog-001", 2, 2)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, 7, total)
}

func TestBlogService_DeleteComment_BlogAuthorMayDelete(t *testing.T) {
	svc, m := newBlogTestService()

	comment := &domain.Comment{ID: "comment-001", BlogID: "blog-001", UserID: "user-002"}
	m.comments.On("GetByID", mock.Anything, "comment-001").Return(comment, nil)
	m.blogs.On("GetByID", mock.Anything, "blog-001").Return(testBlogDetail("user-001"), nil)
	m.comments.On("Delete", mock.Anything, "comment-001").Return(nil)

	err := svc.DeleteComment(context.Background(), "comment-001", "user-001")
	assert.NoError(t, err)
	m.comments.AssertExpectations(t)
}

func TestBlogService_DeleteComment_StrangerForbidden(t *testing.T) {
	svc, m := newBlogTestService()

	comment := &domain.Comment{ID: "comment-001", BlogID: "blog-001", UserID: "user-002"}
	m.comments.On("GetByID", mock.Anything, "comment-001").Return(comment, nil)
	m.blogs.On("GetByID", mock.Anything, "blog-001").Return(testBlogDetail("user-001"), nil)

	err := svc.DeleteComment(context.Background(), "comment-001", "user-333")
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	m.comments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBlogService_LikeBlog_RepeatLikesAccumulate(t *testing.T) {
	svc, m := newBlogTestService()

	m.blogs.On("GetByID", mock.Anything, "blog-001").Return(testBlogDetail("user-001"), nil)
	m.likes.On("Create", mock.Anything, mock.AnythingOfType("*domain.Like")).Return(nil).Twice()
	m.likes.On("CountByBlog", mock.Anything, "blog-001").Return(1, nil).Once()
	m.likes.On("CountByBlog", mock.Anything, "blog-001").Return(2, nil).Once()

	count, err := svc.LikeBlog(context.Background(), "blog-001", "user-002")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.LikeBlog(context.Background(), "blog-001", "user-002")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	m.likes.AssertExpectations(t)
}

func TestBlogService_ShareBlog_ReturnsUpdatedCount(t *testing.T) {
	svc, m := newBlogTestService()

	m.blogs.On("GetByID", mock.Anything, "blog-001").Return(testBlogDetail("user-001"), nil)
	m.shares.On("Create", mock.Anything, mock.AnythingOfType("*domain.Share")).Return(nil)
	m.shares.On("CountByBlog", mock.Anything, "blog-001").Return(7, nil)

	count, err := svc.ShareBlog(context.Background(), "blog-001", "user-002")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}
