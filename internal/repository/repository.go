// Package repository defines the persistence interfaces consumed by the
// service layer. Postgres implementations live in the postgres subpackage,
// the Redis cart store in the redis subpackage.
package repository

import (
	"context"

	"github.com/freshmarket/freshmarket/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	SellerID   *string
	CategoryID *string
	Search     *string
	MinPrice   *int64
	MaxPrice   *int64
	Page       int
	PerPage    int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the given filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the store by its identifier.
	Delete(ctx context.Context, id string) error

	// DecrementStock atomically reduces stock for each line item, failing the
	// whole batch when any product has less stock than requested.
	DecrementStock(ctx context.Context, items []domain.CartItem) error
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error
}

// RefreshTokenRepository stores issued refresh tokens so they can be revoked.
type RefreshTokenRepository interface {
	// Save persists a refresh token hash for a user.
	Save(ctx context.Context, token *domain.RefreshToken) error

	// Get retrieves a stored refresh token by its hash.
	Get(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Revoke deletes a refresh token by its hash.
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeAllForUser deletes every refresh token issued to the user.
	RevokeAllForUser(ctx context.Context, userID string) error
}

// CartRepository defines the interface for cart persistence operations.
// Carts are keyed by owner: "user:<id>" or "session:<id>".
type CartRepository interface {
	// Get retrieves a cart by its owner key.
	Get(ctx context.Context, ownerKey string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the owner.
	Save(ctx context.Context, cart *domain.Cart) error

	// SaveIfVersion persists a cart only if the stored cart still carries the
	// expected version. Returns apperrors.ErrConflict on a lost race.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) error

	// Delete removes a cart from the store by its owner key.
	Delete(ctx context.Context, ownerKey string) error
}

// BlogFilter defines filter criteria for listing blog posts.
type BlogFilter struct {
	Search   *string
	AuthorID *string
	Page     int
	PerPage  int
}

// BlogRepository defines the interface for blog persistence operations.
type BlogRepository interface {
	// Create inserts a new blog post.
	Create(ctx context.Context, blog *domain.Blog) error

	// GetByID retrieves a blog post with its interaction counts.
	GetByID(ctx context.Context, id string) (*domain.BlogDetail, error)

	// GetBySlug retrieves a blog post by its URL-friendly slug.
	GetBySlug(ctx context.Context, slug string) (*domain.BlogDetail, error)

	// List returns blog posts matching the filter along with the total count.
	List(ctx context.Context, filter BlogFilter) ([]domain.BlogDetail, int, error)

	// Update modifies an existing blog post.
	Update(ctx context.Context, blog *domain.Blog) error

	// Delete removes a blog post and its dependent interactions.
	Delete(ctx context.Context, id string) error
}

// CommentRepository defines the interface for comment persistence operations.
type CommentRepository interface {
	// Create inserts a new comment.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Comment, error)

	// ListByBlog returns a page of the comments on a blog post, oldest
	// first, with the total comment count.
	ListByBlog(ctx context.Context, blogID string, page, perPage int) ([]domain.Comment, int, error)

	// Update modifies an existing comment.
	Update(ctx context.Context, comment *domain.Comment) error

	// Delete removes a comment by its identifier.
	Delete(ctx context.Context, id string) error
}

// LikeRepository records blog likes. Likes are append-only.
type LikeRepository interface {
	// Create inserts a new like.
	Create(ctx context.Context, like *domain.Like) error

	// CountByBlog returns the number of likes on a blog post.
	CountByBlog(ctx context.Context, blogID string) (int, error)
}

// ShareRepository records blog shares.
type ShareRepository interface {
	// Create inserts a new share.
	Create(ctx context.Context, share *domain.Share) error

	// CountByBlog returns the number of shares on a blog post.
	CountByBlog(ctx context.Context, blogID string) (int, error)
}

// PollRepository defines the interface for poll persistence operations.
type PollRepository interface {
	// Create inserts a poll together with its choices.
	Create(ctx context.Context, poll *domain.Poll) error

	// GetByID retrieves a poll with its choices in declaration order.
	GetByID(ctx context.Context, id string) (*domain.Poll, error)

	// List returns all polls, newest first.
	List(ctx context.Context, page, perPage int) ([]domain.Poll, int, error)

	// Delete removes a poll, its choices, and its votes.
	Delete(ctx context.Context, id string) error
}

// VoteRepository defines the interface for vote persistence operations.
type VoteRepository interface {
	// Create inserts a vote. Returns apperrors.ErrAlreadyExists when the user
	// has already voted on the poll.
	Create(ctx context.Context, vote *domain.Vote) error

	// Tally returns per-choice vote counts in choice declaration order,
	// including choices with zero votes.
	Tally(ctx context.Context, pollID string) ([]domain.TallyEntry, error)
}

// VerificationRepository defines the interface for identity verification
// persistence operations.
type VerificationRepository interface {
	// Create inserts a new verification record.
	Create(ctx context.Context, v *domain.IDVerification) error

	// GetByID retrieves a verification record by its identifier.
	GetByID(ctx context.Context, id string) (*domain.IDVerification, error)

	// GetByUser retrieves the latest verification record for a user.
	GetByUser(ctx context.Context, userID string) (*domain.IDVerification, error)

	// Update modifies an existing verification record.
	Update(ctx context.Context, v *domain.IDVerification) error
}

// GardenRepository defines the interface for garden persistence operations.
type GardenRepository interface {
	// Create inserts a new garden.
	Create(ctx context.Context, garden *domain.Garden) error

	// GetByID retrieves a garden by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Garden, error)

	// List returns all gardens along with the total count.
	List(ctx context.Context, page, perPage int) ([]domain.Garden, int, error)

	// Update modifies an existing garden.
	Update(ctx context.Context, garden *domain.Garden) error

	// Delete removes a garden by its identifier.
	Delete(ctx context.Context, id string) error
}

// FarmerRepository defines the interface for farmer persistence operations.
type FarmerRepository interface {
	// Create inserts a new farmer profile.
	Create(ctx context.Context, farmer *domain.Farmer) error

	// GetByID retrieves a farmer by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Farmer, error)

	// ListByProduct returns the farmers behind a product listing.
	ListByProduct(ctx context.Context, productID string) ([]domain.Farmer, error)

	// Update modifies an existing farmer profile.
	Update(ctx context.Context, farmer *domain.Farmer) error

	// Delete removes a farmer profile by its identifier.
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines the interface for product review persistence.
type ReviewRepository interface {
	// Create inserts a new review.
	Create(ctx context.Context, review *domain.Review) error

	// ListByProduct returns the reviews on a product, newest first.
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)

	// Delete removes a review by its identifier.
	Delete(ctx context.Context, id string) error
}

// BannerRepository defines the interface for promotional banner persistence.
type BannerRepository interface {
	// Create inserts a new banner.
	Create(ctx context.Context, banner *domain.Banner) error

	// GetByID retrieves a banner by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Banner, error)

	// ListLive returns banners whose countdown has not elapsed at the given
	// instant, plus banners without a countdown.
	ListLive(ctx context.Context) ([]domain.Banner, error)

	// Update modifies an existing banner.
	Update(ctx context.Context, banner *domain.Banner) error

	// Delete removes a banner by its identifier.
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines the interface for category persistence.
type CategoryRepository interface {
	// Create inserts a new category.
	Create(ctx context.Context, category *domain.Category) error

	// List returns every category ordered by name.
	List(ctx context.Context) ([]domain.Category, error)

	// Delete removes a category by its identifier.
	Delete(ctx context.Context, id string) error
}
