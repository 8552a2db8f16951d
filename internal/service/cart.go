package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/event"
	"github.com/freshmarket/freshmarket/internal/repository"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

// saveRetries is how many times a cart mutation re-reads and retries after
// losing an optimistic save race.
const saveRetries = 3

// CartService implements the business logic for shopping carts. Stock checks
// at add time are advisory; the checkout decrement is the authoritative one.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		producer: producer,
		logger:   logger,
	}
}

// CartOwner identifies a cart by user or session. At least one must be set.
type CartOwner struct {
	UserID    string
	SessionID string
}

// Key returns the repository owner key for this owner.
func (o CartOwner) Key() string {
	if o.UserID != "" {
		return "user:" + o.UserID
	}
	return "session:" + o.SessionID
}

// AddItemInput holds the parameters for adding a product to a cart.
type AddItemInput struct {
	ProductID string
	Quantity  int
}

// GetCart retrieves the owner's cart, returning an empty cart when none exists.
func (s *CartService) GetCart(ctx context.Context, owner CartOwner) (*domain.Cart, error) {
	if rejections := domain.ValidateCart(owner.UserID, owner.SessionID, ""); rejections != nil {
		return nil, apperrors.Validation(rejections)
	}

	cart, err := s.carts.Get(ctx, owner.Key())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.emptyCart(owner), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem puts a product in the cart or increases its quantity. The requested
// total per product is validated against the live stock value.
func (s *CartService) AddItem(ctx context.Context, owner CartOwner, input *AddItemInput) (*domain.Cart, error) {
	if rejections := domain.ValidateCart(owner.UserID, owner.SessionID, ""); rejections != nil {
		return nil, apperrors.Validation(rejections)
	}

	product, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.FieldError("product", "Product must exist for the cart item.")
		}
		return nil, fmt.Errorf("get product for cart: %w", err)
	}

	return s.mutate(ctx, owner, func(cart *domain.Cart) error {
		quantity := input.Quantity
		if i := cart.FindItemIndex(product.ID); i >= 0 {
			quantity += cart.Items[i].Quantity
		}

		if rejections := domain.ValidateCartItem(product.ID, quantity, product.Quantity); rejections != nil {
			return apperrors.Validation(rejections)
		}

		if i := cart.FindItemIndex(product.ID); i >= 0 {
			cart.Items[i].Quantity = quantity
			cart.Items[i].Name = product.Name
			cart.Items[i].PriceCents = product.PriceCents
		} else {
			cart.Items = append(cart.Items, domain.CartItem{
				ProductID:  product.ID,
				Name:       product.Name,
				PriceCents: product.PriceCents,
				Quantity:   quantity,
			})
		}
		return nil
	})
}

// UpdateItemQuantity sets the quantity of a cart line, revalidating against
// live stock. Quantity zero removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, owner CartOwner, productID string, quantity int) (*domain.Cart, error) {
	if quantity == 0 {
		return s.RemoveItem(ctx, owner, productID)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.FieldError("product", "Product must exist for the cart item.")
		}
		return nil, fmt.Errorf("get product for cart: %w", err)
	}

	return s.mutate(ctx, owner, func(cart *domain.Cart) error {
		i := cart.FindItemIndex(productID)
		if i < 0 {
			return apperrors.NotFound("cart item", productID)
		}

		if rejections := domain.ValidateCartItem(productID, quantity, product.Quantity); rejections != nil {
			return apperrors.Validation(rejections)
		}

		cart.Items[i].Quantity = quantity
		cart.Items[i].PriceCents = product.PriceCents
		return nil
	})
}

// RemoveItem deletes a product line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, owner CartOwner, productID string) (*domain.Cart, error) {
	return s.mutate(ctx, owner, func(cart *domain.Cart) error {
		i := cart.FindItemIndex(productID)
		if i < 0 {
			return apperrors.NotFound("cart item", productID)
		}
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		return nil
	})
}

// ApplyDiscountCode attaches a discount code to the cart.
func (s *CartService) ApplyDiscountCode(ctx context.Context, owner CartOwner, code string) (*domain.Cart, error) {
	if rejections := domain.ValidateCart(owner.UserID, owner.SessionID, code); rejections != nil {
		return nil, apperrors.Validation(rejections)
	}

	return s.mutate(ctx, owner, func(cart *domain.Cart) error {
		cart.DiscountCode = code
		return nil
	})
}

// ClearCart deletes the owner's cart.
func (s *CartService) ClearCart(ctx context.Context, owner CartOwner) error {
	if err := s.carts.Delete(ctx, owner.Key()); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Checkout atomically decrements stock for every line and deletes the cart.
// The decrement is conditional in the database, so two carts racing for the
// last units cannot both succeed.
func (s *CartService) Checkout(ctx context.Context, owner CartOwner) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, owner.Key())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("cart", owner.Key())
		}
		return nil, fmt.Errorf("get cart for checkout: %w", err)
	}

	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	if err := s.products.DecrementStock(ctx, cart.Items); err != nil {
		return nil, fmt.Errorf("checkout stock decrement: %w", err)
	}

	if err := s.carts.Delete(ctx, owner.Key()); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete cart after checkout",
			slog.String("cart_id", cart.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishCartCheckedOut(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.checked_out event",
			slog.String("cart_id", cart.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart checked out",
		slog.String("cart_id", cart.ID),
		slog.Int("items", cart.ItemCount()),
		slog.Int64("total_cents", cart.TotalCents()),
	)

	return cart, nil
}

// mutate loads the owner's cart, applies fn, and saves with an optimistic
// version check, retrying a few times on concurrent modification.
func (s *CartService) mutate(ctx context.Context, owner CartOwner, fn func(cart *domain.Cart) error) (*domain.Cart, error) {
	var lastErr error
	for attempt := 0; attempt < saveRetries; attempt++ {
		cart, err := s.carts.Get(ctx, owner.Key())
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("get cart: %w", err)
			}
			cart = s.emptyCart(owner)
		}

		if err := fn(cart); err != nil {
			return nil, err
		}

		expected := cart.Version
		if err := s.carts.SaveIfVersion(ctx, cart, expected); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("save cart: %w", err)
		}

		return cart, nil
	}

	return nil, fmt.Errorf("save cart after %d attempts: %w", saveRetries, lastErr)
}

func (s *CartService) emptyCart(owner CartOwner) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		ID:        uuid.New().String(),
		UserID:    owner.UserID,
		SessionID: owner.SessionID,
		Items:     []domain.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
