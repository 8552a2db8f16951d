// Package event publishes domain events to Kafka. Publication failures are
// reported to callers, who log and move on; events never block or fail the
// originating request.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/freshmarket/freshmarket/internal/domain"
	pkgkafka "github.com/freshmarket/freshmarket/pkg/kafka"
)

// Kafka topic constants for domain events.
const (
	TopicProductCreated        = "freshmarket.product.created"
	TopicProductUpdated        = "freshmarket.product.updated"
	TopicProductDeleted        = "freshmarket.product.deleted"
	TopicCartCheckedOut        = "freshmarket.cart.checked_out"
	TopicBlogPublished         = "freshmarket.blog.published"
	TopicPollVoteCast          = "freshmarket.poll.vote_cast"
	TopicVerificationSubmitted = "freshmarket.verification.submitted"
	TopicVerificationDecided   = "freshmarket.verification.decided"
	TopicUserRegistered        = "freshmarket.user.registered"
)

// Aggregate type constants.
const (
	AggregateTypeProduct      = "product"
	AggregateTypeCart         = "cart"
	AggregateTypeBlog         = "blog"
	AggregateTypePoll         = "poll"
	AggregateTypeVerification = "id_verification"
	AggregateTypeUser         = "user"
)

// Source identifier for events originating from this service.
const Source = "freshmarket"

// ProductData is the payload for product.created and product.updated events.
type ProductData struct {
	ID          string `json:"id"`
	SellerID    string `json:"seller_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64   `json:"price_cents"`
	Quantity    int     `json:"quantity"`
	CategoryID  *string `json:"category_id,omitempty"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// CartCheckedOutData is the payload for a cart.checked_out event.
type CartCheckedOutData struct {
	CartID     string              `json:"cart_id"`
	UserID     string              `json:"user_id,omitempty"`
	SessionID  string              `json:"session_id,omitempty"`
	TotalCents int64               `json:"total_cents"`
	Items      []CartItemEventData `json:"items"`
}

// CartItemEventData is a single line of a checked-out cart.
type CartItemEventData struct {
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// BlogPublishedData is the payload for a blog.published event.
type BlogPublishedData struct {
	ID       string `json:"id"`
	AuthorID string `json:"author_id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
}

// PollVoteCastData is the payload for a poll.vote_cast event.
type PollVoteCastData struct {
	PollID   string `json:"poll_id"`
	ChoiceID string `json:"choice_id"`
	UserID   string `json:"user_id"`
}

// VerificationData is the payload for verification lifecycle events.
type VerificationData struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	DocumentType string `json:"document_type"`
	Status       string `json:"status"`
}

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Producer publishes domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicProductDeleted, id, AggregateTypeProduct, ProductDeletedData{ID: id})
}

// PublishCartCheckedOut publishes a cart.checked_out event.
func (p *Producer) PublishCartCheckedOut(ctx context.Context, cart *domain.Cart) error {
	items := make([]CartItemEventData, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemEventData{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}
	data := CartCheckedOutData{
		CartID:     cart.ID,
		UserID:     cart.UserID,
		SessionID:  cart.SessionID,
		TotalCents: cart.TotalCents(),
		Items:      items,
	}
	return p.publish(ctx, TopicCartCheckedOut, cart.ID, AggregateTypeCart, data)
}

// PublishBlogPublished publishes a blog.published event.
func (p *Producer) PublishBlogPublished(ctx context.Context, blog *domain.Blog) error {
	data := BlogPublishedData{
		ID:       blog.ID,
		AuthorID: blog.AuthorID,
		Title:    blog.Title,
		Slug:     blog.Slug,
	}
	return p.publish(ctx, TopicBlogPublished, blog.ID, AggregateTypeBlog, data)
}

// PublishPollVoteCast publishes a poll.vote_cast event.
func (p *Producer) PublishPollVoteCast(ctx context.Context, vote *domain.Vote) error {
	data := PollVoteCastData{
		PollID:   vote.PollID,
		ChoiceID: vote.ChoiceID,
		UserID:   vote.UserID,
	}
	return p.publish(ctx, TopicPollVoteCast, vote.PollID, AggregateTypePoll, data)
}

// PublishVerificationSubmitted publishes a verification.submitted event.
func (p *Producer) PublishVerificationSubmitted(ctx context.Context, v *domain.IDVerification) error {
	return p.publish(ctx, TopicVerificationSubmitted, v.ID, AggregateTypeVerification, verificationData(v))
}

// PublishVerificationDecided publishes a verification.decided event after the
// status settles to verified or rejected.
func (p *Producer) PublishVerificationDecided(ctx context.Context, v *domain.IDVerification) error {
	return p.publish(ctx, TopicVerificationDecided, v.ID, AggregateTypeVerification, verificationData(v))
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}
	return p.publish(ctx, TopicUserRegistered, user.ID, AggregateTypeUser, data)
}

func verificationData(v *domain.IDVerification) VerificationData {
	return VerificationData{
		ID:           v.ID,
		UserID:       v.UserID,
		DocumentType: v.DocumentType,
		Status:       v.Status,
	}
}

func productData(product *domain.Product) ProductData {
	return ProductData{
		ID:          product.ID,
		SellerID:    product.SellerID,
		Name:        product.Name,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		Quantity:    product.Quantity,
		CategoryID:  product.CategoryID,
	}
}
