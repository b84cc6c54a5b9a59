package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/brandcatalog/internal/domain"
	pkgkafka "github.com/utafrali/brandcatalog/pkg/kafka"
	"github.com/utafrali/brandcatalog/pkg/logger"
)

// Kafka topics for brand domain events.
var (
	TopicBrandCreated    = pkgkafka.Topic(AggregateTypeBrand, "created")
	TopicBrandUpdated    = pkgkafka.Topic(AggregateTypeBrand, "updated")
	TopicBrandDeleted    = pkgkafka.Topic(AggregateTypeBrand, "deleted")
	TopicBrandFollowed   = pkgkafka.Topic(AggregateTypeBrand, "followed")
	TopicBrandUnfollowed = pkgkafka.Topic(AggregateTypeBrand, "unfollowed")
)

// AggregateTypeBrand is the aggregate type stamped on every brand event.
const AggregateTypeBrand = "brand"

// SourceBrandCatalog identifies events originating from this service.
const SourceBrandCatalog = "brandcatalog"

// BrandData is the payload of brand.created and brand.updated.
type BrandData struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Slug          string               `json:"brandUrlSlug"`
	Category      domain.BrandCategory `json:"category"`
	Tag           *string              `json:"tag,omitempty"`
	IsVerified    bool                 `json:"isVerified"`
	FollowerCount int                  `json:"followerCount"`
	BranchCount   int                  `json:"branchCount"`
}

// BrandDeletedData is the payload of brand.deleted.
type BrandDeletedData struct {
	ID   string `json:"id"`
	Slug string `json:"brandUrlSlug"`
}

// FollowData is the payload of brand.followed and brand.unfollowed.
type FollowData struct {
	BrandID       string `json:"brandId"`
	FollowerCount int    `json:"followerCount"`
}

// Publisher emits brand domain events.
type Publisher interface {
	PublishBrandCreated(ctx context.Context, b *domain.Brand) error
	PublishBrandUpdated(ctx context.Context, b *domain.Brand) error
	PublishBrandDeleted(ctx context.Context, b *domain.Brand) error
	PublishBrandFollowed(ctx context.Context, b *domain.Brand) error
	PublishBrandUnfollowed(ctx context.Context, b *domain.Brand) error
}

// Sender writes an event envelope to a topic. *pkgkafka.Producer implements it.
type Sender interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes brand events through a Sender.
type Producer struct {
	sender Sender
	logger *slog.Logger
}

var _ Publisher = (*Producer)(nil)

// NewProducer creates a new event producer for brand events.
func NewProducer(sender Sender, logger *slog.Logger) *Producer {
	return &Producer{sender: sender, logger: logger}
}

func brandData(b *domain.Brand) BrandData {
	return BrandData{
		ID:            b.ID,
		Name:          b.Name,
		Slug:          b.BrandURLSlug,
		Category:      b.Category,
		Tag:           b.Tag,
		IsVerified:    b.IsVerified,
		FollowerCount: b.FollowerCount,
		BranchCount:   b.BranchCount,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, AggregateTypeBrand, SourceBrandCatalog, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		event.WithCorrelationID(cid)
	}

	if err := p.sender.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published brand event",
		slog.String("topic", topic),
		slog.String("brand_id", aggregateID),
	)
	return nil
}

// PublishBrandCreated publishes a brand.created event.
func (p *Producer) PublishBrandCreated(ctx context.Context, b *domain.Brand) error {
	return p.publish(ctx, TopicBrandCreated, b.ID, brandData(b))
}

// PublishBrandUpdated publishes a brand.updated event.
func (p *Producer) PublishBrandUpdated(ctx context.Context, b *domain.Brand) error {
	return p.publish(ctx, TopicBrandUpdated, b.ID, brandData(b))
}

// PublishBrandDeleted publishes a brand.deleted event.
func (p *Producer) PublishBrandDeleted(ctx context.Context, b *domain.Brand) error {
	return p.publish(ctx, TopicBrandDeleted, b.ID, BrandDeletedData{ID: b.ID, Slug: b.BrandURLSlug})
}

// PublishBrandFollowed publishes a brand.followed event.
func (p *Producer) PublishBrandFollowed(ctx context.Context, b *domain.Brand) error {
	return p.publish(ctx, TopicBrandFollowed, b.ID, FollowData{BrandID: b.ID, FollowerCount: b.FollowerCount})
}

// PublishBrandUnfollowed publishes a brand.unfollowed event.
func (p *Producer) PublishBrandUnfollowed(ctx context.Context, b *domain.Brand) error {
	return p.publish(ctx, TopicBrandUnfollowed, b.ID, FollowData{BrandID: b.ID, FollowerCount: b.FollowerCount})
}

// Noop discards every event. It is used when Kafka is disabled.
type Noop struct{}

var _ Publisher = Noop{}

func (Noop) PublishBrandCreated(context.Context, *domain.Brand) error    { return nil }
func (Noop) PublishBrandUpdated(context.Context, *domain.Brand) error    { return nil }
func (Noop) PublishBrandDeleted(context.Context, *domain.Brand) error    { return nil }
func (Noop) PublishBrandFollowed(context.Context, *domain.Brand) error   { return nil }
func (Noop) PublishBrandUnfollowed(context.Context, *domain.Brand) error { return nil }
