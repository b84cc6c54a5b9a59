package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/brandcatalog/internal/domain"
	pkgkafka "github.com/utafrali/brandcatalog/pkg/kafka"
	"github.com/utafrali/brandcatalog/pkg/logger"
)

type sent struct {
	topic string
	event *pkgkafka.Event
}

type fakeSender struct {
	sent []sent
	err  error
}

func (f *fakeSender) Publish(_ context.Context, topic string, e *pkgkafka.Event) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{topic: topic, event: e})
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func sampleBrand() *domain.Brand {
	tag := "Fast Food"
	return &domain.Brand{
		ID:            "brand-1",
		Name:          "Acme",
		BrandURLSlug:  "acme",
		Category:      domain.CategoryRestaurant,
		Tag:           &tag,
		IsVerified:    true,
		FollowerCount: 4,
		BranchCount:   2,
	}
}

func TestTopics(t *testing.T) {
	assert.Equal(t, "brand.created", TopicBrandCreated)
	assert.Equal(t, "brand.updated", TopicBrandUpdated)
	assert.Equal(t, "brand.deleted", TopicBrandDeleted)
	assert.Equal(t, "brand.followed", TopicBrandFollowed)
	assert.Equal(t, "brand.unfollowed", TopicBrandUnfollowed)
}

func TestProducer_PublishBrandCreated(t *testing.T) {
	sender := &fakeSender{}
	p := NewProducer(sender, newTestLogger())
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")

	require.NoError(t, p.PublishBrandCreated(ctx, sampleBrand()))
	require.Len(t, sender.sent, 1)

	got := sender.sent[0]
	assert.Equal(t, TopicBrandCreated, got.topic)
	assert.Equal(t, TopicBrandCreated, got.event.EventType)
	assert.Equal(t, "brand-1", got.event.AggregateID)
	assert.Equal(t, AggregateTypeBrand, got.event.AggregateType)
	assert.Equal(t, SourceBrandCatalog, got.event.Source)
	assert.Equal(t, "corr-1", got.event.CorrelationID)

	var data BrandData
	require.NoError(t, json.Unmarshal(got.event.Data, &data))
	assert.Equal(t, "acme", data.Slug)
	assert.Equal(t, domain.CategoryRestaurant, data.Category)
	assert.Equal(t, 2, data.BranchCount)
}

func TestProducer_AllEvents(t *testing.T) {
	sender := &fakeSender{}
	p := NewProducer(sender, newTestLogger())
	ctx := context.Background()
	b := sampleBrand()

	require.NoError(t, p.PublishBrandUpdated(ctx, b))
	require.NoError(t, p.PublishBrandDeleted(ctx, b))
	require.NoError(t, p.PublishBrandFollowed(ctx, b))
	require.NoError(t, p.PublishBrandUnfollowed(ctx, b))

	topics := make([]string, len(sender.sent))
	for i, s := range sender.sent {
		topics[i] = s.topic
		assert.Empty(t, s.event.CorrelationID)
	}
	assert.Equal(t, []string{TopicBrandUpdated, TopicBrandDeleted, TopicBrandFollowed, TopicBrandUnfollowed}, topics)

	var deleted BrandDeletedData
	require.NoError(t, json.Unmarshal(sender.sent[1].event.Data, &deleted))
	assert.Equal(t, BrandDeletedData{ID: "brand-1", Slug: "acme"}, deleted)

	var follow FollowData
	require.NoError(t, json.Unmarshal(sender.sent[2].event.Data, &follow))
	assert.Equal(t, FollowData{BrandID: "brand-1", FollowerCount: 4}, follow)
}

func TestProducer_SendError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := NewProducer(&fakeSender{err: boom}, newTestLogger())

	err := p.PublishBrandCreated(context.Background(), sampleBrand())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "publish brand.created event")
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	ctx := context.Background()
	b := sampleBrand()

	assert.NoError(t, p.PublishBrandCreated(ctx, b))
	assert.NoError(t, p.PublishBrandUpdated(ctx, b))
	assert.NoError(t, p.PublishBrandDeleted(ctx, b))
	assert.NoError(t, p.PublishBrandFollowed(ctx, b))
	assert.NoError(t, p.PublishBrandUnfollowed(ctx, b))
}
