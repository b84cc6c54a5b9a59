// Package cache provides a read-through caching decorator for brand lookups.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/brandcatalog/internal/domain"
	"github.com/utafrali/brandcatalog/internal/repository"
	apperrors "github.com/utafrali/brandcatalog/pkg/errors"
)

const (
	idKeyPrefix   = "brand:id:"
	slugKeyPrefix = "brand:slug:"
)

// DefaultTTL applies when a non-positive TTL is configured.
const DefaultTTL = 5 * time.Minute

// Writes replace the affected keys with a tombstone instead of deleting them.
// Fills only land on absent keys, so a read that loaded the brand before the
// write cannot store its copy while the tombstone lives.
const tombstoneTTL = 30 * time.Second

var tombstone = []byte("-")

// Metrics counts cache lookups by result.
type Metrics struct {
	lookups *prometheus.CounterVec
}

// NewMetrics registers the lookup counter on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	return &Metrics{
		lookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Brand cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
	}
}

func (m *Metrics) observe(result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(result).Inc()
}

// BrandRepository caches FindByID and FindBySlug results in front of another
// repository.BrandRepository. Writes tombstone the affected keys. Cache
// failures are logged and the call falls through to the wrapped repository.
type BrandRepository struct {
	next    repository.BrandRepository
	cache   Cache
	ttl     time.Duration
	metrics *Metrics
	logger  *slog.Logger
}

var _ repository.BrandRepository = (*BrandRepository)(nil)

// NewBrandRepository wraps next. metrics may be nil.
func NewBrandRepository(next repository.BrandRepository, c Cache, ttl time.Duration, metrics *Metrics, logger *slog.Logger) *BrandRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &BrandRepository{next: next, cache: c, ttl: ttl, metrics: metrics, logger: logger}
}

func (r *BrandRepository) lookup(ctx context.Context, key string, load func() (*domain.Brand, error)) (*domain.Brand, error) {
	fill := true
	data, ok, err := r.cache.Get(ctx, key)
	switch {
	case err != nil:
		r.metrics.observe("error")
		r.logger.WarnContext(ctx, "brand cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	case ok && bytes.Equal(data, tombstone):
		r.metrics.observe("miss")
		fill = false
	case ok:
		var b domain.Brand
		if err := json.Unmarshal(data, &b); err == nil {
			r.metrics.observe("hit")
			return b.Clone(), nil
		}
		r.metrics.observe("error")
		r.logger.WarnContext(ctx, "discarding corrupt brand cache entry", slog.String("key", key))
		if err := r.cache.Delete(ctx, key); err != nil {
			r.logger.WarnContext(ctx, "brand cache delete failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	default:
		r.metrics.observe("miss")
	}

	b, err := load()
	if err != nil {
		return nil, err
	}
	if fill {
		r.store(ctx, key, b)
	}
	return b, nil
}

func (r *BrandRepository) store(ctx context.Context, key string, b *domain.Brand) {
	data, err := json.Marshal(b)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to encode brand for cache", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	stored, err := r.cache.SetNX(ctx, key, data, r.ttl)
	if err != nil {
		r.logger.WarnContext(ctx, "brand cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if !stored {
		r.logger.DebugContext(ctx, "brand cache fill skipped, key already set", slog.String("key", key))
	}
}

func (r *BrandRepository) invalidate(ctx context.Context, id string, slugs ...string) {
	keys := []string{idKeyPrefix + id}
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, slugKeyPrefix+s)
		}
	}
	for _, key := range keys {
		if err := r.cache.Set(ctx, key, tombstone, tombstoneTTL); err != nil {
			r.logger.WarnContext(ctx, "brand cache invalidation failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Create delegates; new brands are not cached until first read.
func (r *BrandRepository) Create(ctx context.Context, draft domain.BrandDraft) (*domain.Brand, error) {
	return r.next.Create(ctx, draft)
}

// FindByID reads through the cache.
func (r *BrandRepository) FindByID(ctx context.Context, id string) (*domain.Brand, error) {
	return r.lookup(ctx, idKeyPrefix+id, func() (*domain.Brand, error) {
		return r.next.FindByID(ctx, id)
	})
}

// FindBySlug reads through the cache.
func (r *BrandRepository) FindBySlug(ctx context.Context, slug string) (*domain.Brand, error) {
	return r.lookup(ctx, slugKeyPrefix+slug, func() (*domain.Brand, error) {
		return r.next.FindBySlug(ctx, slug)
	})
}

// List is not cached.
func (r *BrandRepository) List(ctx context.Context, filter repository.BrandFilter) ([]domain.Brand, int, error) {
	return r.next.List(ctx, filter)
}

// Update delegates and tombstones the id key and both the old and new slug keys.
func (r *BrandRepository) Update(ctx context.Context, id string, patch domain.BrandPatch) (*domain.Brand, error) {
	var oldSlug string
	if before, err := r.next.FindByID(ctx, id); err == nil {
		oldSlug = before.BrandURLSlug
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	b, err := r.next.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id, oldSlug, b.BrandURLSlug)
	return b, nil
}

// AdjustFollowerCount delegates and tombstones the brand's keys.
func (r *BrandRepository) AdjustFollowerCount(ctx context.Context, id string, delta int) (*domain.Brand, error) {
	b, err := r.next.AdjustFollowerCount(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id, b.BrandURLSlug)
	return b, nil
}

// Delete delegates and tombstones the brand's keys.
func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	var slug string
	if before, err := r.next.FindByID(ctx, id); err == nil {
		slug = before.BrandURLSlug
	}
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id, slug)
	return nil
}

// ListBranches is not cached.
func (r *BrandRepository) ListBranches(ctx context.Context, id string) ([]domain.Branch, error) {
	return r.next.ListBranches(ctx, id)
}

// ListMenus is not cached.
func (r *BrandRepository) ListMenus(ctx context.Context, id string) ([]domain.Menu, error) {
	return r.next.ListMenus(ctx, id)
}

// ListDeals is not cached.
func (r *BrandRepository) ListDeals(ctx context.Context, id string) ([]domain.PopularDeal, error) {
	return r.next.ListDeals(ctx, id)
}
