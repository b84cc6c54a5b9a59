package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/utafrali/brandcatalog/internal/domain"
	"github.com/utafrali/brandcatalog/internal/id"
	"github.com/utafrali/brandcatalog/internal/repository"
	apperrors "github.com/utafrali/brandcatalog/pkg/errors"
)

// BrandRepository is the in-memory reference implementation of
// repository.BrandRepository. Brands are kept in insertion order and every
// value crossing the boundary is deep-copied.
type BrandRepository struct {
	mu     sync.RWMutex
	brands []*domain.Brand
	byID   map[string]*domain.Brand
	ids    id.Generator
	now    func() time.Time
}

var _ repository.BrandRepository = (*BrandRepository)(nil)

// NewBrandRepository creates an empty store. nil ids or now fall back to
// UUIDs and the UTC wall clock.
func NewBrandRepository(ids id.Generator, now func() time.Time) *BrandRepository {
	if ids == nil {
		ids = id.UUID{}
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &BrandRepository{
		byID: make(map[string]*domain.Brand),
		ids:  ids,
		now:  now,
	}
}

// Create materializes the draft and appends it to the store.
func (r *BrandRepository) Create(_ context.Context, draft domain.BrandDraft) (*domain.Brand, error) {
	b := draft.Materialize(r.ids.New, r.now())

	r.mu.Lock()
	defer r.mu.Unlock()

	r.brands = append(r.brands, b)
	r.byID[b.ID] = b
	return b.Clone(), nil
}

// FindByID retrieves a brand by id.
func (r *BrandRepository) FindByID(_ context.Context, id string) (*domain.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return b.Clone(), nil
}

// FindBySlug returns the first stored brand with the slug.
func (r *BrandRepository) FindBySlug(_ context.Context, slug string) (*domain.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.brands {
		if b.BrandURLSlug == slug {
			return b.Clone(), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// List filters, sorts and paginates in that order.
func (r *BrandRepository) List(_ context.Context, filter repository.BrandFilter) ([]domain.Brand, int, error) {
	f := filter.Normalized()

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Brand, 0, len(r.brands))
	for _, b := range r.brands {
		if repository.Matches(b, f) {
			matched = append(matched, *b)
		}
	}
	repository.SortBrands(matched, f.SortBy, f.SortOrder)

	page := repository.Paginate(matched, f)
	out := make([]domain.Brand, len(page))
	for i := range page {
		out[i] = *page[i].Clone()
	}
	return out, len(matched), nil
}

// Update merges the patch into the stored brand under the write lock.
func (r *BrandRepository) Update(_ context.Context, id string, patch domain.BrandPatch) (*domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	patch.Apply(b, r.now())
	return b.Clone(), nil
}

// AdjustFollowerCount adds delta and floors the result at zero.
func (r *BrandRepository) AdjustFollowerCount(_ context.Context, id string, delta int) (*domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	b.FollowerCount = max(b.FollowerCount+delta, 0)
	b.UpdatedAt = r.now()
	return b.Clone(), nil
}

// Delete removes the brand and, with it, every owned child.
func (r *BrandRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.byID, id)
	r.brands = slices.DeleteFunc(r.brands, func(b *domain.Brand) bool { return b.ID == id })
	return nil
}

// ListBranches returns the brand's branches.
func (r *BrandRepository) ListBranches(_ context.Context, id string) ([]domain.Branch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if b, ok := r.byID[id]; ok {
		return domain.CloneBranches(b.Branches), nil
	}
	return []domain.Branch{}, nil
}

// ListMenus returns the brand's menus.
func (r *BrandRepository) ListMenus(_ context.Context, id string) ([]domain.Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if b, ok := r.byID[id]; ok {
		return domain.CloneMenus(b.Menus), nil
	}
	return []domain.Menu{}, nil
}

// ListDeals returns the brand's popular deals.
func (r *BrandRepository) ListDeals(_ context.Context, id string) ([]domain.PopularDeal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if b, ok := r.byID[id]; ok {
		return domain.ClonePopularDeals(b.PopularDeals), nil
	}
	return []domain.PopularDeal{}, nil
}

// Ping always succeeds; it lets the store back a readiness check.
func (r *BrandRepository) Ping(context.Context) error { return nil }
