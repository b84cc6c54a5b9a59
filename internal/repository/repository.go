package repository

import (
	"context"

	"github.com/utafrali/brandcatalog/internal/domain"
	"github.com/utafrali/brandcatalog/pkg/pagination"
)

// SortOrder is the direction of a list sort.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Defaults applied to an empty BrandFilter.
const (
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = SortDesc
)

// BrandFilter defines filter, sort and page criteria for listing brands.
// Empty strings and nil pointers disable their clause.
type BrandFilter struct {
	Search     string
	Category   *domain.BrandCategory
	Tag        string
	IsVerified *bool
	SortBy     string
	SortOrder  SortOrder
	Page       int
	Limit      int
}

// Normalized returns f with sort and page defaults applied.
func (f BrandFilter) Normalized() BrandFilter {
	if f.SortBy == "" {
		f.SortBy = DefaultSortBy
	}
	if f.SortOrder != SortAsc {
		f.SortOrder = DefaultSortOrder
	}
	p := pagination.Params{Page: f.Page, Limit: f.Limit}.Normalize()
	f.Page, f.Limit = p.Page, p.Limit
	return f
}

// Params returns the page parameters of f.
func (f BrandFilter) Params() pagination.Params {
	return pagination.Params{Page: f.Page, Limit: f.Limit}.Normalize()
}

// BrandRepository is the storage engine contract for brand aggregates.
// Lookups that miss return apperrors.ErrNotFound.
type BrandRepository interface {
	// Create materializes and stores a new brand. It does not check slug uniqueness.
	Create(ctx context.Context, draft domain.BrandDraft) (*domain.Brand, error)

	// FindByID retrieves a brand by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.Brand, error)

	// FindBySlug retrieves a brand by its URL slug.
	FindBySlug(ctx context.Context, slug string) (*domain.Brand, error)

	// List returns one page of brands matching the filter and the filtered total.
	List(ctx context.Context, filter BrandFilter) ([]domain.Brand, int, error)

	// Update merges the patch into the stored brand.
	Update(ctx context.Context, id string, patch domain.BrandPatch) (*domain.Brand, error)

	// AdjustFollowerCount adds delta to the follower count, flooring at zero, atomically.
	AdjustFollowerCount(ctx context.Context, id string, delta int) (*domain.Brand, error)

	// Delete removes a brand and everything it owns.
	Delete(ctx context.Context, id string) error

	// ListBranches returns the brand's branches, or an empty slice if the brand does not exist.
	ListBranches(ctx context.Context, id string) ([]domain.Branch, error)

	// ListMenus returns the brand's menus, or an empty slice if the brand does not exist.
	ListMenus(ctx context.Context, id string) ([]domain.Menu, error)

	// ListDeals returns the brand's popular deals, or an empty slice if the brand does not exist.
	ListDeals(ctx context.Context, id string) ([]domain.PopularDeal, error)
}
