package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/utafrali/brandcatalog/internal/domain"
	"github.com/utafrali/brandcatalog/internal/event"
	"github.com/utafrali/brandcatalog/internal/repository"
	apperrors "github.com/utafrali/brandcatalog/pkg/errors"
	"github.com/utafrali/brandcatalog/pkg/pagination"
)

// BrandService implements the business rules for brand operations on top of
// any repository.BrandRepository.
type BrandService struct {
	// mu serializes create, update and delete so slug checks and the writes
	// they guard are atomic within the process.
	mu     sync.Mutex
	repo   repository.BrandRepository
	events event.Publisher
	logger *slog.Logger
}

// NewBrandService creates a new brand service. A nil publisher discards events.
func NewBrandService(repo repository.BrandRepository, events event.Publisher, logger *slog.Logger) *BrandService {
	if events == nil {
		events = event.Noop{}
	}
	return &BrandService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// Create validates the draft, rejects a taken slug and stores the brand.
func (s *BrandService) Create(ctx context.Context, draft domain.BrandDraft) (*domain.Brand, error) {
	if !draft.Category.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid brand category %q", draft.Category))
	}
	if err := draft.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSlugFree(ctx, draft.BrandURLSlug, ""); err != nil {
		return nil, err
	}

	brand, err := s.repo.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}

	if err := s.events.PublishBrandCreated(ctx, brand); err != nil {
		s.logPublishError(ctx, "brand.created", brand.ID, err)
	}

	s.logger.InfoContext(ctx, "brand created",
		slog.String("brand_id", brand.ID),
		slog.String("slug", brand.BrandURLSlug),
	)

	return brand, nil
}

// GetByID retrieves a brand by its ID.
func (s *BrandService) GetByID(ctx context.Context, id string) (*domain.Brand, error) {
	brand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("brand", id)
		}
		return nil, fmt.Errorf("get brand by id: %w", err)
	}
	return brand, nil
}

// GetBySlug retrieves a brand by its URL slug.
func (s *BrandService) GetBySlug(ctx context.Context, slug string) (*domain.Brand, error) {
	brand, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFoundBy("brand", "slug", slug)
		}
		return nil, fmt.Errorf("get brand by slug: %w", err)
	}
	return brand, nil
}

// List returns one page of brands with pagination metadata.
func (s *BrandService) List(ctx context.Context, filter repository.BrandFilter) (pagination.Result[domain.Brand], error) {
	f := filter.Normalized()

	brands, total, err := s.repo.List(ctx, f)
	if err != nil {
		return pagination.Result[domain.Brand]{}, fmt.Errorf("list brands: %w", err)
	}
	return pagination.NewResult(brands, total, f.Params()), nil
}

// Update merges the patch into an existing brand. Changing the slug to one
// owned by another brand is a conflict; keeping its own slug is not.
func (s *BrandService) Update(ctx context.Context, id string, patch domain.BrandPatch) (*domain.Brand, error) {
	if patch.Category != nil && !patch.Category.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid brand category %q", *patch.Category))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.BrandURLSlug != nil && *patch.BrandURLSlug != existing.BrandURLSlug {
		if err := s.ensureSlugFree(ctx, *patch.BrandURLSlug, id); err != nil {
			return nil, err
		}
	}

	brand, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("brand", id)
		}
		return nil, fmt.Errorf("update brand: %w", err)
	}

	if err := s.events.PublishBrandUpdated(ctx, brand); err != nil {
		s.logPublishError(ctx, "brand.updated", brand.ID, err)
	}

	s.logger.InfoContext(ctx, "brand updated", slog.String("brand_id", brand.ID))

	return brand, nil
}

// Delete removes a brand and everything it owns.
func (s *BrandService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("brand", id)
		}
		return fmt.Errorf("delete brand: %w", err)
	}

	if err := s.events.PublishBrandDeleted(ctx, existing); err != nil {
		s.logPublishError(ctx, "brand.deleted", id, err)
	}

	s.logger.InfoContext(ctx, "brand deleted", slog.String("brand_id", id))

	return nil
}

// GetBranches returns the branches of an existing brand.
func (s *BrandService) GetBranches(ctx context.Context, id string) ([]domain.Branch, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	branches, err := s.repo.ListBranches(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list brand branches: %w", err)
	}
	return branches, nil
}

// GetMenus returns the menus of an existing brand.
func (s *BrandService) GetMenus(ctx context.Context, id string) ([]domain.Menu, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	menus, err := s.repo.ListMenus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list brand menus: %w", err)
	}
	return menus, nil
}

// GetPopularDeals returns the popular deals of an existing brand.
func (s *BrandService) GetPopularDeals(ctx context.Context, id string) ([]domain.PopularDeal, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	deals, err := s.repo.ListDeals(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list brand deals: %w", err)
	}
	return deals, nil
}

// IncrementFollowerCount adds one follower.
func (s *BrandService) IncrementFollowerCount(ctx context.Context, id string) (*domain.Brand, error) {
	brand, err := s.adjustFollowers(ctx, id, 1)
	if err != nil {
		return nil, err
	}
	if err := s.events.PublishBrandFollowed(ctx, brand); err != nil {
		s.logPublishError(ctx, "brand.followed", id, err)
	}
	return brand, nil
}

// DecrementFollowerCount removes one follower. The count never drops below zero.
func (s *BrandService) DecrementFollowerCount(ctx context.Context, id string) (*domain.Brand, error) {
	brand, err := s.adjustFollowers(ctx, id, -1)
	if err != nil {
		return nil, err
	}
	if err := s.events.PublishBrandUnfollowed(ctx, brand); err != nil {
		s.logPublishError(ctx, "brand.unfollowed", id, err)
	}
	return brand, nil
}

func (s *BrandService) adjustFollowers(ctx context.Context, id string, delta int) (*domain.Brand, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	brand, err := s.repo.AdjustFollowerCount(ctx, id, delta)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("brand", id)
		}
		return nil, fmt.Errorf("adjust follower count: %w", err)
	}
	return brand, nil
}

// UpdateBranchCount sets branchCount to the number of stored branches.
func (s *BrandService) UpdateBranchCount(ctx context.Context, id string) (*domain.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count := len(existing.Branches)

	brand, err := s.repo.Update(ctx, id, domain.BrandPatch{BranchCount: &count})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("brand", id)
		}
		return nil, fmt.Errorf("update branch count: %w", err)
	}
	return brand, nil
}

// ensureSlugFree returns a conflict when slug belongs to a brand other than selfID.
func (s *BrandService) ensureSlugFree(ctx context.Context, slug, selfID string) error {
	owner, err := s.repo.FindBySlug(ctx, slug)
	switch {
	case err == nil:
		if owner.ID != selfID {
			return apperrors.AlreadyExists("brand", "slug", slug)
		}
		return nil
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check brand slug: %w", err)
	}
}

func (s *BrandService) logPublishError(ctx context.Context, eventType, brandID string, err error) {
	s.logger.ErrorContext(ctx, "failed to publish "+eventType+" event",
		slog.String("brand_id", brandID),
		slog.String("error", err.Error()),
	)
}
