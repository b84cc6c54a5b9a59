package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/brandcatalog/internal/domain"
	"github.com/utafrali/brandcatalog/internal/repository"
	"github.com/utafrali/brandcatalog/internal/service"
	"github.com/utafrali/brandcatalog/pkg/httputil"
	"github.com/utafrali/brandcatalog/pkg/pagination"
	"github.com/utafrali/brandcatalog/pkg/validator"
)

// BrandHandler handles HTTP requests for brand endpoints.
type BrandHandler struct {
	service *service.BrandService
	logger  *slog.Logger
}

// NewBrandHandler creates a new brand HTTP handler.
func NewBrandHandler(svc *service.BrandService, logger *slog.Logger) *BrandHandler {
	return &BrandHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateBrand handles POST /api/v1/brands
func (h *BrandHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req CreateBrandRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	brand, err := h.service.Create(r.Context(), req.Draft())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, "Brand created successfully", brand)
}

// ListBrands handles GET /api/v1/brands
//
// Query: search, category, tag, isVerified, page, limit, sortBy, sortOrder.
// Malformed page and limit values fall back to the defaults.
func (h *BrandHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := pagination.FromRequest(r)

	filter := repository.BrandFilter{
		Search: q.Get("search"),
		Tag:    q.Get("tag"),
		SortBy: q.Get("sortBy"),
		Page:   p.Page,
		Limit:  p.Limit,
	}

	if v := q.Get("category"); v != "" {
		c, err := domain.ParseBrandCategory(v)
		if err != nil {
			writeInvalidParameter(w, "category must be a valid brand category")
			return
		}
		filter.Category = &c
	}
	if v := q.Get("isVerified"); v != "" {
		verified := v == "true"
		filter.IsVerified = &verified
	}
	switch v := q.Get("sortOrder"); v {
	case "":
	case string(repository.SortAsc), string(repository.SortDesc):
		filter.SortOrder = repository.SortOrder(v)
	default:
		writeInvalidParameter(w, "sortOrder must be one of: asc, desc")
		return
	}

	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WritePage(w, "Brands retrieved successfully", page)
}

// GetBrandBySlug handles GET /api/v1/brands/slug/{slug}
func (h *BrandHandler) GetBrandBySlug(w http.ResponseWriter, r *http.Request) {
	brand, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Brand retrieved successfully", brand)
}

// GetBrand handles GET /api/v1/brands/{id}
func (h *BrandHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	brand, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Brand retrieved successfully", brand)
}

// GetBranches handles GET /api/v1/brands/{id}/branches
func (h *BrandHandler) GetBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.service.GetBranches(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Brand branches retrieved successfully", branches)
}

// GetMenus handles GET /api/v1/brands/{id}/menus
func (h *BrandHandler) GetMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.service.GetMenus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Brand menus retrieved successfully", menus)
}

// GetPopularDeals handles GET /api/v1/brands/{id}/deals
func (h *BrandHandler) GetPopularDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := h.service.GetPopularDeals(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Brand popular deals retrieved successfully", deals)
}

// UpdateBrand handles PATCH /api/v1/brands/{id}
func (h *BrandHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	var req UpdateBrandRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	brand, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.Patch())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, "Brand updated successfully", brand)
}

// FollowBrand handles PATCH /api/v1/brands/{id}/follow
func (h *BrandHandler) FollowBrand(w http.ResponseWriter, r *http.Request) {
	brand, err := h.service.IncrementFollowerCount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Brand followed successfully", FollowResponse{
		BrandID:       brand.ID,
		FollowerCount: brand.FollowerCount,
	})
}

// UnfollowBrand handles PATCH /api/v1/brands/{id}/unfollow
func (h *BrandHandler) UnfollowBrand(w http.ResponseWriter, r *http.Request) {
	brand, err := h.service.DecrementFollowerCount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Brand unfollowed successfully", FollowResponse{
		BrandID:       brand.ID,
		FollowerCount: brand.FollowerCount,
	})
}

// DeleteBrand handles DELETE /api/v1/brands/{id}
func (h *BrandHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteNoContent(w)
}

func writeInvalidParameter(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Error:      &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: message},
	})
}
