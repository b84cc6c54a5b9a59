package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Params holds 1-indexed pagination parameters extracted from query strings.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DefaultParams returns the catalog pagination defaults.
func DefaultParams() Params {
	return Params{
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}
}

// Normalize applies defaults to zero values and floors negatives at 1.
func (p Params) Normalize() Params {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	return p
}

// Offset returns the zero-based index of the first item on the page. It
// saturates at math.MaxInt when (Page-1)*Limit would overflow.
func (p Params) Offset() int {
	n := p.Normalize()
	if n.Page-1 > math.MaxInt/n.Limit {
		return math.MaxInt
	}
	return (n.Page - 1) * n.Limit
}

// FromRequest extracts pagination parameters from the page and limit query
// values. Missing or malformed values fall back to the defaults.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 {
			p.Limit = v
		}
	}

	return p
}

// TotalPages returns ceil(total / limit).
func TotalPages(total, limit int) int {
	if limit < 1 {
		limit = 1
	}
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	return pages
}

// Result wraps a paginated response.
type Result[T any] struct {
	Data       []T  `json:"data"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewResult creates a paginated result.
func NewResult[T any](data []T, total int, params Params) Result[T] {
	params = params.Normalize()
	totalPages := TotalPages(total, params.Limit)
	if data == nil {
		data = []T{}
	}

	return Result[T]{
		Data:       data,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
