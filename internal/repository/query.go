package repository

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/utafrali/brandcatalog/internal/domain"
)

// Matches reports whether b passes every clause of f.
func Matches(b *domain.Brand, f BrandFilter) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		hit := strings.Contains(strings.ToLower(b.Name), q) ||
			strings.Contains(strings.ToLower(b.About), q) ||
			(b.Tag != nil && strings.Contains(strings.ToLower(*b.Tag), q))
		if !hit {
			return false
		}
	}
	if f.Category != nil && b.Category != *f.Category {
		return false
	}
	if f.Tag != "" && (b.Tag == nil || *b.Tag != f.Tag) {
		return false
	}
	if f.IsVerified != nil && b.IsVerified != *f.IsVerified {
		return false
	}
	return true
}

type sortKind int

const (
	kindString sortKind = iota
	kindNumber
	kindBool
	kindTime
)

type sortValue struct {
	missing bool
	str     string
	num     int
	flag    bool
	at      time.Time
}

type sortField struct {
	kind  sortKind
	value func(*domain.Brand) sortValue
}

// Empty strings and zero times count as missing. Zero and false are values.
func str(s string) sortValue   { return sortValue{missing: s == "", str: strings.ToLower(s)} }
func num(n int) sortValue      { return sortValue{num: n} }
func flag(v bool) sortValue    { return sortValue{flag: v} }
func at(t time.Time) sortValue { return sortValue{missing: t.IsZero(), at: t} }
func optStr(s *string) sortValue {
	if s == nil {
		return sortValue{missing: true}
	}
	return str(*s)
}

// sortFields lists the scalar brand attributes that can be sorted on, keyed by JSON name.
var sortFields = map[string]sortField{
	"id":            {kindString, func(b *domain.Brand) sortValue { return str(b.ID) }},
	"name":          {kindString, func(b *domain.Brand) sortValue { return str(b.Name) }},
	"logoUrl":       {kindString, func(b *domain.Brand) sortValue { return str(b.LogoURL) }},
	"category":      {kindString, func(b *domain.Brand) sortValue { return str(string(b.Category)) }},
	"tag":           {kindString, func(b *domain.Brand) sortValue { return optStr(b.Tag) }},
	"brandUrlSlug":  {kindString, func(b *domain.Brand) sortValue { return str(b.BrandURLSlug) }},
	"about":         {kindString, func(b *domain.Brand) sortValue { return str(b.About) }},
	"followerCount": {kindNumber, func(b *domain.Brand) sortValue { return num(b.FollowerCount) }},
	"branchCount":   {kindNumber, func(b *domain.Brand) sortValue { return num(b.BranchCount) }},
	"isVerified":    {kindBool, func(b *domain.Brand) sortValue { return flag(b.IsVerified) }},
	"canFollow":     {kindBool, func(b *domain.Brand) sortValue { return flag(b.CanFollow) }},
	"joinedDate":    {kindTime, func(b *domain.Brand) sortValue { return at(b.JoinedDate) }},
	"createdAt":     {kindTime, func(b *domain.Brand) sortValue { return at(b.CreatedAt) }},
	"updatedAt":     {kindTime, func(b *domain.Brand) sortValue { return at(b.UpdatedAt) }},
}

// SortableFields returns the attribute names accepted as a sort key, sorted.
func SortableFields() []string {
	keys := make([]string, 0, len(sortFields))
	for k := range sortFields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func compareValues(kind sortKind, a, b sortValue) int {
	switch kind {
	case kindString:
		return strings.Compare(a.str, b.str)
	case kindNumber:
		return cmp.Compare(a.num, b.num)
	case kindBool:
		switch {
		case a.flag == b.flag:
			return 0
		case !a.flag:
			return -1
		default:
			return 1
		}
	default:
		return a.at.Compare(b.at)
	}
}

// SortBrands stably sorts brands by the attribute key. Brands missing the
// attribute go last in both directions. An unknown key leaves the order as is.
func SortBrands(brands []domain.Brand, key string, order SortOrder) {
	field, ok := sortFields[key]
	if !ok {
		return
	}
	desc := order != SortAsc
	slices.SortStableFunc(brands, func(x, y domain.Brand) int {
		a, b := field.value(&x), field.value(&y)
		switch {
		case a.missing && b.missing:
			return 0
		case a.missing:
			return 1
		case b.missing:
			return -1
		}
		c := compareValues(field.kind, a, b)
		if desc {
			return -c
		}
		return c
	})
}

// Paginate returns the page of items selected by f. A page past the end is empty.
func Paginate[T any](items []T, f BrandFilter) []T {
	p := f.Params()
	start := min(p.Offset(), len(items))
	end := start + min(p.Limit, len(items)-start)
	return items[start:end]
}
