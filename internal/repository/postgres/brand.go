package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/utafrali/brandcatalog/internal/domain"
	"github.com/utafrali/brandcatalog/internal/id"
	"github.com/utafrali/brandcatalog/internal/repository"
	"github.com/utafrali/brandcatalog/pkg/breaker"
	"github.com/utafrali/brandcatalog/pkg/database"
	apperrors "github.com/utafrali/brandcatalog/pkg/errors"
)

const brandColumns = `id, name, logo_url, cover_photos_urls, is_verified, category, tag, can_follow,
		follower_count, branch_count, brand_url_slug, about, joined_date, contact_details,
		opening_hours, branches, menus, popular_deals, created_at, updated_at`

// BrandRepository implements repository.BrandRepository using PostgreSQL.
// Nested children are stored as JSONB columns on the brand row.
type BrandRepository struct {
	pool database.DBTX
	cb   *breaker.Breaker
	ids  id.Generator
	now  func() time.Time
}

var _ repository.BrandRepository = (*BrandRepository)(nil)

// NewBrandRepository creates a new PostgreSQL-backed brand repository. cb may
// be nil to run without a circuit breaker.
func NewBrandRepository(pool database.DBTX, cb *breaker.Breaker, ids id.Generator, now func() time.Time) *BrandRepository {
	if ids == nil {
		ids = id.UUID{}
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &BrandRepository{pool: pool, cb: cb, ids: ids, now: now}
}

// IsSuccessful reports whether err is an expected outcome that should not
// count against the circuit breaker.
func IsSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrAlreadyExists) ||
		isUniqueViolation(err)
}

// run executes fn inside a query span and the circuit breaker, and maps
// transport failures to StorageUnavailable.
func run[T any](ctx context.Context, r *BrandRepository, op, stmt string, fn func(context.Context) (T, error)) (T, error) {
	ctx, end := database.TraceQuery(ctx, op, stmt)
	v, err := breaker.Do(r.cb, func() (T, error) { return fn(ctx) })
	if err != nil && (breaker.IsOpen(err) || database.IsConnectionError(err)) {
		err = apperrors.StorageUnavailable(err)
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		end(nil)
	} else {
		end(err)
	}
	return v, err
}

// Create materializes the draft and inserts it.
func (r *BrandRepository) Create(ctx context.Context, draft domain.BrandDraft) (*domain.Brand, error) {
	b := draft.Materialize(r.ids.New, r.now().UTC().Truncate(time.Microsecond))
	cols, err := encodeColumns(b)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO brands (` + brandColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	return run(ctx, r, "CreateBrand", query, func(ctx context.Context) (*domain.Brand, error) {
		_, err := r.pool.Exec(ctx, query,
			b.ID,
			b.Name,
			b.LogoURL,
			cols.coverPhotos,
			b.IsVerified,
			b.Category,
			b.Tag,
			b.CanFollow,
			b.FollowerCount,
			b.BranchCount,
			b.BrandURLSlug,
			b.About,
			b.JoinedDate,
			cols.contactDetails,
			cols.openingHours,
			cols.branches,
			cols.menus,
			cols.popularDeals,
			b.CreatedAt,
			b.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, apperrors.AlreadyExists("brand", "slug", b.BrandURLSlug)
			}
			return nil, fmt.Errorf("insert brand: %w", err)
		}
		return b, nil
	})
}

// FindByID retrieves a brand by its ID.
func (r *BrandRepository) FindByID(ctx context.Context, id string) (*domain.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE id = $1`
	return run(ctx, r, "FindBrandByID", query, func(ctx context.Context) (*domain.Brand, error) {
		return scanBrand(r.pool.QueryRow(ctx, query, id))
	})
}

// FindBySlug retrieves the earliest inserted brand with the slug.
func (r *BrandRepository) FindBySlug(ctx context.Context, slug string) (*domain.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE brand_url_slug = $1 ORDER BY seq LIMIT 1`
	return run(ctx, r, "FindBrandBySlug", query, func(ctx context.Context) (*domain.Brand, error) {
		return scanBrand(r.pool.QueryRow(ctx, query, slug))
	})
}

type listResult struct {
	brands []domain.Brand
	total  int
}

const snapshotTx = `SET TRANSACTION ISOLATION LEVEL REPEATABLE READ READ ONLY`

func scanPage(rows pgx.Rows, err error) ([]domain.Brand, error) {
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	brands := []domain.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand rows: %w", err)
	}
	return brands, nil
}

// List returns one page of brands matching the filter and the filtered total.
func (r *BrandRepository) List(ctx context.Context, filter repository.BrandFilter) ([]domain.Brand, int, error) {
	f := filter.Normalized()
	where, args := whereClause(f)
	p := f.Params()

	countQuery := `SELECT count(*) FROM brands ` + where
	pageQuery := fmt.Sprintf(`SELECT %s FROM brands %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		brandColumns, where, orderBy(f.SortBy, f.SortOrder), len(args)+1, len(args)+2)

	res, err := run(ctx, r, "ListBrands", pageQuery, func(ctx context.Context) (listResult, error) {
		// The total and the page must come from the same snapshot.
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return listResult{}, fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		if _, err := tx.Exec(ctx, snapshotTx); err != nil {
			return listResult{}, fmt.Errorf("set snapshot isolation: %w", err)
		}

		var total int
		if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
			return listResult{}, fmt.Errorf("count brands: %w", err)
		}

		brands, err := scanPage(tx.Query(ctx, pageQuery, append(args, p.Limit, p.Offset())...))
		if err != nil {
			return listResult{}, err
		}

		if err := tx.Commit(ctx); err != nil {
			return listResult{}, fmt.Errorf("commit transaction: %w", err)
		}
		return listResult{brands: brands, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return res.brands, res.total, nil
}

// Update locks the row, merges the patch and writes the patchable columns back.
func (r *BrandRepository) Update(ctx context.Context, id string, patch domain.BrandPatch) (*domain.Brand, error) {
	selectQuery := `SELECT ` + brandColumns + ` FROM brands WHERE id = $1 FOR UPDATE`
	updateQuery := `
		UPDATE brands
		SET name = $2, logo_url = $3, cover_photos_urls = $4, is_verified = $5, category = $6,
		    tag = $7, can_follow = $8, follower_count = $9, branch_count = $10, brand_url_slug = $11,
		    about = $12, joined_date = $13, contact_details = $14, updated_at = $15
		WHERE id = $1`

	return run(ctx, r, "UpdateBrand", updateQuery, func(ctx context.Context) (*domain.Brand, error) {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		b, err := scanBrand(tx.QueryRow(ctx, selectQuery, id))
		if err != nil {
			return nil, err
		}
		patch.Apply(b, r.now().UTC().Truncate(time.Microsecond))

		cols, err := encodeColumns(b)
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, updateQuery,
			b.ID,
			b.Name,
			b.LogoURL,
			cols.coverPhotos,
			b.IsVerified,
			b.Category,
			b.Tag,
			b.CanFollow,
			b.FollowerCount,
			b.BranchCount,
			b.BrandURLSlug,
			b.About,
			b.JoinedDate,
			cols.contactDetails,
			b.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, apperrors.AlreadyExists("brand", "slug", b.BrandURLSlug)
			}
			return nil, fmt.Errorf("update brand: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit transaction: %w", err)
		}
		return b, nil
	})
}

// AdjustFollowerCount adds delta in a single statement, flooring at zero.
func (r *BrandRepository) AdjustFollowerCount(ctx context.Context, id string, delta int) (*domain.Brand, error) {
	query := `
		UPDATE brands
		SET follower_count = GREATEST(follower_count + $2, 0), updated_at = $3
		WHERE id = $1
		RETURNING ` + brandColumns

	return run(ctx, r, "AdjustBrandFollowerCount", query, func(ctx context.Context) (*domain.Brand, error) {
		return scanBrand(r.pool.QueryRow(ctx, query, id, delta, r.now().UTC().Truncate(time.Microsecond)))
	})
}

// Delete removes a brand row and, with it, every child stored on it.
func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM brands WHERE id = $1`

	_, err := run(ctx, r, "DeleteBrand", query, func(ctx context.Context) (struct{}, error) {
		ct, err := r.pool.Exec(ctx, query, id)
		if err != nil {
			return struct{}{}, fmt.Errorf("delete brand: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return struct{}{}, apperrors.ErrNotFound
		}
		return struct{}{}, nil
	})
	return err
}

// ListBranches returns the brand's branches.
func (r *BrandRepository) ListBranches(ctx context.Context, id string) ([]domain.Branch, error) {
	return listChild[domain.Branch](ctx, r, "ListBrandBranches", "branches", id)
}

// ListMenus returns the brand's menus.
func (r *BrandRepository) ListMenus(ctx context.Context, id string) ([]domain.Menu, error) {
	return listChild[domain.Menu](ctx, r, "ListBrandMenus", "menus", id)
}

// ListDeals returns the brand's popular deals.
func (r *BrandRepository) ListDeals(ctx context.Context, id string) ([]domain.PopularDeal, error) {
	return listChild[domain.PopularDeal](ctx, r, "ListBrandDeals", "popular_deals", id)
}

// Ping checks connectivity through the breaker.
func (r *BrandRepository) Ping(ctx context.Context) error {
	_, err := run(ctx, r, "Ping", "SELECT 1", func(ctx context.Context) (int, error) {
		var one int
		err := r.pool.QueryRow(ctx, "SELECT 1").Scan(&one)
		return one, err
	})
	return err
}

func listChild[T any](ctx context.Context, r *BrandRepository, op, column, id string) ([]T, error) {
	query := `SELECT ` + column + ` FROM brands WHERE id = $1`
	return run(ctx, r, op, query, func(ctx context.Context) ([]T, error) {
		var raw []byte
		err := r.pool.QueryRow(ctx, query, id).Scan(&raw)
		if errors.Is(err, pgx.ErrNoRows) {
			return []T{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("select %s: %w", column, err)
		}
		out := []T{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &out); err != nil {
				return nil, fmt.Errorf("unmarshal %s: %w", column, err)
			}
		}
		if out == nil {
			out = []T{}
		}
		return out, nil
	})
}

// whereClause builds the filter conditions. Search uses strpos on lowered
// text so LIKE wildcards in the input match literally.
func whereClause(f repository.BrandFilter) (string, []any) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if f.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(strpos(lower(name), lower($%d)) > 0 OR strpos(lower(about), lower($%d)) > 0 OR (tag IS NOT NULL AND strpos(lower(tag), lower($%d)) > 0))",
			argIndex, argIndex, argIndex))
		args = append(args, f.Search)
		argIndex++
	}

	if f.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, string(*f.Category))
		argIndex++
	}

	if f.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("tag = $%d", argIndex))
		args = append(args, f.Tag)
		argIndex++
	}

	if f.IsVerified != nil {
		conditions = append(conditions, fmt.Sprintf("is_verified = $%d", argIndex))
		args = append(args, *f.IsVerified)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func textKey(col string) string {
	return `NULLIF(lower(` + col + `), '') COLLATE "C"`
}

// sortColumns maps sortable attribute names to SQL sort expressions. Empty
// strings become NULL so NULLS LAST puts them after present values.
var sortColumns = map[string]string{
	"id":            textKey("id"),
	"name":          textKey("name"),
	"logoUrl":       textKey("logo_url"),
	"category":      textKey("category"),
	"tag":           textKey("tag"),
	"brandUrlSlug":  textKey("brand_url_slug"),
	"about":         textKey("about"),
	"followerCount": "follower_count",
	"branchCount":   "branch_count",
	"isVerified":    "is_verified",
	"canFollow":     "can_follow",
	"joinedDate":    "joined_date",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

// orderBy returns the ORDER BY expression. Ties and unknown keys fall back to
// insertion order.
func orderBy(key string, order repository.SortOrder) string {
	expr, ok := sortColumns[key]
	if !ok {
		return "seq ASC"
	}
	dir := "DESC"
	if order == repository.SortAsc {
		dir = "ASC"
	}
	return expr + " " + dir + " NULLS LAST, seq ASC"
}

type jsonColumns struct {
	coverPhotos    []byte
	contactDetails []byte
	openingHours   []byte
	branches       []byte
	menus          []byte
	popularDeals   []byte
}

func encodeColumns(b *domain.Brand) (jsonColumns, error) {
	var (
		c   jsonColumns
		err error
	)
	if c.coverPhotos, err = json.Marshal(orEmpty(b.CoverPhotosURLs)); err != nil {
		return c, fmt.Errorf("marshal cover photos: %w", err)
	}
	if c.contactDetails, err = json.Marshal(b.ContactDetails); err != nil {
		return c, fmt.Errorf("marshal contact details: %w", err)
	}
	if b.OpeningHours != nil {
		if c.openingHours, err = json.Marshal(b.OpeningHours); err != nil {
			return c, fmt.Errorf("marshal opening hours: %w", err)
		}
	}
	if c.branches, err = json.Marshal(orEmpty(b.Branches)); err != nil {
		return c, fmt.Errorf("marshal branches: %w", err)
	}
	if c.menus, err = json.Marshal(orEmpty(b.Menus)); err != nil {
		return c, fmt.Errorf("marshal menus: %w", err)
	}
	if c.popularDeals, err = json.Marshal(orEmpty(b.PopularDeals)); err != nil {
		return c, fmt.Errorf("marshal popular deals: %w", err)
	}
	return c, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func scanBrand(row pgx.Row) (*domain.Brand, error) {
	var (
		b    domain.Brand
		cols jsonColumns
	)

	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.LogoURL,
		&cols.coverPhotos,
		&b.IsVerified,
		&b.Category,
		&b.Tag,
		&b.CanFollow,
		&b.FollowerCount,
		&b.BranchCount,
		&b.BrandURLSlug,
		&b.About,
		&b.JoinedDate,
		&cols.contactDetails,
		&cols.openingHours,
		&cols.branches,
		&cols.menus,
		&cols.popularDeals,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan brand: %w", err)
	}

	decode := []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"cover photos", cols.coverPhotos, &b.CoverPhotosURLs},
		{"contact details", cols.contactDetails, &b.ContactDetails},
		{"opening hours", cols.openingHours, &b.OpeningHours},
		{"branches", cols.branches, &b.Branches},
		{"menus", cols.menus, &b.Menus},
		{"popular deals", cols.popularDeals, &b.PopularDeals},
	}
	for _, d := range decode {
		if len(d.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(d.raw, d.dst); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", d.name, err)
		}
	}

	// Clone turns nil child slices into empty ones.
	return b.Clone(), nil
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "23505")
}
