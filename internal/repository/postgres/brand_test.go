package postgres

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/brandcatalog/internal/domain"
	"github.com/utafrali/brandcatalog/internal/id"
	"github.com/utafrali/brandcatalog/internal/repository"
	"github.com/utafrali/brandcatalog/pkg/breaker"
	apperrors "github.com/utafrali/brandcatalog/pkg/errors"
)

// --- Test Helpers ---

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestRepo(t *testing.T) (*BrandRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	repo := NewBrandRepository(mock, nil, &id.Sequence{}, func() time.Time { return now })
	return repo, mock
}

var brandColumnNames = []string{
	"id", "name", "logo_url", "cover_photos_urls", "is_verified", "category", "tag", "can_follow",
	"follower_count", "branch_count", "brand_url_slug", "about", "joined_date", "contact_details",
	"opening_hours", "branches", "menus", "popular_deals", "created_at", "updated_at",
}

func sampleBrand() *domain.Brand {
	return &domain.Brand{
		ID:              "brand-1",
		Name:            "Acme",
		LogoURL:         "https://example.com/acme.png",
		CoverPhotosURLs: []string{"https://example.com/cover.jpg"},
		IsVerified:      true,
		Category:        domain.CategoryRestaurant,
		Tag:             strPtr("Fast Food"),
		CanFollow:       true,
		FollowerCount:   7,
		BranchCount:     1,
		BrandURLSlug:    "acme",
		About:           "Burgers",
		JoinedDate:      now,
		ContactDetails:  domain.ContactDetails{Email: strPtr("hi@acme.test")},
		OpeningHours:    &domain.OpeningHours{ID: "hours-2", IsSameAllDays: true, OpeningTime: strPtr("09:00"), ClosingTime: strPtr("22:00")},
		Branches:        []domain.Branch{{ID: "branch-3", Name: "Downtown", Address: "1 Main St"}},
		Menus:           []domain.Menu{{ID: "menu-4", MenuName: "Lunch"}},
		PopularDeals:    []domain.PopularDeal{{ID: "deal-5", DealName: "2 for 1", Price: "1000", Likes: 3}},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func brandRow(t *testing.T, b *domain.Brand) []any {
	t.Helper()
	cols, err := encodeColumns(b)
	require.NoError(t, err)
	return []any{
		b.ID, b.Name, b.LogoURL, cols.coverPhotos, b.IsVerified, b.Category, b.Tag, b.CanFollow,
		b.FollowerCount, b.BranchCount, b.BrandURLSlug, b.About, b.JoinedDate, cols.contactDetails,
		cols.openingHours, cols.branches, cols.menus, cols.popularDeals, b.CreatedAt, b.UpdatedAt,
	}
}

func brandRows(t *testing.T, brands ...*domain.Brand) *pgxmock.Rows {
	rows := pgxmock.NewRows(brandColumnNames)
	for _, b := range brands {
		rows.AddRow(brandRow(t, b)...)
	}
	return rows
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"idx_brands_slug\""}
}

// --- Create ---

func TestBrandRepository_Create_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	draft := domain.BrandDraft{
		Name:         "Acme",
		LogoURL:      "https://example.com/acme.png",
		Category:     domain.CategoryRestaurant,
		BrandURLSlug: "acme",
		About:        "Burgers",
		Branches:     []domain.Branch{{Name: "Downtown", Address: "1 Main St"}},
	}

	mock.ExpectExec("INSERT INTO brands").
		WithArgs(
			"brand-1", "Acme", "https://example.com/acme.png", pgxmock.AnyArg(), false,
			domain.CategoryRestaurant, pgxmock.AnyArg(), true, 0, 1, "acme", "Burgers", now,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			now, now,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	b, err := repo.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "brand-1", b.ID)
	assert.Equal(t, "branch-2", b.Branches[0].ID)
	assert.Equal(t, 1, b.BranchCount)
	assert.True(t, b.CanFollow)
	assert.NotNil(t, b.Menus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Create_UniqueViolation(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("INSERT INTO brands").WillReturnError(uniqueViolation())

	_, err := repo.Create(context.Background(), domain.BrandDraft{Name: "Acme", BrandURLSlug: "acme"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Create_ConnectionError(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("INSERT INTO brands").WillReturnError(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))

	_, err := repo.Create(context.Background(), domain.BrandDraft{Name: "Acme", BrandURLSlug: "acme"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.Equal(t, 503, apperrors.HTTPStatus(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- Find ---

func TestBrandRepository_FindByID_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	want := sampleBrand()

	mock.ExpectQuery("SELECT .+ FROM brands WHERE id").
		WithArgs(want.ID).
		WillReturnRows(brandRows(t, want))

	got, err := repo.FindByID(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.Clone(), got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT .+ FROM brands WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(brandColumnNames))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_FindByID_NilChildren(t *testing.T) {
	repo, mock := newTestRepo(t)
	b := sampleBrand()
	b.OpeningHours = nil
	b.Tag = nil
	b.Branches = nil

	mock.ExpectQuery("SELECT .+ FROM brands WHERE id").
		WithArgs(b.ID).
		WillReturnRows(brandRows(t, b))

	got, err := repo.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.OpeningHours)
	assert.Nil(t, got.Tag)
	assert.NotNil(t, got.Branches)
	assert.Empty(t, got.Branches)
}

func TestBrandRepository_FindBySlug_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	want := sampleBrand()

	mock.ExpectQuery("SELECT .+ FROM brands WHERE brand_url_slug = .+ ORDER BY seq LIMIT 1").
		WithArgs("acme").
		WillReturnRows(brandRows(t, want))

	got, err := repo.FindBySlug(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_FindBySlug_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT .+ FROM brands WHERE brand_url_slug").
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows(brandColumnNames))

	_, err := repo.FindBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- List ---

func expectSnapshot(mock pgxmock.PgxPoolIface) {
	mock.ExpectBegin()
	mock.ExpectExec("SET TRANSACTION ISOLATION LEVEL REPEATABLE READ READ ONLY").
		WillReturnResult(pgxmock.NewResult("SET", 0))
}

func TestBrandRepository_List_FiltersSortAndPage(t *testing.T) {
	repo, mock := newTestRepo(t)
	restaurant := domain.CategoryRestaurant
	b := sampleBrand()

	expectSnapshot(mock)
	mock.ExpectQuery(`SELECT count\(\*\) FROM brands WHERE .+strpos.+ AND category = .+ AND tag = .+ AND is_verified = `).
		WithArgs("burg", "RESTAURANT", "Fast Food", true).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(15))
	mock.ExpectQuery(`SELECT .+ FROM brands WHERE .+ ORDER BY ` + regexp.QuoteMeta(`NULLIF(lower(name), '') COLLATE "C" ASC NULLS LAST, seq ASC LIMIT`)).
		WithArgs("burg", "RESTAURANT", "Fast Food", true, 10, 10).
		WillReturnRows(brandRows(t, b))
	mock.ExpectCommit()

	brands, total, err := repo.List(context.Background(), repository.BrandFilter{
		Search:     "burg",
		Category:   &restaurant,
		Tag:        "Fast Food",
		IsVerified: boolPtr(true),
		SortBy:     "name",
		SortOrder:  repository.SortAsc,
		Page:       2,
		Limit:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	require.Len(t, brands, 1)
	assert.Equal(t, b.ID, brands[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_List_Defaults(t *testing.T) {
	repo, mock := newTestRepo(t)

	expectSnapshot(mock)
	mock.ExpectQuery(`SELECT count\(\*\) FROM brands`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .+ FROM brands ORDER BY created_at DESC NULLS LAST, seq ASC LIMIT`).
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(brandColumnNames))
	mock.ExpectCommit()

	brands, total, err := repo.List(context.Background(), repository.BrandFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, brands)
	assert.Empty(t, brands)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_List_UnknownSortKeyUsesInsertionOrder(t *testing.T) {
	repo, mock := newTestRepo(t)

	expectSnapshot(mock)
	mock.ExpectQuery(`SELECT count\(\*\) FROM brands`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT .+ FROM brands ORDER BY seq ASC LIMIT`).
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(brandColumnNames))
	mock.ExpectCommit()

	_, _, err := repo.List(context.Background(), repository.BrandFilter{SortBy: "branches"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_List_CountError(t *testing.T) {
	repo, mock := newTestRepo(t)

	expectSnapshot(mock)
	mock.ExpectQuery(`SELECT count\(\*\) FROM brands`).
		WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	_, _, err := repo.List(context.Background(), repository.BrandFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count brands")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_List_PageErrorRollsBack(t *testing.T) {
	repo, mock := newTestRepo(t)

	expectSnapshot(mock)
	mock.ExpectQuery(`SELECT count\(\*\) FROM brands`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT .+ FROM brands ORDER BY`).
		WillReturnError(errors.New("canceling statement"))
	mock.ExpectRollback()

	_, _, err := repo.List(context.Background(), repository.BrandFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list brands")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_List_SnapshotError(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("SET TRANSACTION").WillReturnError(errors.New("read only not allowed"))
	mock.ExpectRollback()

	_, _, err := repo.List(context.Background(), repository.BrandFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set snapshot isolation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_List_HugePageClampsOffset(t *testing.T) {
	repo, mock := newTestRepo(t)

	expectSnapshot(mock)
	mock.ExpectQuery(`SELECT count\(\*\) FROM brands`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT .+ FROM brands ORDER BY`).
		WithArgs(2, math.MaxInt).
		WillReturnRows(pgxmock.NewRows(brandColumnNames))
	mock.ExpectCommit()

	brands, total, err := repo.List(context.Background(), repository.BrandFilter{Page: math.MaxInt64, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, brands)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		key   string
		order repository.SortOrder
		want  string
	}{
		{"followerCount", repository.SortAsc, "follower_count ASC NULLS LAST, seq ASC"},
		{"followerCount", repository.SortDesc, "follower_count DESC NULLS LAST, seq ASC"},
		{"tag", repository.SortDesc, `NULLIF(lower(tag), '') COLLATE "C" DESC NULLS LAST, seq ASC`},
		{"contactDetails", repository.SortAsc, "seq ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"_"+string(tt.order), func(t *testing.T) {
			assert.Equal(t, tt.want, orderBy(tt.key, tt.order))
		})
	}
}

func TestSortColumns_CoverSortableFields(t *testing.T) {
	for _, key := range repository.SortableFields() {
		_, ok := sortColumns[key]
		assert.True(t, ok, key)
	}
	assert.Len(t, sortColumns, len(repository.SortableFields()))
}

// --- Update ---

func TestBrandRepository_Update_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	stored := sampleBrand()
	stored.UpdatedAt = now.Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM brands WHERE id = .+ FOR UPDATE").
		WithArgs(stored.ID).
		WillReturnRows(brandRows(t, stored))
	mock.ExpectExec("UPDATE brands SET name").
		WithArgs(
			stored.ID, "Acme Two", stored.LogoURL, pgxmock.AnyArg(), stored.IsVerified, stored.Category,
			stored.Tag, stored.CanFollow, stored.FollowerCount, 2, "acme-two", stored.About,
			stored.JoinedDate, pgxmock.AnyArg(), now,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	got, err := repo.Update(context.Background(), stored.ID, domain.BrandPatch{
		Name:         strPtr("Acme Two"),
		BrandURLSlug: strPtr("acme-two"),
		Branches:     []domain.Branch{{Name: "a"}, {Name: "b"}},
		BranchCount:  intPtr(9),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Two", got.Name)
	assert.Equal(t, 2, got.BranchCount)
	assert.Equal(t, stored.Clone().Branches, got.Branches)
	assert.Equal(t, stored.Clone().OpeningHours, got.OpeningHours)
	assert.Equal(t, now, got.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Update_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM brands WHERE id = .+ FOR UPDATE").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(brandColumnNames))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), "missing", domain.BrandPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Update_SlugTaken(t *testing.T) {
	repo, mock := newTestRepo(t)
	stored := sampleBrand()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM brands WHERE id = .+ FOR UPDATE").
		WithArgs(stored.ID).
		WillReturnRows(brandRows(t, stored))
	mock.ExpectExec("UPDATE brands SET name").WillReturnError(uniqueViolation())
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), stored.ID, domain.BrandPatch{BrandURLSlug: strPtr("taken")})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Update_BeginError(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("begin failed"))

	_, err := repo.Update(context.Background(), "brand-1", domain.BrandPatch{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
}

// --- AdjustFollowerCount ---

func TestBrandRepository_AdjustFollowerCount(t *testing.T) {
	repo, mock := newTestRepo(t)
	b := sampleBrand()
	b.FollowerCount = 0

	mock.ExpectQuery(regexp.QuoteMeta("SET follower_count = GREATEST(follower_count + $2, 0)")).
		WithArgs(b.ID, -1, now).
		WillReturnRows(brandRows(t, b))

	got, err := repo.AdjustFollowerCount(context.Background(), b.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.FollowerCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_AdjustFollowerCount_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("UPDATE brands").
		WithArgs("missing", 1, now).
		WillReturnRows(pgxmock.NewRows(brandColumnNames))

	_, err := repo.AdjustFollowerCount(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- Delete ---

func TestBrandRepository_Delete_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("DELETE FROM brands WHERE id").
		WithArgs("brand-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), "brand-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("DELETE FROM brands WHERE id").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), apperrors.ErrNotFound)
}

// --- Children ---

func TestBrandRepository_ListBranches(t *testing.T) {
	repo, mock := newTestRepo(t)
	b := sampleBrand()
	cols, err := encodeColumns(b)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT branches FROM brands WHERE id").
		WithArgs(b.ID).
		WillReturnRows(pgxmock.NewRows([]string{"branches"}).AddRow(cols.branches))

	got, err := repo.ListBranches(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Branches, got)
}

func TestBrandRepository_ListChildren_MissingBrand(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT menus FROM brands WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"menus"}))
	mock.ExpectQuery("SELECT popular_deals FROM brands WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"popular_deals"}))

	menus, err := repo.ListMenus(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, menus)
	assert.Empty(t, menus)

	deals, err := repo.ListDeals(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, deals)
	assert.Empty(t, deals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- Circuit breaker ---

func newBreaker() *breaker.Breaker {
	return breaker.New(breaker.Config{
		Name:         "postgres-test",
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  1,
		IsSuccessful: IsSuccessful,
	}, nil, newTestLogger())
}

func TestBrandRepository_BreakerOpensOnConnectionErrors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	cb := newBreaker()
	repo := NewBrandRepository(mock, cb, &id.Sequence{}, func() time.Time { return now })

	mock.ExpectQuery("SELECT .+ FROM brands WHERE id").
		WithArgs("brand-1").
		WillReturnError(errors.New("connection reset by peer"))

	_, err = repo.FindByID(context.Background(), "brand-1")
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	// Rejected by the breaker without reaching the pool.
	_, err = repo.FindByID(context.Background(), "brand-1")
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.True(t, breaker.IsOpen(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_BreakerIgnoresNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	cb := newBreaker()
	repo := NewBrandRepository(mock, cb, &id.Sequence{}, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		mock.ExpectQuery("SELECT .+ FROM brands WHERE id").
			WithArgs("missing").
			WillReturnRows(pgxmock.NewRows(brandColumnNames))
	}
	for i := 0; i < 3; i++ {
		_, err := repo.FindByID(context.Background(), "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestIsSuccessful(t *testing.T) {
	assert.True(t, IsSuccessful(nil))
	assert.True(t, IsSuccessful(apperrors.ErrNotFound))
	assert.True(t, IsSuccessful(apperrors.AlreadyExists("brand", "slug", "x")))
	assert.True(t, IsSuccessful(uniqueViolation()))
	assert.False(t, IsSuccessful(errors.New("connection refused")))
}

// --- Migrations ---

func TestMigrations_Embedded(t *testing.T) {
	entries, err := fs.ReadDir(Migrations(), ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "001_create_brands.up.sql", entries[0].Name())

	sql, err := fs.ReadFile(Migrations(), entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(sql), "CREATE UNIQUE INDEX IF NOT EXISTS idx_brands_slug")
}
