// Package seed loads brand fixtures from YAML and stores them through the
// brand service, so fixtures obey the same slug and schedule rules as API
// writes.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/utafrali/brandcatalog/internal/domain"
	apperrors "github.com/utafrali/brandcatalog/pkg/errors"
	"github.com/utafrali/brandcatalog/pkg/slug"
	"github.com/utafrali/brandcatalog/pkg/validator"
)

//go:embed brands.yaml
var defaultFixtures []byte

// File is the top-level layout of a fixture file.
type File struct {
	Brands []Brand `yaml:"brands"`
}

// Brand is one brand fixture. Dates are ISO 8601 strings.
type Brand struct {
	Name            string         `yaml:"name"`
	LogoURL         string         `yaml:"logoUrl"`
	CoverPhotosURLs []string       `yaml:"coverPhotosUrls"`
	IsVerified      *bool          `yaml:"isVerified"`
	Category        string         `yaml:"category"`
	Tag             *string        `yaml:"tag"`
	CanFollow       *bool          `yaml:"canFollow"`
	FollowerCount   int            `yaml:"followerCount"`
	BrandURLSlug    string         `yaml:"brandUrlSlug"`
	About           string         `yaml:"about"`
	JoinedDate      string         `yaml:"joinedDate"`
	ContactDetails  ContactDetails `yaml:"contactDetails"`
	OpeningHours    *OpeningHours  `yaml:"openingHours"`
	Branches        []Branch       `yaml:"branches"`
	Menus           []Menu         `yaml:"menus"`
	PopularDeals    []PopularDeal  `yaml:"popularDeals"`
}

type ContactDetails struct {
	PhoneNumber *string `yaml:"phoneNumber"`
	Website     *string `yaml:"website"`
	Whatsapp    *string `yaml:"whatsapp"`
	Email       *string `yaml:"email"`
}

type OpeningHours struct {
	IsSameAllDays bool       `yaml:"isSameAllDays"`
	OpeningTime   *string    `yaml:"openingTime"`
	ClosingTime   *string    `yaml:"closingTime"`
	WeeklyHours   []DayHours `yaml:"weeklyHours"`
}

type DayHours struct {
	Weekday     string  `yaml:"weekday"`
	IsClosed    bool    `yaml:"isClosed"`
	OpeningTime *string `yaml:"openingTime"`
	ClosingTime *string `yaml:"closingTime"`
}

type Branch struct {
	Name         string        `yaml:"name"`
	Address      string        `yaml:"address"`
	Distance     *string       `yaml:"distance"`
	ImageURL     *string       `yaml:"imageUrl"`
	MapLink      *string       `yaml:"mapLink"`
	OpeningHours *OpeningHours `yaml:"openingHours"`
}

type Menu struct {
	MenuName   string  `yaml:"menuName"`
	ValidUntil string  `yaml:"validUntil"`
	ImageURL   *string `yaml:"imageUrl"`
}

type PopularDeal struct {
	DealName string  `yaml:"dealName"`
	EndsIn   *string `yaml:"endsIn"`
	Price    string  `yaml:"price"`
	ImageURL *string `yaml:"imageUrl"`
	Likes    int     `yaml:"likes"`
}

// Load reads fixtures from path, or the embedded defaults when path is empty.
func Load(path string) ([]Brand, error) {
	data := defaultFixtures
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes a fixture document.
func Parse(data []byte) ([]Brand, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	return f.Brands, nil
}

// Draft converts the fixture into a create draft. A missing slug is derived
// from the name.
func (b Brand) Draft() (domain.BrandDraft, error) {
	category, err := domain.ParseBrandCategory(b.Category)
	if err != nil {
		return domain.BrandDraft{}, err
	}

	d := domain.BrandDraft{
		Name:            b.Name,
		LogoURL:         b.LogoURL,
		CoverPhotosURLs: b.CoverPhotosURLs,
		IsVerified:      b.IsVerified,
		Category:        category,
		Tag:             b.Tag,
		CanFollow:       b.CanFollow,
		BrandURLSlug:    b.BrandURLSlug,
		About:           b.About,
		ContactDetails:  domain.ContactDetails(b.ContactDetails),
		OpeningHours:    b.OpeningHours.toDomain(),
	}
	if d.BrandURLSlug == "" {
		d.BrandURLSlug = slug.Generate(b.Name)
	}
	if b.JoinedDate != "" {
		t, err := validator.ParseISODate(b.JoinedDate)
		if err != nil {
			return domain.BrandDraft{}, fmt.Errorf("joinedDate: %w", err)
		}
		d.JoinedDate = &t
	}

	for _, br := range b.Branches {
		d.Branches = append(d.Branches, domain.Branch{
			Name:         br.Name,
			Address:      br.Address,
			Distance:     br.Distance,
			ImageURL:     br.ImageURL,
			MapLink:      br.MapLink,
			OpeningHours: br.OpeningHours.toDomain(),
		})
	}
	for _, m := range b.Menus {
		menu := domain.Menu{MenuName: m.MenuName, ImageURL: m.ImageURL}
		if m.ValidUntil != "" {
			t, err := validator.ParseISODate(m.ValidUntil)
			if err != nil {
				return domain.BrandDraft{}, fmt.Errorf("menu %q validUntil: %w", m.MenuName, err)
			}
			menu.ValidUntil = &t
		}
		d.Menus = append(d.Menus, menu)
	}
	for _, p := range b.PopularDeals {
		d.PopularDeals = append(d.PopularDeals, domain.PopularDeal{
			DealName: p.DealName,
			EndsIn:   p.EndsIn,
			Price:    p.Price,
			ImageURL: p.ImageURL,
			Likes:    p.Likes,
		})
	}
	return d, nil
}

func (h *OpeningHours) toDomain() *domain.OpeningHours {
	if h == nil {
		return nil
	}
	out := &domain.OpeningHours{
		IsSameAllDays: h.IsSameAllDays,
		OpeningTime:   h.OpeningTime,
		ClosingTime:   h.ClosingTime,
	}
	for _, d := range h.WeeklyHours {
		out.WeeklyHours = append(out.WeeklyHours, domain.DayHours{
			Weekday:     domain.Weekday(d.Weekday),
			IsClosed:    d.IsClosed,
			OpeningTime: d.OpeningTime,
			ClosingTime: d.ClosingTime,
		})
	}
	return out
}

// Store is the write surface the seeder needs; *service.BrandService satisfies it.
type Store interface {
	Create(ctx context.Context, draft domain.BrandDraft) (*domain.Brand, error)
	Update(ctx context.Context, id string, patch domain.BrandPatch) (*domain.Brand, error)
}

// Result summarizes a seeding run.
type Result struct {
	Created int
	Skipped int
	Elapsed time.Duration
}

// Run creates every fixture. Fixtures whose slug is already taken are skipped,
// so running twice is harmless. Any other failure stops the run.
func Run(ctx context.Context, store Store, fixtures []Brand, logger *slog.Logger) (Result, error) {
	start := time.Now()
	var res Result

	for _, f := range fixtures {
		draft, err := f.Draft()
		if err != nil {
			return res, fmt.Errorf("seed brand %q: %w", f.Name, err)
		}

		brand, err := store.Create(ctx, draft)
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			logger.InfoContext(ctx, "seed brand already present, skipping", slog.String("slug", draft.BrandURLSlug))
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed brand %q: %w", f.Name, err)
		}

		// New brands start with no followers; fixtures may carry a count.
		if f.FollowerCount > 0 {
			count := f.FollowerCount
			if _, err := store.Update(ctx, brand.ID, domain.BrandPatch{FollowerCount: &count}); err != nil {
				return res, fmt.Errorf("seed follower count for %q: %w", f.Name, err)
			}
		}
		res.Created++
	}

	res.Elapsed = time.Since(start)
	logger.InfoContext(ctx, "seeded brands",
		slog.Int("created", res.Created),
		slog.Int("skipped", res.Skipped),
		slog.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}
