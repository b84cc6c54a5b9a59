package http

import (
	"time"

	"github.com/utafrali/brandcatalog/internal/domain"
	"github.com/utafrali/brandcatalog/pkg/validator"
)

// --- Request DTOs ---

// ContactDetailsRequest is the contact block of a brand request.
type ContactDetailsRequest struct {
	PhoneNumber *string `json:"phoneNumber"`
	Website     *string `json:"website" validate:"omitnil,url"`
	Whatsapp    *string `json:"whatsapp"`
	Email       *string `json:"email"`
}

// DayHoursRequest is one weekday of a weekly schedule.
type DayHoursRequest struct {
	Weekday     string  `json:"weekday" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	IsClosed    bool    `json:"isClosed"`
	OpeningTime *string `json:"openingTime"`
	ClosingTime *string `json:"closingTime"`
}

// OpeningHoursRequest is either one daily window or a weekly list.
type OpeningHoursRequest struct {
	IsSameAllDays bool              `json:"isSameAllDays"`
	OpeningTime   *string           `json:"openingTime"`
	ClosingTime   *string           `json:"closingTime"`
	WeeklyHours   []DayHoursRequest `json:"weeklyHours" validate:"omitempty,dive"`
}

// BranchRequest describes a branch to create with its brand.
type BranchRequest struct {
	Name         string               `json:"name" validate:"required"`
	Address      string               `json:"address" validate:"required"`
	Distance     *string              `json:"distance"`
	ImageURL     *string              `json:"imageUrl" validate:"omitnil,url"`
	MapLink      *string              `json:"mapLink" validate:"omitnil,url"`
	OpeningHours *OpeningHoursRequest `json:"openingHours"`
}

// MenuRequest describes a menu to create with its brand.
type MenuRequest struct {
	MenuName   string  `json:"menuName" validate:"required"`
	ValidUntil *string `json:"validUntil" validate:"omitnil,isodate"`
	ImageURL   *string `json:"imageUrl" validate:"omitnil,url"`
}

// PopularDealRequest describes a deal to create with its brand.
type PopularDealRequest struct {
	DealName string  `json:"dealName" validate:"required"`
	EndsIn   *string `json:"endsIn"`
	Price    string  `json:"price" validate:"required"`
	ImageURL *string `json:"imageUrl" validate:"omitnil,url"`
	Likes    *int    `json:"likes" validate:"omitnil,gte=0"`
}

// CreateBrandRequest is the JSON request body for creating a brand.
type CreateBrandRequest struct {
	Name            string                 `json:"name" validate:"required"`
	LogoURL         string                 `json:"logoUrl" validate:"required,url"`
	CoverPhotosURLs []string               `json:"coverPhotosUrls" validate:"required,dive,url"`
	IsVerified      *bool                  `json:"isVerified"`
	Category        string                 `json:"category" validate:"required,oneof=RESTAURANT CAFE BAKERY GROCERY RETAIL FASHION ELECTRONICS BEAUTY HEALTH ENTERTAINMENT TRAVEL SERVICES OTHER"`
	Tag             *string                `json:"tag"`
	CanFollow       *bool                  `json:"canFollow"`
	BrandURLSlug    string                 `json:"brandUrlSlug" validate:"required,slug"`
	About           string                 `json:"about" validate:"required"`
	JoinedDate      *string                `json:"joinedDate" validate:"omitnil,isodate"`
	ContactDetails  *ContactDetailsRequest `json:"contactDetails" validate:"required"`
	OpeningHours    *OpeningHoursRequest   `json:"openingHours"`
	Branches        []BranchRequest        `json:"branches" validate:"omitempty,dive"`
	Menus           []MenuRequest          `json:"menus" validate:"omitempty,dive"`
	PopularDeals    []PopularDealRequest   `json:"popularDeals" validate:"omitempty,dive"`
}

// UpdateBrandRequest is the JSON request body for updating a brand. Every
// field is optional. Opening hours, menus and deals are validated but not
// applied; branches only set the branch count.
type UpdateBrandRequest struct {
	Name            *string                `json:"name"`
	LogoURL         *string                `json:"logoUrl" validate:"omitnil,url"`
	CoverPhotosURLs []string               `json:"coverPhotosUrls" validate:"omitempty,dive,url"`
	IsVerified      *bool                  `json:"isVerified"`
	Category        *string                `json:"category" validate:"omitnil,oneof=RESTAURANT CAFE BAKERY GROCERY RETAIL FASHION ELECTRONICS BEAUTY HEALTH ENTERTAINMENT TRAVEL SERVICES OTHER"`
	Tag             *string                `json:"tag"`
	CanFollow       *bool                  `json:"canFollow"`
	BrandURLSlug    *string                `json:"brandUrlSlug" validate:"omitnil,slug"`
	About           *string                `json:"about"`
	JoinedDate      *string                `json:"joinedDate" validate:"omitnil,isodate"`
	ContactDetails  *ContactDetailsRequest `json:"contactDetails"`
	OpeningHours    *OpeningHoursRequest   `json:"openingHours"`
	Branches        []BranchRequest        `json:"branches" validate:"omitempty,dive"`
	Menus           []MenuRequest          `json:"menus" validate:"omitempty,dive"`
	PopularDeals    []PopularDealRequest   `json:"popularDeals" validate:"omitempty,dive"`
	FollowerCount   *int                   `json:"followerCount" validate:"omitnil,gte=0"`
	BranchCount     *int                   `json:"branchCount" validate:"omitnil,gte=0"`
}

// --- Response DTOs ---

// FollowResponse is returned by the follow and unfollow endpoints.
type FollowResponse struct {
	BrandID       string `json:"brandId"`
	FollowerCount int    `json:"followerCount"`
}

// --- Conversions ---

// Draft converts the request into a create draft. Dates have already been
// checked by validation.
func (req *CreateBrandRequest) Draft() domain.BrandDraft {
	d := domain.BrandDraft{
		Name:            req.Name,
		LogoURL:         req.LogoURL,
		CoverPhotosURLs: req.CoverPhotosURLs,
		IsVerified:      req.IsVerified,
		Category:        domain.BrandCategory(req.Category),
		Tag:             req.Tag,
		CanFollow:       req.CanFollow,
		BrandURLSlug:    req.BrandURLSlug,
		About:           req.About,
		JoinedDate:      parseDate(req.JoinedDate),
		OpeningHours:    req.OpeningHours.toDomain(),
	}
	if req.ContactDetails != nil {
		d.ContactDetails = req.ContactDetails.toDomain()
	}
	for _, br := range req.Branches {
		d.Branches = append(d.Branches, br.toDomain())
	}
	for _, m := range req.Menus {
		d.Menus = append(d.Menus, domain.Menu{
			MenuName:   m.MenuName,
			ValidUntil: parseDate(m.ValidUntil),
			ImageURL:   m.ImageURL,
		})
	}
	for _, p := range req.PopularDeals {
		deal := domain.PopularDeal{DealName: p.DealName, EndsIn: p.EndsIn, Price: p.Price, ImageURL: p.ImageURL}
		if p.Likes != nil {
			deal.Likes = *p.Likes
		}
		d.PopularDeals = append(d.PopularDeals, deal)
	}
	return d
}

// Patch converts the request into an update patch.
func (req *UpdateBrandRequest) Patch() domain.BrandPatch {
	p := domain.BrandPatch{
		Name:            req.Name,
		LogoURL:         req.LogoURL,
		CoverPhotosURLs: req.CoverPhotosURLs,
		IsVerified:      req.IsVerified,
		Tag:             req.Tag,
		CanFollow:       req.CanFollow,
		BrandURLSlug:    req.BrandURLSlug,
		About:           req.About,
		JoinedDate:      parseDate(req.JoinedDate),
		FollowerCount:   req.FollowerCount,
		BranchCount:     req.BranchCount,
	}
	if req.Category != nil {
		c := domain.BrandCategory(*req.Category)
		p.Category = &c
	}
	if req.ContactDetails != nil {
		cd := req.ContactDetails.toDomain()
		p.ContactDetails = &cd
	}
	if req.Branches != nil {
		p.Branches = make([]domain.Branch, 0, len(req.Branches))
		for _, br := range req.Branches {
			p.Branches = append(p.Branches, br.toDomain())
		}
	}
	return p
}

func (c *ContactDetailsRequest) toDomain() domain.ContactDetails {
	return domain.ContactDetails{
		PhoneNumber: c.PhoneNumber,
		Website:     c.Website,
		Whatsapp:    c.Whatsapp,
		Email:       c.Email,
	}
}

func (h *OpeningHoursRequest) toDomain() *domain.OpeningHours {
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

func (br *BranchRequest) toDomain() domain.Branch {
	return domain.Branch{
		Name:         br.Name,
		Address:      br.Address,
		Distance:     br.Distance,
		ImageURL:     br.ImageURL,
		MapLink:      br.MapLink,
		OpeningHours: br.OpeningHours.toDomain(),
	}
}

func parseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := validator.ParseISODate(*s)
	if err != nil {
		return nil
	}
	return &t
}
