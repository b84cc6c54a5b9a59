package domain

import (
	"fmt"
	"slices"
	"time"
)

// ContactDetails holds the optional ways to reach a brand.
type ContactDetails struct {
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Website     *string `json:"website,omitempty"`
	Whatsapp    *string `json:"whatsapp,omitempty"`
	Email       *string `json:"email,omitempty"`
}

// DayHours is the schedule for a single weekday.
type DayHours struct {
	ID          string  `json:"id"`
	Weekday     Weekday `json:"weekday"`
	IsClosed    bool    `json:"isClosed"`
	OpeningTime *string `json:"openingTime,omitempty"`
	ClosingTime *string `json:"closingTime,omitempty"`
}

// OpeningHours is either one daily window (IsSameAllDays) or a per-weekday list.
type OpeningHours struct {
	ID            string     `json:"id"`
	IsSameAllDays bool       `json:"isSameAllDays"`
	OpeningTime   *string    `json:"openingTime,omitempty"`
	ClosingTime   *string    `json:"closingTime,omitempty"`
	WeeklyHours   []DayHours `json:"weeklyHours,omitempty"`
}

// Validate checks that no weekday appears twice in WeeklyHours.
func (h *OpeningHours) Validate() error {
	if h == nil {
		return nil
	}
	seen := make(map[Weekday]struct{}, len(h.WeeklyHours))
	for _, d := range h.WeeklyHours {
		if !d.Weekday.IsValid() {
			return fmt.Errorf("invalid weekday %q", d.Weekday)
		}
		if _, dup := seen[d.Weekday]; dup {
			return fmt.Errorf("weekday %s listed more than once", d.Weekday)
		}
		seen[d.Weekday] = struct{}{}
	}
	return nil
}

// Branch is a physical location of a brand.
type Branch struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Address      string        `json:"address"`
	Distance     *string       `json:"distance,omitempty"`
	ImageURL     *string       `json:"imageUrl,omitempty"`
	MapLink      *string       `json:"mapLink,omitempty"`
	OpeningHours *OpeningHours `json:"openingHours,omitempty"`
}

// Menu is a published menu of a brand.
type Menu struct {
	ID         string     `json:"id"`
	MenuName   string     `json:"menuName"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
	ImageURL   *string    `json:"imageUrl,omitempty"`
}

// PopularDeal is a promotion. Price and EndsIn are display strings.
type PopularDeal struct {
	ID       string  `json:"id"`
	DealName string  `json:"dealName"`
	EndsIn   *string `json:"endsIn,omitempty"`
	Price    string  `json:"price"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Likes    int     `json:"likes"`
}

// Brand is the catalog aggregate root. Branches, menus, deals and opening
// hours are owned by the brand and live and die with it.
type Brand struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	LogoURL         string         `json:"logoUrl"`
	CoverPhotosURLs []string       `json:"coverPhotosUrls"`
	IsVerified      bool           `json:"isVerified"`
	Category        BrandCategory  `json:"category"`
	Tag             *string        `json:"tag,omitempty"`
	CanFollow       bool           `json:"canFollow"`
	FollowerCount   int            `json:"followerCount"`
	BranchCount     int            `json:"branchCount"`
	BrandURLSlug    string         `json:"brandUrlSlug"`
	About           string         `json:"about"`
	JoinedDate      time.Time      `json:"joinedDate"`
	ContactDetails  ContactDetails `json:"contactDetails"`
	OpeningHours    *OpeningHours  `json:"openingHours,omitempty"`
	Branches        []Branch       `json:"branches"`
	Menus           []Menu         `json:"menus"`
	PopularDeals    []PopularDeal  `json:"popularDeals"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Clone returns a deep copy of b. Nil child slices come back empty.
func (b *Brand) Clone() *Brand {
	if b == nil {
		return nil
	}
	c := *b
	c.CoverPhotosURLs = cloneSlice(b.CoverPhotosURLs)
	c.Tag = clonePtr(b.Tag)
	c.ContactDetails = b.ContactDetails.Clone()
	c.OpeningHours = b.OpeningHours.Clone()
	c.Branches = CloneBranches(b.Branches)
	c.Menus = CloneMenus(b.Menus)
	c.PopularDeals = ClonePopularDeals(b.PopularDeals)
	return &c
}

// Clone returns a deep copy of d.
func (d ContactDetails) Clone() ContactDetails {
	return ContactDetails{
		PhoneNumber: clonePtr(d.PhoneNumber),
		Website:     clonePtr(d.Website),
		Whatsapp:    clonePtr(d.Whatsapp),
		Email:       clonePtr(d.Email),
	}
}

// Clone returns a deep copy of h, or nil.
func (h *OpeningHours) Clone() *OpeningHours {
	if h == nil {
		return nil
	}
	c := *h
	c.OpeningTime = clonePtr(h.OpeningTime)
	c.ClosingTime = clonePtr(h.ClosingTime)
	if h.WeeklyHours != nil {
		c.WeeklyHours = make([]DayHours, len(h.WeeklyHours))
		for i, d := range h.WeeklyHours {
			d.OpeningTime = clonePtr(d.OpeningTime)
			d.ClosingTime = clonePtr(d.ClosingTime)
			c.WeeklyHours[i] = d
		}
	}
	return &c
}

// CloneBranches deep-copies branches into a non-nil slice.
func CloneBranches(in []Branch) []Branch {
	out := make([]Branch, len(in))
	for i, br := range in {
		br.Distance = clonePtr(br.Distance)
		br.ImageURL = clonePtr(br.ImageURL)
		br.MapLink = clonePtr(br.MapLink)
		br.OpeningHours = br.OpeningHours.Clone()
		out[i] = br
	}
	return out
}

// CloneMenus deep-copies menus into a non-nil slice.
func CloneMenus(in []Menu) []Menu {
	out := make([]Menu, len(in))
	for i, m := range in {
		m.ValidUntil = clonePtr(m.ValidUntil)
		m.ImageURL = clonePtr(m.ImageURL)
		out[i] = m
	}
	return out
}

// ClonePopularDeals deep-copies deals into a non-nil slice.
func ClonePopularDeals(in []PopularDeal) []PopularDeal {
	out := make([]PopularDeal, len(in))
	for i, d := range in {
		d.EndsIn = clonePtr(d.EndsIn)
		d.ImageURL = clonePtr(d.ImageURL)
		out[i] = d
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}
