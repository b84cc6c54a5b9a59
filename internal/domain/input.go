package domain

import "time"

// BrandDraft holds the parameters for creating a brand. Ids on nested
// children are ignored; fresh ones are assigned on create.
type BrandDraft struct {
	Name            string
	LogoURL         string
	CoverPhotosURLs []string
	IsVerified      *bool
	Category        BrandCategory
	Tag             *string
	CanFollow       *bool
	BrandURLSlug    string
	About           string
	JoinedDate      *time.Time
	ContactDetails  ContactDetails
	OpeningHours    *OpeningHours
	Branches        []Branch
	Menus           []Menu
	PopularDeals    []PopularDeal
}

// Validate checks the opening-hours schedules of the brand and its branches.
func (d *BrandDraft) Validate() error {
	if err := d.OpeningHours.Validate(); err != nil {
		return err
	}
	for _, br := range d.Branches {
		if err := br.OpeningHours.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// BrandPatch holds the parameters for updating a brand. A nil field is left
// untouched. Only the length of Branches is used: it overrides BranchCount.
// Opening hours, menus and deals cannot be changed through a patch.
type BrandPatch struct {
	Name            *string
	LogoURL         *string
	CoverPhotosURLs []string
	IsVerified      *bool
	Category        *BrandCategory
	Tag             *string
	CanFollow       *bool
	BrandURLSlug    *string
	About           *string
	JoinedDate      *time.Time
	ContactDetails  *ContactDetails
	Branches        []Branch
	FollowerCount   *int
	BranchCount     *int
}

// Apply merges p into b and stamps UpdatedAt with now.
func (p *BrandPatch) Apply(b *Brand, now time.Time) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.LogoURL != nil {
		b.LogoURL = *p.LogoURL
	}
	if p.CoverPhotosURLs != nil {
		b.CoverPhotosURLs = cloneSlice(p.CoverPhotosURLs)
	}
	if p.IsVerified != nil {
		b.IsVerified = *p.IsVerified
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Tag != nil {
		b.Tag = clonePtr(p.Tag)
	}
	if p.CanFollow != nil {
		b.CanFollow = *p.CanFollow
	}
	if p.BrandURLSlug != nil {
		b.BrandURLSlug = *p.BrandURLSlug
	}
	if p.About != nil {
		b.About = *p.About
	}
	if p.JoinedDate != nil {
		b.JoinedDate = *p.JoinedDate
	}
	if p.ContactDetails != nil {
		b.ContactDetails = p.ContactDetails.Clone()
	}
	if p.FollowerCount != nil {
		b.FollowerCount = max(*p.FollowerCount, 0)
	}
	if p.BranchCount != nil {
		b.BranchCount = max(*p.BranchCount, 0)
	}
	if p.Branches != nil {
		b.BranchCount = len(p.Branches)
	}
	b.UpdatedAt = now
}

// Id prefixes for the aggregate and its children.
const (
	PrefixBrand  = "brand"
	PrefixBranch = "branch"
	PrefixMenu   = "menu"
	PrefixDeal   = "deal"
	PrefixHours  = "hours"
	PrefixDay    = "day"
)

// Materialize builds a new Brand from d with system defaults applied and a
// fresh id, from newID, on the brand and every nested child.
func (d *BrandDraft) Materialize(newID func(prefix string) string, now time.Time) *Brand {
	b := &Brand{
		ID:              newID(PrefixBrand),
		Name:            d.Name,
		LogoURL:         d.LogoURL,
		CoverPhotosURLs: cloneSlice(d.CoverPhotosURLs),
		Category:        d.Category,
		Tag:             clonePtr(d.Tag),
		CanFollow:       true,
		BrandURLSlug:    d.BrandURLSlug,
		About:           d.About,
		JoinedDate:      now,
		ContactDetails:  d.ContactDetails.Clone(),
		OpeningHours:    materializeHours(d.OpeningHours, newID),
		Branches:        CloneBranches(d.Branches),
		Menus:           CloneMenus(d.Menus),
		PopularDeals:    ClonePopularDeals(d.PopularDeals),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if d.IsVerified != nil {
		b.IsVerified = *d.IsVerified
	}
	if d.CanFollow != nil {
		b.CanFollow = *d.CanFollow
	}
	if d.JoinedDate != nil {
		b.JoinedDate = *d.JoinedDate
	}

	for i := range b.Branches {
		b.Branches[i].ID = newID(PrefixBranch)
		b.Branches[i].OpeningHours = materializeHours(b.Branches[i].OpeningHours, newID)
	}
	for i := range b.Menus {
		b.Menus[i].ID = newID(PrefixMenu)
	}
	for i := range b.PopularDeals {
		b.PopularDeals[i].ID = newID(PrefixDeal)
		b.PopularDeals[i].Likes = max(b.PopularDeals[i].Likes, 0)
	}
	b.BranchCount = len(b.Branches)
	return b
}

func materializeHours(h *OpeningHours, newID func(string) string) *OpeningHours {
	c := h.Clone()
	if c == nil {
		return nil
	}
	c.ID = newID(PrefixHours)
	for i := range c.WeeklyHours {
		c.WeeklyHours[i].ID = newID(PrefixDay)
	}
	return c
}
