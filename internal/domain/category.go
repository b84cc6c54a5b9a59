package domain

import (
	"fmt"
	"strings"
)

// BrandCategory classifies a brand.
type BrandCategory string

// Brand category constants.
const (
	CategoryRestaurant    BrandCategory = "RESTAURANT"
	CategoryCafe          BrandCategory = "CAFE"
	CategoryBakery        BrandCategory = "BAKERY"
	CategoryGrocery       BrandCategory = "GROCERY"
	CategoryRetail        BrandCategory = "RETAIL"
	CategoryFashion       BrandCategory = "FASHION"
	CategoryElectronics   BrandCategory = "ELECTRONICS"
	CategoryBeauty        BrandCategory = "BEAUTY"
	CategoryHealth        BrandCategory = "HEALTH"
	CategoryEntertainment BrandCategory = "ENTERTAINMENT"
	CategoryTravel        BrandCategory = "TRAVEL"
	CategoryServices      BrandCategory = "SERVICES"
	CategoryOther         BrandCategory = "OTHER"
)

// ValidCategories returns every brand category in declaration order.
func ValidCategories() []BrandCategory {
	return []BrandCategory{
		CategoryRestaurant, CategoryCafe, CategoryBakery, CategoryGrocery,
		CategoryRetail, CategoryFashion, CategoryElectronics, CategoryBeauty,
		CategoryHealth, CategoryEntertainment, CategoryTravel, CategoryServices,
		CategoryOther,
	}
}

// IsValid reports whether c is one of the known categories.
func (c BrandCategory) IsValid() bool {
	for _, v := range ValidCategories() {
		if v == c {
			return true
		}
	}
	return false
}

// ParseBrandCategory accepts a category name in any letter case.
func ParseBrandCategory(s string) (BrandCategory, error) {
	c := BrandCategory(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown brand category %q", s)
	}
	return c, nil
}

// Weekday names a day in a weekly opening schedule.
type Weekday string

// Weekday constants.
const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// ValidWeekdays returns the days of the week starting on Monday.
func ValidWeekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// IsValid reports whether d is a known weekday.
func (d Weekday) IsValid() bool {
	for _, v := range ValidWeekdays() {
		if v == d {
			return true
		}
	}
	return false
}
