package model

import "strings"

type Category string

const (
	CategoryGeneral Category = "general"
	CategorySeating Category = "seating"
	CategoryStudy   Category = "study"
	CategorySocial  Category = "social"
	CategoryFood    Category = "food"
	CategoryOther   Category = "other"
)

var Categories = []Category{
	CategoryGeneral,
	CategorySeating,
	CategoryStudy,
	CategorySocial,
	CategoryFood,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps free-form input onto the closed set, falling back to general.
func ParseCategory(raw string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return CategoryGeneral
	}
	return c
}
