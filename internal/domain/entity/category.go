package entity

import "strings"

// Category is the fixed spend category enumeration shared by line items
// and receipts.
type Category string

const (
	CategoryTransportation Category = "transportation"
	CategoryAccommodation  Category = "accommodation"
	CategoryMeals          Category = "meals"
	CategoryEntertainment  Category = "entertainment"
	CategoryCommunication  Category = "communication"
	CategoryOfficeSupplies Category = "office_supplies"
	CategoryTraining       Category = "training"
	CategoryOther          Category = "other"
)

// categoryAliases maps raw category spellings found on receipts and in
// line item catalogs to the canonical enumeration.
var categoryAliases = map[string]Category{
	"transport":       CategoryTransportation,
	"transportation":  CategoryTransportation,
	"accommodation":   CategoryAccommodation,
	"meal":            CategoryMeals,
	"meals":           CategoryMeals,
	"entertainment":   CategoryEntertainment,
	"communication":   CategoryCommunication,
	"office_supplies": CategoryOfficeSupplies,
	"officesupplies":  CategoryOfficeSupplies,
	"office supplies": CategoryOfficeSupplies,
	"training":        CategoryTraining,
	"other":           CategoryOther,
	"allowance":       CategoryOther,
	"general":         CategoryOther,
}

// NormalizeCategory resolves a raw category spelling to the canonical
// enumeration. Unknown spellings resolve to CategoryOther.
func NormalizeCategory(raw string) Category {
	key := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	return CategoryOther
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}
