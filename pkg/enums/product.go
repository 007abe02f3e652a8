package enums

import "fmt"

// ProductStatus models product availability as a tagged state rather than a
// boolean so new states can be added without a schema break.
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

var validProductStatuses = []ProductStatus{
	ProductStatusActive,
	ProductStatusInactive,
	ProductStatusDiscontinued,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Purchasable reports whether products in this state may be added to carts
// or checked out.
func (s ProductStatus) Purchasable() bool {
	return s == ProductStatusActive
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}

// ProductCategory represents the canonical storefront categories.
type ProductCategory string

const (
	ProductCategoryElectronics ProductCategory = "electronics"
	ProductCategoryFashion     ProductCategory = "fashion"
	ProductCategoryHomeGarden  ProductCategory = "home_garden"
	ProductCategorySports      ProductCategory = "sports_outdoors"
	ProductCategoryBooks       ProductCategory = "books"
	ProductCategoryBeauty      ProductCategory = "health_beauty"
	ProductCategoryToys        ProductCategory = "toys_games"
	ProductCategoryAutomotive  ProductCategory = "automotive"
	ProductCategoryGroceries   ProductCategory = "groceries"
	ProductCategoryOther       ProductCategory = "other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryElectronics,
	ProductCategoryFashion,
	ProductCategoryHomeGarden,
	ProductCategorySports,
	ProductCategoryBooks,
	ProductCategoryBeauty,
	ProductCategoryToys,
	ProductCategoryAutomotive,
	ProductCategoryGroceries,
	ProductCategoryOther,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
