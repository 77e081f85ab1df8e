package enums

import "fmt"

// ProductStatus describes a catalog product's availability. Non-admin
// listings only surface active and preorder products.
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
	ProductStatusPreorder     ProductStatus = "preorder"
)

var validProductStatuses = []ProductStatus{
	ProductStatusActive,
	ProductStatusInactive,
	ProductStatusDiscontinued,
	ProductStatusPreorder,
}

// VisibleProductStatuses are the statuses exposed to non-admin actors.
var VisibleProductStatuses = []ProductStatus{
	ProductStatusActive,
	ProductStatusPreorder,
}

// String implements fmt.Stringer.
func (p ProductStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductStatus.
func (p ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsPubliclyVisible reports whether non-admin actors may see the product.
func (p ProductStatus) IsPubliclyVisible() bool {
	for _, candidate := range VisibleProductStatuses {
		if candidate == p {
			return true
		}
	}
	return false
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
