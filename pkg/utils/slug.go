package utils

import (
	"github.com/gosimple/slug"
)

// CatalogID derives a stable achievement or badge id from its display name,
// e.g. "Recycling Pro" becomes "recycling-pro".
func CatalogID(name string) string {
	return slug.Make(name)
}
