package products

// ListFilters describe the filters accepted by the product listing. Every
// non-empty filter narrows the result (they combine with AND).
type ListFilters struct {
	// Search is a case-insensitive substring of the product name.
	Search string
	// Category matches case-insensitively and exactly.
	Category string
	// Barcode matches exactly.
	Barcode string
	Limit   int
}
