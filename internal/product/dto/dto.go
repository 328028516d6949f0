package dto

type ProductFilters struct {
	CategoryID    string
	AvailableOnly bool
	SearchQuery   string
	Page          int
	PageSize      int
}
