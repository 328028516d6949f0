package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	CreatedBy     string
	CategoryID    string
	Name          string
	Description   string
	Price         decimal.Decimal
	ImageURL      string
	MinStockLevel int
	MaxStockLevel *int
	InitialStock  int
}

// ProductPatch enumerates the only fields a catalog update may touch.
// Anything else (stock, timestamps) is rejected at the boundary instead of
// being passed through to the database.
type ProductPatch struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	ImageURL      *string
	CategoryID    *string
	IsAvailable   *bool
	MinStockLevel *int
	MaxStockLevel *int
}
