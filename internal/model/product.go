package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	CategoryID      *string         `db:"category_id" json:"category_id"` // Nullable
	CreatedBy       string          `db:"created_by" json:"created_by"`
	Name            string          `db:"name" json:"name"`
	Description     *string         `db:"description" json:"description"`
	Price           decimal.Decimal `db:"price" json:"price"`
	ImageURL        *string         `db:"image_url" json:"image_url"`
	IsAvailable     bool            `db:"is_available" json:"is_available"`
	QtyInStock      int             `db:"qty_in_stock" json:"qty_in_stock"`
	MinStockLevel   int             `db:"min_stock_level" json:"min_stock_level"`
	MaxStockLevel   *int            `db:"max_stock_level" json:"max_stock_level"` // Nullable, no cap when unset
	LastRestockDate *time.Time      `db:"last_restock_date" json:"last_restock_date"`
	Category        *Category       `db:"-" json:"category,omitempty"` // Joined data
}

// NeedsRestock reports whether tracked stock is at or below the restock threshold.
func (p *Product) NeedsRestock() bool {
	return p.QtyInStock <= p.MinStockLevel
}

// IsInStock reports whether any units remain.
func (p *Product) IsInStock() bool {
	return p.QtyInStock > 0
}
