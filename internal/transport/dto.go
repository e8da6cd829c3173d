package transport

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductView is the live catalog data attached to a cart line at read time.
// Orders never use it; their line items carry frozen copies instead.
type ProductView struct {
	ID          uint            `json:"id"`
	CategoryID  uint            `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
}

type CartLineView struct {
	ID        uint         `json:"id"`
	ProductID uint         `json:"product_id"`
	Quantity  uint         `json:"quantity"`
	Active    bool         `json:"active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Product   *ProductView `json:"product,omitempty"`
}

type MonthlyRevenue struct {
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}
