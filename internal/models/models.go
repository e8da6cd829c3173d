package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"        json:"id"`
	Token     string `gorm:"unique;not null"   json:"token"`
	AccountID uint   `gorm:"index;not null"    json:"account_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `gorm:"not null"          json:"expires_at"`
	Revoked   bool   `gorm:"default:false"     json:"revoked"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null"                 json:"name"`
	Description string `json:"description"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  uint            `gorm:"index"                    json:"category_id"`
	Name        string          `gorm:"not null"                 json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	Count       uint            `json:"count"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CartLine is one product+quantity entry in an account's basket. The unique
// index on (account_id, product_id) backs the merge-add upsert: repeated adds
// of the same product increment quantity instead of creating a second row.
type CartLine struct {
	ID        uint      `gorm:"primaryKey"                               json:"id"`
	AccountID uint      `gorm:"uniqueIndex:idx_account_product;not null" json:"account_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_account_product;not null" json:"product_id"`
	Quantity  uint      `gorm:"default:1;check:quantity>0"               json:"quantity"`
	Active    bool      `gorm:"default:true"                             json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}

// Order is the immutable result of a checkout. TotalPrice is computed once at
// placement and never re-derived from the live catalog.
type Order struct {
	ID         uint            `gorm:"primaryKey"                  json:"id"`
	AccountID  uint            `gorm:"index;not null"              json:"account_id"`
	Status     OrderStatus     `gorm:"not null"                    json:"status"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Items      []OrderLineItem `gorm:"foreignKey:OrderID"          json:"items,omitempty"`
}

// OrderLineItem freezes the catalog data of one ordered product. ProductID is
// kept for reference only; there is no foreign key into products, so deleting
// or repricing a product never touches historical orders.
type OrderLineItem struct {
	ID           uint            `gorm:"primaryKey"                  json:"id"`
	OrderID      uint            `gorm:"index;not null"              json:"order_id"`
	ProductID    uint            `gorm:"not null"                    json:"product_id"`
	ProductName  string          `gorm:"not null"                    json:"product_name"`
	ProductPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"product_price"`
	Image        string          `json:"image"`
	Quantity     uint            `gorm:"not null"                    json:"quantity"`
}
