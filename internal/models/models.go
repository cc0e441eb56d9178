package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type Order struct {
	ID         int64           `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []OrderItem     `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderItem records the product id of a product owned by the product service
// (an opaque reference, not a local foreign key) and the price the product had
// when the order was placed.
type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// ComputeTotal is the sum of price x quantity over the order's items.
// The total is derived on every read and never stored.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
