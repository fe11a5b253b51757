package domain

import "github.com/shopspring/decimal"

const (
	OrderStatusNew       = "new"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is one of the three known states.
// Transitions are unrestricted; only the vocabulary is enforced.
func ValidOrderStatus(s string) bool {
	return s == OrderStatusNew || s == OrderStatusConfirmed || s == OrderStatusCancelled
}

type Customer struct {
	Name    string `db:"customer_name" json:"name"`
	Phone   string `db:"customer_phone" json:"phone"`
	Address string `db:"customer_address" json:"address,omitempty"`
}

// OrderItem is one order line. Price is snapshotted at creation time;
// Product is populated live from the catalog on reads and is nil when the
// referenced product no longer exists.
type OrderItem struct {
	ProductID string          `db:"product_id" json:"productId"`
	Quantity  int             `db:"qty" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Product   *OrderProduct   `db:"-" json:"product,omitempty"`
}

// OrderProduct is the catalog projection embedded in populated order items.
type OrderProduct struct {
	Name   string          `json:"name"`
	Slug   string          `json:"slug"`
	Price  decimal.Decimal `json:"price"`
	Images []string        `json:"images"`
}

type Order struct {
	ID          string          `db:"id" json:"id"`
	Items       []OrderItem     `db:"-" json:"items"`
	Customer    Customer        `db:"customer" json:"customer"`
	Note        string          `db:"note" json:"note,omitempty"`
	Status      string          `db:"status" json:"status"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
	UpdatedAt   string          `db:"updated_at" json:"updatedAt,omitempty"`
}
