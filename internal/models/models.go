package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Category groups products by slug. Slugs are derived from the name at
// creation time and are referenced by products without a foreign key.
type Category struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug"`
}

// Product is a sellable piece. Products are created and deleted by admin
// actions and are otherwise immutable; there is no edit operation.
type Product struct {
	ID              string         `db:"id" json:"id"`
	Name            string         `db:"name" json:"name"`
	Category        string         `db:"category" json:"category"`
	Price           int64          `db:"price" json:"price"`
	Description     string         `db:"description" json:"description"`
	Images          pq.StringArray `db:"images" json:"images"`
	Details         pq.StringArray `db:"details" json:"details"`
	RealizationTime string         `db:"realization_time" json:"realizationTime"`
	WaitingTime     string         `db:"waiting_time" json:"waitingTime"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// CartItem is a product plus a quantity. Quantity is always >= 1.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// OrderItems is the snapshot of a cart at submission time, stored as JSONB.
type OrderItems []CartItem

func (oi OrderItems) Value() (driver.Value, error) {
	return json.Marshal(oi)
}

func (oi *OrderItems) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, oi)
	case string:
		return json.Unmarshal([]byte(v), oi)
	case nil:
		*oi = nil
		return nil
	default:
		return fmt.Errorf("unsupported type for OrderItems: %T", src)
	}
}

// Order statuses. Any status may move to any other; there is no transition
// machine on purpose.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is an immutable snapshot of a submitted cart. Total is fixed at
// creation and never recomputed, even if product prices change later.
type Order struct {
	ID           string     `db:"id" json:"id"`
	CustomerName string     `db:"customer_name" json:"customerName"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	Address      string     `db:"address" json:"address"`
	Items        OrderItems `db:"items" json:"items"`
	Total        int64      `db:"total" json:"total"`
	Status       string     `db:"status" json:"status"`
	Date         time.Time  `db:"date" json:"date"`
	Notes        string     `db:"notes" json:"notes,omitempty"`
}
