package models

import "time"

// Event types
const (
	EventTypeOrderSubmitted     = "ORDER_SUBMITTED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderSubmittedEvent is published after an order has been persisted.
type OrderSubmittedEvent struct {
	BaseEvent
	OrderID      string     `json:"order_id"`
	CustomerName string     `json:"customer_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Total        int64      `json:"total"`
	Items        OrderItems `json:"items"`
}

// OrderStatusChangedEvent is published when an admin moves an order to a
// new status.
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}
