package models

import "time"

// Event types
const (
	EventTypeOrderCompleted    = "ORDER_COMPLETED"
	EventTypeCheckoutCancelled = "CHECKOUT_CANCELLED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCompletedEvent published after the commerce API confirms an order.
type OrderCompletedEvent struct {
	BaseEvent
	SessionID      string      `json:"session_id"`
	Reference      string      `json:"reference"`
	Email          string      `json:"email"`
	CustomerName   string      `json:"customer_name"`
	DeliveryMethod string      `json:"delivery_method"`
	GrandTotal     float64     `json:"grand_total"`
	Items          []OrderItem `json:"items"`
}

// CheckoutCancelledEvent published when the shopper closes the payment
// widget before completing payment.
type CheckoutCancelledEvent struct {
	BaseEvent
	SessionID  string  `json:"session_id"`
	GrandTotal float64 `json:"grand_total"`
}
