package events

import "time"

const (
	TypeCheckoutCompleted   = "checkout.completed"
	TypeFulfillmentDelayed  = "fulfillment.delayed"
	TypeOrderCancelledStock = "order.cancelled_out_of_stock"
)

type CheckoutCompleted struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	UserID        string    `json:"user_id"`
	TotalAmount   string    `json:"total_amount"`
	Currency      string    `json:"currency"`
	Country       string    `json:"country"`
	TransactionID string    `json:"transaction_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type FulfillmentDelayed struct {
	Type               string    `json:"type"`
	OrderID            string    `json:"order_id"`
	UserID             string    `json:"user_id"`
	Country            string    `json:"country"`
	FailedReservations int       `json:"failed_reservations"`
	OccurredAt         time.Time `json:"occurred_at"`
}

type OrderCancelledOutOfStock struct {
	Type               string    `json:"type"`
	OrderID            string    `json:"order_id"`
	UserID             string    `json:"user_id"`
	Country            string    `json:"country"`
	FailedReservations int       `json:"failed_reservations"`
	Reason             string    `json:"reason"`
	OccurredAt         time.Time `json:"occurred_at"`
}
