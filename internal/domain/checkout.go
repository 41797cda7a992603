package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutResult is what the caller gets back from a successful checkout.
type CheckoutResult struct {
	OrderID       uuid.UUID
	TotalAmount   Money
	TransactionID string
}

// InventoryStatus is the advisory answer of the warehouse system.
// A failed or malformed check is reported as Known=false and never
// blocks a checkout.
type InventoryStatus struct {
	Known     bool
	Available bool
}

// Reservation is a warehouse-side hold placed after the order is committed.
type Reservation struct {
	ReservationID string
}

type Promotion struct {
	Discount  decimal.Decimal
	PromoCode string
}

type PaymentRequest struct {
	UserID        string
	Amount        Money
	Country       string
	PaymentMethod string
}

type PaymentResult struct {
	TransactionID string
}

// FulfillmentSignal is a terminal business outcome for an order whose
// warehouse reservations did not fully succeed. It never reverses the
// order or the payment.
type FulfillmentSignal string

const (
	SignalDelayedFulfillment  FulfillmentSignal = "delayed_fulfillment"
	SignalCancelledOutOfStock FulfillmentSignal = "cancelled_out_of_stock"
)
