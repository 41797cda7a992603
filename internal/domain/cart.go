package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	OwnerID string
	Items   []CartItem
}

type CartItem struct {
	ProductID uuid.UUID
	Quantity  int32
	Country   string

	CreatedAt time.Time
}

// PricedItem is a cart line joined against the product catalog at read time.
// It is a snapshot: prices resolved here are the prices charged, even if the
// catalog changes while the checkout is in flight.
type PricedItem struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   Money
	Quantity    int32
	Country     string
}

func (p PricedItem) Subtotal() Money {
	return p.UnitPrice.MulInt(p.Quantity)
}
