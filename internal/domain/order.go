package domain

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID            uuid.UUID
	OwnerID       string
	TotalAmount   Money
	Country       string
	PaymentMethod string
	Status        OrderStatus
	TransactionID string
	Items         []OrderItem

	CreatedAt time.Time
}

type OrderItem struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   Money
	Quantity    int32

	CreatedAt time.Time
}
