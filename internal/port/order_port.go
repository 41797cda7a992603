package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout/internal/domain"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	GetUserOrders(ctx context.Context, ownerID string) ([]domain.Order, error)

	InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error)
}

// CheckoutStore commits the local side of a checkout as one transaction:
// the order insert, the per-item stock decrements and the cart clearing
// all land together or not at all.
type CheckoutStore interface {
	CreateOrder(ctx context.Context, order domain.Order, items []domain.PricedItem) (uuid.UUID, error)
}
