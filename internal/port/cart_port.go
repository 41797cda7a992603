package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)

	// GetPricedItems joins the cart against the product catalog.
	// Lines whose product no longer exists are silently dropped.
	GetPricedItems(ctx context.Context, ownerID string) ([]domain.PricedItem, error)

	AddItem(ctx context.Context, ownerID string, item domain.CartItem) error
	DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error)
	ClearCart(ctx context.Context, ownerID string) (int64, error)
}

// CartCache tracks per-user cart item counts in a shared cache.
// All methods are best-effort: a cache outage never fails a cart operation.
type CartCache interface {
	IncrementCount(ctx context.Context, ownerID string)
	Invalidate(ctx context.Context, ownerID string)
}
