package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout/internal/domain"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)

	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)

	// DecrementStock reports whether a matching product row was updated.
	// The local stock column is a sales counter, not a fulfillment
	// guarantee; it may go negative and is allowed to diverge from the
	// warehouse system's own counts.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int32) (bool, error)
}
