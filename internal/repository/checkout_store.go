package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout/internal/domain"
	"github.com/nikolayk812/checkout/internal/port"
	"github.com/samber/lo"
)

type checkoutStore struct {
	pool *pgxpool.Pool
}

func NewCheckoutStore(pool *pgxpool.Pool) port.CheckoutStore {
	return &checkoutStore{pool: pool}
}

// CreateOrder is the single local transaction of a checkout: order insert,
// per-item stock decrement and cart clearing commit together or not at all.
// Callers must not hold this transaction open across external calls; the
// window is kept as short as the statements themselves.
func (s *checkoutStore) CreateOrder(ctx context.Context, order domain.Order, items []domain.PricedItem) (uuid.UUID, error) {
	order.Items = lo.Map(items, func(item domain.PricedItem, _ int) domain.OrderItem {
		return domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		}
	})

	orderID, err := withTx(ctx, s.pool, func(tx pgx.Tx) (uuid.UUID, error) {
		orders := NewOrderWithTx(tx)
		products := NewProductWithTx(tx)
		carts := NewCartWithTx(tx)

		orderID, err := orders.InsertOrder(ctx, order)
		if err != nil {
			return uuid.Nil, fmt.Errorf("orders.InsertOrder: %w", err)
		}

		for _, item := range items {
			// Best effort per item: a product that vanished since the cart
			// was read skips its decrement without failing the transaction.
			if _, err := products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return uuid.Nil, fmt.Errorf("products.DecrementStock: %w", err)
			}
		}

		if _, err := carts.ClearCart(ctx, order.OwnerID); err != nil {
			return uuid.Nil, fmt.Errorf("carts.ClearCart: %w", err)
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}
