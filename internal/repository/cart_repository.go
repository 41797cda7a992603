package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout/internal/domain"
	"github.com/nikolayk812/checkout/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	db DBTX
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{db: pool}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{db: tx}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	var c domain.Cart

	rows, err := r.db.Query(ctx,
		`SELECT product_id, quantity, country, created_at
		 FROM cart_items
		 WHERE owner_id = $1
		 ORDER BY created_at`, ownerID)
	if err != nil {
		return c, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Country, &item.CreatedAt); err != nil {
			return c, fmt.Errorf("rows.Scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return c, fmt.Errorf("rows.Err: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Items:   items,
	}, nil
}

// GetPricedItems resolves each cart line against the product catalog.
// The inner join drops lines whose product has vanished since it was added.
func (r *cartRepository) GetPricedItems(ctx context.Context, ownerID string) ([]domain.PricedItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT p.id, p.name, p.price_amount::text, p.price_currency, c.quantity, c.country
		 FROM cart_items c
		 JOIN products p ON p.id = c.product_id
		 WHERE c.owner_id = $1
		 ORDER BY c.created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.PricedItem
	for rows.Next() {
		var (
			item     domain.PricedItem
			amount   string
			currCode string
		)
		if err := rows.Scan(&item.ProductID, &item.ProductName, &amount, &currCode, &item.Quantity, &item.Country); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		item.UnitPrice, err = parseMoney(amount, currCode)
		if err != nil {
			return nil, fmt.Errorf("parseMoney: %w", err)
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, item domain.CartItem) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO cart_items (owner_id, product_id, quantity, country)
		 VALUES ($1, $2, $3, $4)`,
		ownerID, item.ProductID, item.Quantity, item.Country)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE owner_id = $1 AND product_id = $2`,
		ownerID, productID)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, ownerID string) (int64, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db.Exec: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

func parseMoney(amount, currCode string) (domain.Money, error) {
	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("amount[%s] is not valid: %w", amount, err)
	}

	parsedCurrency, err := currency.ParseISO(currCode)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", currCode, err)
	}

	return domain.Money{Amount: parsedAmount, Currency: parsedCurrency}, nil
}
