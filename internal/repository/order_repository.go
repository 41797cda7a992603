package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout/internal/domain"
	"github.com/nikolayk812/checkout/internal/port"
	"github.com/samber/lo"
)

type orderRepository struct {
	db DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{db: pool}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Items) == 0 {
		return uuid.Nil, errors.New("no items in order")
	}

	orderID, err := withTx(ctx, r.db, func(tx pgx.Tx) (uuid.UUID, error) {
		var orderID uuid.UUID

		err := tx.QueryRow(ctx,
			`INSERT INTO orders (owner_id, total_amount, currency, country, payment_method, status, transaction_id)
			 VALUES ($1, $2::numeric, $3, $4, $5, $6, $7)
			 RETURNING id`,
			order.OwnerID,
			order.TotalAmount.Amount.String(),
			order.TotalAmount.Currency.String(),
			order.Country,
			order.PaymentMethod,
			string(order.Status),
			order.TransactionID,
		).Scan(&orderID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("tx.QueryRow: %w", err)
		}

		// TODO: batch with pgx.Batch once carts grow beyond a handful of lines
		for _, item := range order.Items {
			_, err := tx.Exec(ctx,
				`INSERT INTO order_items (order_id, product_id, product_name, price_amount, price_currency, quantity)
				 VALUES ($1, $2, $3, $4::numeric, $5, $6)`,
				orderID,
				item.ProductID,
				item.ProductName,
				item.UnitPrice.Amount.String(),
				item.UnitPrice.Currency.String(),
				item.Quantity)
			if err != nil {
				return uuid.Nil, fmt.Errorf("tx.Exec: %w", err)
			}
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	row := r.db.QueryRow(ctx,
		`SELECT id, owner_id, total_amount::text, currency, country, payment_method, status, transaction_id, created_at
		 FROM orders
		 WHERE id = $1`, orderID)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, fmt.Errorf("scanOrder: %w", domain.ErrNotFound)
		}
		return o, fmt.Errorf("scanOrder: %w", err)
	}

	items, err := r.getOrderItems(ctx, orderID)
	if err != nil {
		return o, fmt.Errorf("r.getOrderItems: %w", err)
	}
	o.Items = items

	return o, nil
}

func (r *orderRepository) GetUserOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT o.id, o.owner_id, o.total_amount::text, o.currency, o.country, o.payment_method, o.status, o.transaction_id, o.created_at,
		        i.product_id, i.product_name, i.price_amount::text, i.price_currency, i.quantity, i.created_at
		 FROM orders o
		 JOIN order_items i ON i.order_id = o.id
		 WHERE o.owner_id = $1`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	// Group rows by order ID, collecting items per order
	orderMap := make(map[uuid.UUID]domain.Order)
	for rows.Next() {
		var (
			o           domain.Order
			item        domain.OrderItem
			totalAmount string
			totalCurr   string
			status      string
			itemAmount  string
			itemCurr    string
		)

		err := rows.Scan(
			&o.ID, &o.OwnerID, &totalAmount, &totalCurr, &o.Country, &o.PaymentMethod, &status, &o.TransactionID, &o.CreatedAt,
			&item.ProductID, &item.ProductName, &itemAmount, &itemCurr, &item.Quantity, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		if _, exists := orderMap[o.ID]; !exists {
			o.TotalAmount, err = parseMoney(totalAmount, totalCurr)
			if err != nil {
				return nil, fmt.Errorf("parseMoney: %w", err)
			}

			o.Status, err = domain.ToOrderStatus(status)
			if err != nil {
				return nil, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
			}

			orderMap[o.ID] = o
		}

		item.UnitPrice, err = parseMoney(itemAmount, itemCurr)
		if err != nil {
			return nil, fmt.Errorf("parseMoney: %w", err)
		}

		order := orderMap[o.ID]
		order.Items = append(order.Items, item)
		orderMap[o.ID] = order
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	orders := lo.Values(orderMap)
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

func (r *orderRepository) getOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT product_id, product_name, price_amount::text, price_currency, quantity, created_at
		 FROM order_items
		 WHERE order_id = $1
		 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item     domain.OrderItem
			amount   string
			currCode string
		)
		if err := rows.Scan(&item.ProductID, &item.ProductName, &amount, &currCode, &item.Quantity, &item.CreatedAt); err != nil {
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

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o           domain.Order
		totalAmount string
		totalCurr   string
		status      string
	)

	err := row.Scan(&o.ID, &o.OwnerID, &totalAmount, &totalCurr, &o.Country, &o.PaymentMethod, &status, &o.TransactionID, &o.CreatedAt)
	if err != nil {
		return o, err
	}

	o.TotalAmount, err = parseMoney(totalAmount, totalCurr)
	if err != nil {
		return o, fmt.Errorf("parseMoney: %w", err)
	}

	o.Status, err = domain.ToOrderStatus(status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	return o, nil
}
