// Package checkout drives the order checkout saga.
//
// The saga favors completing the sale over strict consistency: warehouse
// availability is checked before payment but never blocks it, and inventory
// is reserved only after the order has committed locally. Payment is the
// single blocking external call; everything after it must run to completion.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout/internal/domain"
	"github.com/nikolayk812/checkout/internal/events"
	"github.com/nikolayk812/checkout/internal/metrics"
	"github.com/nikolayk812/checkout/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// fanOutLimit bounds concurrent per-item warehouse calls for one checkout.
const fanOutLimit = 4

type Service struct {
	carts   port.CartRepository
	store   port.CheckoutStore
	orders  port.OrderRepository
	gateway port.Gateway
	events  port.EventPublisher
	cache   port.CartCache
	metrics *metrics.Metrics
	logger  *zap.Logger
	policy  EscalationPolicy
}

func NewService(
	carts port.CartRepository,
	store port.CheckoutStore,
	orders port.OrderRepository,
	gateway port.Gateway,
	eventBus port.EventPublisher,
	cache port.CartCache,
	m *metrics.Metrics,
	logger *zap.Logger,
	policy EscalationPolicy,
) *Service {
	return &Service{
		carts:   carts,
		store:   store,
		orders:  orders,
		gateway: gateway,
		events:  eventBus,
		cache:   cache,
		metrics: m,
		logger:  logger,
		policy:  policy,
	}
}

// ProcessCheckout runs the whole saga for one user's cart.
//
// It fails only on an empty cart or a payment failure; every other external
// failure degrades into a successful checkout with a weaker fulfillment
// guarantee. No database connection is held across external calls: the only
// transaction is the order commit inside store.CreateOrder.
func (s *Service) ProcessCheckout(ctx context.Context, userID, paymentMethod, country string) (domain.CheckoutResult, error) {
	var res domain.CheckoutResult

	items, err := s.carts.GetPricedItems(ctx, userID)
	if err != nil {
		return res, fmt.Errorf("carts.GetPricedItems: %w", err)
	}
	if len(items) == 0 {
		return res, domain.ErrEmptyCart
	}

	total := s.priceItems(ctx, items, country)

	if promo := s.gateway.CheckPromotions(ctx, userID, country, total); promo != nil && promo.Discount.IsPositive() {
		total = total.SubAmount(promo.Discount)
		s.logger.Info("applied promotion discount",
			zap.String("user_id", userID),
			zap.String("discount", promo.Discount.String()),
			zap.String("promo_code", promo.PromoCode),
			zap.String("country", country))
	}

	// The caller disconnected before any money moved: stop cleanly.
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("checkout cancelled: %w", err)
	}

	payment, err := s.chargePayment(ctx, userID, paymentMethod, country, total)
	if err != nil {
		s.metrics.Checkouts.WithLabelValues(country, paymentMethod, "failed").Inc()
		s.logger.Error("payment service error",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("amount", total.Amount.String()),
			zap.String("payment_method", paymentMethod),
			zap.String("country", country))
		return res, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}

	// Money has moved. From here on the saga must reach the order commit
	// even if the inbound request is cancelled, so a charged customer is
	// never left without an order.
	ctx = context.WithoutCancel(ctx)

	order := domain.Order{
		OwnerID:       userID,
		TotalAmount:   total,
		Country:       country,
		PaymentMethod: paymentMethod,
		Status:        domain.OrderStatusCompleted,
		TransactionID: payment.TransactionID,
	}

	orderID, err := s.store.CreateOrder(ctx, order, items)
	if err != nil {
		// Payment is captured but the order did not commit. There is no
		// automatic refund; the charge surfaces through reconciliation.
		s.metrics.Checkouts.WithLabelValues(country, paymentMethod, "commit_failed").Inc()
		s.logger.Error("failed to create order after payment",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("transaction_id", payment.TransactionID),
			zap.String("amount", total.Amount.String()),
			zap.String("country", country))
		return res, fmt.Errorf("store.CreateOrder: %w", err)
	}

	s.cache.Invalidate(ctx, userID)

	failures := s.reserveItems(ctx, orderID, items, country)
	s.escalate(ctx, orderID, userID, country, failures)

	go s.gateway.UpdateCRM(ctx, userID, orderID, total, country)

	s.metrics.Checkouts.WithLabelValues(country, paymentMethod, "completed").Inc()
	s.metrics.CheckoutAmount.WithLabelValues(country, paymentMethod).Observe(total.Amount.InexactFloat64())

	s.events.Publish(ctx, orderID.String(), events.CheckoutCompleted{
		Type:          events.TypeCheckoutCompleted,
		OrderID:       orderID.String(),
		UserID:        userID,
		TotalAmount:   total.Amount.String(),
		Currency:      total.Currency.String(),
		Country:       country,
		TransactionID: payment.TransactionID,
		OccurredAt:    time.Now().UTC(),
	})

	s.logger.Info("checkout completed",
		zap.String("user_id", userID),
		zap.String("order_id", orderID.String()),
		zap.String("amount", total.Amount.String()),
		zap.String("payment_method", paymentMethod),
		zap.String("country", country),
		zap.String("transaction_id", payment.TransactionID),
		zap.Int("item_count", len(items)))

	return domain.CheckoutResult{
		OrderID:       orderID,
		TotalAmount:   total,
		TransactionID: payment.TransactionID,
	}, nil
}

func (s *Service) GetUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.GetUserOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("orders.GetUserOrders: %w", err)
	}
	return orders, nil
}

// priceItems sums the cart total and runs the advisory availability checks
// concurrently across items. A negative or missing answer is logged as a
// warning and changes nothing: the total depends only on the cart snapshot.
func (s *Service) priceItems(ctx context.Context, items []domain.PricedItem, country string) domain.Money {
	unavailable := make([]bool, len(items))

	var g errgroup.Group
	g.SetLimit(fanOutLimit)
	for i, item := range items {
		g.Go(func() error {
			status := s.gateway.CheckInventory(ctx, item.ProductID, item.Quantity, country)
			unavailable[i] = status != nil && status.Known && !status.Available
			return nil
		})
	}
	_ = g.Wait()

	total := domain.Money{Amount: decimal.Zero, Currency: items[0].UnitPrice.Currency}
	for i, item := range items {
		if unavailable[i] {
			s.logger.Warn("inventory not available in preferred warehouses",
				zap.String("product_id", item.ProductID.String()),
				zap.String("product_name", item.ProductName),
				zap.String("country", country))
		}
		total = total.AddAmount(item.Subtotal())
	}

	return total
}

func (s *Service) chargePayment(ctx context.Context, userID, paymentMethod, country string, total domain.Money) (domain.PaymentResult, error) {
	req := domain.PaymentRequest{
		UserID:        userID,
		Amount:        total,
		Country:       country,
		PaymentMethod: paymentMethod,
	}

	start := time.Now()
	payment, err := s.gateway.ProcessPayment(ctx, req)
	if err != nil {
		return domain.PaymentResult{}, err
	}
	s.metrics.PaymentDuration.WithLabelValues(country, paymentMethod).Observe(time.Since(start).Seconds())

	return payment, nil
}

// reserveItems places warehouse holds for a committed order and returns the
// number of items whose reservation failed. It runs strictly after the local
// commit: no failure here can reach back into the sale.
func (s *Service) reserveItems(ctx context.Context, orderID uuid.UUID, items []domain.PricedItem, country string) int {
	reservations := make([]*domain.Reservation, len(items))

	var g errgroup.Group
	g.SetLimit(fanOutLimit)
	for i, item := range items {
		g.Go(func() error {
			reservations[i] = s.gateway.ReserveInventory(ctx, item.ProductID, item.Quantity, country, orderID)
			return nil
		})
	}
	_ = g.Wait()

	var failures int
	for i, item := range items {
		if r := reservations[i]; r != nil {
			s.logger.Info("reserved inventory",
				zap.String("order_id", orderID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Int32("quantity", item.Quantity),
				zap.String("reservation_id", r.ReservationID),
				zap.String("country", country))
			continue
		}

		failures++
		s.metrics.ReservationFailures.WithLabelValues(country).Inc()
		s.logger.Error("inventory reservation failed after payment",
			zap.String("order_id", orderID.String()),
			zap.String("product_id", item.ProductID.String()),
			zap.Int32("quantity", item.Quantity),
			zap.String("country", country))
	}

	return failures
}

func (s *Service) escalate(ctx context.Context, orderID uuid.UUID, userID, country string, failures int) {
	for _, signal := range s.policy.Evaluate(failures) {
		switch signal {
		case domain.SignalDelayedFulfillment:
			s.metrics.DelayedFulfillment.WithLabelValues(country).Inc()
			s.logger.Warn("order marked for delayed fulfillment",
				zap.String("order_id", orderID.String()),
				zap.Int("failed_reservations", failures),
				zap.String("country", country))
			s.events.Publish(ctx, orderID.String(), events.FulfillmentDelayed{
				Type:               events.TypeFulfillmentDelayed,
				OrderID:            orderID.String(),
				UserID:             userID,
				Country:            country,
				FailedReservations: failures,
				OccurredAt:         time.Now().UTC(),
			})

		case domain.SignalCancelledOutOfStock:
			s.metrics.CancelledOutOfStock.WithLabelValues(country).Inc()
			s.logger.Error("order cancelled due to inventory unavailability",
				zap.String("order_id", orderID.String()),
				zap.Int("failed_reservations", failures),
				zap.String("country", country),
				zap.String("reason", "customer_cancelled_due_to_delay"))
			s.events.Publish(ctx, orderID.String(), events.OrderCancelledOutOfStock{
				Type:               events.TypeOrderCancelledStock,
				OrderID:            orderID.String(),
				UserID:             userID,
				Country:            country,
				FailedReservations: failures,
				Reason:             "customer_cancelled_due_to_delay",
				OccurredAt:         time.Now().UTC(),
			})
		}
	}
}
