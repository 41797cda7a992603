// Package cart implements the customer-facing cart operations.
package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout/internal/domain"
	"github.com/nikolayk812/checkout/internal/metrics"
	"github.com/nikolayk812/checkout/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

type Service struct {
	carts    port.CartRepository
	products port.ProductRepository
	cache    port.CartCache
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewService(
	carts port.CartRepository,
	products port.ProductRepository,
	cache port.CartCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		carts:    carts,
		products: products,
		cache:    cache,
		metrics:  m,
		logger:   logger,
	}
}

// View is a priced snapshot of a user's cart.
type View struct {
	OwnerID string
	Items   []domain.PricedItem
	Total   domain.Money
}

// AddToCart verifies the product exists and appends a cart line.
//
// Stock is deliberately not checked here: the cart is a wishlist, and the
// only availability check happens at checkout when payment is imminent.
func (s *Service) AddToCart(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32, country string) (domain.Product, error) {
	var p domain.Product

	if quantity <= 0 {
		return p, fmt.Errorf("quantity must be positive")
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return p, fmt.Errorf("products.GetProduct: %w", err)
	}

	item := domain.CartItem{
		ProductID: productID,
		Quantity:  quantity,
		Country:   country,
	}
	if err := s.carts.AddItem(ctx, ownerID, item); err != nil {
		return p, fmt.Errorf("carts.AddItem: %w", err)
	}

	s.cache.IncrementCount(ctx, ownerID)
	s.metrics.CartAdditions.WithLabelValues(country).Inc()

	s.logger.Info("added product to cart",
		zap.String("owner_id", ownerID),
		zap.String("product_id", productID.String()),
		zap.String("product_name", product.Name),
		zap.Int32("quantity", quantity),
		zap.String("country", country))

	return product, nil
}

func (s *Service) GetCart(ctx context.Context, ownerID string) (View, error) {
	items, err := s.carts.GetPricedItems(ctx, ownerID)
	if err != nil {
		return View{}, fmt.Errorf("carts.GetPricedItems: %w", err)
	}

	total := domain.Money{Amount: decimal.Zero, Currency: currency.USD}
	for _, item := range items {
		total = total.AddAmount(item.Subtotal())
	}

	return View{
		OwnerID: ownerID,
		Items:   items,
		Total:   total,
	}, nil
}

func (s *Service) RemoveItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	found, err := s.carts.DeleteItem(ctx, ownerID, productID)
	if err != nil {
		return false, fmt.Errorf("carts.DeleteItem: %w", err)
	}

	if found {
		s.cache.Invalidate(ctx, ownerID)
	}

	return found, nil
}
