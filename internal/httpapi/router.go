// Package httpapi exposes the cart and checkout operations over HTTP.
//
// Authentication belongs to the routing layer in front of this service; the
// caller identity arrives in the X-User-ID header.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/checkout/internal/cart"
	"github.com/nikolayk812/checkout/internal/checkout"
	"github.com/nikolayk812/checkout/internal/metrics"
	"github.com/nikolayk812/checkout/internal/port"
	"go.uber.org/zap"
)

type Server struct {
	carts    *cart.Service
	checkout *checkout.Service
	products port.ProductRepository
	logger   *zap.Logger
}

func NewRouter(
	carts *cart.Service,
	checkoutSvc *checkout.Service,
	products port.ProductRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) http.Handler {
	s := &Server{
		carts:    carts,
		checkout: checkoutSvc,
		products: products,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.handleListProducts)

		r.Post("/cart", s.handleAddToCart)
		r.Get("/cart", s.handleGetCart)
		r.Delete("/cart/{productID}", s.handleRemoveItem)

		r.Post("/orders/checkout", s.handleCheckout)
		r.Get("/orders", s.handleListOrders)
	})

	return r
}
