// Package metrics defines the Prometheus collectors for the checkout core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Checkouts            *prometheus.CounterVec
	CheckoutAmount       *prometheus.HistogramVec
	PaymentDuration      *prometheus.HistogramVec
	ExternalCallDuration *prometheus.HistogramVec
	ReservationFailures  *prometheus.CounterVec
	DelayedFulfillment   *prometheus.CounterVec
	CancelledOutOfStock  *prometheus.CounterVec
	CartAdditions        *prometheus.CounterVec

	registry *prometheus.Registry
}

func New() *Metrics {
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webstore",
		Name:      "checkouts_total",
		Help:      "Total number of checkout attempts by terminal status.",
	}, []string{"country", "payment_method", "status"})

	checkoutAmount := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "webstore",
		Name:      "checkout_amount",
		Help:      "Charged checkout amounts.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"country", "payment_method"})

	paymentDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "webstore",
		Name:      "payment_duration_seconds",
		Help:      "Duration of payment processing calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"country", "payment_method"})

	externalCallDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "webstore",
		Name:      "external_call_duration_seconds",
		Help:      "Duration of outbound service calls by operation and outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})

	reservationFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webstore",
		Name:      "inventory_reservation_failures_total",
		Help:      "Inventory reservations that failed after payment was captured.",
	}, []string{"country"})

	delayedFulfillment := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webstore",
		Name:      "orders_delayed_fulfillment_total",
		Help:      "Orders flagged for delayed fulfillment.",
	}, []string{"country"})

	cancelledOutOfStock := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webstore",
		Name:      "orders_cancelled_out_of_stock_total",
		Help:      "Delayed orders that customers abandoned.",
	}, []string{"country"})

	cartAdditions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webstore",
		Name:      "cart_additions_total",
		Help:      "Total number of cart additions.",
	}, []string{"country"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		checkouts, checkoutAmount, paymentDuration, externalCallDuration,
		reservationFailures, delayedFulfillment, cancelledOutOfStock, cartAdditions,
	)

	return &Metrics{
		Checkouts:            checkouts,
		CheckoutAmount:       checkoutAmount,
		PaymentDuration:      paymentDuration,
		ExternalCallDuration: externalCallDuration,
		ReservationFailures:  reservationFailures,
		DelayedFulfillment:   delayedFulfillment,
		CancelledOutOfStock:  cancelledOutOfStock,
		CartAdditions:        cartAdditions,
		registry:             registry,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
