package checkout

import (
	"math/rand"

	"github.com/nikolayk812/checkout/internal/domain"
)

// EscalationPolicy decides the fulfillment outcome of an order whose
// warehouse reservations partially or fully failed. It is evaluated once,
// after the order has committed, and only emits signals: it never reverses
// the order, restores stock or refunds the payment.
type EscalationPolicy struct {
	// CancelProbability models the share of delayed orders that customers
	// eventually abandon. A business tunable, not a physical constant.
	CancelProbability float64

	randFloat func() float64
}

func NewEscalationPolicy(cancelProbability float64) EscalationPolicy {
	return EscalationPolicy{
		CancelProbability: cancelProbability,
		randFloat:         rand.Float64,
	}
}

func (p EscalationPolicy) Evaluate(reservationFailures int) []domain.FulfillmentSignal {
	if reservationFailures <= 0 {
		return nil
	}

	signals := []domain.FulfillmentSignal{domain.SignalDelayedFulfillment}

	if p.randFloat() < p.CancelProbability {
		signals = append(signals, domain.SignalCancelledOutOfStock)
	}

	return signals
}
