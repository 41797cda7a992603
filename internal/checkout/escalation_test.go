package checkout

import (
	"testing"

	"github.com/nikolayk812/checkout/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEscalationPolicy_Evaluate(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		draw     float64
		want     []domain.FulfillmentSignal
	}{
		{
			name:     "no failures: no signals",
			failures: 0,
			draw:     0.0,
			want:     nil,
		},
		{
			name:     "negative failures: no signals",
			failures: -1,
			draw:     0.0,
			want:     nil,
		},
		{
			name:     "failures with high draw: delayed only",
			failures: 2,
			draw:     0.99,
			want:     []domain.FulfillmentSignal{domain.SignalDelayedFulfillment},
		},
		{
			name:     "failures with low draw: delayed then cancelled",
			failures: 1,
			draw:     0.05,
			want: []domain.FulfillmentSignal{
				domain.SignalDelayedFulfillment,
				domain.SignalCancelledOutOfStock,
			},
		},
		{
			name:     "draw equal to probability: not cancelled",
			failures: 1,
			draw:     0.20,
			want:     []domain.FulfillmentSignal{domain.SignalDelayedFulfillment},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := EscalationPolicy{
				CancelProbability: 0.20,
				randFloat:         func() float64 { return tt.draw },
			}

			assert.Equal(t, tt.want, policy.Evaluate(tt.failures))
		})
	}
}

func TestEscalationPolicy_ZeroProbabilityNeverCancels(t *testing.T) {
	policy := EscalationPolicy{
		CancelProbability: 0,
		randFloat:         func() float64 { return 0 },
	}

	got := policy.Evaluate(3)
	assert.Equal(t, []domain.FulfillmentSignal{domain.SignalDelayedFulfillment}, got)
}
