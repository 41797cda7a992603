package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout/internal/domain"
)

// Gateway wraps the outbound calls to the payment, promotion, warehouse and
// CRM systems. Each operation is a single round trip which records its own
// duration and outcome. Transport and protocol failures are normalized into
// a nil result; only ProcessPayment is allowed to return an error.
type Gateway interface {
	CheckInventory(ctx context.Context, productID uuid.UUID, quantity int32, country string) *domain.InventoryStatus
	ReserveInventory(ctx context.Context, productID uuid.UUID, quantity int32, country string, orderID uuid.UUID) *domain.Reservation
	CheckPromotions(ctx context.Context, userID, country string, amount domain.Money) *domain.Promotion

	ProcessPayment(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error)

	UpdateCRM(ctx context.Context, userID string, orderID uuid.UUID, amount domain.Money, country string)
}
