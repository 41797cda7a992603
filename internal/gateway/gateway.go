// Package gateway wraps the outbound HTTP calls to the payment, promotion,
// warehouse and CRM systems.
//
// Every operation is one round trip with its own bounded deadline and its own
// duration/outcome metric. Apart from payments, a failed or malformed answer
// degrades into an absent result: the checkout core never has to distinguish
// a transport failure from a negative business answer.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout/internal/domain"
	"github.com/nikolayk812/checkout/internal/metrics"
	"github.com/nikolayk812/checkout/internal/port"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type Config struct {
	InventoryURL  string
	PromotionsURL string
	PaymentsURL   string
	CRMURL        string

	// Payment gets a longer deadline than the advisory operations:
	// charging is the one call that blocks the whole checkout.
	InventoryTimeout time.Duration
	PromotionTimeout time.Duration
	PaymentTimeout   time.Duration
	CRMTimeout       time.Duration
}

type Gateway struct {
	client  *http.Client
	cfg     Config
	metrics *metrics.Metrics
	logger  *zap.Logger

	paymentBreaker *gobreaker.CircuitBreaker[domain.PaymentResult]
}

var _ port.Gateway = (*Gateway)(nil)

func New(client *http.Client, cfg Config, m *metrics.Metrics, logger *zap.Logger) *Gateway {
	breaker := gobreaker.NewCircuitBreaker[domain.PaymentResult](gobreaker.Settings{
		Name: "payments",
	})

	return &Gateway{
		client:         client,
		cfg:            cfg,
		metrics:        m,
		logger:         logger,
		paymentBreaker: breaker,
	}
}

type inventoryCheckRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	Country   string `json:"country"`
}

type inventoryCheckResponse struct {
	Available *bool `json:"available"`
}

// CheckInventory is advisory: a missing or failed answer is reported as
// unknown and never blocks a checkout.
func (g *Gateway) CheckInventory(ctx context.Context, productID uuid.UUID, quantity int32, country string) *domain.InventoryStatus {
	req := inventoryCheckRequest{
		ProductID: productID.String(),
		Quantity:  quantity,
		Country:   country,
	}

	var resp inventoryCheckResponse

	start := time.Now()
	err := g.postJSON(ctx, g.cfg.InventoryURL+"/inventory/check", g.cfg.InventoryTimeout, req, &resp)
	g.observe("inventory_check", start, err)

	if err != nil {
		g.logger.Warn("inventory check failed",
			zap.Error(err),
			zap.String("product_id", productID.String()),
			zap.String("country", country))
		return nil
	}

	return &domain.InventoryStatus{
		Known:     resp.Available != nil,
		Available: resp.Available != nil && *resp.Available,
	}
}

type inventoryReserveRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	Country   string `json:"country"`
	OrderID   string `json:"order_id"`
}

type inventoryReserveResponse struct {
	ReservationID string `json:"reservation_id"`
}

func (g *Gateway) ReserveInventory(ctx context.Context, productID uuid.UUID, quantity int32, country string, orderID uuid.UUID) *domain.Reservation {
	req := inventoryReserveRequest{
		ProductID: productID.String(),
		Quantity:  quantity,
		Country:   country,
		OrderID:   orderID.String(),
	}

	var resp inventoryReserveResponse

	start := time.Now()
	err := g.postJSON(ctx, g.cfg.InventoryURL+"/inventory/reserve", g.cfg.InventoryTimeout, req, &resp)
	g.observe("inventory_reserve", start, err)

	if err != nil {
		g.logger.Error("inventory reservation failed",
			zap.Error(err),
			zap.String("product_id", productID.String()),
			zap.String("order_id", orderID.String()),
			zap.String("country", country))
		return nil
	}

	return &domain.Reservation{ReservationID: resp.ReservationID}
}

type promotionCheckRequest struct {
	UserID  string  `json:"user_id"`
	Country string  `json:"country"`
	Amount  float64 `json:"amount"`
}

type promotionCheckResponse struct {
	Discount  float64 `json:"discount"`
	PromoCode string  `json:"promo_code"`
}

func (g *Gateway) CheckPromotions(ctx context.Context, userID, country string, amount domain.Money) *domain.Promotion {
	req := promotionCheckRequest{
		UserID:  userID,
		Country: country,
		Amount:  amount.Amount.InexactFloat64(),
	}

	var resp promotionCheckResponse

	start := time.Now()
	err := g.postJSON(ctx, g.cfg.PromotionsURL+"/promotions/check", g.cfg.PromotionTimeout, req, &resp)
	g.observe("promotion_check", start, err)

	if err != nil {
		g.logger.Warn("promotion check failed",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("country", country))
		return nil
	}

	return &domain.Promotion{
		Discount:  decimal.NewFromFloat(resp.Discount),
		PromoCode: resp.PromoCode,
	}
}

type paymentRequest struct {
	UserID        string  `json:"user_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Country       string  `json:"country"`
	PaymentMethod string  `json:"payment_method"`
}

type paymentResponse struct {
	TransactionID string `json:"transaction_id"`
}

// ProcessPayment is the only operation allowed to fail the checkout.
func (g *Gateway) ProcessPayment(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	body := paymentRequest{
		UserID:        req.UserID,
		Amount:        req.Amount.Amount.InexactFloat64(),
		Currency:      req.Amount.Currency.String(),
		Country:       req.Country,
		PaymentMethod: req.PaymentMethod,
	}

	start := time.Now()
	result, err := g.paymentBreaker.Execute(func() (domain.PaymentResult, error) {
		var resp paymentResponse
		if err := g.postJSON(ctx, g.cfg.PaymentsURL+"/payments/process", g.cfg.PaymentTimeout, body, &resp); err != nil {
			return domain.PaymentResult{}, err
		}
		return domain.PaymentResult{TransactionID: resp.TransactionID}, nil
	})
	g.observe("payment_charge", start, err)

	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("paymentBreaker.Execute: %w", err)
	}

	return result, nil
}

type crmUpdateRequest struct {
	UserID  string  `json:"user_id"`
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
	Country string  `json:"country"`
}

// UpdateCRM is fire-and-forget: failures are logged, never retried,
// never surfaced.
func (g *Gateway) UpdateCRM(ctx context.Context, userID string, orderID uuid.UUID, amount domain.Money, country string) {
	req := crmUpdateRequest{
		UserID:  userID,
		OrderID: orderID.String(),
		Amount:  amount.Amount.InexactFloat64(),
		Country: country,
	}

	start := time.Now()
	err := g.postJSON(ctx, g.cfg.CRMURL+"/customer/order", g.cfg.CRMTimeout, req, nil)
	g.observe("crm_update", start, err)

	if err != nil {
		g.logger.Error("CRM update failed",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("order_id", orderID.String()),
			zap.String("country", country))
	}
}

func (g *Gateway) postJSON(ctx context.Context, url string, timeout time.Duration, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("client.Do: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json.Decode: %w", err)
	}

	return nil
}

func (g *Gateway) observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	g.metrics.ExternalCallDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}
