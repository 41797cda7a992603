package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout/internal/domain"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type productResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Stock    int32   `json:"stock"`
	Category string  `json:"category"`
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.ListProducts(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := lo.Map(products, func(p domain.Product, _ int) productResponse {
		return productResponse{
			ID:       p.ID.String(),
			Name:     p.Name,
			Price:    p.Price.Amount.InexactFloat64(),
			Currency: p.Price.Currency.String(),
			Stock:    p.Stock,
			Category: p.Category,
		}
	})

	s.writeJSON(w, http.StatusOK, resp)
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	Country   string `json:"country"`
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product_id"})
		return
	}

	product, err := s.carts.AddToCart(r.Context(), userID, productID, req.Quantity, req.Country)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]string{
		"product_id":   product.ID.String(),
		"product_name": product.Name,
	})
}

type cartItemResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int32   `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

type cartResponse struct {
	UserID string             `json:"user_id"`
	Items  []cartItemResponse `json:"items"`
	Total  float64            `json:"total"`
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	view, err := s.carts.GetCart(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	items := lo.Map(view.Items, func(item domain.PricedItem, _ int) cartItemResponse {
		return cartItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Price:       item.UnitPrice.Amount.InexactFloat64(),
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal().Amount.InexactFloat64(),
		}
	})

	s.writeJSON(w, http.StatusOK, cartResponse{
		UserID: userID,
		Items:  items,
		Total:  view.Total.Amount.InexactFloat64(),
	})
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}

	found, err := s.carts.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !found {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "cart item not found"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method"`
	Country       string `json:"country"`
}

type checkoutResponse struct {
	OrderID       string  `json:"order_id"`
	TotalAmount   float64 `json:"total_amount"`
	TransactionID string  `json:"payment_transaction_id"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := s.checkout.ProcessCheckout(r.Context(), userID, req.PaymentMethod, req.Country)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, checkoutResponse{
		OrderID:       result.OrderID.String(),
		TotalAmount:   result.TotalAmount.Amount.InexactFloat64(),
		TransactionID: result.TransactionID,
	})
}

type orderResponse struct {
	ID            string    `json:"id"`
	TotalAmount   float64   `json:"total_amount"`
	Currency      string    `json:"currency"`
	Country       string    `json:"country"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	orders, err := s.checkout.GetUserOrders(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := lo.Map(orders, func(o domain.Order, _ int) orderResponse {
		return orderResponse{
			ID:            o.ID.String(),
			TotalAmount:   o.TotalAmount.Amount.InexactFloat64(),
			Currency:      o.TotalAmount.Currency.String(),
			Country:       o.Country,
			PaymentMethod: o.PaymentMethod,
			Status:        string(o.Status),
			CreatedAt:     o.CreatedAt,
		}
	})

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user identity"})
		return "", false
	}
	return userID, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cart is empty"})
	case errors.Is(err, domain.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrPaymentFailed):
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "payment service unavailable"})
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}
