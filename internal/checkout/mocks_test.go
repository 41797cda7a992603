package checkout

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout/internal/domain"
)

// fakeCartRepo implements port.CartRepository for testing
type fakeCartRepo struct {
	pricedItems []domain.PricedItem
	err         error
}

func (f *fakeCartRepo) GetCart(_ context.Context, ownerID string) (domain.Cart, error) {
	return domain.Cart{OwnerID: ownerID}, f.err
}

func (f *fakeCartRepo) GetPricedItems(_ context.Context, _ string) ([]domain.PricedItem, error) {
	return f.pricedItems, f.err
}

func (f *fakeCartRepo) AddItem(_ context.Context, _ string, _ domain.CartItem) error {
	return f.err
}

func (f *fakeCartRepo) DeleteItem(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
	return false, f.err
}

func (f *fakeCartRepo) ClearCart(_ context.Context, _ string) (int64, error) {
	return 0, f.err
}

type createdOrder struct {
	order domain.Order
	items []domain.PricedItem
}

// fakeStore implements port.CheckoutStore for testing
type fakeStore struct {
	mu      sync.Mutex
	created []createdOrder
	orderID uuid.UUID
	err     error
}

func (f *fakeStore) CreateOrder(_ context.Context, order domain.Order, items []domain.PricedItem) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, createdOrder{order: order, items: items})

	if f.orderID == uuid.Nil {
		f.orderID = uuid.New()
	}
	return f.orderID, nil
}

// fakeOrderRepo implements port.OrderRepository for testing
type fakeOrderRepo struct {
	orders []domain.Order
	err    error
}

func (f *fakeOrderRepo) GetOrder(_ context.Context, _ uuid.UUID) (domain.Order, error) {
	return domain.Order{}, f.err
}

func (f *fakeOrderRepo) GetUserOrders(_ context.Context, _ string) ([]domain.Order, error) {
	return f.orders, f.err
}

func (f *fakeOrderRepo) InsertOrder(_ context.Context, _ domain.Order) (uuid.UUID, error) {
	return uuid.Nil, f.err
}

// fakeGateway implements port.Gateway for testing
type fakeGateway struct {
	mu sync.Mutex

	// nil means the check comes back as a transport failure
	inventoryStatus *domain.InventoryStatus
	checkedProducts []uuid.UUID

	reserveFailAll bool
	reserveFailFor map[uuid.UUID]bool
	reservedOrders []uuid.UUID
	reservedItems  []uuid.UUID

	promo *domain.Promotion

	paymentErr error
	payments   []domain.PaymentRequest

	crmCalls atomic.Int32
}

func (f *fakeGateway) CheckInventory(_ context.Context, productID uuid.UUID, _ int32, _ string) *domain.InventoryStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkedProducts = append(f.checkedProducts, productID)
	return f.inventoryStatus
}

func (f *fakeGateway) ReserveInventory(_ context.Context, productID uuid.UUID, _ int32, _ string, orderID uuid.UUID) *domain.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservedOrders = append(f.reservedOrders, orderID)
	f.reservedItems = append(f.reservedItems, productID)

	if f.reserveFailAll || f.reserveFailFor[productID] {
		return nil
	}
	return &domain.Reservation{ReservationID: uuid.NewString()}
}

func (f *fakeGateway) CheckPromotions(_ context.Context, _, _ string, _ domain.Money) *domain.Promotion {
	return f.promo
}

func (f *fakeGateway) ProcessPayment(_ context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paymentErr != nil {
		return domain.PaymentResult{}, f.paymentErr
	}
	f.payments = append(f.payments, req)
	return domain.PaymentResult{TransactionID: "txn-123"}, nil
}

func (f *fakeGateway) UpdateCRM(_ context.Context, _ string, _ uuid.UUID, _ domain.Money, _ string) {
	f.crmCalls.Add(1)
}

func (f *fakeGateway) reserveCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reservedItems)
}

func (f *fakeGateway) checkCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.checkedProducts)
}

func (f *fakeGateway) paymentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payments)
}

// fakePublisher implements port.EventPublisher for testing
type fakePublisher struct {
	mu     sync.Mutex
	events []any
}

func (f *fakePublisher) Publish(_ context.Context, _ string, event any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) published() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.events...)
}

// fakeCache implements port.CartCache for testing
type fakeCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (f *fakeCache) IncrementCount(_ context.Context, _ string) {}

func (f *fakeCache) Invalidate(_ context.Context, ownerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, ownerID)
}
