package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout/internal/domain"
	"github.com/nikolayk812/checkout/internal/port"
	"github.com/nikolayk812/checkout/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"
)

type cartRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repo      port.CartRepository
	products  port.ProductRepository
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestCartRepositorySuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(cartRepositorySuite))
}

// before all tests in the suite
func (suite *cartRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	suite.repo = repository.NewCart(suite.pool)
	suite.products = repository.NewProduct(suite.pool)
}

// after all tests in the suite
func (suite *cartRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *cartRepositorySuite) TestAddItem() {
	tests := []struct {
		name    string
		ownerID string
		item    domain.CartItem
	}{
		{
			name:    "add single item: ok",
			ownerID: gofakeit.UUID(),
			item:    fakeCartItem(uuid.New()),
		},
		{
			name:    "add another item: ok",
			ownerID: gofakeit.UUID(),
			item:    fakeCartItem(uuid.New()),
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			err := suite.repo.AddItem(ctx, tt.ownerID, tt.item)
			require.NoError(t, err)

			actualCart, err := suite.repo.GetCart(ctx, tt.ownerID)
			require.NoError(t, err)

			expectedCart := domain.Cart{
				OwnerID: tt.ownerID,
				Items:   []domain.CartItem{tt.item},
			}

			assertCart(t, expectedCart, actualCart)
		})
	}
}

func (suite *cartRepositorySuite) TestDeleteItem() {
	ownerID := gofakeit.UUID()
	item := fakeCartItem(uuid.New())

	err := suite.repo.AddItem(suite.T().Context(), ownerID, item)
	suite.NoError(err)

	tests := []struct {
		name      string
		ownerID   string
		productID uuid.UUID
		wantFound bool
	}{
		{
			name:      "delete existing item: found",
			ownerID:   ownerID,
			productID: item.ProductID,
			wantFound: true,
		},
		{
			name:      "delete non-existing item: not found",
			ownerID:   ownerID,
			productID: uuid.New(),
			wantFound: false,
		},
		{
			name:      "delete for another owner: not found",
			ownerID:   gofakeit.UUID(),
			productID: item.ProductID,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			found, err := suite.repo.DeleteItem(t.Context(), tt.ownerID, tt.productID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
		})
	}
}

func (suite *cartRepositorySuite) TestClearCart() {
	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.UUID()
	for range 3 {
		err := suite.repo.AddItem(ctx, ownerID, fakeCartItem(uuid.New()))
		require.NoError(t, err)
	}

	deleted, err := suite.repo.ClearCart(ctx, ownerID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	cart, err := suite.repo.GetCart(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	deleted, err = suite.repo.ClearCart(ctx, ownerID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted)
}

func (suite *cartRepositorySuite) TestGetPricedItems() {
	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.UUID()

	product := fakeProduct()
	productID, err := suite.products.InsertProduct(ctx, product)
	require.NoError(t, err)

	item := fakeCartItem(productID)
	require.NoError(t, suite.repo.AddItem(ctx, ownerID, item))

	// a line whose product does not exist in the catalog
	require.NoError(t, suite.repo.AddItem(ctx, ownerID, fakeCartItem(uuid.New())))

	items, err := suite.repo.GetPricedItems(ctx, ownerID)
	require.NoError(t, err)

	// the vanished product's line is dropped, not errored
	require.Len(t, items, 1)
	assert.Equal(t, productID, items[0].ProductID)
	assert.Equal(t, product.Name, items[0].ProductName)
	assert.Equal(t, item.Quantity, items[0].Quantity)
	assert.Equal(t, item.Country, items[0].Country)
	assertMoney(t, product.Price, items[0].UnitPrice)
}

func (suite *cartRepositorySuite) TestGetPricedItemsEmptyCart() {
	t := suite.T()

	items, err := suite.repo.GetPricedItems(t.Context(), gofakeit.UUID())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func assertCart(t *testing.T, expected, actual domain.Cart) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.CartItem{}, "CreatedAt"),
		cmpopts.EquateEmpty(),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
}
