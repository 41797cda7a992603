package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout/internal/domain"
	"github.com/nikolayk812/checkout/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("webstore"),
		postgres.WithUsername("webstore"),
		postgres.WithPassword("webstore123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", err
	}

	if err := repository.RunMigrations(connStr); err != nil {
		return container, "", err
	}

	return container, connStr, nil
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}

func fakeProduct() domain.Product {
	return domain.Product{
		Name: gofakeit.ProductName(),
		Price: domain.Money{
			Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)),
			Currency: randomCurrency(),
		},
		Stock:    int32(gofakeit.Number(10, 100)),
		Category: gofakeit.ProductCategory(),
	}
}

func fakeCartItem(productID uuid.UUID) domain.CartItem {
	return domain.CartItem{
		ProductID: productID,
		Quantity:  int32(gofakeit.Number(1, 5)),
		Country:   gofakeit.CountryAbr(),
	}
}

// currency.Unit has unexported fields, compare by code
var currencyComparer = cmp.Comparer(func(x, y currency.Unit) bool {
	return x.String() == y.String()
})

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})

func assertMoney(t *testing.T, expected, actual domain.Money) {
	t.Helper()

	assert.True(t, expected.Amount.Equal(actual.Amount),
		"amount: expected %s, got %s", expected.Amount, actual.Amount)
	assert.Equal(t, expected.Currency.String(), actual.Currency.String())
}
