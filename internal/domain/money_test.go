package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
)

func TestMoneyArithmetic(t *testing.T) {
	m := NewMoney(decimal.RequireFromString("10.50"), currency.USD)

	assert.Equal(t, "31.5", m.MulInt(3).Amount.String())
	assert.Equal(t, "15.5", m.AddAmount(NewMoney(decimal.NewFromInt(5), currency.USD)).Amount.String())
	assert.Equal(t, "8.5", m.SubAmount(decimal.NewFromInt(2)).Amount.String())
	assert.Equal(t, "USD", m.MulInt(3).Currency.String())
	assert.False(t, m.IsZero())
	assert.True(t, NewMoney(decimal.Zero, currency.USD).IsZero())
}

func TestPricedItemSubtotal(t *testing.T) {
	item := PricedItem{
		UnitPrice: NewMoney(decimal.RequireFromString("9.99"), currency.EUR),
		Quantity:  4,
	}

	sub := item.Subtotal()
	assert.Equal(t, "39.96", sub.Amount.String())
	assert.Equal(t, "EUR", sub.Currency.String())
}
