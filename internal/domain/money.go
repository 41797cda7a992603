package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

// MulInt multiplies the amount by a quantity, keeping the currency.
func (m Money) MulInt(n int32) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt32(n)),
		Currency: m.Currency,
	}
}

// AddAmount assumes both values share the same currency.
func (m Money) AddAmount(other Money) Money {
	return Money{
		Amount:   m.Amount.Add(other.Amount),
		Currency: m.Currency,
	}
}

func (m Money) SubAmount(amount decimal.Decimal) Money {
	return Money{
		Amount:   m.Amount.Sub(amount),
		Currency: m.Currency,
	}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}
