package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is an exact decimal amount in a single currency.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// NewMoney returns amount in cur.
func NewMoney(amount decimal.Decimal, cur currency.Unit) Money {
	return Money{Amount: amount, Currency: cur}
}

// ZeroMoney returns a zero amount in cur.
func ZeroMoney(cur currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: cur}
}

// ParseMoney parses a decimal amount such as "10.50" and an ISO 4217 code.
func ParseMoney(amount, code string) (Money, error) {
	cur, err := ParseCurrency(code)
	if err != nil {
		return Money{}, err
	}
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return Money{Amount: d, Currency: cur}, nil
}

// ParseCurrency resolves an ISO 4217 code ("usd" and "USD" both work).
func ParseCurrency(code string) (currency.Unit, error) {
	cur, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("parsing currency %q: %w", code, err)
	}
	return cur, nil
}

// Add returns m + other. Both must share a currency; callers check that first.
func (m Money) Add(other Money) Money {
	m.mustMatch(other, "add")
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

// Sub returns m - other. Both must share a currency.
func (m Money) Sub(other Money) Money {
	m.mustMatch(other, "subtract")
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}
}

// Cmp compares the amounts of m and other, which must share a currency.
func (m Money) Cmp(other Money) int {
	m.mustMatch(other, "compare")
	return m.Amount.Cmp(other.Amount)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// In reports whether m is denominated in cur.
func (m Money) In(cur currency.Unit) bool {
	return m.Currency == cur
}

// Equal reports value equality. Amounts compare numerically, so 1 == 1.00.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// String formats m as "<amount> <code>", e.g. "10.5 USD".
func (m Money) String() string {
	return m.Amount.String() + " " + m.Currency.String()
}

func (m Money) mustMatch(other Money, op string) {
	if !other.In(m.Currency) {
		panic(fmt.Sprintf("money: cannot %s %s and %s", op, m.Currency, other.Currency))
	}
}
