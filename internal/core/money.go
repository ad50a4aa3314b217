// Package core provides money parsing and handling utilities.
//
// Amounts travel as JSON decimal numbers and are held as decimals so that
// values shown in tables match the service to the cent.
package core

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no ISO code is configured.
const DefaultCurrency = "USD"

// Money is a currency amount as reported by the service.
type Money struct {
	decimal.Decimal
}

// ZeroMoney is the fallback value for missing amounts.
var ZeroMoney = Money{Decimal: decimal.Zero}

// MoneyFromCents builds a Money from minor units.
func MoneyFromCents(cents int64) Money {
	return Money{Decimal: decimal.New(cents, -2)}
}

// MoneyFromFloat converts a float, rounding to cents.
func MoneyFromFloat(f float64) Money {
	return Money{Decimal: decimal.NewFromFloat(f).Round(2)}
}

// ParseAmount converts a user supplied decimal string to Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half-up to cents. Signs, empty input and zero are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12,34")  -> 12.34
//	ParseAmount("12.345") -> 12.35
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	m := Money{Decimal: d.Round(2)}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

func (m Money) Validate() error {
	if !m.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Cents returns the amount in minor units, rounded half away from zero.
func (m Money) Cents() int64 {
	return m.Decimal.Shift(2).Round(0).IntPart()
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{Decimal: m.Decimal.Sub(o.Decimal)}
}

// Display formats the amount with the currency's symbol and grouping,
// e.g. "$1,234.50". Unknown codes fall back to DefaultCurrency.
func (m Money) Display(currency string) string {
	if gomoney.GetCurrency(currency) == nil {
		currency = DefaultCurrency
	}
	return gomoney.New(m.Cents(), currency).Display()
}

// MarshalJSON writes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// Float returns the amount as float64 for chart scaling only.
func (m Money) Float() float64 {
	f, _ := m.Decimal.Float64()
	return f
}
