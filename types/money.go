// Package types provides common types used across Folio.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code supported by invoices.
type Currency string

// Supported invoice currencies.
const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyCAD Currency = "CAD"
)

// Currencies lists every supported currency in display order.
var Currencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyCAD}

var currencySymbols = map[Currency]string{
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyGBP: "£",
	CurrencyCAD: "C$",
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	_, ok := currencySymbols[c]
	return ok
}

// Symbol returns the display symbol for the currency, or the code followed
// by a space for unknown codes.
func (c Currency) Symbol() string {
	if sym, ok := currencySymbols[Currency(strings.ToUpper(string(c)))]; ok {
		return sym
	}
	return strings.ToUpper(string(c)) + " "
}

// Decimals returns the number of minor-unit digits. All supported
// currencies use two.
func (c Currency) Decimals() int32 { return 2 }

// Money represents a monetary value in the smallest currency unit.
// Arithmetic between Money values is integer-only; fractional inputs
// (quantities, percentages) go through decimal and are rounded once.
//
// Examples:
//   - USD(4900) = $49.00 (4900 cents)
//   - EUR(19900) = €199.00 (19900 cents)
//   - GBP(9900) = £99.00 (9900 pence)
type Money struct {
	Amount   int64    `json:"amount"`   // Smallest unit (cents, pence)
	Currency Currency `json:"currency"` // ISO 4217 code: "USD", "EUR", ...
}

// USD creates a Money value in US Dollars (cents).
func USD(cents int64) Money { return Money{Amount: cents, Currency: CurrencyUSD} }

// EUR creates a Money value in Euros (cents).
func EUR(cents int64) Money { return Money{Amount: cents, Currency: CurrencyEUR} }

// GBP creates a Money value in British Pounds (pence).
func GBP(pence int64) Money { return Money{Amount: pence, Currency: CurrencyGBP} }

// CAD creates a Money value in Canadian Dollars (cents).
func CAD(cents int64) Money { return Money{Amount: cents, Currency: CurrencyCAD} }

// Zero returns a zero Money value in the specified currency.
func Zero(currency Currency) Money { return Money{Amount: 0, Currency: currency} }

var (
	minAmount = decimal.NewFromInt(math.MinInt64)
	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

// FromDecimal converts a major-unit decimal (e.g. 12.345 dollars) to Money,
// rounding half away from zero to the currency's minor unit. The result
// wraps when the value does not fit; check with Fits first.
func FromDecimal(d decimal.Decimal, currency Currency) Money {
	return Money{Amount: MinorUnits(d, currency).IntPart(), Currency: currency}
}

// MinorUnits converts a major-unit decimal to the currency's minor unit,
// rounded half away from zero, without any range limit.
func MinorUnits(d decimal.Decimal, currency Currency) decimal.Decimal {
	return d.Shift(currency.Decimals()).Round(0)
}

// InRange reports whether a minor-unit amount can be held by Money.
func InRange(minor decimal.Decimal) bool {
	return !minor.LessThan(minAmount) && !minor.GreaterThan(maxAmount)
}

// Fits reports whether d, rounded to the minor unit, can be held by Money.
func Fits(d decimal.Decimal, currency Currency) bool {
	return InRange(MinorUnits(d, currency))
}

// FormatMinor renders an unbounded minor-unit amount like Money.String.
func FormatMinor(minor decimal.Decimal, currency Currency) string {
	major := minor.Shift(-currency.Decimals())
	if major.IsNegative() {
		return "-" + currency.Symbol() + major.Neg().StringFixed(currency.Decimals())
	}
	return currency.Symbol() + major.StringFixed(currency.Decimals())
}

// Decimal returns the value in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -m.Currency.Decimals())
}

// MulDecimal multiplies the Money by a fractional factor and rounds the
// result to the minor unit.
func (m Money) MulDecimal(factor decimal.Decimal) Money {
	product := decimal.NewFromInt(m.Amount).Mul(factor).Round(0)
	return Money{Amount: product.IntPart(), Currency: m.Currency}
}

// Percent returns pct percent of m, rounded to the minor unit.
func (m Money) Percent(pct decimal.Decimal) Money {
	return m.MulDecimal(pct.Div(decimal.NewFromInt(100)))
}

// Arithmetic operations

// Add adds two Money values. Panics if currencies don't match.
func (m Money) Add(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

// Subtract subtracts another Money value. Panics if currencies don't match.
func (m Money) Subtract(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}
}

// Negate returns the negative of the Money value.
func (m Money) Negate() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

// In relabels m with currency c. No conversion happens, so it is only
// meaningful for zero amounts or values that were never in another currency.
func (m Money) In(c Currency) Money {
	return Money{Amount: m.Amount, Currency: c}
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// IsNegative returns true if the amount is less than zero.
func (m Money) IsNegative() bool { return m.Amount < 0 }

// Equal returns true if both Money values are equal (same amount and currency).
func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// LessThan returns true if this Money is less than other. Panics if currencies don't match.
func (m Money) LessThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount < other.Amount
}

// GreaterThan returns true if this Money is greater than other. Panics if currencies don't match.
func (m Money) GreaterThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount > other.Amount
}

// Formatting methods

// FormatMajor returns the major unit string without currency symbol,
// e.g. "49.00" for USD(4900).
func (m Money) FormatMajor() string {
	return m.Decimal().StringFixed(m.Currency.Decimals())
}

// String returns a human-readable string with currency symbol.
// Examples: "$49.00", "€199.00", "£99.00", "C$25.00"
func (m Money) String() string {
	if m.Amount < 0 {
		return "-" + m.Currency.Symbol() + m.Negate().FormatMajor()
	}
	return m.Currency.Symbol() + m.FormatMajor()
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   int64    `json:"amount"`
		Currency Currency `json:"currency"`
		Display  string   `json:"display"`
	}{
		Amount:   m.Amount,
		Currency: m.Currency,
		Display:  m.String(),
	})
}

// assertSameCurrency panics if currencies don't match.
func (m Money) assertSameCurrency(other Money) {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: currency mismatch: %s != %s", m.Currency, other.Currency))
	}
}

// Sum adds Money values in the given currency. Every value must share it.
func Sum(currency Currency, values ...Money) Money {
	result := Zero(currency)
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
