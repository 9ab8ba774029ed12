package money

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	// ErrCurrencyMismatch occurs when operating on amounts of different currencies.
	ErrCurrencyMismatch = errors.New("money: currency mismatch")

	// ErrNegativeAmount occurs when a negative amount is parsed where only
	// non-negative amounts make sense.
	ErrNegativeAmount = errors.New("money: negative amount not allowed")

	// ErrInvalidAmount occurs when a decimal string cannot be parsed.
	ErrInvalidAmount = errors.New("money: invalid amount")
)

// Money is an immutable monetary amount stored as an integer count of minor
// units (cents) plus a currency code. All arithmetic happens on the integer
// representation; it is never backed by a float.
type Money struct {
	Cents    int64
	Currency string
}

// New creates a Money from minor units.
func New(cents int64, currency string) Money {
	return Money{Cents: cents, Currency: currency}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Currency: currency}
}

// Parse converts a decimal string like "10.50" into Money.
// Fractions beyond the cent are rounded half-up. Negative amounts are rejected.
func Parse(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	if d.IsNegative() {
		return Money{}, ErrNegativeAmount
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	return Money{Cents: cents, Currency: currency}, nil
}

// Add returns m + other. The currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}

	return Money{Cents: m.Cents + other.Cents, Currency: m.Currency}, nil
}

// Sub returns m - other. The currencies must match. The result may be
// negative; callers that need a non-negative amount check for themselves.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}

	return Money{Cents: m.Cents - other.Cents, Currency: m.Currency}, nil
}

// MulFraction returns m * num / den, rounded half-up on the final minor unit.
// Rounding is applied exactly once; intermediate math uses big integers so it
// never overflows or compounds.
func (m Money) MulFraction(num, den int64) Money {
	if den == 0 {
		panic("money: zero denominator")
	}

	n := new(big.Int).Mul(big.NewInt(m.Cents), big.NewInt(num))
	d := big.NewInt(den)

	// Half-up: floor((2n + d) / 2d) for positive values.
	n.Mul(n, big.NewInt(2))
	n.Add(n, d)
	n.Div(n, new(big.Int).Mul(d, big.NewInt(2)))

	return Money{Cents: n.Int64(), Currency: m.Currency}
}

// Percent returns the given percentage of m, expressed in basis points
// (1/100th of a percent) so fractional percentages stay exact.
// Example: m.Percent(2500) is 25% of m.
func (m Money) Percent(basisPoints int64) Money {
	return m.MulFraction(basisPoints, 10000)
}

// Equals reports whether two amounts have identical minor units and currency.
func (m Money) Equals(other Money) bool {
	return m.Currency == other.Currency && m.Cents == other.Cents
}

// LessThan reports whether m < other by minor units.
func (m Money) LessThan(other Money) bool {
	return m.Cents < other.Cents
}

// GreaterThan reports whether m > other by minor units.
func (m Money) GreaterThan(other Money) bool {
	return m.Cents > other.Cents
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// String formats the amount as a major-unit decimal, e.g. "10.50".
func (m Money) String() string {
	return decimal.New(m.Cents, -2).StringFixed(2)
}
