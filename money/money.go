/*
Package money provides a decimal-precision monetary amount type.

PURPOSE:
  Money never touches binary floating point for the values it stores.
  Every amount is backed by shopspring/decimal, and any float that comes
  in from a caller is stringified before parsing so that a value like
  19.99 does not round-trip through an IEEE-754 approximation.

TWO PRECISIONS:
  Money keeps two views of the same underlying value:
    - Raw:  arbitrary-precision decimal, exact.
    - Real: Raw rounded half-up to 2 decimal places.
  Equality and ordering compare Real, since that's the precision that
  actually changes hands. Raw is retained for accrual math that
  compounds many times before ever being realized as a payment.

SEE ALSO:
  - interestrate: builds on Money for accrual calculations.
  - loan: uses Money throughout the payment/allocation model.
*/
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an immutable monetary amount.
type Money struct {
	raw decimal.Decimal
}

// Zero is the additive identity.
var Zero = Money{raw: decimal.Zero}

// New builds a Money from an arbitrary-precision decimal.
func New(d decimal.Decimal) Money {
	return Money{raw: d}
}

// NewFromString parses a decimal string exactly, with no float round-trip.
func NewFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return Money{raw: d}, nil
}

// NewFromFloat builds a Money from a float64 by first formatting it to a
// string. Parsing the string (rather than calling decimal.NewFromFloat,
// which walks the float's binary mantissa) avoids surfacing IEEE-754
// artifacts like 19.989999999999998 for an input of 19.99.
func NewFromFloat(f float64) Money {
	d, err := decimal.NewFromString(fmt.Sprint(f))
	if err != nil {
		// fmt.Sprint gives a parseable decimal literal for every finite
		// float64; only NaN and ±Inf land here, and decimal.NewFromFloat
		// panics on those.
		return Money{raw: decimal.NewFromFloat(f)}
	}
	return Money{raw: d}
}

// NewFromInt builds a Money from an integer number of currency units.
func NewFromInt(i int64) Money {
	return Money{raw: decimal.NewFromInt(i)}
}

// FromCents builds a Money from an integer count of the minor unit.
func FromCents(cents int64) Money {
	return Money{raw: decimal.New(cents, -2)}
}

// Cents returns the number of minor units in the rounded (Real) value.
func (m Money) Cents() int64 {
	return m.Real().raw.Shift(2).IntPart()
}

// Raw returns the unrounded, arbitrary-precision decimal value.
func (m Money) Raw() decimal.Decimal {
	return m.raw
}

// Real returns m rounded half-up to 2 decimal places.
func (m Money) Real() Money {
	return Money{raw: m.raw.Round(2)}
}

// Add returns m + other.
func (m Money) Add(other Money) Money { return Money{raw: m.raw.Add(other.raw)} }

// Sub returns m - other.
func (m Money) Sub(other Money) Money { return Money{raw: m.raw.Sub(other.raw)} }

// Neg returns -m.
func (m Money) Neg() Money { return Money{raw: m.raw.Neg()} }

// Abs returns |m|.
func (m Money) Abs() Money { return Money{raw: m.raw.Abs()} }

// Mul returns m * factor.
func (m Money) Mul(factor decimal.Decimal) Money { return Money{raw: m.raw.Mul(factor)} }

// Div returns m / divisor.
func (m Money) Div(divisor decimal.Decimal) Money { return Money{raw: m.raw.Div(divisor)} }

// IsZero reports whether the real (rounded) value is zero.
func (m Money) IsZero() bool { return m.Real().raw.IsZero() }

// IsNegative reports whether the real (rounded) value is negative.
func (m Money) IsNegative() bool { return m.Real().raw.IsNegative() }

// IsPositive reports whether the real (rounded) value is positive.
func (m Money) IsPositive() bool { return m.Real().raw.IsPositive() }

// Equal compares two Money values at Real precision.
func (m Money) Equal(other Money) bool { return m.Real().raw.Equal(other.Real().raw) }

// GreaterThan compares two Money values at Real precision.
func (m Money) GreaterThan(other Money) bool { return m.Real().raw.GreaterThan(other.Real().raw) }

// LessThan compares two Money values at Real precision.
func (m Money) LessThan(other Money) bool { return m.Real().raw.LessThan(other.Real().raw) }

// GreaterThanOrEqual compares two Money values at Real precision.
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.Real().raw.GreaterThanOrEqual(other.Real().raw)
}

// Min returns the smaller of m and other, by Real precision.
func (m Money) Min(other Money) Money {
	if m.LessThan(other) {
		return m
	}
	return other
}

// Max returns the larger of m and other, by Real precision.
func (m Money) Max(other Money) Money {
	if m.GreaterThan(other) {
		return m
	}
	return other
}

// String renders the Real value with a fixed two-decimal format and
// thousands grouping on the integer part, e.g. "1,234,567.89".
func (m Money) String() string {
	fixed := m.Real().raw.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	return sign + groupThousands(intPart) + "." + fracPart
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	lead := n % 3
	if lead == 0 {
		lead = 3
	}
	var b strings.Builder
	b.WriteString(digits[:lead])
	for i := lead; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
