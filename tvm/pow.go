package tvm

import (
	"math"

	"github.com/shopspring/decimal"
)

// powFractional computes base^exponent, including fractional exponents,
// by dropping to float64. Used for annuity/discount-factor math where the
// exponent is a period count that may not be a whole number.
func powFractional(base, exponent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(math.Pow(base.InexactFloat64(), exponent.InexactFloat64()))
}
