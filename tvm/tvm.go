/*
Package tvm implements the time-value-of-money primitives the rest of the
engine is built on: discounting, present value of a cash flow, present
value of an annuity or perpetuity, and rate-of-return solving.

Present value of a cash flow and rate-of-return solving discount by day
count rather than by a fixed period count, since a Loan's cash flow rarely
lands on regular period boundaries once late payments and warping are
involved. DiscountFactor and PresentValueOfAnnuity take a period count.
*/
package tvm

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/loan-engine/interestrate"
	"github.com/warp/loan-engine/money"
)

// FlowPoint is one dated cash movement: positive is inbound, negative is
// outbound, from the holder's point of view.
type FlowPoint struct {
	Amount money.Money
	At     time.Time
}

// DiscountFactor returns 1 / (1+rate)^periods. periods may be fractional.
func DiscountFactor(rate decimal.Decimal, periods decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Div(powFractional(onePlus(rate), periods))
}

// PresentValue discounts flow to valuationDate using discountRate's daily
// form. Flow points at or before valuationDate discount at day count zero
// (they are treated as already realized, not projected backward), matching
// the convention that a valuation never looks for value in the past.
func PresentValue(flow []FlowPoint, discountRate interestrate.InterestRate, valuationDate time.Time) money.Money {
	daily := discountRate.Daily()
	total := decimal.Zero
	for _, p := range flow {
		days := daysBetween(valuationDate, p.At)
		if days < 0 {
			days = 0
		}
		factor := DiscountFactor(daily, decimal.NewFromInt(int64(days)))
		total = total.Add(p.Amount.Raw().Mul(factor))
	}
	return money.New(total)
}

// PresentValueDefaultValuation discounts flow to its own earliest date.
func PresentValueDefaultValuation(flow []FlowPoint, discountRate interestrate.InterestRate) money.Money {
	if len(flow) == 0 {
		return money.Zero
	}
	earliest := flow[0].At
	for _, p := range flow[1:] {
		if p.At.Before(earliest) {
			earliest = p.At
		}
	}
	return PresentValue(flow, discountRate, earliest)
}

// Timing controls whether an annuity's payments land at the end or the
// start of each period.
type Timing int

const (
	End Timing = iota
	Begin
)

// PresentValueOfAnnuity closed-forms the value of n level payments of pmt
// at periodic rate. rate == 0 degenerates to pmt*n.
func PresentValueOfAnnuity(pmt money.Money, rate decimal.Decimal, n int, timing Timing) money.Money {
	if rate.IsZero() {
		return pmt.Mul(decimal.NewFromInt(int64(n)))
	}
	factor := decimal.NewFromInt(1).Sub(powFractional(onePlus(rate), decimal.NewFromInt(int64(-n)))).Div(rate)
	pv := pmt.Mul(factor)
	if timing == Begin {
		pv = pv.Mul(onePlus(rate))
	}
	return pv
}

// PresentValueOfPerpetuity values an infinite level payment stream.
// rate must be strictly positive.
func PresentValueOfPerpetuity(pmt money.Money, rate decimal.Decimal) (money.Money, error) {
	if !rate.IsPositive() {
		return money.Money{}, errRateMustBePositive
	}
	return pmt.Div(rate), nil
}

func onePlus(d decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(d)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
