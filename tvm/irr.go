/*
irr.go - internal and modified internal rate of return

IRR is the annual effective rate r such that discounting every flow point
back to the first flow's date by day count nets to zero. Since NPV(r) is
not monotonic and can have multiple roots, this brackets candidate rates
first (a fixed ladder of "reasonable" rates plus the caller's own guess),
finds where NPV changes sign between adjacent candidates, and solves the
first such bracket with Brent's method. If no bracket is found among the
candidates, it falls back to seeding Brent with an artificial bracket
around the guess.
*/
package tvm

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/loan-engine/interestrate"
)

var candidateRates = []float64{-0.5, -0.1, 0.01, 0.05, 0.10, 0.15, 0.25, 0.50, 1.0, 2.0}

// InternalRateOfReturn solves for the annual effective rate implied by
// flow. flow must contain both a negative and a positive amount, or there
// is nothing to solve for. guess, if given, is folded into the bracket
// search as an extra candidate.
func InternalRateOfReturn(flow []FlowPoint, guess *decimal.Decimal) (interestrate.InterestRate, error) {
	if !hasBothSigns(flow) {
		return interestrate.InterestRate{}, ErrNoSignChange
	}

	earliest := earliestDate(flow)
	days := make([]int, len(flow))
	for i, p := range flow {
		days[i] = daysBetween(earliest, p.At)
	}

	npv := func(rate float64) float64 {
		total := 0.0
		for i, p := range flow {
			amt := p.Amount.Raw().InexactFloat64()
			periods := float64(days[i]) / float64(interestrate.Commercial)
			total += amt / math.Pow(1+rate, periods)
		}
		return total
	}

	candidates := append([]float64(nil), candidateRates...)
	if guess != nil {
		candidates = append(candidates, guess.InexactFloat64())
	}

	root, found, err := bracketAndSolve(npv, candidates)
	if !found {
		seed := 0.1
		if guess != nil {
			seed = guess.InexactFloat64()
		}
		root, err = Brent(npv, seed-0.5, seed+0.5, 1e-4)
		if err != nil {
			return interestrate.InterestRate{}, fmt.Errorf("tvm: irr did not converge: %w", err)
		}
	} else if err != nil {
		return interestrate.InterestRate{}, err
	}

	if math.Abs(npv(root)) >= 500 || root < -0.99 || root > 10.0 {
		return interestrate.InterestRate{}, ErrNoConvergence
	}

	return interestrate.New(decimal.NewFromFloat(root), interestrate.Annual, interestrate.Commercial), nil
}

// ModifiedInternalRateOfReturn computes
// (FV of positive flows at reinvestmentRate / |PV of negative flows at
// financeRate|)^(1/n) - 1, where n is the flow's span in years.
func ModifiedInternalRateOfReturn(flow []FlowPoint, financeRate, reinvestmentRate decimal.Decimal) (interestrate.InterestRate, error) {
	if len(flow) == 0 {
		return interestrate.InterestRate{}, ErrNoSignChange
	}
	earliest := earliestDate(flow)
	latest := latestDate(flow)
	totalDays := daysBetween(earliest, latest)
	if totalDays <= 0 {
		return interestrate.InterestRate{}, ErrNoSignChange
	}
	years := decimal.NewFromInt(int64(totalDays)).Div(decimal.NewFromInt(int64(interestrate.Commercial)))

	pvNegatives := decimal.Zero
	fvPositives := decimal.Zero
	sawNegative, sawPositive := false, false

	for _, p := range flow {
		amt := p.Amount.Raw()
		if amt.IsNegative() {
			sawNegative = true
			daysFromStart := daysBetween(earliest, p.At)
			periods := decimal.NewFromInt(int64(daysFromStart)).Div(decimal.NewFromInt(int64(interestrate.Commercial)))
			pvNegatives = pvNegatives.Add(amt.Mul(powFractional(decimal.NewFromInt(1).Add(financeRate), periods.Neg())))
		} else if amt.IsPositive() {
			sawPositive = true
			daysToEnd := daysBetween(p.At, latest)
			periods := decimal.NewFromInt(int64(daysToEnd)).Div(decimal.NewFromInt(int64(interestrate.Commercial)))
			fvPositives = fvPositives.Add(amt.Mul(powFractional(decimal.NewFromInt(1).Add(reinvestmentRate), periods)))
		}
	}

	if !sawNegative || !sawPositive {
		return interestrate.InterestRate{}, ErrNoSignChange
	}

	ratio := fvPositives.Div(pvNegatives.Abs())
	exponent := decimal.NewFromInt(1).Div(years)
	mirr := powFractional(ratio, exponent).Sub(decimal.NewFromInt(1))

	return interestrate.New(mirr, interestrate.Annual, interestrate.Commercial), nil
}

func hasBothSigns(flow []FlowPoint) bool {
	neg, pos := false, false
	for _, p := range flow {
		if p.Amount.Raw().IsNegative() {
			neg = true
		}
		if p.Amount.Raw().IsPositive() {
			pos = true
		}
	}
	return neg && pos
}

func earliestDate(flow []FlowPoint) time.Time {
	e := flow[0].At
	for _, p := range flow[1:] {
		if p.At.Before(e) {
			e = p.At
		}
	}
	return e
}

func latestDate(flow []FlowPoint) time.Time {
	l := flow[0].At
	for _, p := range flow[1:] {
		if p.At.After(l) {
			l = p.At
		}
	}
	return l
}

// bracketAndSolve looks for adjacent candidates whose npv values change
// sign and solves the first bracket it finds.
func bracketAndSolve(npv func(float64) float64, candidates []float64) (root float64, found bool, err error) {
	sorted := append([]float64(nil), candidates...)
	insertionSort(sorted)
	prevRate, prevVal := sorted[0], npv(sorted[0])
	for _, rate := range sorted[1:] {
		val := npv(rate)
		if prevVal == 0 {
			return prevRate, true, nil
		}
		if val == 0 {
			return rate, true, nil
		}
		if (prevVal < 0) != (val < 0) {
			r, err := Brent(npv, prevRate, rate, 1e-4)
			return r, true, err
		}
		prevRate, prevVal = rate, val
	}
	return 0, false, nil
}

func insertionSort(s []float64) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

