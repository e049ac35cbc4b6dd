/*
views.go - derived read views over a loan's live state

None of these mutate the loan. Each recomputes its answer from the
schedule, the cash-flow streams, and the pre-mutation snapshot fields the
same way settle does, rather than caching anything that payments would
have to keep in sync.
*/
package loan

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/loan-engine/cashflow"
	"github.com/warp/loan-engine/interestrate"
	"github.com/warp/loan-engine/money"
	"github.com/warp/loan-engine/scheduler"
	"github.com/warp/loan-engine/tvm"
)

// AccruedInterest returns the regular interest that has accrued on the
// current principal balance between the last interest cutoff and now,
// without mutating the loan or requiring a payment to realize it.
func (l *Loan) AccruedInterest() money.Money {
	now := l.timeCtx.Now()
	days := daysBetween(l.lastInterestCutoff, now)
	if days < 0 {
		days = 0
	}
	return money.New(l.rate.Accrue(l.principalBalance.Raw(), days).Sub(l.principalBalance.Raw()))
}

// Settlements reconstructs the loan's payment history from its actual
// cash-flow stream, one Settlement per payment, grouping entries by the
// positional boundaries advanceOffsets recorded when each payment was
// settled. fine_applied entries record a levy, not a payment, and are left
// out.
func (l *Loan) Settlements() []Settlement {
	items := l.actualFlow.Items()
	at := l.timeCtx.Now()
	if len(items) == 0 {
		return nil
	}
	// paymentOffsets holds the end boundary of each payment's items, in
	// the order advanceOffsets recorded them; 0 is the implicit start of the
	// first group.
	bounds := append([]int{0}, l.paymentOffsets...)
	if bounds[len(bounds)-1] != len(items) {
		bounds = append(bounds, len(items))
	}

	out := make([]Settlement, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		start, end := bounds[i], bounds[i+1]
		if start == end {
			continue
		}
		var allocations []SettlementAllocation
		total := money.Zero
		var at0 time.Time
		for _, it := range items[start:end] {
			entry, ok := it.Resolve(at)
			if !ok || entry.Category == cashflow.FineApplied {
				continue
			}
			allocations = append(allocations, SettlementAllocation{
				Category:    string(entry.Category),
				Amount:      entry.Amount,
				Description: entry.Description,
			})
			total = total.Add(entry.Amount)
			at0 = entry.At
		}
		if len(allocations) == 0 {
			continue
		}
		out = append(out, Settlement{
			PaymentDate:  at0,
			Allocations:  allocations,
			TotalApplied: total,
		})
	}
	return out
}

// GetAmortizationSchedule returns the loan's amortization schedule as it
// now stands: the original schedule's entries for every due date already
// covered by principal paid down past its own milestone, followed by a
// fresh projection over the remaining due dates built from the current
// outstanding balance and the last interest cutoff.
func (l *Loan) GetAmortizationSchedule() (*scheduler.Schedule, error) {
	var past []scheduler.Entry
	var remainingDueDates []time.Time
	for _, e := range l.schedule.Entries {
		if l.principalBalance.GreaterThan(e.EndingBalance) {
			remainingDueDates = append(remainingDueDates, e.DueDate)
			continue
		}
		past = append(past, e)
	}
	if len(remainingDueDates) == 0 {
		return &scheduler.Schedule{
			Entries:          past,
			DisbursementDate: l.disbursementDate,
			Principal:        l.principal,
			Rate:             l.rate,
		}, nil
	}

	projected, err := l.builder.Build(l.principalBalance, l.rate, l.lastInterestCutoff, remainingDueDates)
	if err != nil {
		return nil, fmt.Errorf("loan: projecting remaining schedule: %w", err)
	}

	offset := len(past)
	entries := make([]scheduler.Entry, 0, len(past)+len(projected.Entries))
	entries = append(entries, past...)
	for _, e := range projected.Entries {
		e.PaymentNumber += offset
		entries = append(entries, e)
	}
	return &scheduler.Schedule{
		Entries:          entries,
		DisbursementDate: l.disbursementDate,
		Principal:        l.principal,
		Rate:             l.rate,
	}, nil
}

func (l *Loan) flowPoints(kind FlowKind) []tvm.FlowPoint {
	entries := l.CashFlow(kind).All()
	points := make([]tvm.FlowPoint, len(entries))
	for i, e := range entries {
		points[i] = tvm.FlowPoint{Amount: e.Amount, At: e.At}
	}
	return points
}

// PresentValue discounts the loan's expected cash flow to valuationDate at
// discountRate. It is the loan-level entry point to the tvm package's
// PresentValue: the daily disbursement/tax/principal/interest sign
// convention lives entirely in buildExpectedFlow, so this needs no
// special-casing here.
func (l *Loan) PresentValue(discountRate interestrate.InterestRate, valuationDate time.Time) money.Money {
	return tvm.PresentValue(l.flowPoints(Expected), discountRate, valuationDate)
}

// IRR solves for the annual effective rate implied by the loan's expected
// cash flow. For a loan with no taxes and no anticipated payments, this
// should reproduce the loan's own contractual rate.
func (l *Loan) IRR(guess *decimal.Decimal) (interestrate.InterestRate, error) {
	return tvm.InternalRateOfReturn(l.flowPoints(Expected), guess)
}
