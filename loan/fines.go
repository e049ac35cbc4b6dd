/*
fines.go - late-fee accrual

CalculateLateFines is idempotent: each due date gets at most one fine,
tracked in finesApplied keyed by due date, regardless of how many times
or how far forward CalculateLateFines is called. The fine amount is
always priced off the original schedule's expected installment amount for
that due date — never a rebuilt or renegotiated schedule — so a fine's
size does not drift if the loan's remaining schedule changes shape later.
*/
package loan

import (
	"fmt"

	"github.com/warp/loan-engine/cashflow"
	"github.com/warp/loan-engine/money"
	"time"
)

// CalculateLateFines walks every due date at or before asOf whose grace
// period has elapsed, and applies a fine for each one that doesn't
// already have one and whose installment has not already been covered by
// principal paid down past its milestone. It returns the total amount of
// fines applied by this call — zero on a repeat call for the same asOf,
// since applying is idempotent per due date.
func (l *Loan) CalculateLateFines(asOf time.Time) money.Money {
	asOf = l.timeCtx.EnsureAware(asOf)
	applied := money.Zero

	for _, e := range l.schedule.Entries {
		if e.DueDate.After(asOf) {
			continue
		}
		applyDate := e.DueDate.AddDate(0, 0, l.gracePeriodDays)
		if applyDate.After(asOf) {
			continue
		}
		key := dateKey(e.DueDate)
		if l.finesApplied[key] {
			continue
		}
		if !l.principalBalance.GreaterThan(e.EndingBalance) {
			// already covered: paying this installment brought the balance
			// down to or below its milestone before the fine could apply
			continue
		}

		fineAmount := e.PaymentAmount.Mul(l.fineRate)
		fine := &Fine{DueDate: e.DueDate, AppliedAt: applyDate, Amount: fineAmount}
		l.fines = append(l.fines, fine)
		l.finesApplied[key] = true
		applied = applied.Add(fineAmount)

		l.actualFlow.Append(cashflow.NewItem(applyDate, cashflow.Entry{
			Amount:      fineAmount,
			At:          applyDate,
			Category:    cashflow.FineApplied,
			Description: fmt.Sprintf("late fine for installment %d", e.PaymentNumber),
		}))
	}

	return applied
}

// TotalFines sums every fine ever applied against this loan, paid or not.
func (l *Loan) TotalFines() money.Money {
	total := money.Zero
	for _, f := range l.fines {
		total = total.Add(f.Amount)
	}
	return total
}

// FinesApplied returns every fine applied against this loan so far, oldest
// due date first, regardless of whether it has since been paid off.
func (l *Loan) FinesApplied() []*Fine {
	return append([]*Fine(nil), l.fines...)
}
