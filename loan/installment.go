package loan

import (
	"github.com/warp/loan-engine/cashflow"
	"github.com/warp/loan-engine/money"
)

// Installments returns a read view of every scheduled installment as
// currently observed: its original expected amount, and how much
// principal, interest, and fine payment has actually landed against it so
// far.
//
// Real payments rarely land exactly on their due date (a payment recorded
// 2024-02-15 against a 2024-02-01 due date is routine), so attribution
// does not match on date equality. Instead it replays the actual flow in
// the order payments were recorded, tracking a cursor into the schedule
// the same way nextUnpaidDueDate does: principal paid accumulates against
// the current installment's own PrincipalPayment, and once it is fully
// covered the cursor advances to the next one. Interest and fine amounts
// posted at any given point are attributed to whichever installment the
// cursor is on at that point, since they are settled in service of paying
// that installment down.
func (l *Loan) Installments() []Installment {
	at := l.timeCtx.Now()
	actual := l.actualFlow.ResolveAll(at)

	out := make([]Installment, len(l.schedule.Entries))
	for i, e := range l.schedule.Entries {
		out[i] = Installment{
			Number:         e.PaymentNumber,
			DueDate:        e.DueDate,
			ExpectedAmount: e.PaymentAmount,
			PrincipalPaid:  money.Zero,
			InterestPaid:   money.Zero,
			FinePaid:       money.Zero,
		}
	}
	if len(out) == 0 {
		return out
	}

	cursor := 0
	principalConsumed := money.Zero
	for _, entry := range actual {
		if cursor >= len(out) {
			cursor = len(out) - 1
		}
		switch entry.Category {
		case cashflow.ActualPrincipal:
			out[cursor].PrincipalPaid = out[cursor].PrincipalPaid.Add(entry.Amount)
			principalConsumed = principalConsumed.Add(entry.Amount)
			for cursor < len(out) && principalConsumed.GreaterThanOrEqual(l.schedule.Entries[cursor].PrincipalPayment) {
				principalConsumed = principalConsumed.Sub(l.schedule.Entries[cursor].PrincipalPayment)
				cursor++
			}
		case cashflow.ActualInterest, cashflow.ActualMoraInterest:
			out[cursor].InterestPaid = out[cursor].InterestPaid.Add(entry.Amount)
		case cashflow.ActualFine:
			out[cursor].FinePaid = out[cursor].FinePaid.Add(entry.Amount)
		}
	}

	return out
}
