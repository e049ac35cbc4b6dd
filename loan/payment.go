/*
payment.go - payment recording and allocation

Allocation priority for any incoming payment is strict:
  1. outstanding fines, oldest due date first
  2. accrued interest, split into a regular portion and (if the payment
     lands after the next unpaid due date) a mora portion
  3. principal

Before any state is mutated, the loan's current interest cutoff and
principal balance are captured into locals. Every subsequent calculation
in this function reads only those locals, and the loan's real fields are
written exactly once, at the end, only if the whole allocation succeeds.
This is what keeps recording several future-dated payments in sequence
from inflating the day count on the earlier ones: each call computes its
own regular/mora split from the state as it stood before that call, not
from whatever the loan looks like after later calls have already run.
*/
package loan

import (
	"fmt"
	"sort"
	"time"

	"github.com/warp/loan-engine/cashflow"
	"github.com/warp/loan-engine/loanerr"
	"github.com/warp/loan-engine/money"
)

// RecordPayment applies amount against the loan's outstanding obligations
// as of interestDate, dated paymentDate, and recorded as of
// processingDate. A payment whose principal portion would exceed the full
// outstanding balance is rejected as an over-payment; a payment that spans
// several installments' worth of principal in one shot is not.
func (l *Loan) RecordPayment(paymentDate, interestDate, processingDate time.Time, amount money.Money) (*Settlement, error) {
	return l.settle(paymentDate, interestDate, processingDate, amount)
}

// PayInstallment is sugar over RecordPayment: it pays as of now, with
// interest running to the later of now and the next unpaid due date (now
// itself if the loan has none left), and records the payment as of now too.
func (l *Loan) PayInstallment(amount money.Money) (*Settlement, error) {
	now := l.timeCtx.Now()
	interestDate := now
	if next, ok := l.nextUnpaidDueDate(); ok && next.DueDate.After(now) {
		interestDate = next.DueDate
	}
	return l.settle(now, interestDate, now, amount)
}

// AnticipatePayment applies amount the same way RecordPayment does. If
// installments is non-empty, the expected principal and interest items for
// those 1-based installment numbers are temporally deleted as of
// interestDate once the payment settles: the loan will never actually
// reach their due date owing what the original schedule expected, so a
// present-value or IRR computed over the expected flow after this call no
// longer counts them.
func (l *Loan) AnticipatePayment(paymentDate, interestDate, processingDate time.Time, amount money.Money, installments ...int) (*Settlement, error) {
	settlement, err := l.settle(paymentDate, interestDate, processingDate, amount)
	if err != nil {
		return nil, err
	}
	if len(installments) > 0 {
		l.deleteExpectedInstallments(installments, interestDate)
	}
	return settlement, nil
}

func (l *Loan) settle(paymentDate, interestDate, processingDate time.Time, amount money.Money) (*Settlement, error) {
	if l.status == PaidOff {
		return nil, loanerr.ErrPaidOff
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("loan: payment amount must be positive: %w", loanerr.ErrInvalidInput)
	}

	interestDate = l.timeCtx.EnsureAware(interestDate)
	paymentDate = l.timeCtx.EnsureAware(paymentDate)

	// Pre-mutation snapshot: everything below reads only these locals.
	cutoff := l.lastInterestCutoff
	balance := l.principalBalance
	unpaidFines := sortedOutstandingFines(l.fines)

	nextEntry, hasNext := l.nextUnpaidDueDate()
	var dueDate time.Time
	if hasNext {
		dueDate = nextEntry.DueDate
	} else {
		dueDate = interestDate
	}

	regularUntil := minTime(interestDate, dueDate)
	regularDays := daysBetween(cutoff, regularUntil)
	if regularDays < 0 {
		regularDays = 0
	}
	regularInterest := money.New(l.rate.Accrue(balance.Raw(), regularDays).Sub(balance.Raw()))

	moraDays := daysBetween(dueDate, interestDate)
	if moraDays < 0 {
		moraDays = 0
	}
	moraBase := balance
	if l.moraStrategy == Compound {
		moraBase = balance.Add(regularInterest)
	}
	var moraInterest money.Money
	if moraDays > 0 {
		moraInterest = money.New(l.MoraRate().Accrue(moraBase.Raw(), moraDays).Sub(moraBase.Raw()))
	} else {
		moraInterest = money.Zero
	}

	remaining := amount
	var allocations []SettlementAllocation
	var finePayments []struct {
		fine *Fine
		paid money.Money
	}

	for _, f := range unpaidFines {
		if remaining.IsZero() {
			break
		}
		pay := remaining.Min(f.Outstanding())
		remaining = remaining.Sub(pay)
		finePayments = append(finePayments, struct {
			fine *Fine
			paid money.Money
		}{f, pay})
		allocations = append(allocations, SettlementAllocation{Category: string(cashflow.ActualFine), Amount: pay, Description: "fine payment"})
	}

	interestPaid := remaining.Min(regularInterest)
	remaining = remaining.Sub(interestPaid)
	if interestPaid.IsPositive() {
		allocations = append(allocations, SettlementAllocation{Category: string(cashflow.ActualInterest), Amount: interestPaid, Description: "regular interest"})
	}

	moraPaid := remaining.Min(moraInterest)
	remaining = remaining.Sub(moraPaid)
	if moraPaid.IsPositive() {
		allocations = append(allocations, SettlementAllocation{Category: string(cashflow.ActualMoraInterest), Amount: moraPaid, Description: "mora interest"})
	}

	// Over-payment is judged against the full outstanding principal, not a
	// single installment: a large payment is allowed to cover several
	// installments at once (see nextUnpaidDueDate's balance-milestone
	// coverage). The same cap applies on every entry point: AnticipatePayment,
	// with or without installments, rejects a principal share above the
	// balance just as RecordPayment does, and no excess is carried over.
	if remaining.GreaterThan(balance) {
		return nil, loanerr.ErrOverPayment
	}
	principalPaid := remaining
	if principalPaid.IsPositive() {
		allocations = append(allocations, SettlementAllocation{Category: string(cashflow.ActualPrincipal), Amount: principalPaid, Description: "principal"})
	}
	leftover := money.Zero // remaining was fully consumed by principalPaid by construction

	newBalance := balance.Sub(principalPaid)

	// Commit.
	for _, fp := range finePayments {
		fp.fine.Paid = fp.fine.Paid.Add(fp.paid)
	}
	l.principalBalance = newBalance
	l.lastInterestCutoff = interestDate

	l.appendActualEntries(paymentDate, allocations)
	l.advanceOffsets(processingDate)

	if newBalance.IsZero() && len(l.OutstandingFines()) == 0 {
		l.status = PaidOff
	}

	return &Settlement{
		PaymentDate:    paymentDate,
		InterestDate:   interestDate,
		ProcessingDate: processingDate,
		Allocations:    allocations,
		TotalApplied:   amount.Sub(leftover),
		Remainder:      leftover,
	}, nil
}

func (l *Loan) appendActualEntries(at time.Time, allocations []SettlementAllocation) {
	for _, a := range allocations {
		l.actualFlow.Append(cashflow.NewItem(at, cashflow.Entry{
			Amount:      a.Amount,
			At:          at,
			Category:    cashflow.Category(a.Category),
			Description: a.Description,
		}))
	}
}

// advanceOffsets closes the group of items the payment just appended by
// recording the actual flow's length as a positional offset. Every payment
// call gets its own group whatever its dates: grouping never relies on
// datetime equality, so two payments recorded at the same instant stay
// distinct.
func (l *Loan) advanceOffsets(processingDate time.Time) {
	t := processingDate
	l.lastProcessingDate = &t
	l.paymentOffsets = append(l.paymentOffsets, len(l.actualFlow.Items()))
}

func sortedOutstandingFines(fines []*Fine) []*Fine {
	var out []*Fine
	for _, f := range fines {
		if f.Outstanding().IsPositive() {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// CalculateAnticipation is a pure calculation (it mutates nothing) of the
// total amount required to fully settle the given 1-based installment
// numbers as of interestDate. For each targeted installment not yet
// covered, in schedule order, it adds the principal that brings the running
// balance down to that installment's ending-balance milestone, plus
// interest accrued on the running balance up to the earlier of interestDate
// and that installment's due date. Targeting a later installment alone
// therefore includes the principal of every uncovered installment before it.
func (l *Loan) CalculateAnticipation(installments []int, interestDate time.Time) (money.Money, error) {
	if len(installments) == 0 {
		return money.Money{}, fmt.Errorf("loan: no installments given: %w", loanerr.ErrInvalidInput)
	}
	targets := make(map[int]bool, len(installments))
	for _, n := range installments {
		targets[n] = true
	}

	cutoff := l.lastInterestCutoff
	balance := l.principalBalance
	total := money.Zero

	for _, e := range l.schedule.Entries {
		if !targets[e.PaymentNumber] {
			continue
		}
		if !balance.GreaterThan(e.EndingBalance) {
			// already covered by principal paid down past this milestone
			continue
		}
		until := minTime(interestDate, e.DueDate)
		days := daysBetween(cutoff, until)
		if days < 0 {
			days = 0
		}
		interest := money.New(l.rate.Accrue(balance.Raw(), days).Sub(balance.Raw()))
		principalDue := balance.Sub(e.EndingBalance)
		total = total.Add(interest).Add(principalDue)
		cutoff = until
		balance = e.EndingBalance
	}

	return total, nil
}
