/*
Package scheduler builds amortization schedules from a principal, a rate,
a disbursement date, and a sequence of due dates.
*/
package scheduler

import (
	"time"

	"github.com/warp/loan-engine/interestrate"
	"github.com/warp/loan-engine/money"
)

// Entry is one frozen row of an amortization schedule.
type Entry struct {
	PaymentNumber    int
	DueDate          time.Time
	DaysInPeriod     int
	BeginningBalance money.Money
	PaymentAmount    money.Money
	PrincipalPayment money.Money
	InterestPayment  money.Money
	EndingBalance    money.Money
}

// Schedule is the frozen output of building an amortization plan.
//
// Invariants:
//   - Entries[k+1].BeginningBalance == Entries[k].EndingBalance
//   - sum(Entries[i].PrincipalPayment) == Principal, to the cent
//   - Entries[last].EndingBalance == 0
type Schedule struct {
	Entries          []Entry
	DisbursementDate time.Time
	Principal        money.Money
	Rate             interestrate.InterestRate
}

// TotalPrincipal sums the principal component across every entry.
func (s *Schedule) TotalPrincipal() money.Money {
	total := money.Zero
	for _, e := range s.Entries {
		total = total.Add(e.PrincipalPayment)
	}
	return total
}

// TotalInterest sums the interest component across every entry.
func (s *Schedule) TotalInterest() money.Money {
	total := money.Zero
	for _, e := range s.Entries {
		total = total.Add(e.InterestPayment)
	}
	return total
}

// InstallmentAmount returns the payment amount expected for the given
// 1-based payment number, or (Money{}, false) if out of range.
func (s *Schedule) InstallmentAmount(paymentNumber int) (money.Money, bool) {
	for _, e := range s.Entries {
		if e.PaymentNumber == paymentNumber {
			return e.PaymentAmount, true
		}
	}
	return money.Money{}, false
}

// DueDateFor returns the due date for the given 1-based payment number.
func (s *Schedule) DueDateFor(paymentNumber int) (time.Time, bool) {
	for _, e := range s.Entries {
		if e.PaymentNumber == paymentNumber {
			return e.DueDate, true
		}
	}
	return time.Time{}, false
}

// Builder produces a Schedule for a principal amortized over a set of due
// dates at a given rate.
type Builder interface {
	Build(principal money.Money, rate interestrate.InterestRate, disbursementDate time.Time, dueDates []time.Time) (*Schedule, error)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
