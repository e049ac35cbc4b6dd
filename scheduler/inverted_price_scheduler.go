/*
inverted_price_scheduler.go - constant-amortization (SAC) schedule

Each installment repays an equal slice of principal; interest is charged
on whatever balance remains, so the total payment shrinks over the life of
the loan instead of staying constant like Price/French amortization.
*/
package scheduler

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/loan-engine/interestrate"
	"github.com/warp/loan-engine/money"
)

// InvertedPriceScheduler builds a constant-amortization (SAC) schedule.
type InvertedPriceScheduler struct{}

func (InvertedPriceScheduler) Build(principal money.Money, rate interestrate.InterestRate, disbursementDate time.Time, dueDates []time.Time) (*Schedule, error) {
	n := len(dueDates)
	if n == 0 {
		return nil, fmt.Errorf("scheduler: no due dates given")
	}
	daily := rate.Daily()

	flatPrincipal := money.New(principal.Raw().Div(decimal.NewFromInt(int64(n))))

	entries := make([]Entry, n)
	balance := principal
	prevDate := disbursementDate
	principalSum := money.Zero

	for i, due := range dueDates {
		daysInPeriod := daysBetween(prevDate, due)
		interest := money.New(balance.Raw().Mul(onePlus(daily).Pow(decimal.NewFromInt(int64(daysInPeriod))).Sub(decimal.NewFromInt(1))))

		var principalPayment money.Money
		if i == n-1 {
			principalPayment = balance
		} else {
			principalPayment = flatPrincipal
		}
		paymentAmount := principalPayment.Add(interest)
		ending := balance.Sub(principalPayment)

		entries[i] = Entry{
			PaymentNumber:    i + 1,
			DueDate:          due,
			DaysInPeriod:     daysInPeriod,
			BeginningBalance: balance,
			PaymentAmount:    paymentAmount,
			PrincipalPayment: principalPayment,
			InterestPayment:  interest,
			EndingBalance:    ending,
		}

		principalSum = principalSum.Add(principalPayment)
		balance = ending
		prevDate = due
	}

	if drift := principal.Sub(principalSum); !drift.IsZero() {
		last := &entries[len(entries)-1]
		last.PrincipalPayment = last.PrincipalPayment.Add(drift)
		last.PaymentAmount = last.PaymentAmount.Add(drift)
		last.EndingBalance = last.EndingBalance.Sub(drift)
	}

	return &Schedule{Entries: entries, DisbursementDate: disbursementDate, Principal: principal, Rate: rate}, nil
}
