/*
price_scheduler.go - constant-payment (French/Price) amortization

The payment amount P is the same linear factor in every discounted term of
the present-value identity

	P * sum_k (1+r)^(-d_k) = principal

where d_k is the day count from disbursement to the k-th due date. Because
P factors out of the sum, it has a direct closed-form solution — no
root-finding needed:

	P = principal / sum_k (1+r)^(-d_k)

This is more precise than amortizing off an average days-per-payment
figure: each due date discounts by its own actual day count.
*/
package scheduler

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/loan-engine/interestrate"
	"github.com/warp/loan-engine/money"
)

// PriceScheduler builds a constant-payment amortization schedule.
type PriceScheduler struct{}

func (PriceScheduler) Build(principal money.Money, rate interestrate.InterestRate, disbursementDate time.Time, dueDates []time.Time) (*Schedule, error) {
	if len(dueDates) == 0 {
		return nil, fmt.Errorf("scheduler: no due dates given")
	}
	daily := rate.Daily()

	discountSum := decimal.Zero
	cumulativeDays := make([]int, len(dueDates))
	for i, due := range dueDates {
		d := daysBetween(disbursementDate, due)
		cumulativeDays[i] = d
		factor := onePlus(daily).Pow(decimal.NewFromInt(int64(-d)))
		discountSum = discountSum.Add(factor)
	}

	payment := money.New(principal.Raw().Div(discountSum))

	entries := make([]Entry, len(dueDates))
	balance := principal
	prevDate := disbursementDate
	principalSum := money.Zero

	for i, due := range dueDates {
		daysInPeriod := daysBetween(prevDate, due)
		interest := money.New(balance.Raw().Mul(onePlus(daily).Pow(decimal.NewFromInt(int64(daysInPeriod))).Sub(decimal.NewFromInt(1))))

		var principalPayment, paymentAmount money.Money
		if i == len(dueDates)-1 {
			// Last entry absorbs whatever residual remains so the schedule
			// ends at exactly zero. balance carries raw precision rather than
			// cent-rounded intermediate installments, matching
			// price_scheduler.py's own use of payment_amount.raw_amount; a
			// schedule built from cent-rounded installments throughout would
			// land the last payment a few cents differently.
			principalPayment = balance
			paymentAmount = principalPayment.Add(interest)
		} else {
			paymentAmount = payment
			principalPayment = paymentAmount.Sub(interest)
		}

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

	// Reconcile rounding: if the running sum of principal payments drifted
	// from the requested principal by a cent, fold the drift into the last
	// entry so the invariant sum(principal) == principal holds exactly.
	if drift := principal.Sub(principalSum); !drift.IsZero() {
		last := &entries[len(entries)-1]
		last.PrincipalPayment = last.PrincipalPayment.Add(drift)
		last.PaymentAmount = last.PaymentAmount.Add(drift)
		last.EndingBalance = last.EndingBalance.Sub(drift)
	}

	return &Schedule{Entries: entries, DisbursementDate: disbursementDate, Principal: principal, Rate: rate}, nil
}

func onePlus(d decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(d)
}
