/*
Package tax computes the up-front tax owed on a loan's disbursement and
solves the "grossup" problem: what principal, once taxed, nets the
borrower a specific requested amount.

Grounded on a Brazilian-style IOF tax (a small daily rate on the
outstanding principal capped at a maximum day count, plus a flat
additional rate), but the Calculator interface accepts any tax rule that
can look at a schedule and a disbursement date and price itself.
*/
package tax

import (
	"time"

	"github.com/warp/loan-engine/money"
	"github.com/warp/loan-engine/scheduler"
)

// InstallmentDetail is the tax attributed to one schedule entry.
type InstallmentDetail struct {
	PaymentNumber    int
	DueDate          time.Time
	PrincipalPayment money.Money
	Tax              money.Money
}

// Result is the total tax owed and its per-installment breakdown.
type Result struct {
	Total          money.Money
	PerInstallment []InstallmentDetail
}

// Calculator prices the tax owed on a schedule disbursed on a given date.
type Calculator interface {
	Calculate(schedule *scheduler.Schedule, disbursementDate time.Time) (Result, error)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
