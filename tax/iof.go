/*
iof.go - IOF-style tax on principal disbursement

IOF charges a small daily rate on principal for each day outstanding, up
to a maximum day count, plus a flat additional rate charged once. Two
jurisdictional presets fix the applicable rates: individual borrowers pay
a higher daily rate than corporate ones.
*/
package tax

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/loan-engine/money"
	"github.com/warp/loan-engine/scheduler"
)

// Rounding controls how the daily and additional components combine.
type Rounding int

const (
	// Precise sums both components at full decimal precision, then
	// rounds once to the cent.
	Precise Rounding = iota
	// PerComponent rounds each component to the cent independently, then
	// sums the rounded values.
	PerComponent
)

// IOF is a daily-rate-plus-flat-additional tax on principal.
type IOF struct {
	DailyRate      decimal.Decimal
	AdditionalRate decimal.Decimal
	MaxDailyDays   int
	Rounding       Rounding
}

// IndividualIOF fixes the jurisdictional default rates for a natural-person
// borrower.
func IndividualIOF() IOF {
	return IOF{
		DailyRate:      decimal.RequireFromString("0.000082"),
		AdditionalRate: decimal.RequireFromString("0.0038"),
		MaxDailyDays:   365,
		Rounding:       Precise,
	}
}

// CorporateIOF fixes the jurisdictional default rates for a corporate
// borrower.
func CorporateIOF() IOF {
	return IOF{
		DailyRate:      decimal.RequireFromString("0.000041"),
		AdditionalRate: decimal.RequireFromString("0.0038"),
		MaxDailyDays:   365,
		Rounding:       Precise,
	}
}

var _ Calculator = IOF{}

// Calculate prices IOF per installment: for each schedule entry, a daily
// component on that entry's own principal share for the days it is
// outstanding (capped at MaxDailyDays), plus a flat additional component,
// rounded per the configured Rounding and summed across installments. This
// mirrors how each installment carries a different day count from
// disbursement, rather than pricing the tax once against the whole
// principal and splitting the result back out pro-rata.
func (t IOF) Calculate(sched *scheduler.Schedule, disbursementDate time.Time) (Result, error) {
	details := make([]InstallmentDetail, len(sched.Entries))
	total := money.Zero

	for i, e := range sched.Entries {
		days := daysBetween(disbursementDate, e.DueDate)
		if days > t.MaxDailyDays {
			days = t.MaxDailyDays
		}
		principal := e.PrincipalPayment.Raw()

		dailyComponent := principal.Mul(t.DailyRate).Mul(decimal.NewFromInt(int64(days)))
		additionalComponent := principal.Mul(t.AdditionalRate)

		var installmentTax money.Money
		switch t.Rounding {
		case PerComponent:
			installmentTax = money.New(dailyComponent).Real().Add(money.New(additionalComponent).Real())
		default:
			installmentTax = money.New(dailyComponent.Add(additionalComponent)).Real()
		}

		details[i] = InstallmentDetail{
			PaymentNumber:    e.PaymentNumber,
			DueDate:          e.DueDate,
			PrincipalPayment: e.PrincipalPayment,
			Tax:              installmentTax,
		}
		total = total.Add(installmentTax)
	}

	return Result{Total: total, PerInstallment: details}, nil
}
