/*
Package loan implements the personal-loan state machine: amortization
against a fixed schedule, payment recording with a strict allocation
priority (fines, then interest split into regular and mora, then
principal), late-fee accrual, and a queryable cash-flow history.

Grounded on the payment lifecycle described for a personal loan, with the
Go shape (constructor-time validation before any state exists, an
append-only actual-payment history, sentinel-plus-structured errors)
following the resource-engine's own domain packages.
*/
package loan

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/loan-engine/cashflow"
	"github.com/warp/loan-engine/interestrate"
	"github.com/warp/loan-engine/loanerr"
	"github.com/warp/loan-engine/money"
	"github.com/warp/loan-engine/scheduler"
	"github.com/warp/loan-engine/tax"
	"github.com/warp/loan-engine/timectx"
)

// Loan is a stateful personal-loan amortization tracker. It owns its
// schedule, its shared time context, and its append-only payment history.
// A single Loan must not be mutated concurrently from more than one
// goroutine; callers needing point-in-time views without racing live
// mutation should use the warp package.
type Loan struct {
	principal        money.Money
	disbursementDate time.Time
	rate             interestrate.InterestRate
	schedule         *scheduler.Schedule
	builder          scheduler.Builder
	gracePeriodDays  int
	fineRate         decimal.Decimal
	moraRate         *interestrate.InterestRate
	moraStrategy     MoraStrategy

	timeCtx *timectx.Context

	principalBalance   money.Money
	lastInterestCutoff time.Time
	fines              []*Fine
	finesApplied       map[string]bool

	expectedFlow *cashflow.Flow
	actualFlow   *cashflow.Flow

	lastProcessingDate *time.Time
	paymentOffsets     []int

	status Status

	taxCalculator tax.Calculator
	taxResult     *tax.Result
}

// Option configures optional Loan behavior at construction time.
type Option func(*Loan)

// WithGracePeriod sets the number of days after a due date before a late
// fine can be applied against it.
func WithGracePeriod(days int) Option {
	return func(l *Loan) { l.gracePeriodDays = days }
}

// WithFineRate sets the late-fine rate, applied against the expected
// installment amount of the missed due date.
func WithFineRate(rate decimal.Decimal) Option {
	return func(l *Loan) { l.fineRate = rate }
}

// WithMoraStrategy selects how mora interest is based.
func WithMoraStrategy(s MoraStrategy) Option {
	return func(l *Loan) { l.moraStrategy = s }
}

// WithMoraRate sets the rate mora (late) interest accrues at once a
// payment arrives after its due date. Defaults to the loan's own
// contractual rate when not given.
func WithMoraRate(rate interestrate.InterestRate) Option {
	return func(l *Loan) { l.moraRate = &rate }
}

// MoraRate returns the rate mora interest accrues at: the configured
// WithMoraRate override, or the loan's own contractual rate.
func (l *Loan) MoraRate() interestrate.InterestRate {
	if l.moraRate != nil {
		return *l.moraRate
	}
	return l.rate
}

// WithTimeContext overrides the loan's shared time source. Every cash-flow
// item created by the loan resolves against this context.
func WithTimeContext(ctx *timectx.Context) Option {
	return func(l *Loan) { l.timeCtx = ctx }
}

// WithTax attaches a tax calculator. New computes the taxes once, from the
// loan's original (immutable) schedule, while building the loan, and Taxes
// returns that cached result from then on; the computation is not deferred
// to the first Taxes call.
func WithTax(calc tax.Calculator) Option {
	return func(l *Loan) { l.taxCalculator = calc }
}

// New builds a Loan by amortizing principal over dueDates at rate,
// starting from disbursementDate, using builder to produce the schedule.
//
// disbursementDate must be strictly before the earliest due date.
func New(principal money.Money, rate interestrate.InterestRate, disbursementDate time.Time, dueDates []time.Time, builder scheduler.Builder, opts ...Option) (*Loan, error) {
	if !principal.IsPositive() {
		return nil, fmt.Errorf("loan: principal must be positive: %w", loanerr.ErrInvalidInput)
	}
	if len(dueDates) == 0 {
		return nil, fmt.Errorf("loan: at least one due date is required: %w", loanerr.ErrInvalidInput)
	}
	earliest := dueDates[0]
	for _, d := range dueDates[1:] {
		if d.Before(earliest) {
			earliest = d
		}
	}
	if !disbursementDate.Before(earliest) {
		return nil, fmt.Errorf("loan: disbursement date must be before the first due date: %w", loanerr.ErrInvalidDate)
	}

	sched, err := builder.Build(principal, rate, disbursementDate, dueDates)
	if err != nil {
		return nil, fmt.Errorf("loan: building schedule: %w", err)
	}

	l := &Loan{
		principal:          principal,
		disbursementDate:   disbursementDate,
		rate:               rate,
		schedule:           sched,
		builder:            builder,
		moraStrategy:       Simple,
		timeCtx:            timectx.New(time.UTC),
		principalBalance:   principal,
		lastInterestCutoff: disbursementDate,
		finesApplied:       make(map[string]bool),
		status:             Active,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.expectedFlow = buildExpectedFlow(sched, disbursementDate, money.Zero)
	l.actualFlow = cashflow.NewFlow()

	if l.taxCalculator != nil {
		result, err := l.Taxes()
		if err != nil {
			return nil, fmt.Errorf("loan: computing taxes: %w", err)
		}
		l.expectedFlow = buildExpectedFlow(sched, disbursementDate, result.Total)
	}

	return l, nil
}

// buildExpectedFlow lays out the schedule as a cash-flow stream. Every
// item's temporal effective date is the disbursement date itself — the
// whole schedule is known and fixed the moment the loan is created — even
// though the item's Entry.At (the date the cash movement itself occurs)
// is the installment's own due date. Conflating the two would make
// far-future installments invisible to a query run before their due date.
//
// When totalTax is positive, the disbursement is recorded net of tax and a
// separate expected_tax entry carries the withheld amount, so a present
// value or IRR computed over this flow accounts for tax without any
// special-casing at the call site.
func buildExpectedFlow(sched *scheduler.Schedule, disbursementDate time.Time, totalTax money.Money) *cashflow.Flow {
	flow := cashflow.NewFlow()
	flow.Append(cashflow.NewItem(disbursementDate, cashflow.Entry{
		Amount:      sched.Principal.Sub(totalTax),
		At:          disbursementDate,
		Category:    cashflow.ExpectedDisbursement,
		Description: "loan disbursement",
	}))
	if totalTax.IsPositive() {
		flow.Append(cashflow.NewItem(disbursementDate, cashflow.Entry{
			Amount:      totalTax.Neg(),
			At:          disbursementDate,
			Category:    cashflow.ExpectedTax,
			Description: "tax withheld at disbursement",
		}))
	}
	for _, e := range sched.Entries {
		flow.Append(cashflow.NewItem(disbursementDate, cashflow.Entry{
			Amount:      e.PrincipalPayment.Neg(),
			At:          e.DueDate,
			Category:    cashflow.ExpectedPrincipal,
			Description: fmt.Sprintf("installment %d principal", e.PaymentNumber),
		}))
		flow.Append(cashflow.NewItem(disbursementDate, cashflow.Entry{
			Amount:      e.InterestPayment.Neg(),
			At:          e.DueDate,
			Category:    cashflow.ExpectedInterest,
			Description: fmt.Sprintf("installment %d interest", e.PaymentNumber),
		}))
	}
	return flow
}

// Principal returns the original disbursed principal.
func (l *Loan) Principal() money.Money { return l.principal }

// PrincipalBalance returns the currently outstanding principal.
func (l *Loan) PrincipalBalance() money.Money { return l.principalBalance }

// Schedule returns the loan's original, immutable amortization schedule.
func (l *Loan) Schedule() *scheduler.Schedule { return l.schedule }

// Status returns the loan's current lifecycle state.
func (l *Loan) Status() Status { return l.status }

// TimeContext returns the loan's shared time source.
func (l *Loan) TimeContext() *timectx.Context { return l.timeCtx }

// OutstandingFines returns the fines that have not been fully paid, oldest
// due date first.
func (l *Loan) OutstandingFines() []*Fine {
	var out []*Fine
	for _, f := range l.fines {
		if f.Outstanding().IsPositive() {
			out = append(out, f)
		}
	}
	return out
}

// CashFlow selects the expected or actual cash-flow stream and returns a
// query over it as of the loan's current time.
func (l *Loan) CashFlow(kind FlowKind) *cashflow.Query {
	at := l.timeCtx.Now()
	if kind == Expected {
		return l.expectedFlow.Query(at)
	}
	return l.actualFlow.Query(at)
}

// FlowKind selects which of a loan's two cash-flow streams to query.
type FlowKind int

const (
	Expected FlowKind = iota
	Actual
)

// Taxes computes (once) and caches the tax owed on this loan's original
// schedule. Returns an empty Result if no tax calculator was configured.
func (l *Loan) Taxes() (tax.Result, error) {
	if l.taxCalculator == nil {
		return tax.Result{}, nil
	}
	if l.taxResult != nil {
		return *l.taxResult, nil
	}
	result, err := l.taxCalculator.Calculate(l.schedule, l.disbursementDate)
	if err != nil {
		return tax.Result{}, err
	}
	l.taxResult = &result
	return result, nil
}

// nextUnpaidDueDate finds the earliest schedule entry whose original
// ending-balance milestone has not yet been reached by the current
// principal balance. This tracks due-date coverage by how much principal
// remains, not by counting how many RecordPayment calls have happened,
// so a single large payment can cover several installments at once.
func (l *Loan) nextUnpaidDueDate() (scheduler.Entry, bool) {
	for _, e := range l.schedule.Entries {
		if l.principalBalance.GreaterThan(e.EndingBalance) {
			return e, true
		}
	}
	return scheduler.Entry{}, false
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// deleteExpectedInstallments temporally deletes, as of effectiveDate, the
// expected principal and interest items whose due date matches one of the
// given 1-based installment numbers. History up to effectiveDate is
// untouched; only later resolves of the expected flow stop seeing them.
func (l *Loan) deleteExpectedInstallments(installments []int, effectiveDate time.Time) {
	var dueDates []time.Time
	for _, n := range installments {
		if d, ok := l.schedule.DueDateFor(n); ok {
			dueDates = append(dueDates, d)
		}
	}
	if len(dueDates) == 0 {
		return
	}
	for _, item := range l.expectedFlow.Items() {
		entry, ok := item.Resolve(effectiveDate)
		if !ok {
			continue
		}
		if entry.Category != cashflow.ExpectedPrincipal && entry.Category != cashflow.ExpectedInterest {
			continue
		}
		for _, d := range dueDates {
			if entry.At.Equal(d) {
				item.Delete(effectiveDate)
				break
			}
		}
	}
}
