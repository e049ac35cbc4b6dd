package loan

import (
	"time"

	"github.com/warp/loan-engine/money"
)

// MoraStrategy selects how mora (late) interest is based once a payment
// arrives after its due date.
type MoraStrategy int

const (
	// Simple accrues mora interest on the principal balance alone.
	Simple MoraStrategy = iota
	// Compound accrues mora interest on the principal balance plus the
	// regular interest already accrued for the period.
	Compound
)

// Status is the Loan's lifecycle state.
type Status int

const (
	Active Status = iota
	PaidOff
)

func (s Status) String() string {
	if s == PaidOff {
		return "PAID_OFF"
	}
	return "ACTIVE"
}

// Fine is a late-payment penalty applied against a specific due date.
type Fine struct {
	DueDate   time.Time
	AppliedAt time.Time
	Amount    money.Money
	Paid      money.Money
}

// Outstanding returns the unpaid portion of the fine.
func (f *Fine) Outstanding() money.Money {
	return f.Amount.Sub(f.Paid)
}

// Installment is a read view of one schedule entry as observed from the
// loan's live state: what was expected, and what has actually been paid
// against it so far.
type Installment struct {
	Number         int
	DueDate        time.Time
	ExpectedAmount money.Money
	PrincipalPaid  money.Money
	InterestPaid   money.Money
	FinePaid       money.Money
}

// SettlementAllocation records how much of a single payment went toward
// one category of obligation.
type SettlementAllocation struct {
	Category    string
	Amount      money.Money
	Description string
}

// Settlement is the result of recording one payment: how the amount was
// split across outstanding fines, regular interest, mora interest, and
// principal.
type Settlement struct {
	PaymentDate    time.Time
	InterestDate   time.Time
	ProcessingDate time.Time
	Allocations    []SettlementAllocation
	TotalApplied   money.Money
	Remainder      money.Money
}
