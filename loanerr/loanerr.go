/*
Package loanerr centralizes the sentinel errors surfaced by this module,
the way the resource-engine keeps every domain error in one errors.go for
consistency and discoverability. The loan, warp, tax and tvm packages
return these directly, re-export them, or wrap them so errors.Is finds
them. Not every error traces back here: money, interestrate and scheduler
return their own plain errors (which loan wraps as they come), and
tvm.ErrInvalidBracket and tvm's non-positive perpetuity rate error are
separate values.
*/
package loanerr

import "errors"

var (
	// ErrInvalidInput is returned when a constructor or method argument
	// fails a validation rule (negative amount, empty schedule, etc).
	ErrInvalidInput = errors.New("loan: invalid input")

	// ErrInvalidDate is returned when a date argument is out of order or
	// otherwise nonsensical for the operation (for example a disbursement
	// date not before the first due date).
	ErrInvalidDate = errors.New("loan: invalid date")

	// ErrNestedWarp is returned when a warp is requested while another is
	// already active anywhere in the process.
	ErrNestedWarp = errors.New("loan: another warp is already active")

	// ErrNoSignChange is returned when a cash flow never changes sign, so
	// no rate of return exists to solve for.
	ErrNoSignChange = errors.New("loan: cash flow has no sign change")

	// ErrNoConvergence is returned when a root-finder cannot converge to
	// a plausible result.
	ErrNoConvergence = errors.New("loan: calculation did not converge")

	// ErrOverPayment is returned when the principal share of a payment
	// (what is left after fines and interest) exceeds the outstanding
	// principal balance. Every payment entry point applies this check,
	// including AnticipatePayment with targeted installments.
	ErrOverPayment = errors.New("loan: payment exceeds outstanding balance")

	// ErrPaidOff is returned when an operation that requires an active
	// loan is attempted after the loan has reached PAID_OFF.
	ErrPaidOff = errors.New("loan: loan is already paid off")
)
