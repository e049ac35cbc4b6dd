package warp_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/loan-engine/interestrate"
	"github.com/warp/loan-engine/loan"
	"github.com/warp/loan-engine/money"
	"github.com/warp/loan-engine/scheduler"
	"github.com/warp/loan-engine/warp"
)

func dueDates(start time.Time, n int) []time.Time {
	dates := make([]time.Time, n)
	for i := 1; i <= n; i++ {
		dates[i-1] = start.AddDate(0, i, 0)
	}
	return dates
}

func newTestLoan(t *testing.T) *loan.Loan {
	disbursement := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	rate := interestrate.New(decimal.RequireFromString("0.02"), interestrate.Monthly, interestrate.Commercial)
	l, err := loan.New(
		money.NewFromInt(12000), rate, disbursement, dueDates(disbursement, 12), scheduler.PriceScheduler{},
		loan.WithGracePeriod(5), loan.WithFineRate(decimal.RequireFromString("0.02")),
	)
	require.NoError(t, err)
	return l
}

func TestEnter_PinsCloneWithoutTouchingOriginal(t *testing.T) {
	l := newTestLoan(t)
	firstDue, _ := l.Schedule().DueDateFor(1)
	target := firstDue.AddDate(0, 0, 30)

	w, err := warp.Enter(l, target)
	require.NoError(t, err)
	defer w.Close()

	assert.True(t, w.Target().Equal(target))
	assert.True(t, w.Loan.PrincipalBalance().Equal(l.PrincipalBalance()))
	assert.NotSame(t, l, w.Loan)
}

func TestEnter_PreComputesLateFinesOnTheClone(t *testing.T) {
	l := newTestLoan(t)
	firstDue, _ := l.Schedule().DueDateFor(1)
	target := firstDue.AddDate(0, 0, 30)

	w, err := warp.Enter(l, target)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, 1, len(w.Loan.OutstandingFines()), "clone should have a late fine for the missed first installment")
	assert.Equal(t, 0, len(l.OutstandingFines()), "original loan is untouched by the clone's fine accrual")
}

func TestEnter_RejectsNestedWarp(t *testing.T) {
	l := newTestLoan(t)
	firstDue, _ := l.Schedule().DueDateFor(1)

	w, err := warp.Enter(l, firstDue)
	require.NoError(t, err)
	defer w.Close()

	_, err = warp.Enter(l, firstDue.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, warp.ErrNestedWarp)
}

func TestClose_ReleasesTheSlotForANewWarp(t *testing.T) {
	l := newTestLoan(t)
	firstDue, _ := l.Schedule().DueDateFor(1)

	w, err := warp.Enter(l, firstDue)
	require.NoError(t, err)
	w.Close()
	w.Close() // idempotent

	w2, err := warp.Enter(l, firstDue.AddDate(0, 0, 1))
	require.NoError(t, err)
	defer w2.Close()
}

func TestEnter_MutatingTheCloneNeverAffectsTheOriginal(t *testing.T) {
	l := newTestLoan(t)
	firstDue, _ := l.Schedule().DueDateFor(1)
	amount, _ := l.Schedule().InstallmentAmount(1)

	w, err := warp.Enter(l, firstDue)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Loan.RecordPayment(firstDue, firstDue, firstDue, amount)
	require.NoError(t, err)

	assert.True(t, l.PrincipalBalance().Equal(l.Principal()))
	assert.True(t, w.Loan.PrincipalBalance().LessThan(w.Loan.Principal()))
}
