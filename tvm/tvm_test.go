package tvm_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/loan-engine/interestrate"
	"github.com/warp/loan-engine/money"
	"github.com/warp/loan-engine/tvm"
)

func day(d int) time.Time { return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC) }

func TestDiscountFactor_ZeroPeriodsIsOne(t *testing.T) {
	f := tvm.DiscountFactor(decimal.RequireFromString("0.10"), decimal.Zero)
	assert.True(t, f.Sub(decimal.NewFromInt(1)).Abs().LessThan(decimal.RequireFromString("0.0001")))
}

func TestPresentValue_PastFlowsClampToZeroDays(t *testing.T) {
	// GIVEN: a valuation date after one of the flow's dates
	// WHEN: computing present value
	// THEN: the past-dated flow discounts at day count zero (undiminished)
	rate := interestrate.New(decimal.RequireFromString("0.12"), interestrate.Annual, interestrate.Commercial)
	flow := []tvm.FlowPoint{
		{Amount: money.NewFromInt(100), At: day(1)},
	}
	pv := tvm.PresentValue(flow, rate, day(10))
	assert.True(t, pv.Equal(money.NewFromInt(100)))
}

func TestPresentValueOfAnnuity_ZeroRateIsFlatSum(t *testing.T) {
	pv := tvm.PresentValueOfAnnuity(money.NewFromInt(100), decimal.Zero, 12, tvm.End)
	assert.True(t, pv.Equal(money.NewFromInt(1200)))
}

func TestPresentValueOfPerpetuity_RejectsNonPositiveRate(t *testing.T) {
	_, err := tvm.PresentValueOfPerpetuity(money.NewFromInt(100), decimal.Zero)
	assert.Error(t, err)
}

func TestInternalRateOfReturn_SimpleTwoFlow(t *testing.T) {
	// GIVEN: -1000 today, +1200 in one year
	// WHEN: solving for IRR
	// THEN: the rate is close to 20%
	flow := []tvm.FlowPoint{
		{Amount: money.NewFromInt(-1000), At: day(1)},
		{Amount: money.NewFromInt(1200), At: day(1).AddDate(1, 0, 0)},
	}
	rate, err := tvm.InternalRateOfReturn(flow, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.20, rate.Rate().InexactFloat64(), 0.01)
}

func TestInternalRateOfReturn_RejectsSingleSignedFlow(t *testing.T) {
	flow := []tvm.FlowPoint{
		{Amount: money.NewFromInt(100), At: day(1)},
		{Amount: money.NewFromInt(200), At: day(30)},
	}
	_, err := tvm.InternalRateOfReturn(flow, nil)
	assert.ErrorIs(t, err, tvm.ErrNoSignChange)
}

func TestModifiedInternalRateOfReturn_RequiresBothSigns(t *testing.T) {
	flow := []tvm.FlowPoint{
		{Amount: money.NewFromInt(100), At: day(1)},
	}
	_, err := tvm.ModifiedInternalRateOfReturn(flow, decimal.RequireFromString("0.1"), decimal.RequireFromString("0.1"))
	assert.ErrorIs(t, err, tvm.ErrNoSignChange)
}

func TestBrent_FindsRootOfSimpleFunction(t *testing.T) {
	// f(x) = x^2 - 4, root at 2 within [0, 3]
	root, err := tvm.Brent(func(x float64) float64 { return x*x - 4 }, 0, 3, 1e-6)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, root, 1e-4)
}

func TestBrent_RejectsInvalidBracket(t *testing.T) {
	_, err := tvm.Brent(func(x float64) float64 { return x + 10 }, 0, 3, 1e-6)
	assert.ErrorIs(t, err, tvm.ErrInvalidBracket)
}
