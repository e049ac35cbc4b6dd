/*
clone.go - deep clone for Warp

Clone produces a fully independent Loan: its own time context, its own
payment history, its own fine ledger. Mutating the clone (as Warp's
pre-computed late fines do) never touches the original, and the original
is guaranteed byte-for-byte unaffected by any Clone call.
*/
package loan

import "time"

// Clone returns a deep, independent copy of the loan.
func (l *Loan) Clone() *Loan {
	fines := make([]*Fine, len(l.fines))
	for i, f := range l.fines {
		clone := *f
		fines[i] = &clone
	}
	finesApplied := make(map[string]bool, len(l.finesApplied))
	for k, v := range l.finesApplied {
		finesApplied[k] = v
	}

	var lastProcessing *time.Time
	if l.lastProcessingDate != nil {
		t := *l.lastProcessingDate
		lastProcessing = &t
	}
	offsets := make([]int, len(l.paymentOffsets))
	copy(offsets, l.paymentOffsets)

	clone := &Loan{
		principal:          l.principal,
		disbursementDate:   l.disbursementDate,
		rate:               l.rate,
		schedule:           l.schedule, // immutable, safe to share
		builder:            l.builder,
		gracePeriodDays:    l.gracePeriodDays,
		fineRate:           l.fineRate,
		moraRate:           l.moraRate,
		moraStrategy:       l.moraStrategy,
		timeCtx:            l.timeCtx.Clone(),
		principalBalance:   l.principalBalance,
		lastInterestCutoff: l.lastInterestCutoff,
		fines:              fines,
		finesApplied:       finesApplied,
		expectedFlow:       l.expectedFlow.Clone(),
		actualFlow:         l.actualFlow.Clone(),
		lastProcessingDate: lastProcessing,
		paymentOffsets:     offsets,
		status:             l.status,
		taxCalculator:      l.taxCalculator,
	}
	if l.taxResult != nil {
		r := *l.taxResult
		clone.taxResult = &r
	}
	return clone
}
