/*
Package warp lets a caller observe a Loan's state as of an arbitrary
point in time without mutating the original.

Only one Warp may be active anywhere in the process at a time — Warp uses
a package-level guard the way the resource-engine's registry guards its
own package-level state, generalized here from a multi-entry map to a
single occupied/free slot, since only one time-travel session makes sense
at once. The guard is released on Close no matter how the caller's warped
session ends, including on panic, provided the caller defers Close.
*/
package warp

import (
	"sync"
	"time"

	"github.com/warp/loan-engine/loan"
	"github.com/warp/loan-engine/loanerr"
	"github.com/warp/loan-engine/timectx"
)

// ErrNestedWarp is returned when a Warp is requested while another Warp
// is already active anywhere in the process.
var ErrNestedWarp = loanerr.ErrNestedWarp

var (
	mu     sync.Mutex
	active bool
)

// Warp holds a cloned Loan pinned to a target instant. The original Loan
// passed to Enter is never modified.
type Warp struct {
	target time.Time
	Loan   *loan.Loan
	closed bool
}

// Enter clones original, pins the clone's time source to target, and
// pre-computes late fines on the clone up to target. Only one Warp may be
// active at a time; the caller must call Close (typically via defer) to
// release the slot.
func Enter(original *loan.Loan, target time.Time) (*Warp, error) {
	mu.Lock()
	if active {
		mu.Unlock()
		return nil, ErrNestedWarp
	}
	active = true
	mu.Unlock()

	target = normalizeTarget(original, target)

	clone := original.Clone()
	clone.TimeContext().Override(timectx.FixedTimeSource{At: target})
	clone.CalculateLateFines(target)

	return &Warp{target: target, Loan: clone}, nil
}

// Close releases the process-wide warp slot. Calling Close more than once
// is a no-op. The cloned Loan's state is discarded; nothing about the
// warp survives past Close.
func (w *Warp) Close() {
	if w.closed {
		return
	}
	w.closed = true
	mu.Lock()
	active = false
	mu.Unlock()
}

// Target returns the instant this Warp pinned its clone to.
func (w *Warp) Target() time.Time {
	return w.target
}

// normalizeTarget attaches the loan's default timezone to a naive target
// and, for a target with no time-of-day component, treats it as the start
// of that day.
func normalizeTarget(original *loan.Loan, target time.Time) time.Time {
	return original.TimeContext().EnsureAware(target)
}
