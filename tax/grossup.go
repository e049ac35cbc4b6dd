/*
grossup.go - solve for the principal that nets a borrower a target amount
after tax is deducted.

f(P) = P - requested - tax(P) is bracketed over [requested, 2*requested]
and solved with the same bracketed root-finder tvm uses for internal rate
of return. Brent's method converges to within an absolute tolerance, not
to an exact cent, so a refinement step snaps the result to the cent grid
afterward: it checks the cent below, the cent at, and the two cents above
the converged value (rounded to the cent) and keeps the smallest one that
still nets at least the requested amount.
*/
package tax

import (
	"fmt"
	"time"

	"github.com/warp/loan-engine/loanerr"
	"github.com/warp/loan-engine/money"
	"github.com/warp/loan-engine/scheduler"
	"github.com/warp/loan-engine/tvm"
)

// ScheduleBuilder rebuilds a schedule for a candidate principal, holding
// the rate, disbursement date, and due dates fixed. Grossup search
// re-solves the schedule at each candidate principal since a Price
// schedule's payment amounts (and therefore each installment's tax share)
// scale with principal.
type ScheduleBuilder func(principal money.Money) (*scheduler.Schedule, error)

// GrossupResult carries the solved principal alongside the request that
// produced it, ready to hand to a Loan constructor.
type GrossupResult struct {
	RequestedAmount money.Money
	Principal       money.Money
	Tax             money.Money
}

// Grossup solves for the principal whose post-tax net is at least
// requestedAmount, using calc to price the tax at each candidate.
func Grossup(requestedAmount money.Money, disbursementDate time.Time, calc Calculator, buildSchedule ScheduleBuilder) (*GrossupResult, error) {
	if !requestedAmount.IsPositive() {
		return nil, loanerr.ErrInvalidInput
	}

	netOf := func(principal money.Money) (money.Money, money.Money, error) {
		sched, err := buildSchedule(principal)
		if err != nil {
			return money.Money{}, money.Money{}, err
		}
		result, err := calc.Calculate(sched, disbursementDate)
		if err != nil {
			return money.Money{}, money.Money{}, err
		}
		return principal.Sub(result.Total), result.Total, nil
	}

	f := func(p float64) float64 {
		net, _, err := netOf(money.NewFromFloat(p))
		if err != nil {
			return 1e18
		}
		return net.Raw().Sub(requestedAmount.Raw()).InexactFloat64()
	}

	lo := requestedAmount.Raw().InexactFloat64()
	hi := lo * 2
	root, err := tvm.Brent(f, lo, hi, 1e-4)
	if err != nil {
		return nil, fmt.Errorf("tax: grossup did not converge: %w", err)
	}

	principal, tax, err := snapToCent(root, requestedAmount, netOf)
	if err != nil {
		return nil, err
	}

	return &GrossupResult{RequestedAmount: requestedAmount, Principal: principal, Tax: tax}, nil
}

// snapToCent rounds root to the cent and, among that cent, the cent below
// and the two cents above, returns the smallest principal whose net still
// covers requestedAmount (which may lie below root).
func snapToCent(root float64, requestedAmount money.Money, netOf func(money.Money) (money.Money, money.Money, error)) (money.Money, money.Money, error) {
	base := money.NewFromFloat(root).Real()
	candidates := []money.Money{base.Sub(money.FromCents(1)), base, base.Add(money.FromCents(1)), base.Add(money.FromCents(2))}

	var best *money.Money
	var bestTax money.Money
	for _, c := range candidates {
		net, tax, err := netOf(c)
		if err != nil {
			continue
		}
		if net.GreaterThanOrEqual(requestedAmount) {
			if best == nil || c.LessThan(*best) {
				cc := c
				best = &cc
				bestTax = tax
			}
		}
	}
	if best == nil {
		return money.Money{}, money.Money{}, loanerr.ErrNoConvergence
	}
	return *best, bestTax, nil
}

// ToLoan is a marker method documenting intent: callers construct the Loan
// themselves with the solved principal, since Loan construction needs the
// full set of loan options (grace period, fine rate, mora strategy) that
// Grossup has no opinion about.
func (r *GrossupResult) ToLoan() money.Money {
	return r.Principal
}
