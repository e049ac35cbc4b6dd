/*
Package interestrate models a named interest rate and the conversions
between compounding frequencies.

CANONICAL FORM:
  Every InterestRate pivots through its effective annual rate. Converting
  from any supported Frequency to EffectiveAnnual, and from EffectiveAnnual
  to Daily (given a YearSize), covers every conversion the rest of the
  engine needs: schedulers and Loan only ever ask a rate for its daily
  form and accrue against a day count.

STRING FORM:
  Rates parse from strings like "12% a.a." or "0.02 monthly". A trailing
  "%" means the number is a percentage; its absence means the number is
  already a decimal fraction. See Parse for the token grammar. String
  renders the stated rate as a decimal fraction ("0.12 a.a."), never as a
  percentage.
*/
package interestrate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Frequency names how often a rate compounds.
type Frequency int

const (
	Daily Frequency = iota
	Monthly
	Quarterly
	SemiAnnual
	Annual
	Continuous
)

func (f Frequency) String() string {
	switch f {
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case SemiAnnual:
		return "semi_annual"
	case Annual:
		return "annual"
	case Continuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// YearSize is the day-count convention used to derive a daily rate from an
// effective annual rate.
type YearSize int

const (
	// Commercial is the 365-day convention.
	Commercial YearSize = 365
	// Banker is the 360-day convention.
	Banker YearSize = 360
)

// DisplayStyle controls how String renders the period token.
type DisplayStyle int

const (
	Long DisplayStyle = iota
	Abbreviated
)

// periodsPerYear returns how many times a periodic frequency compounds in a
// year. Continuous and Daily are handled separately by their callers.
func periodsPerYear(f Frequency) decimal.Decimal {
	switch f {
	case Monthly:
		return decimal.NewFromInt(12)
	case Quarterly:
		return decimal.NewFromInt(4)
	case SemiAnnual:
		return decimal.NewFromInt(2)
	case Annual:
		return decimal.NewFromInt(1)
	default:
		return decimal.NewFromInt(1)
	}
}

// InterestRate is an immutable named rate value.
type InterestRate struct {
	rate         decimal.Decimal // the rate exactly as given, in the stated Frequency
	frequency    Frequency
	yearSize     YearSize
	precision    *int32
	displayStyle DisplayStyle
	periods      int // periods/year overriding periodsPerYear(frequency); 0 means "derive from frequency"
}

// New builds an InterestRate from a decimal fraction (0.12 == 12%).
func New(rate decimal.Decimal, frequency Frequency, yearSize YearSize) InterestRate {
	return InterestRate{rate: rate, frequency: frequency, yearSize: yearSize}
}

// newPeriodic builds a rate stated numPeriods times a year, tagging it with
// the closest matching named Frequency for display purposes while keeping
// numPeriods itself as the source of truth for EffectiveAnnual.
func newPeriodic(rate decimal.Decimal, numPeriods int, yearSize YearSize) InterestRate {
	freq, exact := frequencyForPeriods(numPeriods)
	r := InterestRate{rate: rate, frequency: freq, yearSize: yearSize}
	if !exact {
		r.periods = numPeriods
	}
	return r
}

func frequencyForPeriods(numPeriods int) (Frequency, bool) {
	switch numPeriods {
	case 1:
		return Annual, true
	case 2:
		return SemiAnnual, true
	case 4:
		return Quarterly, true
	case 12:
		return Monthly, true
	default:
		return Annual, false
	}
}

// WithPrecision returns a copy quantized to the given number of decimal
// places when its effective annual rate is computed.
func (r InterestRate) WithPrecision(p int32) InterestRate {
	r.precision = &p
	return r
}

// WithDisplayStyle returns a copy using the given rendering style.
func (r InterestRate) WithDisplayStyle(s DisplayStyle) InterestRate {
	r.displayStyle = s
	return r
}

// Frequency reports the compounding frequency the rate was stated in.
func (r InterestRate) Frequency() Frequency { return r.frequency }

// YearSize reports the day-count convention.
func (r InterestRate) YearSize() YearSize { return r.yearSize }

// Rate returns the raw stated rate (in its own Frequency).
func (r InterestRate) Rate() decimal.Decimal { return r.rate }

// EffectiveAnnual converts the rate to its effective annual form:
//
//	periodic frequencies: (1+periodic)^n - 1
//	continuous:           e^r - 1
func (r InterestRate) EffectiveAnnual() decimal.Decimal {
	var eff decimal.Decimal
	switch r.frequency {
	case Continuous:
		eff = decimal.NewFromFloat(math.Exp(r.rate.InexactFloat64())).Sub(decimal.NewFromInt(1))
	case Daily:
		n := decimal.NewFromInt(int64(r.yearSize))
		eff = onePlus(r.rate).Pow(n).Sub(decimal.NewFromInt(1))
	default:
		n := periodsPerYear(r.frequency)
		if r.periods > 0 {
			n = decimal.NewFromInt(int64(r.periods))
		}
		eff = onePlus(r.rate).Pow(n).Sub(decimal.NewFromInt(1))
	}
	if r.precision != nil {
		eff = eff.Round(*r.precision)
	}
	return eff
}

// Daily converts the rate to its per-day form under its own YearSize.
func (r InterestRate) Daily() decimal.Decimal {
	effAnnual := r.EffectiveAnnual()
	n := decimal.NewFromInt(int64(r.yearSize))
	exponent := decimal.NewFromInt(1).Div(n)
	return powFractional(onePlus(effAnnual), exponent).Sub(decimal.NewFromInt(1))
}

// ToDaily converts the rate to an equivalent Daily-frequency InterestRate,
// pivoting through EffectiveAnnual. The result keeps r's YearSize, since
// that's what defines what "daily" means for it.
func (r InterestRate) ToDaily() InterestRate {
	return New(r.Daily(), Daily, r.yearSize)
}

// ToAnnual converts the rate to an equivalent Annual-frequency InterestRate.
func (r InterestRate) ToAnnual() InterestRate {
	return newPeriodic(r.EffectiveAnnual(), 1, r.yearSize)
}

// ToMonthly converts the rate to an equivalent Monthly-frequency InterestRate.
func (r InterestRate) ToMonthly() InterestRate {
	return r.ToPeriodic(12)
}

// ToQuarterly converts the rate to an equivalent Quarterly-frequency InterestRate.
func (r InterestRate) ToQuarterly() InterestRate {
	return r.ToPeriodic(4)
}

// ToPeriodic converts the rate to an equivalent rate compounding numPeriods
// times a year: it pivots through EffectiveAnnual and back down, the same
// path every other conversion takes, so to_X().to_Y() and to_Y() always
// agree regardless of X.
func (r InterestRate) ToPeriodic(numPeriods int) InterestRate {
	effAnnual := r.EffectiveAnnual()
	n := decimal.NewFromInt(int64(numPeriods))
	periodic := powFractional(onePlus(effAnnual), decimal.NewFromInt(1).Div(n)).Sub(decimal.NewFromInt(1))
	return newPeriodic(periodic, numPeriods, r.yearSize)
}

// Accrue compounds principal at the rate's daily form for the given number
// of days: principal * (1+daily)^days.
func (r InterestRate) Accrue(principal decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return principal
	}
	factor := onePlus(r.Daily()).Pow(decimal.NewFromInt(int64(days)))
	return principal.Mul(factor)
}

func onePlus(d decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(d)
}

// powFractional computes base^exponent for a fractional exponent using
// floating point math, then folds the result back into decimal. Exact
// decimal exponentiation for fractional powers has no closed form, so
// InterestRate leaves decimal precision for float64 here (as it also does
// in EffectiveAnnual for Continuous rates and when Parse reads the number);
// the input is a compounding factor near 1.0 so the resulting error is far
// below cent-level significance once compounded back through Money.
func powFractional(base, exponent decimal.Decimal) decimal.Decimal {
	b := base.InexactFloat64()
	e := exponent.InexactFloat64()
	return decimal.NewFromFloat(math.Pow(b, e))
}

// String renders the rate as "<decimal> <period>", the stated rate as a
// decimal fraction (never with "%"), using DisplayStyle to choose the
// abbreviated or long period token.
func (r InterestRate) String() string {
	token := longToken(r.frequency)
	if r.displayStyle == Abbreviated {
		token = abbreviatedToken(r.frequency)
	}
	return fmt.Sprintf("%s %s", r.rate.String(), token)
}

func longToken(f Frequency) string {
	switch f {
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case SemiAnnual:
		return "semi_annual"
	case Annual:
		return "annual"
	case Continuous:
		return "continuous"
	default:
		return "annual"
	}
}

func abbreviatedToken(f Frequency) string {
	switch f {
	case Daily:
		return "a.d."
	case Monthly:
		return "a.m."
	case Quarterly:
		return "a.t."
	case SemiAnnual:
		return "a.s."
	case Annual:
		return "a.a."
	case Continuous:
		return "a.a."
	default:
		return "a.a."
	}
}

var periodTokens = map[string]Frequency{
	"a":           Annual,
	"annual":      Annual,
	"a.a.":        Annual,
	"m":           Monthly,
	"monthly":     Monthly,
	"a.m.":        Monthly,
	"d":           Daily,
	"daily":       Daily,
	"a.d.":        Daily,
	"q":           Quarterly,
	"quarterly":   Quarterly,
	"a.t.":        Quarterly,
	"s":           SemiAnnual,
	"semi_annual": SemiAnnual,
	"a.s.":        SemiAnnual,
}

var abbreviatedTokens = map[string]bool{
	"a.a.": true, "a.m.": true, "a.d.": true, "a.t.": true, "a.s.": true,
}

// Parse reads "<number>[%] <period>" into an InterestRate. A trailing "%"
// on the number means it is a percentage; no "%" means it is already a
// decimal fraction. The period token selects the Frequency and, for the
// abbreviated tokens (a.a., a.m., a.d., a.t., a.s.), the Abbreviated
// DisplayStyle.
func Parse(s string, yearSize YearSize) (InterestRate, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) < 2 {
		return InterestRate{}, fmt.Errorf("interestrate: cannot parse %q", s)
	}
	numberPart := fields[0]
	periodPart := strings.ToLower(strings.Join(fields[1:], " "))

	isPercent := strings.HasSuffix(numberPart, "%")
	numberPart = strings.TrimSuffix(numberPart, "%")

	val, err := strconv.ParseFloat(numberPart, 64)
	if err != nil {
		return InterestRate{}, fmt.Errorf("interestrate: invalid number %q: %w", numberPart, err)
	}
	rate := decimal.NewFromFloat(val)
	if isPercent {
		rate = rate.Div(decimal.NewFromInt(100))
	}

	freq, ok := periodTokens[periodPart]
	if !ok {
		return InterestRate{}, fmt.Errorf("interestrate: unknown period token %q", periodPart)
	}

	ir := New(rate, freq, yearSize)
	if abbreviatedTokens[periodPart] {
		ir = ir.WithDisplayStyle(Abbreviated)
	}
	return ir, nil
}
