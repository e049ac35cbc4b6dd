/*
brent.go - bracketed root-finder

Hand-implemented on stdlib math. The concrete numerical solver this engine
would otherwise reach for is treated as an external collaborator outside
this module's scope, and no library in reach supplies one, so this is a
direct implementation of Brent's method: combines bisection, the secant
method, and inverse quadratic interpolation, falling back to bisection
whenever the faster step would leave the bracket or fail to shrink it
fast enough.
*/
package tvm

import (
	"errors"
	"math"
)

// ErrInvalidBracket is returned when f(a) and f(b) do not have opposite
// signs, so [a,b] does not bracket a root.
var ErrInvalidBracket = errors.New("tvm: [a,b] does not bracket a root")

// Brent finds x in [a,b] such that f(x) is within xtol of a root.
func Brent(f func(float64) float64, a, b, xtol float64) (float64, error) {
	fa, fb := f(a), f(b)
	if fa*fb > 0 {
		return 0, ErrInvalidBracket
	}
	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}
	c, fc := a, fa
	mflag := true
	var d float64

	for iter := 0; iter < 200; iter++ {
		if fb == 0 || math.Abs(b-a) < xtol {
			return b, nil
		}

		var s float64
		if fa != fc && fb != fc {
			// Inverse quadratic interpolation.
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// Secant method.
			s = b - fb*(b-a)/(fb-fa)
		}

		lo, hi := (3*a+b)/4, b
		if lo > hi {
			lo, hi = hi, lo
		}
		cond1 := s < lo || s > hi
		cond2 := mflag && math.Abs(s-b) >= math.Abs(b-c)/2
		cond3 := !mflag && math.Abs(s-b) >= math.Abs(c-d)/2
		cond4 := mflag && math.Abs(b-c) < xtol
		cond5 := !mflag && math.Abs(c-d) < xtol

		if cond1 || cond2 || cond3 || cond4 || cond5 {
			s = (a + b) / 2
			mflag = true
		} else {
			mflag = false
		}

		fs := f(s)
		d = c
		c, fc = b, fb

		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}

		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}
	}
	return b, ErrNoConvergence
}
