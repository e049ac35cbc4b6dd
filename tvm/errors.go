package tvm

import (
	"errors"

	"github.com/warp/loan-engine/loanerr"
)

var errRateMustBePositive = errors.New("tvm: rate must be strictly positive")

// ErrNoSignChange is returned when a cash flow never changes sign, so no
// internal rate of return exists to bracket.
var ErrNoSignChange = loanerr.ErrNoSignChange

// ErrNoConvergence is returned when the root-finder cannot converge to a
// plausible rate.
var ErrNoConvergence = loanerr.ErrNoConvergence
