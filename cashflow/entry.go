package cashflow

import (
	"time"

	"github.com/warp/loan-engine/money"
)

// Entry is a frozen cash-flow record. Once built it is never mutated;
// changes to an Item's view of an entry are made by appending a new
// snapshot, not by editing this struct.
type Entry struct {
	Amount      money.Money
	At          time.Time
	Description string
	Category    Category
}
