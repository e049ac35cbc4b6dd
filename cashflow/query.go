/*
query.go - chainable read-only view over a resolved set of cash-flow entries

Method chain mirrors a query builder's filter/order/limit/terminal shape:
each filter method returns a new *Query so callers can compose without
mutating a shared one, and a terminal method (All/First/Sum/Count/ToFlow)
materializes the result.
*/
package cashflow

import (
	"sort"
	"time"

	"github.com/warp/loan-engine/money"
)

// Query is an immutable, chainable filter over a slice of entries.
type Query struct {
	entries []Entry
}

func newQuery(entries []Entry) *Query {
	return &Query{entries: entries}
}

func (q *Query) filtered(keep func(Entry) bool) *Query {
	out := make([]Entry, 0, len(q.entries))
	for _, e := range q.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return &Query{entries: out}
}

// WhereCategory keeps entries whose category equals c.
func (q *Query) WhereCategory(c Category) *Query {
	return q.filtered(func(e Entry) bool { return e.Category == c })
}

// WhereCategoryIn keeps entries whose category is one of cs.
func (q *Query) WhereCategoryIn(cs ...Category) *Query {
	set := make(map[Category]bool, len(cs))
	for _, c := range cs {
		set[c] = true
	}
	return q.filtered(func(e Entry) bool { return set[e.Category] })
}

// ExcludeCategory drops entries whose category is one of cs.
func (q *Query) ExcludeCategory(cs ...Category) *Query {
	set := make(map[Category]bool, len(cs))
	for _, c := range cs {
		set[c] = true
	}
	return q.filtered(func(e Entry) bool { return !set[e.Category] })
}

// WhereBefore keeps entries strictly before t.
func (q *Query) WhereBefore(t time.Time) *Query {
	return q.filtered(func(e Entry) bool { return e.At.Before(t) })
}

// WhereAfter keeps entries strictly after t.
func (q *Query) WhereAfter(t time.Time) *Query {
	return q.filtered(func(e Entry) bool { return e.At.After(t) })
}

// WhereOnOrBefore keeps entries at or before t.
func (q *Query) WhereOnOrBefore(t time.Time) *Query {
	return q.filtered(func(e Entry) bool { return !e.At.After(t) })
}

// WhereAmountGreaterThan keeps entries whose amount exceeds m.
func (q *Query) WhereAmountGreaterThan(m money.Money) *Query {
	return q.filtered(func(e Entry) bool { return e.Amount.GreaterThan(m) })
}

// OrderByDate returns entries sorted by date, ascending unless desc is true.
func (q *Query) OrderByDate(desc bool) *Query {
	out := append([]Entry(nil), q.entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].At.After(out[j].At)
		}
		return out[i].At.Before(out[j].At)
	})
	return &Query{entries: out}
}

// OrderByAmount returns entries sorted by amount, ascending unless desc is true.
func (q *Query) OrderByAmount(desc bool) *Query {
	out := append([]Entry(nil), q.entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Amount.LessThan(out[j].Amount)
	})
	return &Query{entries: out}
}

// Limit keeps at most n entries.
func (q *Query) Limit(n int) *Query {
	if n >= len(q.entries) {
		return &Query{entries: append([]Entry(nil), q.entries...)}
	}
	return &Query{entries: append([]Entry(nil), q.entries[:n]...)}
}

// Offset skips the first n entries.
func (q *Query) Offset(n int) *Query {
	if n >= len(q.entries) {
		return &Query{entries: nil}
	}
	return &Query{entries: append([]Entry(nil), q.entries[n:]...)}
}

// All materializes every entry remaining in the query.
func (q *Query) All() []Entry {
	return append([]Entry(nil), q.entries...)
}

// First returns the first entry, if any.
func (q *Query) First() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	return q.entries[0], true
}

// Count returns the number of entries remaining in the query.
func (q *Query) Count() int {
	return len(q.entries)
}

// Sum totals the amount of every remaining entry.
func (q *Query) Sum() money.Money {
	total := money.Zero
	for _, e := range q.entries {
		total = total.Add(e.Amount)
	}
	return total
}

// ToFlow rebuilds a Flow from the query's remaining entries, one Item per
// entry, each with a single snapshot effective at the entry's own date.
func (q *Query) ToFlow() *Flow {
	items := make([]*Item, len(q.entries))
	for i, e := range q.entries {
		items[i] = NewItem(e.At, e)
	}
	return NewFlow(items...)
}
