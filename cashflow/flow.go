package cashflow

import "time"

// Flow is an ordered collection of cash-flow items.
type Flow struct {
	items []*Item
}

// NewFlow builds a Flow over the given items, in the given order.
func NewFlow(items ...*Item) *Flow {
	return &Flow{items: append([]*Item(nil), items...)}
}

// Append adds an item to the end of the flow.
func (f *Flow) Append(item *Item) {
	f.items = append(f.items, item)
}

// Items returns the flow's underlying items, in order.
func (f *Flow) Items() []*Item {
	return f.items
}

// ResolveAll resolves every item as of atTime, in flow order, dropping
// items with no live entry at that time.
func (f *Flow) ResolveAll(atTime time.Time) []Entry {
	entries := make([]Entry, 0, len(f.items))
	for _, it := range f.items {
		if e, ok := it.Resolve(atTime); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Query builds a chainable query over the flow's entries as of atTime.
func (f *Flow) Query(atTime time.Time) *Query {
	return newQuery(f.ResolveAll(atTime))
}
