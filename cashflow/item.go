/*
item.go - append-only temporal cash-flow item

Grounded on the append-only replay pattern of an audit ledger: rather than
editing a record in place, every change appends a new snapshot, and
resolving "what does this item look like" means replaying snapshots up to
a point in time and taking the latest one. Deleting an item appends a
tombstone snapshot rather than removing history.
*/
package cashflow

import "time"

type snapshot struct {
	effectiveDate time.Time
	entry         Entry
	tombstone     bool
}

// Item is a single cash-flow line whose value can change over time
// without destroying its history. Every Update or Delete appends a new
// snapshot; nothing is ever edited or removed.
type Item struct {
	snapshots []snapshot
}

// NewItem creates an Item with its first snapshot effective at
// effectiveDate.
func NewItem(effectiveDate time.Time, entry Entry) *Item {
	return &Item{snapshots: []snapshot{{effectiveDate: effectiveDate, entry: entry}}}
}

// Update appends a new snapshot, effective from effectiveDate onward.
func (it *Item) Update(effectiveDate time.Time, entry Entry) {
	it.snapshots = append(it.snapshots, snapshot{effectiveDate: effectiveDate, entry: entry})
}

// Delete appends a tombstone snapshot, effective from effectiveDate
// onward. Resolving the item at or after this date returns (Entry{}, false).
func (it *Item) Delete(effectiveDate time.Time) {
	it.snapshots = append(it.snapshots, snapshot{effectiveDate: effectiveDate, tombstone: true})
}

// Resolve returns the entry as it stood at atTime: the latest snapshot
// with an effective date at or before atTime. If no snapshot qualifies, or
// the latest qualifying snapshot is a tombstone, ok is false.
func (it *Item) Resolve(atTime time.Time) (Entry, bool) {
	var latest *snapshot
	for i := range it.snapshots {
		s := &it.snapshots[i]
		if s.effectiveDate.After(atTime) {
			continue
		}
		if latest == nil || s.effectiveDate.After(latest.effectiveDate) || s.effectiveDate.Equal(latest.effectiveDate) {
			latest = s
		}
	}
	if latest == nil || latest.tombstone {
		return Entry{}, false
	}
	return latest.entry, true
}
