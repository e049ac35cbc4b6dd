package cashflow

// Clone deep-copies an item's full snapshot history.
func (it *Item) Clone() *Item {
	snaps := make([]snapshot, len(it.snapshots))
	copy(snaps, it.snapshots)
	return &Item{snapshots: snaps}
}

// Clone deep-copies every item in the flow, in order.
func (f *Flow) Clone() *Flow {
	items := make([]*Item, len(f.items))
	for i, it := range f.items {
		items[i] = it.Clone()
	}
	return &Flow{items: items}
}
