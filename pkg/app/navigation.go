package app

// FocusRing tracks which of an ordered set of blocks has focus.
type FocusRing struct {
	order   []string
	focused string
}

// NewFocusRing returns a ring over ids with the first one focused.
func NewFocusRing(ids ...string) FocusRing {
	r := FocusRing{order: append([]string(nil), ids...)}
	if len(ids) > 0 {
		r.focused = ids[0]
	}
	return r
}

// Focused returns the focused id, or "" for an empty ring.
func (r FocusRing) Focused() string { return r.focused }

// Order returns the ids in ring order.
func (r FocusRing) Order() []string { return r.order }

// Next moves focus to the next id, wrapping around to the first id after the
// last.
func (r *FocusRing) Next() {
	if len(r.order) == 0 {
		return
	}
	idx := r.index()
	idx = (idx + 1) % len(r.order)
	r.focused = r.order[idx]
}

// Prev moves focus to the previous id, wrapping around to the last id before
// the first.
func (r *FocusRing) Prev() {
	if len(r.order) == 0 {
		return
	}
	idx := r.index()
	idx = (idx - 1 + len(r.order)) % len(r.order)
	r.focused = r.order[idx]
}

// Focus sets focus to id. Unknown ids leave focus unchanged.
func (r *FocusRing) Focus(id string) {
	for _, o := range r.order {
		if o == id {
			r.focused = id
			return
		}
	}
}

// index returns the position of the focused id. Returns 0 if not found.
func (r FocusRing) index() int {
	for i, id := range r.order {
		if id == r.focused {
			return i
		}
	}
	return 0
}
