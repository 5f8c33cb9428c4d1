package main

// HistoryEntry captures one undoable operation as before/after snapshots of
// the shapes it touched. Snapshot entries cover every edit uniformly, so new
// widgets never need their own inverse payloads.
type HistoryEntry struct {
	Label string

	// CoalesceKey marks entries from rapid-fire widget applies (key
	// autorepeat on cycling widgets). Consecutive pushes with the same
	// non-empty key merge into one entry, so a whole cycling burst undoes
	// in a single step.
	CoalesceKey string

	Before  []*Shape
	After   []*Shape
	Added   []*Shape
	Removed []*Shape
}

// History holds the undo and redo stacks for one open page.
type History struct {
	undo []HistoryEntry
	redo []HistoryEntry
}

// Push records an entry and clears the redo stack. A matching coalesce key
// on the top entry folds the new after-state into it instead.
func (h *History) Push(e HistoryEntry) {
	h.redo = h.redo[:0]

	if e.CoalesceKey != "" && len(h.undo) > 0 {
		top := &h.undo[len(h.undo)-1]
		if top.CoalesceKey == e.CoalesceKey {
			top.After = e.After
			return
		}
	}
	h.undo = append(h.undo, e)
}

// Seal stops the top entry from absorbing further coalesced pushes. Called
// when the selection or mode changes, so the next burst starts its own
// entry.
func (h *History) Seal() {
	if len(h.undo) > 0 {
		h.undo[len(h.undo)-1].CoalesceKey = ""
	}
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Undo reverts the most recent entry against the board and returns its
// label.
func (h *History) Undo(b *Board) (string, bool) {
	if len(h.undo) == 0 {
		return "", false
	}
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	for _, s := range e.Added {
		b.Remove(s.ID)
	}
	for _, s := range e.Removed {
		b.Add(s.Clone())
	}
	for _, s := range e.Before {
		b.Replace(s.Clone())
	}

	h.redo = append(h.redo, e)
	return e.Label, true
}

// Redo reapplies the most recently undone entry.
func (h *History) Redo(b *Board) (string, bool) {
	if len(h.redo) == 0 {
		return "", false
	}
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	for _, s := range e.Removed {
		b.Remove(s.ID)
	}
	for _, s := range e.Added {
		b.Add(s.Clone())
	}
	for _, s := range e.After {
		b.Replace(s.Clone())
	}

	h.undo = append(h.undo, e)
	return e.Label, true
}

func cloneShapes(shapes []*Shape) []*Shape {
	if len(shapes) == 0 {
		return nil
	}
	out := make([]*Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}
