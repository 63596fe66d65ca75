package engine

import "github.com/minicross/minicross/internal/puzzle"

// The advance rules are all built from the same ordered list of
// candidate moves, evaluated in sequence until one yields a cell.
// Keeping the chain in one place stops the input, backspace, and next
// transitions drifting apart as rules evolve.
type candidate func() (State, bool)

func firstOf(st State, cands ...candidate) State {
	for _, c := range cands {
		if next, ok := c(); ok {
			return next
		}
	}
	return st
}

// advancePositional is the overwrite advance: next cell of the word,
// else the first cell of the next clue in the same direction, else the
// first cell of the other direction's first clue.
func advancePositional(g *puzzle.Grid, idx puzzle.ClueIndex, st State) State {
	w := puzzle.Resolve(g, idx, st.Row, st.Col, st.Dir)
	if w == nil {
		return st
	}
	pos := w.PosOf(st.Row, st.Col)
	return firstOf(st,
		func() (State, bool) {
			if pos >= 0 && pos < len(w.Cells)-1 {
				c := w.Cells[pos+1]
				return State{Row: c.Row, Col: c.Col, Dir: st.Dir}, true
			}
			return st, false
		},
		func() (State, bool) {
			clues := idx.InDirection(st.Dir)
			if w.Index+1 < len(clues) {
				c := clues[w.Index+1]
				return State{Row: c.Row, Col: c.Col, Dir: st.Dir}, true
			}
			return st, false
		},
		func() (State, bool) {
			if other := idx.InDirection(st.Dir.Other()); len(other) > 0 {
				return State{Row: other[0].Row, Col: other[0].Col, Dir: st.Dir.Other()}, true
			}
			return st, false
		},
	)
}

// advanceToEmpty is the empty-insert advance: the nearest empty cell,
// searched in order through the rest of the current word, clues after
// the current one, the direction's clues from the start, then the
// other direction. A grid with no empty cells falls back to the
// positional advance. forwardOnly (the explicit next command) refuses
// to wrap back into cells already passed within the current word.
func advanceToEmpty(g *puzzle.Grid, idx puzzle.ClueIndex, st State, forwardOnly bool) State {
	w := puzzle.Resolve(g, idx, st.Row, st.Col, st.Dir)
	if w == nil {
		return st
	}
	pos := w.PosOf(st.Row, st.Col)
	return firstOf(st,
		func() (State, bool) {
			for _, c := range w.Cells[pos+1:] {
				if g.At(c.Row, c.Col).Empty() {
					return State{Row: c.Row, Col: c.Col, Dir: st.Dir}, true
				}
			}
			return st, false
		},
		func() (State, bool) {
			if !g.HasEmpty() {
				return advancePositional(g, idx, st), true
			}
			return st, false
		},
		func() (State, bool) {
			return firstEmptyInClues(g, idx, st.Dir, idx.InDirection(st.Dir)[w.Index+1:])
		},
		func() (State, bool) {
			clues := idx.InDirection(st.Dir)
			if !forwardOnly {
				return firstEmptyInClues(g, idx, st.Dir, clues)
			}
			// Skip the current word entirely: its remaining cells were
			// covered above and its earlier cells are off limits.
			for i := range clues {
				if i == w.Index {
					continue
				}
				if next, ok := firstEmptyInClues(g, idx, st.Dir, clues[i:i+1]); ok {
					return next, true
				}
			}
			return st, false
		},
		func() (State, bool) {
			other := st.Dir.Other()
			return firstEmptyInClues(g, idx, other, idx.InDirection(other))
		},
	)
}

// firstEmptyInClues walks clues in order and returns the first empty
// cell found along their runs.
func firstEmptyInClues(g *puzzle.Grid, idx puzzle.ClueIndex, dir puzzle.Direction, clues []puzzle.Clue) (State, bool) {
	for _, clue := range clues {
		w := puzzle.Resolve(g, idx, clue.Row, clue.Col, dir)
		if w == nil {
			continue
		}
		for _, c := range w.Cells {
			if g.At(c.Row, c.Col).Empty() {
				return State{Row: c.Row, Col: c.Col, Dir: dir}, true
			}
		}
	}
	return State{}, false
}
