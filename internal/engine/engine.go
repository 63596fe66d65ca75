// Package engine implements crossword navigation and completion as
// pure reducers: every transition maps (cursor state, grid, clues,
// event) to a new state, with no UI or transport dependency. The UI
// layer re-renders from whatever comes back.
package engine

import (
	"unicode"

	"github.com/minicross/minicross/internal/puzzle"
)

// State is the cursor: the selected cell plus the active direction.
// At every rest state the cursor sits on a letter cell covered by a
// clue; transitions that cannot reach such a cell leave the state
// unchanged rather than failing.
type State struct {
	Row int
	Col int
	Dir puzzle.Direction
}

// Start places the cursor on the first cell of the first across clue,
// falling back to down. ok is false only for puzzles with no clues.
func Start(idx puzzle.ClueIndex) (State, bool) {
	for _, d := range []puzzle.Direction{puzzle.Across, puzzle.Down} {
		if clues := idx.InDirection(d); len(clues) > 0 {
			return State{Row: clues[0].Row, Col: clues[0].Col, Dir: d}, true
		}
	}
	return State{}, false
}

// Tap handles selecting a cell. Tapping the selected cell toggles
// direction; tapping elsewhere keeps the current direction when the
// target cell has a word along it and otherwise defaults to across.
// If the chosen direction resolves no word the other direction is
// tried; if neither resolves, the tap is a no-op.
func Tap(g *puzzle.Grid, idx puzzle.ClueIndex, st State, row, col int) State {
	if !g.InBounds(row, col) || g.At(row, col).Block() {
		return st
	}
	dir := st.Dir
	if row == st.Row && col == st.Col {
		dir = dir.Other()
	} else if puzzle.Resolve(g, idx, row, col, dir) == nil {
		dir = puzzle.Across
	}
	if puzzle.Resolve(g, idx, row, col, dir) == nil {
		dir = dir.Other()
		if puzzle.Resolve(g, idx, row, col, dir) == nil {
			return st
		}
	}
	return State{Row: row, Col: col, Dir: dir}
}

// Input writes ch (uppercased) into the cursor cell, overwriting any
// existing letter, then advances. The advance rule depends on whether
// the cell was empty immediately before the write: overwrites step to
// the next cell positionally, empty inserts skip ahead to the nearest
// empty cell. Non-letter input is ignored.
func Input(g *puzzle.Grid, idx puzzle.ClueIndex, st State, ch rune) (State, *puzzle.Grid) {
	ch = unicode.ToUpper(ch)
	if ch < 'A' || ch > 'Z' {
		return st, g
	}
	w := puzzle.Resolve(g, idx, st.Row, st.Col, st.Dir)
	if w == nil {
		return st, g
	}
	wasEmpty := g.At(st.Row, st.Col).Empty()
	next := g.WithEntry(st.Row, st.Col, ch)
	if wasEmpty {
		return advanceToEmpty(next, idx, st, false), next
	}
	return advancePositional(next, idx, st), next
}

// Backspace clears the cursor cell and steps strictly backward:
// previous cell of the word, else the last cell of the previous clue
// in the same direction, wrapping to the direction's final clue. It
// never searches for empty cells; the step is purely positional.
func Backspace(g *puzzle.Grid, idx puzzle.ClueIndex, st State) (State, *puzzle.Grid) {
	w := puzzle.Resolve(g, idx, st.Row, st.Col, st.Dir)
	if w == nil {
		return st, g
	}
	next := g.WithEntry(st.Row, st.Col, 0)
	if pos := w.PosOf(st.Row, st.Col); pos > 0 {
		c := w.Cells[pos-1]
		return State{Row: c.Row, Col: c.Col, Dir: st.Dir}, next
	}
	clues := idx.InDirection(st.Dir)
	if prev := w.Index - 1; prev >= 0 {
		return lastCellOf(next, idx, clues[prev], st.Dir, st), next
	}
	if len(clues) > 0 {
		return lastCellOf(next, idx, clues[len(clues)-1], st.Dir, st), next
	}
	other := idx.InDirection(st.Dir.Other())
	if len(other) > 0 {
		return lastCellOf(next, idx, other[len(other)-1], st.Dir.Other(), st), next
	}
	return st, next
}

// Next is the explicit skip-ahead command. It behaves like the
// empty-insert advance but never revisits cells the cursor has already
// passed within the current word, so it always moves strictly forward
// or to a different word. The grid is untouched.
func Next(g *puzzle.Grid, idx puzzle.ClueIndex, st State) State {
	return advanceToEmpty(g, idx, st, true)
}

// lastCellOf resolves a clue's word and returns its last cell, keeping
// the caller's state when resolution fails on malformed data.
func lastCellOf(g *puzzle.Grid, idx puzzle.ClueIndex, clue puzzle.Clue, dir puzzle.Direction, fallback State) State {
	w := puzzle.Resolve(g, idx, clue.Row, clue.Col, dir)
	if w == nil {
		return fallback
	}
	c := w.Last()
	return State{Row: c.Row, Col: c.Col, Dir: dir}
}
