package engine

import (
	"unicode"

	"github.com/minicross/minicross/internal/puzzle"
)

// IsComplete reports whether every letter cell's entry matches its
// solution, case-insensitively. Empty entries never match, so a
// partially filled grid is never complete.
func IsComplete(g *puzzle.Grid) bool {
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			cell := g.At(r, c)
			if cell.Block() {
				continue
			}
			if cell.Empty() || unicode.ToUpper(cell.Entry) != unicode.ToUpper(cell.Solution) {
				return false
			}
		}
	}
	return true
}

// RevealCell fills the cursor cell with its solution letter. Reveal
// transitions never move the cursor and stay available after the
// puzzle is complete.
func RevealCell(g *puzzle.Grid, st State) *puzzle.Grid {
	cell := g.At(st.Row, st.Col)
	if cell.Block() {
		return g
	}
	return g.WithEntry(st.Row, st.Col, cell.Solution)
}

// RevealWord fills every cell of the word under the cursor.
func RevealWord(g *puzzle.Grid, idx puzzle.ClueIndex, st State) *puzzle.Grid {
	w := puzzle.Resolve(g, idx, st.Row, st.Col, st.Dir)
	if w == nil {
		return g
	}
	for _, c := range w.Cells {
		g = g.WithEntry(c.Row, c.Col, g.At(c.Row, c.Col).Solution)
	}
	return g
}

// RevealGrid fills the whole grid with the solution.
func RevealGrid(g *puzzle.Grid) *puzzle.Grid {
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if cell := g.At(r, c); !cell.Block() {
				g = g.WithEntry(r, c, cell.Solution)
			}
		}
	}
	return g
}
