package puzzle

// Coord identifies a cell on the grid.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Word is a clue together with the ordered cells of its run. Words are
// always derived fresh from the grid and clue index, never stored.
type Word struct {
	Clue  Clue
	Index int // position of Clue in its direction's reading order
	Cells []Coord
}

// Last returns the final cell of the word.
func (w *Word) Last() Coord { return w.Cells[len(w.Cells)-1] }

// PosOf returns the position of (row, col) within the word, or -1.
func (w *Word) PosOf(row, col int) int {
	for i, c := range w.Cells {
		if c.Row == row && c.Col == col {
			return i
		}
	}
	return -1
}

// Resolve maps a cell and direction to the word active there, or nil
// if the cell is out of bounds, a block, or covered by no clue in that
// direction. The cell walk stops silently at blocks or the grid edge,
// which keeps malformed documents from crashing navigation; on
// well-formed data it never truncates.
func Resolve(g *Grid, idx ClueIndex, row, col int, dir Direction) *Word {
	if !g.InBounds(row, col) || g.At(row, col).Block() {
		return nil
	}
	clue, i, ok := idx.Find(row, col, dir)
	if !ok {
		return nil
	}
	w := &Word{Clue: clue, Index: i}
	r, c := clue.Row, clue.Col
	for n := 0; n < clue.Length; n++ {
		if !g.InBounds(r, c) || g.At(r, c).Block() {
			break
		}
		w.Cells = append(w.Cells, Coord{Row: r, Col: c})
		if dir == Across {
			c++
		} else {
			r++
		}
	}
	if len(w.Cells) == 0 {
		return nil
	}
	return w
}
