// Package puzzle holds the crossword data model: the grid, the clue
// index, and word resolution. Everything here is pure; mutation goes
// through copy-on-write so callers never alias a grid being edited.
package puzzle

// Direction is one of the two axes a word can run along.
type Direction string

const (
	Across Direction = "across"
	Down   Direction = "down"
)

// Other returns the opposite direction.
func (d Direction) Other() Direction {
	if d == Across {
		return Down
	}
	return Across
}

// Cell is a single square. Solution == 0 marks a block (black square),
// which can never hold user input. Entry == 0 means the player has not
// written anything yet.
type Cell struct {
	Solution rune
	Entry    rune
}

// Block reports whether the cell is unplayable.
func (c Cell) Block() bool { return c.Solution == 0 }

// Empty reports whether the player has not entered a letter.
func (c Cell) Empty() bool { return c.Entry == 0 }

// Grid is a rectangular crossword grid stored row-major.
type Grid struct {
	rows, cols int
	cells      []Cell
}

// NewGrid builds a grid from rows of cells. Rows must be equal length.
func NewGrid(rows [][]Cell) *Grid {
	if len(rows) == 0 {
		return &Grid{}
	}
	g := &Grid{rows: len(rows), cols: len(rows[0])}
	g.cells = make([]Cell, 0, g.rows*g.cols)
	for _, row := range rows {
		g.cells = append(g.cells, row...)
	}
	return g
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row, col) is on the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At returns the cell at (row, col). Out-of-bounds positions read as
// block cells, so callers can probe neighbours without bounds checks.
func (g *Grid) At(row, col int) Cell {
	if !g.InBounds(row, col) {
		return Cell{}
	}
	return g.cells[row*g.cols+col]
}

// WithEntry returns a new grid with the player's letter at (row, col)
// replaced by ch (0 clears). The receiver is left untouched. Writes to
// block or out-of-bounds cells return the receiver unchanged.
func (g *Grid) WithEntry(row, col int, ch rune) *Grid {
	if !g.InBounds(row, col) || g.At(row, col).Block() {
		return g
	}
	next := &Grid{rows: g.rows, cols: g.cols, cells: make([]Cell, len(g.cells))}
	copy(next.cells, g.cells)
	next.cells[row*g.cols+col].Entry = ch
	return next
}

// HasEmpty reports whether any letter cell is still unfilled.
func (g *Grid) HasEmpty() bool {
	for _, c := range g.cells {
		if !c.Block() && c.Empty() {
			return true
		}
	}
	return false
}

// Entries returns the player's letters as rows of strings, with nil for
// block cells and empty strings for unfilled cells. This is the shape
// persisted in progress snapshots.
func (g *Grid) Entries() [][]*string {
	out := make([][]*string, g.rows)
	for r := 0; r < g.rows; r++ {
		out[r] = make([]*string, g.cols)
		for c := 0; c < g.cols; c++ {
			cell := g.At(r, c)
			if cell.Block() {
				continue
			}
			s := ""
			if !cell.Empty() {
				s = string(cell.Entry)
			}
			out[r][c] = &s
		}
	}
	return out
}

// WithEntries returns a new grid with player letters restored from a
// snapshot in the Entries shape. Values that do not fit (wrong shape,
// block cells, multi-rune strings) are skipped.
func (g *Grid) WithEntries(letters [][]*string) *Grid {
	next := &Grid{rows: g.rows, cols: g.cols, cells: make([]Cell, len(g.cells))}
	copy(next.cells, g.cells)
	for r := 0; r < g.rows && r < len(letters); r++ {
		for c := 0; c < g.cols && c < len(letters[r]); c++ {
			v := letters[r][c]
			if v == nil || *v == "" || next.cells[r*g.cols+c].Block() {
				continue
			}
			runes := []rune(*v)
			if len(runes) != 1 {
				continue
			}
			next.cells[r*g.cols+c].Entry = runes[0]
		}
	}
	return next
}
