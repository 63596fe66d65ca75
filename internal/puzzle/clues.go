package puzzle

import "sort"

// Clue is one entry in the puzzle. Row/Col is the first cell of its
// run; Length is the run length (always >= 2 in valid puzzles).
type Clue struct {
	Text      string    `json:"clue"`
	Direction Direction `json:"direction"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Length    int       `json:"length"`
}

// Contains reports whether (row, col) lies on the clue's run.
func (c Clue) Contains(row, col int) bool {
	switch c.Direction {
	case Across:
		return row == c.Row && col >= c.Col && col < c.Col+c.Length
	case Down:
		return col == c.Col && row >= c.Row && row < c.Row+c.Length
	}
	return false
}

// ClueIndex holds the puzzle's clues split by direction, in reading
// order: across by (row, col), down by (col, row). That ordering is
// what wrap-around navigation walks.
type ClueIndex struct {
	across []Clue
	down   []Clue
}

// NewClueIndex sorts clues into canonical per-direction order.
// Clues with Length < 2 or an unknown direction are dropped.
func NewClueIndex(clues []Clue) ClueIndex {
	var idx ClueIndex
	for _, c := range clues {
		if c.Length < 2 {
			continue
		}
		switch c.Direction {
		case Across:
			idx.across = append(idx.across, c)
		case Down:
			idx.down = append(idx.down, c)
		}
	}
	sort.Slice(idx.across, func(i, j int) bool {
		a, b := idx.across[i], idx.across[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	sort.Slice(idx.down, func(i, j int) bool {
		a, b := idx.down[i], idx.down[j]
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return a.Row < b.Row
	})
	return idx
}

// InDirection returns the ordered clues for one direction. The slice
// is shared; callers must not modify it.
func (idx ClueIndex) InDirection(d Direction) []Clue {
	if d == Across {
		return idx.across
	}
	return idx.down
}

// Len returns the total number of clues.
func (idx ClueIndex) Len() int { return len(idx.across) + len(idx.down) }

// Find returns the clue of the given direction whose run contains
// (row, col), along with its position in that direction's order.
// At most one such clue can exist per direction.
func (idx ClueIndex) Find(row, col int, d Direction) (Clue, int, bool) {
	for i, c := range idx.InDirection(d) {
		if c.Contains(row, col) {
			return c, i, true
		}
	}
	return Clue{}, 0, false
}

// DeriveClues scans a grid for maximal non-block runs of length >= 2
// and returns them as text-less clues in canonical order. Used to
// validate puzzle documents and by the generator to number entries.
func DeriveClues(g *Grid) ClueIndex {
	var clues []Clue
	for r := 0; r < g.Rows(); r++ {
		c := 0
		for c < g.Cols() {
			if g.At(r, c).Block() || !g.At(r, c-1).Block() {
				c++
				continue
			}
			end := c
			for end < g.Cols() && !g.At(r, end).Block() {
				end++
			}
			if end-c >= 2 {
				clues = append(clues, Clue{Direction: Across, Row: r, Col: c, Length: end - c})
			}
			c = end
		}
	}
	for c := 0; c < g.Cols(); c++ {
		r := 0
		for r < g.Rows() {
			if g.At(r, c).Block() || !g.At(r-1, c).Block() {
				r++
				continue
			}
			end := r
			for end < g.Rows() && !g.At(end, c).Block() {
				end++
			}
			if end-r >= 2 {
				clues = append(clues, Clue{Direction: Down, Row: r, Col: c, Length: end - r})
			}
			r = end
		}
	}
	return NewClueIndex(clues)
}
