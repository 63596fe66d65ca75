package puzzle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedGrid marks puzzle documents that violate the grid
// invariants (non-rectangular rows, orphan letter cells, clues off the
// grid). Resolver functions never raise it at solve time; it only
// surfaces when a document is first built.
var ErrMalformedGrid = errors.New("malformed grid")

// Document is the puzzle unit fetched once per day. Grid cells are nil
// for blocks and single uppercase letters otherwise.
type Document struct {
	Date  string      `json:"date"`
	Grid  [][]*string `json:"grid"`
	Clues []Clue      `json:"clues"`
}

// Record is one line of the admin bulk-upload JSONL feed.
type Record struct {
	Date string `json:"puzzle_date"`
	Data struct {
		Grid  [][]*string `json:"grid"`
		Clues []Clue      `json:"clues"`
	} `json:"data"`
}

// Document converts an upload record to the shape served to clients.
func (r Record) Document() Document {
	return Document{Date: r.Date, Grid: r.Data.Grid, Clues: r.Data.Clues}
}

// Build validates the document and constructs the playable grid and
// clue index. All structural invariants are enforced here, once, so
// the engine can stay defensive-but-silent afterwards.
func (d Document) Build() (*Grid, ClueIndex, error) {
	if len(d.Grid) == 0 || len(d.Grid[0]) == 0 {
		return nil, ClueIndex{}, fmt.Errorf("%w: empty grid", ErrMalformedGrid)
	}
	cols := len(d.Grid[0])
	rows := make([][]Cell, len(d.Grid))
	for r, row := range d.Grid {
		if len(row) != cols {
			return nil, ClueIndex{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, r, len(row), cols)
		}
		rows[r] = make([]Cell, cols)
		for c, v := range row {
			if v == nil {
				continue
			}
			letter := []rune(strings.ToUpper(*v))
			if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
				return nil, ClueIndex{}, fmt.Errorf("%w: cell (%d,%d) holds %q, want a single letter", ErrMalformedGrid, r, c, *v)
			}
			rows[r][c] = Cell{Solution: letter[0]}
		}
	}
	g := NewGrid(rows)

	// Every letter cell must sit on at least one run of length >= 2.
	runs := DeriveClues(g)
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if g.At(r, c).Block() {
				continue
			}
			if _, _, across := runs.Find(r, c, Across); across {
				continue
			}
			if _, _, down := runs.Find(r, c, Down); down {
				continue
			}
			return nil, ClueIndex{}, fmt.Errorf("%w: orphan letter cell at (%d,%d)", ErrMalformedGrid, r, c)
		}
	}

	idx := NewClueIndex(d.Clues)
	for _, dir := range []Direction{Across, Down} {
		for _, clue := range idx.InDirection(dir) {
			end := Coord{clue.Row, clue.Col + clue.Length - 1}
			if dir == Down {
				end = Coord{clue.Row + clue.Length - 1, clue.Col}
			}
			if !g.InBounds(clue.Row, clue.Col) || !g.InBounds(end.Row, end.Col) {
				return nil, ClueIndex{}, fmt.Errorf("%w: clue %q runs off the grid", ErrMalformedGrid, clue.Text)
			}
		}
	}
	return g, idx, nil
}
