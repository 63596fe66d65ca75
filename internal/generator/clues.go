package generator

import (
	"context"
	"fmt"

	"github.com/minicross/minicross/internal/puzzle"
)

// Entry is one filled answer awaiting a clue.
type Entry struct {
	ID        string           `json:"id"`
	Answer    string           `json:"answer"`
	Direction puzzle.Direction `json:"direction"`
	Row       int              `json:"-"`
	Col       int              `json:"-"`
	Length    int              `json:"length"`
}

// A Cluer writes one clue per entry, keyed by entry ID.
type Cluer interface {
	Clues(ctx context.Context, entries []Entry) (map[string]string, error)
}

// PlaceholderCluer emits letter-count clues. Useful for local test
// puzzles and pipeline dry runs where no model is configured.
type PlaceholderCluer struct{}

// Clues writes "(N letters)" for every entry.
func (PlaceholderCluer) Clues(_ context.Context, entries []Entry) (map[string]string, error) {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.ID] = fmt.Sprintf("(%d letters)", e.Length)
	}
	return out, nil
}

// ComputeEntries numbers the filled grid's runs in reading order.
// grid rows hold lowercase letters with 0 at black squares.
func ComputeEntries(grid [][]byte) []Entry {
	if len(grid) == 0 {
		return nil
	}
	rows := make([][]puzzle.Cell, len(grid))
	for r, row := range grid {
		rows[r] = make([]puzzle.Cell, len(row))
		for c, ch := range row {
			if ch != 0 {
				rows[r][c] = puzzle.Cell{Solution: rune(ch - 'a' + 'A')}
			}
		}
	}
	g := puzzle.NewGrid(rows)

	var entries []Entry
	for _, dir := range []puzzle.Direction{puzzle.Across, puzzle.Down} {
		prefix := "A"
		if dir == puzzle.Down {
			prefix = "D"
		}
		for _, clue := range puzzle.DeriveClues(g).InDirection(dir) {
			answer := make([]byte, 0, clue.Length)
			r, c := clue.Row, clue.Col
			for n := 0; n < clue.Length; n++ {
				answer = append(answer, byte(g.At(r, c).Solution))
				if dir == puzzle.Across {
					c++
				} else {
					r++
				}
			}
			entries = append(entries, Entry{
				ID:        fmt.Sprintf("%s_%d_%d", prefix, clue.Row, clue.Col),
				Answer:    string(answer),
				Direction: dir,
				Row:       clue.Row,
				Col:       clue.Col,
				Length:    clue.Length,
			})
		}
	}
	return entries
}

// BuildDocument assembles the final upload record for one date: the
// solution grid with nulls at black squares, plus one clue per entry
// from the cluer.
func BuildDocument(ctx context.Context, date string, grid [][]byte, cluer Cluer) (puzzle.Record, error) {
	entries := ComputeEntries(grid)
	if len(entries) == 0 {
		return puzzle.Record{}, fmt.Errorf("no entries found to clue")
	}
	clues, err := cluer.Clues(ctx, entries)
	if err != nil {
		return puzzle.Record{}, fmt.Errorf("write clues: %w", err)
	}

	var rec puzzle.Record
	rec.Date = date
	rec.Data.Grid = make([][]*string, len(grid))
	for r, row := range grid {
		rec.Data.Grid[r] = make([]*string, len(row))
		for c, ch := range row {
			if ch == 0 {
				continue
			}
			s := string(rune(ch-'a') + 'A')
			rec.Data.Grid[r][c] = &s
		}
	}
	for _, e := range entries {
		text, ok := clues[e.ID]
		if !ok || text == "" {
			return puzzle.Record{}, fmt.Errorf("missing clue for entry %s (%s)", e.ID, e.Answer)
		}
		rec.Data.Clues = append(rec.Data.Clues, puzzle.Clue{
			Text:      text,
			Direction: e.Direction,
			Row:       e.Row,
			Col:       e.Col,
			Length:    e.Length,
		})
	}
	return rec, nil
}
