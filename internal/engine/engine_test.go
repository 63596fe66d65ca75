package engine

import (
	"testing"

	"github.com/minicross/minicross/internal/puzzle"
)

// pinwheel is a 5x5 grid with blocks at (1,1), (1,3), (3,1), (3,3):
// across clues on rows 0, 2, 4 and down clues on cols 0, 2, 4, all
// length 5.
//
//	S A V E R
//	O # A # I
//	L U N A R
//	A # D # E
//	R E S T S
func pinwheel() (*puzzle.Grid, puzzle.ClueIndex) {
	rows := []string{
		"SAVER",
		"O#A#I",
		"LUNAR",
		"A#D#E",
		"RESTS",
	}
	cells := make([][]puzzle.Cell, len(rows))
	for r, line := range rows {
		cells[r] = make([]puzzle.Cell, len(line))
		for c, ch := range line {
			if ch != '#' {
				cells[r][c] = puzzle.Cell{Solution: ch}
			}
		}
	}
	g := puzzle.NewGrid(cells)
	return g, puzzle.DeriveClues(g)
}

func typeWord(t *testing.T, g *puzzle.Grid, idx puzzle.ClueIndex, st State, word string) (State, *puzzle.Grid) {
	t.Helper()
	for _, ch := range word {
		st, g = Input(g, idx, st, ch)
	}
	return st, g
}

func TestStart(t *testing.T) {
	_, idx := pinwheel()
	st, ok := Start(idx)
	if !ok {
		t.Fatal("Start found no clue")
	}
	if st.Row != 0 || st.Col != 0 || st.Dir != puzzle.Across {
		t.Errorf("Start = %+v, want (0,0) across", st)
	}
	if _, ok := Start(puzzle.ClueIndex{}); ok {
		t.Error("Start on an empty index should report no clue")
	}
}

func TestTapToggleAndMove(t *testing.T) {
	g, idx := pinwheel()
	st := State{Row: 0, Col: 0, Dir: puzzle.Across}

	st = Tap(g, idx, st, 0, 0)
	if st.Dir != puzzle.Down {
		t.Errorf("tapping the selected cell should toggle direction, got %+v", st)
	}
	st = Tap(g, idx, st, 0, 0)
	if st.Dir != puzzle.Across {
		t.Errorf("second tap should toggle back, got %+v", st)
	}

	st = Tap(g, idx, st, 2, 2)
	if st.Row != 2 || st.Col != 2 || st.Dir != puzzle.Across {
		t.Errorf("tap elsewhere should keep direction, got %+v", st)
	}
}

func TestTapFallsBackToResolvableDirection(t *testing.T) {
	// A 2x1 strip only has a down clue. Tapping it with an across
	// cursor must land with direction down.
	cells := [][]puzzle.Cell{
		{{Solution: 'A'}},
		{{Solution: 'B'}},
	}
	g := puzzle.NewGrid(cells)
	idx := puzzle.DeriveClues(g)
	st := Tap(g, idx, State{Row: 0, Col: 0, Dir: puzzle.Across}, 1, 0)
	if st.Row != 1 || st.Col != 0 || st.Dir != puzzle.Down {
		t.Errorf("tap = %+v, want (1,0) down", st)
	}
}

func TestTapInvalidTargetsAreNoOps(t *testing.T) {
	g, idx := pinwheel()
	st := State{Row: 2, Col: 2, Dir: puzzle.Down}
	for _, pos := range [][2]int{{1, 1}, {-1, 0}, {5, 5}} {
		if got := Tap(g, idx, st, pos[0], pos[1]); got != st {
			t.Errorf("tap on (%d,%d) changed state to %+v", pos[0], pos[1], got)
		}
	}
}

func TestInputFillsAndAdvancesWithinWord(t *testing.T) {
	g, idx := pinwheel()
	st := State{Row: 0, Col: 0, Dir: puzzle.Across}
	st, g = Input(g, idx, st, 's')
	if g.At(0, 0).Entry != 'S' {
		t.Errorf("entry = %q, want uppercased 'S'", g.At(0, 0).Entry)
	}
	if st.Row != 0 || st.Col != 1 {
		t.Errorf("cursor = %+v, want (0,1)", st)
	}
}

func TestInputRejectsNonLetters(t *testing.T) {
	g, idx := pinwheel()
	st := State{Row: 0, Col: 0, Dir: puzzle.Across}
	for _, ch := range []rune{'1', ' ', '!', 'é'} {
		st2, g2 := Input(g, idx, st, ch)
		if st2 != st || g2 != g {
			t.Errorf("input %q should be a no-op", ch)
		}
	}
}

// The concrete end-to-end scenario: typing SAVER at (0,0) across fills
// row 0 and lands the cursor on the next across clue at (2,0), because
// row 0 has no remaining empty cell after (0,4). One backspace from
// there steps positionally back to (0,4).
func TestTypeWordAdvancesToNextClueThenBackspaceReturns(t *testing.T) {
	g, idx := pinwheel()
	st := State{Row: 0, Col: 0, Dir: puzzle.Across}

	st, g = typeWord(t, g, idx, st, "SAVER")
	for c, want := range "SAVER" {
		if got := g.At(0, c).Entry; got != want {
			t.Errorf("row 0 col %d = %q, want %q", c, got, want)
		}
	}
	if st.Row != 2 || st.Col != 0 || st.Dir != puzzle.Across {
		t.Fatalf("cursor after SAVER = %+v, want (2,0) across", st)
	}

	st, g = Backspace(g, idx, st)
	if st.Row != 0 || st.Col != 4 || st.Dir != puzzle.Across {
		t.Errorf("cursor after backspace = %+v, want (0,4) across", st)
	}
	if !g.At(2, 0).Empty() {
		t.Error("backspace should clear the cell it started on")
	}
}

func TestEmptyInsertSkipsFilledCells(t *testing.T) {
	g, idx := pinwheel()
	g = g.WithEntry(0, 1, 'A')
	st := State{Row: 0, Col: 0, Dir: puzzle.Across}
	st, _ = Input(g, idx, st, 'S')
	if st.Row != 0 || st.Col != 2 {
		t.Errorf("empty insert should skip the filled (0,1), got %+v", st)
	}
}

func TestOverwriteAdvancesPositionally(t *testing.T) {
	g, idx := pinwheel()
	g = g.WithEntry(0, 0, 'X').WithEntry(0, 1, 'A')
	st := State{Row: 0, Col: 0, Dir: puzzle.Across}
	st, g = Input(g, idx, st, 'S')
	if g.At(0, 0).Entry != 'S' {
		t.Error("overwrite should replace the letter")
	}
	if st.Row != 0 || st.Col != 1 {
		t.Errorf("overwrite should step to the next cell even when filled, got %+v", st)
	}
}

func TestAdvanceWrapsToEarlierClue(t *testing.T) {
	g, idx := pinwheel()
	// Fill everything except (2,2) and the cursor cell. Typing into the
	// last cell of the last down clue then has to wrap to (2,2).
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if g.At(r, c).Block() || (r == 2 && c == 2) || (r == 4 && c == 4) {
				continue
			}
			g = g.WithEntry(r, c, 'X')
		}
	}
	st := State{Row: 4, Col: 4, Dir: puzzle.Down}
	st, _ = Input(g, idx, st, 'S')
	if st.Row != 2 || st.Col != 2 {
		t.Errorf("advance should find the last empty cell at (2,2), got %+v", st)
	}
}

func TestFullGridAdvancePositional(t *testing.T) {
	g, idx := pinwheel()
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if !g.At(r, c).Block() {
				g = g.WithEntry(r, c, 'X')
			}
		}
	}
	// Every cell filled: the overwrite advance steps positionally to
	// the next clue's first cell even though it holds a letter.
	st := State{Row: 0, Col: 4, Dir: puzzle.Across}
	st, _ = Input(g, idx, st, 'R')
	if st.Row != 2 || st.Col != 0 {
		t.Errorf("cursor = %+v, want next clue start (2,0)", st)
	}
}

func TestBackspaceWithinWord(t *testing.T) {
	g, idx := pinwheel()
	g = g.WithEntry(0, 2, 'V')
	st := State{Row: 0, Col: 2, Dir: puzzle.Across}
	st, g = Backspace(g, idx, st)
	if !g.At(0, 2).Empty() {
		t.Error("backspace should clear the cursor cell")
	}
	if st.Row != 0 || st.Col != 1 {
		t.Errorf("cursor = %+v, want (0,1)", st)
	}
}

func TestBackspaceWrapsToLastClue(t *testing.T) {
	g, idx := pinwheel()
	st := State{Row: 0, Col: 0, Dir: puzzle.Across}
	st, _ = Backspace(g, idx, st)
	if st.Row != 4 || st.Col != 4 || st.Dir != puzzle.Across {
		t.Errorf("backspace from the first cell should wrap to (4,4), got %+v", st)
	}
}

func TestNextMovesForwardOnly(t *testing.T) {
	g, idx := pinwheel()
	st := State{Row: 0, Col: 2, Dir: puzzle.Across}
	st = Next(g, idx, st)
	if st.Row != 0 || st.Col != 3 {
		t.Fatalf("next = %+v, want (0,3)", st)
	}

	// With the rest of the grid filled, next from inside row 0 must not
	// wrap back into the across word behind the cursor. The empty cells
	// at (0,0)..(0,2) are only reachable through the other direction's
	// words, so the cursor crosses to down at (0,0).
	g2, _ := pinwheel()
	for r := 1; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if !g2.At(r, c).Block() {
				g2 = g2.WithEntry(r, c, 'X')
			}
		}
	}
	g2 = g2.WithEntry(0, 3, 'E').WithEntry(0, 4, 'R')
	st = Next(g2, idx, State{Row: 0, Col: 3, Dir: puzzle.Across})
	if st.Row != 0 || st.Col != 0 || st.Dir != puzzle.Down {
		t.Errorf("next = %+v, want (0,0) down", st)
	}
}

func TestAdvanceThenBackspaceReturnsWhenCellFilled(t *testing.T) {
	g, idx := pinwheel()
	st := State{Row: 0, Col: 0, Dir: puzzle.Across}
	st, g = Input(g, idx, st, 'S')
	back, _ := Backspace(g, idx, st)
	if back.Row != 0 || back.Col != 0 {
		t.Errorf("backspace after advance = %+v, want the original cell (0,0)", back)
	}
}

func TestIsComplete(t *testing.T) {
	g, _ := pinwheel()
	if IsComplete(g) {
		t.Fatal("empty grid reported complete")
	}
	solved := RevealGrid(g)
	if !IsComplete(solved) {
		t.Fatal("revealed grid should be complete")
	}
	if IsComplete(solved.WithEntry(2, 2, 'X')) {
		t.Error("wrong letter should break completion")
	}
	if IsComplete(solved.WithEntry(2, 2, 0)) {
		t.Error("cleared cell should break completion")
	}
}

func TestIsCompleteCaseInsensitive(t *testing.T) {
	g, _ := pinwheel()
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			cell := g.At(r, c)
			if !cell.Block() {
				g = g.WithEntry(r, c, cell.Solution+('a'-'A'))
			}
		}
	}
	if !IsComplete(g) {
		t.Error("lowercase entries should match uppercase solutions")
	}
}

func TestCompletionMonotonicUnderCorrectEntry(t *testing.T) {
	g, idx := pinwheel()
	g = RevealGrid(g)
	// Re-typing correct letters over a complete grid must keep it
	// complete after every single write.
	st := State{Row: 0, Col: 0, Dir: puzzle.Across}
	for _, ch := range "SAVER" {
		st, g = Input(g, idx, st, ch)
		if !IsComplete(g) {
			t.Fatalf("grid became incomplete after overwriting with %q", ch)
		}
	}
}

func TestRevealCell(t *testing.T) {
	g, _ := pinwheel()
	g2 := RevealCell(g, State{Row: 2, Col: 2, Dir: puzzle.Across})
	if g2.At(2, 2).Entry != 'N' {
		t.Errorf("revealed entry = %q, want 'N'", g2.At(2, 2).Entry)
	}
	if RevealCell(g, State{Row: 1, Col: 1}) != g {
		t.Error("revealing a block should be a no-op")
	}
}

func TestRevealWord(t *testing.T) {
	g, idx := pinwheel()
	g = RevealWord(g, idx, State{Row: 2, Col: 0, Dir: puzzle.Across})
	for c, want := range "LUNAR" {
		if got := g.At(2, c).Entry; got != want {
			t.Errorf("col %d = %q, want %q", c, got, want)
		}
	}
	if !g.At(0, 0).Empty() {
		t.Error("cells outside the word should stay empty")
	}
}
