package generator

import (
	"math/rand"
	"strings"

	"github.com/minicross/minicross/internal/puzzle"
)

// Filler fills grid templates from a word list using trie-pruned
// backtracking. A Filler is reusable across dates; each Fill call
// rebuilds the trie for the template's maximum run length.
type Filler struct {
	byLen map[int][]string
}

// NewFiller indexes a word list. Words are lowercased; non-alphabetic
// words and anything in exclude are dropped.
func NewFiller(words []string, exclude map[string]bool) *Filler {
	f := &Filler{byLen: make(map[int][]string)}
	for _, raw := range words {
		w := strings.ToLower(strings.TrimSpace(raw))
		if w == "" || !alphabetic(w) || exclude[w] {
			continue
		}
		f.byLen[len(w)] = append(f.byLen[len(w)], w)
	}
	return f
}

// WordCount returns the number of usable words.
func (f *Filler) WordCount() int {
	n := 0
	for _, ws := range f.byLen {
		n += len(ws)
	}
	return n
}

// Fill searches for a complete solution for the template, returning
// rows of lowercase letters with 0 at black squares, or nil when the
// search exhausts. Letter choice order is shuffled with rng, so
// different seeds explore different fills.
func (f *Filler) Fill(rows, cols int, blacks map[puzzle.Coord]bool, rng *rand.Rand) [][]byte {
	maxLen := rows
	if cols > maxLen {
		maxLen = cols
	}
	t := newTrie()
	for length, ws := range f.byLen {
		if length < 2 || length > maxLen {
			continue
		}
		for _, w := range ws {
			t.add(w)
		}
	}

	grid := make([][]byte, rows)
	for r := range grid {
		grid[r] = make([]byte, cols)
	}
	isBlack := func(r, c int) bool { return blacks[puzzle.Coord{Row: r, Col: c}] }

	var positions []puzzle.Coord
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !isBlack(r, c) {
				positions = append(positions, puzzle.Coord{Row: r, Col: c})
			}
		}
	}

	// rowPrefix collects the letters immediately left of (r,c) back to
	// the run start; colPrefix is the same upward.
	rowPrefix := func(r, c int) string {
		start := c
		for cc := c - 1; cc >= 0 && !isBlack(r, cc) && grid[r][cc] != 0; cc-- {
			start = cc
		}
		return string(grid[r][start:c])
	}
	colPrefix := func(r, c int) string {
		start := r
		for rr := r - 1; rr >= 0 && !isBlack(rr, c) && grid[rr][c] != 0; rr-- {
			start = rr
		}
		var b strings.Builder
		for x := start; x < r; x++ {
			b.WriteByte(grid[x][c])
		}
		return b.String()
	}
	completesAcross := func(r, c int) bool { return c == cols-1 || isBlack(r, c+1) }
	completesDown := func(r, c int) bool { return r == rows-1 || isBlack(r+1, c) }

	usedWords := make(map[string]bool)

	var backtrack func(i int) bool
	backtrack = func(i int) bool {
		if i == len(positions) {
			return true
		}
		r, c := positions[i].Row, positions[i].Col

		possibleRow := t.nextLetters(rowPrefix(r, c))
		if len(possibleRow) == 0 {
			return false
		}
		possibleCol := t.nextLetters(colPrefix(r, c))
		if len(possibleCol) == 0 {
			return false
		}
		var possible []byte
		for ch := range possibleRow {
			if possibleCol[ch] {
				possible = append(possible, ch)
			}
		}
		if len(possible) == 0 {
			return false
		}
		// Deterministic base order before the shuffle; map iteration
		// would otherwise make seeds unreproducible.
		sortBytes(possible)
		rng.Shuffle(len(possible), func(a, b int) {
			possible[a], possible[b] = possible[b], possible[a]
		})

		for _, ch := range possible {
			var completed []string
			if completesAcross(r, c) {
				word := rowPrefix(r, c) + string(ch)
				if !t.isWord(word) {
					continue
				}
				completed = append(completed, word)
			}
			if completesDown(r, c) {
				word := colPrefix(r, c) + string(ch)
				if !t.isWord(word) {
					continue
				}
				completed = append(completed, word)
			}
			// The same answer must not complete both directions at
			// once, nor repeat anywhere in the puzzle.
			if len(completed) == 2 && completed[0] == completed[1] {
				continue
			}
			if anyUsed(usedWords, completed) {
				continue
			}

			grid[r][c] = ch
			for _, w := range completed {
				t.remove(w)
				usedWords[w] = true
			}
			if backtrack(i + 1) {
				return true
			}
			for _, w := range completed {
				t.add(w)
				delete(usedWords, w)
			}
			grid[r][c] = 0
		}
		return false
	}

	if !backtrack(0) {
		return nil
	}
	return grid
}

func alphabetic(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

func anyUsed(used map[string]bool, words []string) bool {
	for _, w := range words {
		if used[w] {
			return true
		}
	}
	return false
}

func sortBytes(b []byte) {
	for i := 1; i < len(b); i++ {
		for j := i; j > 0 && b[j] < b[j-1]; j-- {
			b[j], b[j-1] = b[j-1], b[j]
		}
	}
}
