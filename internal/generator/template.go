package generator

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/minicross/minicross/internal/puzzle"
)

// Template is a grid shape for one weekday: dimensions plus the black
// squares. Shapes must not create one-cell runs; the filler cannot
// complete them.
type Template struct {
	Rows   int
	Cols   int
	Blacks map[puzzle.Coord]bool
}

var (
	templateLine = regexp.MustCompile(`^([A-Za-z]+)[:,]\s*(\d+)x(\d+),\s*(\[.*\])$`)
	templatePair = regexp.MustCompile(`\((\d+)\s*,\s*(\d+)\)`)
)

// ParseTemplates reads a template file with one weekday per line:
//
//	Monday: 6x6, [(0,0), (5,0), (0,5), (5,5)]
//	Sunday: 5x5, []
//
// and returns templates keyed by weekday name.
func ParseTemplates(r io.Reader) (map[string]Template, error) {
	out := make(map[string]Template)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		m := templateLine.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("template line %d: cannot parse %q", lineNo, line)
		}
		rows, _ := strconv.Atoi(m[2])
		cols, _ := strconv.Atoi(m[3])
		if rows < 2 || cols < 2 {
			return nil, fmt.Errorf("template line %d: grid %dx%d too small", lineNo, rows, cols)
		}
		t := Template{Rows: rows, Cols: cols, Blacks: make(map[puzzle.Coord]bool)}
		for _, pair := range templatePair.FindAllStringSubmatch(m[4], -1) {
			r, _ := strconv.Atoi(pair[1])
			c, _ := strconv.Atoi(pair[2])
			if r < 0 || r >= rows || c < 0 || c >= cols {
				return nil, fmt.Errorf("template line %d: black square (%d,%d) outside %dx%d", lineNo, r, c, rows, cols)
			}
			t.Blacks[puzzle.Coord{Row: r, Col: c}] = true
		}
		out[capitalize(m[1])] = t
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// capitalize normalizes weekday names to match time.Weekday strings.
func capitalize(s string) string {
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}
