package generator

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"math/rand"
	"time"

	"github.com/minicross/minicross/internal/puzzle"
)

const fillAttempts = 20

// GenerateRange fills and clues one puzzle per day for days
// consecutive dates starting at start. Dates whose weekday has no
// template, or whose fill search exhausts, are skipped with a log
// line rather than failing the run.
func GenerateRange(ctx context.Context, f *Filler, templates map[string]Template, cluer Cluer, start time.Time, days int) ([]puzzle.Record, error) {
	var records []puzzle.Record
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		iso := date.Format("2006-01-02")
		weekday := date.Weekday().String()
		tmpl, ok := templates[weekday]
		if !ok {
			log.Printf("%s (%s): no template, skipping", iso, weekday)
			continue
		}

		grid := f.fillWithRetries(iso, tmpl)
		if grid == nil {
			log.Printf("%s (%s): no fill found after %d attempts, skipping", iso, weekday, fillAttempts)
			continue
		}

		rec, err := BuildDocument(ctx, iso, grid, cluer)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", iso, err)
		}
		// Round-trip through the document validator before emitting;
		// the upload endpoint would reject anything broken anyway.
		if _, _, err := rec.Document().Build(); err != nil {
			return nil, fmt.Errorf("%s: generated invalid puzzle: %w", iso, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// fillWithRetries varies the seed per date and attempt so retries
// explore different regions of the search space.
func (f *Filler) fillWithRetries(iso string, tmpl Template) [][]byte {
	for attempt := 0; attempt < fillAttempts; attempt++ {
		h := fnv.New64a()
		h.Write([]byte(iso))
		rng := rand.New(rand.NewSource(int64(h.Sum64()) ^ int64(attempt)))
		if grid := f.Fill(tmpl.Rows, tmpl.Cols, tmpl.Blacks, rng); grid != nil {
			return grid
		}
	}
	return nil
}
