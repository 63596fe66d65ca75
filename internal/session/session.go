// Package session drives one day's solving: it owns the engine state,
// ticks the clock, persists progress in the background, and reports
// the completion time once.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/minicross/minicross/internal/engine"
	"github.com/minicross/minicross/internal/puzzle"
)

// Status classifies the outcome of a completion submission. The
// remote store keeps at most one record per user per day, so an
// already-recorded response counts as success.
type Status int

const (
	Recorded Status = iota
	AlreadyRecorded
	SubmitFailed
)

// ProgressStore persists per-day solving state. Saves are
// fire-and-forget and merged by field; the store must apply saves for
// the same date in the order they were submitted.
type ProgressStore interface {
	Load(date string) (*Snapshot, error)
	Save(date string, p Partial) error
}

// CompletionReporter submits a completion time to the remote service.
type CompletionReporter interface {
	Submit(ctx context.Context, date string, elapsed time.Duration) (Status, error)
}

type saveReq struct {
	date    string
	partial Partial
}

// Session wraps the pure engine with everything stateful: the active
// puzzle, the timer, background persistence, and submission. Input
// methods must be called from a single goroutine (the UI event loop);
// only the save worker and submit run concurrently.
type Session struct {
	store    ProgressStore
	reporter CompletionReporter

	date  string
	grid  *puzzle.Grid
	idx   puzzle.ClueIndex
	st    engine.State
	valid bool

	elapsed   int
	started   bool
	completed bool
	revealed  bool

	mu         sync.Mutex
	submitted  bool
	submitting bool
	stopped    bool

	saves   chan saveReq
	curDate sync.Map // set of dates still current; stale saves are dropped
	closed  sync.Once
	done    chan struct{}
}

// New creates a session. The reporter may be nil (offline solving).
func New(store ProgressStore, reporter CompletionReporter) *Session {
	s := &Session{
		store:    store,
		reporter: reporter,
		saves:    make(chan saveReq, 64),
		done:     make(chan struct{}),
	}
	go s.saveLoop()
	return s
}

// saveLoop applies queued saves in order. A save for a date that has
// been superseded by a rollover is dropped, never applied to the new
// day's snapshot.
func (s *Session) saveLoop() {
	defer close(s.done)
	for req := range s.saves {
		if _, ok := s.curDate.Load(req.date); !ok {
			continue
		}
		if err := s.store.Save(req.date, req.partial); err != nil {
			log.Printf("progress save failed for %s: %v", req.date, err)
		}
	}
}

// Close flushes pending saves and stops the worker. Transitions after
// Close are no-ops, like transitions before LoadPuzzle.
func (s *Session) Close() {
	s.closed.Do(func() {
		s.mu.Lock()
		s.stopped = true
		close(s.saves)
		s.mu.Unlock()
	})
	<-s.done
}

// LoadPuzzle replaces the active puzzle, restoring any saved progress
// for its date. The previous day's grid and cursor are discarded
// wholesale; in-flight saves for the old date become stale and are
// ignored by the worker.
func (s *Session) LoadPuzzle(doc puzzle.Document) error {
	grid, idx, err := doc.Build()
	if err != nil {
		return err
	}
	if s.date != "" {
		s.curDate.Delete(s.date)
	}
	s.date = doc.Date
	s.curDate.Store(doc.Date, struct{}{})
	s.grid, s.idx = grid, idx
	s.st, s.valid = engine.Start(idx)
	s.elapsed = 0
	s.started = false
	s.completed = false
	s.revealed = false
	s.mu.Lock()
	s.submitted = false
	s.submitting = false
	s.mu.Unlock()

	snap, err := s.store.Load(doc.Date)
	if err != nil {
		log.Printf("progress load failed for %s: %v", doc.Date, err)
	}
	if snap != nil {
		if snap.Letters != nil {
			s.grid = s.grid.WithEntries(snap.Letters)
		}
		s.elapsed = snap.ElapsedSeconds
		s.started = snap.HasStarted
		s.revealed = snap.Revealed
		if snap.CompletionSeconds != nil {
			s.elapsed = *snap.CompletionSeconds
			s.completed = true
			// Opportunistic retry in case the earlier submission never
			// landed; the server dedupes.
			s.maybeSubmit()
		}
	}
	if !s.completed {
		s.queueSave(Partial{HasStarted: boolPtr(s.started)})
	}
	return nil
}

// Date returns the active puzzle date.
func (s *Session) Date() string { return s.date }

// Grid returns the current grid. Treat it as immutable.
func (s *Session) Grid() *puzzle.Grid { return s.grid }

// Clues returns the active clue index.
func (s *Session) Clues() puzzle.ClueIndex { return s.idx }

// Cursor returns the current cursor state.
func (s *Session) Cursor() engine.State { return s.st }

// Word returns the word under the cursor, or nil.
func (s *Session) Word() *puzzle.Word {
	if s.grid == nil {
		return nil
	}
	return puzzle.Resolve(s.grid, s.idx, s.st.Row, s.st.Col, s.st.Dir)
}

// Elapsed returns seconds spent on the puzzle so far.
func (s *Session) Elapsed() int { return s.elapsed }

// Started reports whether the player has entered at least one letter.
func (s *Session) Started() bool { return s.started }

// Completed reports whether the puzzle is solved.
func (s *Session) Completed() bool { return s.completed }

// Revealed reports whether any reveal was used this session.
func (s *Session) Revealed() bool { return s.revealed }

// Tap selects a cell.
func (s *Session) Tap(row, col int) {
	if !s.ready() {
		return
	}
	s.st = engine.Tap(s.grid, s.idx, s.st, row, col)
}

// Input writes a letter at the cursor. Disabled once complete.
func (s *Session) Input(ch rune) {
	if !s.ready() || s.completed {
		return
	}
	st, grid := engine.Input(s.grid, s.idx, s.st, ch)
	if grid == s.grid {
		return
	}
	s.st, s.grid = st, grid
	s.started = true
	s.afterMutation()
}

// Backspace clears the cursor cell and steps back. Disabled once
// complete.
func (s *Session) Backspace() {
	if !s.ready() || s.completed {
		return
	}
	st, grid := engine.Backspace(s.grid, s.idx, s.st)
	s.st, s.grid = st, grid
	s.afterMutation()
}

// NextWord skips the cursor ahead to the nearest empty cell.
func (s *Session) NextWord() {
	if !s.ready() {
		return
	}
	s.st = engine.Next(s.grid, s.idx, s.st)
}

// RevealCell fills the cursor cell with the solution. Reveals stay
// available after completion but taint the session: a revealed solve
// is never submitted to the leaderboard.
func (s *Session) RevealCell() {
	if !s.ready() {
		return
	}
	s.applyReveal(engine.RevealCell(s.grid, s.st))
}

// RevealWord fills the active word with the solution.
func (s *Session) RevealWord() {
	if !s.ready() {
		return
	}
	s.applyReveal(engine.RevealWord(s.grid, s.idx, s.st))
}

// RevealGrid fills the whole grid with the solution.
func (s *Session) RevealGrid() {
	if !s.ready() {
		return
	}
	s.applyReveal(engine.RevealGrid(s.grid))
}

func (s *Session) applyReveal(grid *puzzle.Grid) {
	if grid == s.grid {
		return
	}
	s.grid = grid
	s.revealed = true
	s.started = true
	s.afterMutation()
}

// Tick advances the clock by one second. The caller drives it; ticks
// stop counting once the puzzle is complete, but keep retrying a
// completion submission that has not landed yet.
func (s *Session) Tick() {
	if !s.ready() {
		return
	}
	if s.completed {
		s.maybeSubmit()
		return
	}
	s.elapsed++
	s.queueSave(Partial{ElapsedSeconds: intPtr(s.elapsed)})
}

func (s *Session) ready() bool {
	if s.grid == nil || !s.valid {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped
}

// afterMutation persists the new letters and runs the completion
// check, recording the finish time the first time it passes.
func (s *Session) afterMutation() {
	p := Partial{
		Letters:        s.grid.Entries(),
		HasStarted:     boolPtr(s.started),
		ElapsedSeconds: intPtr(s.elapsed),
	}
	// The taint outlives the process: a restored revealed day must not
	// resubmit either.
	if s.revealed {
		p.Revealed = boolPtr(true)
	}
	if !s.completed && engine.IsComplete(s.grid) {
		s.completed = true
		p.CompletionSeconds = intPtr(s.elapsed)
	}
	s.queueSave(p)
	if s.completed {
		s.maybeSubmit()
	}
}

// queueSave hands a save to the background worker without blocking.
// If the queue is full the save is dropped; the next keystroke or
// tick will carry the same state again. After Close the channel is
// gone, so saves are dropped outright.
func (s *Session) queueSave(p Partial) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	select {
	case s.saves <- saveReq{date: s.date, partial: p}:
	default:
	}
}

// maybeSubmit reports the completion time at most once per session.
// Failures leave the flag unset so the next natural trigger retries.
func (s *Session) maybeSubmit() {
	if !s.completed || s.revealed || s.reporter == nil {
		return
	}
	s.mu.Lock()
	if s.submitted || s.submitting {
		s.mu.Unlock()
		return
	}
	s.submitting = true
	s.mu.Unlock()

	date, elapsed := s.date, time.Duration(s.elapsed)*time.Second
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		status, err := s.reporter.Submit(ctx, date, elapsed)
		s.mu.Lock()
		s.submitting = false
		if err == nil && status != SubmitFailed {
			s.submitted = true
		}
		s.mu.Unlock()
		if err != nil {
			log.Printf("completion submit failed for %s: %v", date, err)
		}
	}()
}

// Submitted reports whether the completion time has been recorded
// remotely (or was already on record).
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}
