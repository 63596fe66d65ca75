package main

import (
	"errors"
	"testing"
	"time"

	"github.com/minicross/minicross/internal/puzzle"
	"github.com/minicross/minicross/internal/session"
)

type nullStore struct{}

func (nullStore) Load(date string) (*session.Snapshot, error) { return nil, nil }
func (nullStore) Save(date string, p session.Partial) error   { return nil }

func str(s string) *string { return &s }

func solvedSession(t *testing.T) *session.Session {
	t.Helper()
	s := session.New(nullStore{}, nil)
	t.Cleanup(s.Close)
	doc := puzzle.Document{
		Date: "2026-01-05",
		Grid: [][]*string{
			{str("A"), str("B")},
			{str("C"), str("D")},
		},
		Clues: []puzzle.Clue{
			{Text: "t", Direction: puzzle.Across, Row: 0, Col: 0, Length: 2},
			{Text: "b", Direction: puzzle.Across, Row: 1, Col: 0, Length: 2},
			{Text: "l", Direction: puzzle.Down, Row: 0, Col: 0, Length: 2},
			{Text: "r", Direction: puzzle.Down, Row: 0, Col: 1, Length: 2},
		},
	}
	if err := s.LoadPuzzle(doc); err != nil {
		t.Fatalf("LoadPuzzle: %v", err)
	}
	for _, ch := range "ABCD" {
		s.Input(ch)
	}
	if !s.Completed() {
		t.Fatal("test puzzle should be solved")
	}
	return s
}

func TestLeaderboardFetchRetriesAfterError(t *testing.T) {
	m := newModel(nil, solvedSession(t))
	m.state = stateSolving

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(model)
	if !m.fetchedLB || cmd == nil {
		t.Fatal("the first tick after completion should fetch the leaderboard")
	}

	next, _ = m.Update(leaderboardMsg{err: errors.New("network down")})
	m = next.(model)
	if m.fetchedLB {
		t.Fatal("a failed fetch should be forgotten so it can be retried")
	}

	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(model)
	if !m.fetchedLB {
		t.Error("the next tick should retry the leaderboard fetch")
	}
}

func TestLeaderboardFetchHappensOnce(t *testing.T) {
	m := newModel(nil, solvedSession(t))
	m.state = stateSolving

	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(model)
	next, _ = m.Update(leaderboardMsg{entries: nil})
	m = next.(model)

	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(model)
	if !m.fetchedLB {
		t.Error("a successful fetch should not be repeated")
	}
}
