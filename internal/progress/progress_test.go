package progress

import (
	"path/filepath"
	"testing"

	"github.com/minicross/minicross/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "progress.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func str(s string) *string { return &s }
func num(v int) *int       { return &v }
func flag(v bool) *bool    { return &v }

func TestLoadMissingDate(t *testing.T) {
	store := openTestStore(t)
	snap, err := store.Load("2026-01-05")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap != nil {
		t.Errorf("snap = %+v, want nil for an unknown date", snap)
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := openTestStore(t)
	letters := [][]*string{{str("A"), nil}, {str(""), str("B")}}
	err := store.Save("2026-01-05", session.Partial{
		Letters:        letters,
		ElapsedSeconds: num(42),
		HasStarted:     flag(true),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap, err := store.Load("2026-01-05")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap == nil {
		t.Fatal("Load returned nil after a save")
	}
	if snap.ElapsedSeconds != 42 || !snap.HasStarted {
		t.Errorf("elapsed=%d started=%v, want 42 true", snap.ElapsedSeconds, snap.HasStarted)
	}
	if snap.CompletionSeconds != nil {
		t.Errorf("CompletionSeconds = %v, want nil", snap.CompletionSeconds)
	}
	if len(snap.Letters) != 2 || snap.Letters[0][1] != nil || *snap.Letters[0][0] != "A" {
		t.Errorf("letters did not round-trip: %+v", snap.Letters)
	}
}

func TestPartialSavesMerge(t *testing.T) {
	store := openTestStore(t)
	const date = "2026-01-05"
	if err := store.Save(date, session.Partial{HasStarted: flag(true)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(date, session.Partial{ElapsedSeconds: num(10)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(date, session.Partial{ElapsedSeconds: num(11)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(date, session.Partial{CompletionSeconds: num(11)}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap, err := store.Load(date)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.ElapsedSeconds != 11 {
		t.Errorf("elapsed = %d, want the latest value 11", snap.ElapsedSeconds)
	}
	if !snap.HasStarted {
		t.Error("HasStarted should survive later partial saves")
	}
	if snap.CompletionSeconds == nil || *snap.CompletionSeconds != 11 {
		t.Errorf("CompletionSeconds = %v, want 11", snap.CompletionSeconds)
	}
}

func TestRevealedFlagPersists(t *testing.T) {
	store := openTestStore(t)
	const date = "2026-01-05"
	if err := store.Save(date, session.Partial{CompletionSeconds: num(50)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(date, session.Partial{Revealed: flag(true)}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap, err := store.Load(date)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !snap.Revealed {
		t.Error("Revealed should round-trip with the snapshot")
	}
	if err := store.Save(date, session.Partial{ElapsedSeconds: num(60)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	snap, err = store.Load(date)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !snap.Revealed {
		t.Error("Revealed should survive later partial saves")
	}
}

func TestDatesAreIndependent(t *testing.T) {
	store := openTestStore(t)
	if err := store.Save("2026-01-05", session.Partial{ElapsedSeconds: num(30)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save("2026-01-06", session.Partial{ElapsedSeconds: num(5)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	snap, err := store.Load("2026-01-05")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.ElapsedSeconds != 30 {
		t.Errorf("elapsed = %d, want 30 untouched by the other date", snap.ElapsedSeconds)
	}
}
