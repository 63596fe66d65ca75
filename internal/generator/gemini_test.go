package generator

import (
	"context"
	"os"
	"testing"

	"github.com/minicross/minicross/internal/puzzle"
)

func TestGeminiCluerIntegration(t *testing.T) {
	projectID := os.Getenv("GCP_PROJECT_ID")
	if projectID == "" {
		t.Skip("GCP_PROJECT_ID not set, skipping integration test")
	}

	ctx := context.Background()
	cluer, err := NewGeminiCluer(ctx, projectID, os.Getenv("GCP_REGION"))
	if err != nil {
		t.Fatalf("create cluer: %v", err)
	}

	entries := []Entry{
		{ID: "A_0_0", Answer: "solar", Direction: puzzle.Across, Length: 5},
		{ID: "D_0_0", Answer: "saver", Direction: puzzle.Down, Length: 5},
	}
	clues, err := cluer.Clues(ctx, entries)
	if err != nil {
		t.Fatalf("generate clues: %v", err)
	}
	for _, e := range entries {
		if clues[e.ID] == "" {
			t.Errorf("no clue for %s", e.ID)
		}
		t.Logf("%s (%s): %s", e.ID, e.Answer, clues[e.ID])
	}
}
