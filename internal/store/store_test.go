package store

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndListRuns(t *testing.T) {
	s := newTestStore(t)

	started := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	run := &Run{
		RunID:                      "run-001",
		StartedAt:                  started,
		CompletedAt:                started.Add(3 * time.Second),
		ScoreRows:                  32844,
		PopulationRows:             950000,
		PracticesRanked:            6500,
		PCNsRanked:                 1250,
		PracticeExcludedRows:       12,
		PracticeExcludedPopulation: 4800,
		PCNExcludedRows:            12,
		PCNExcludedPopulation:      4800,
		PracticeOutput:             "output/practice_imd.csv",
		PCNOutput:                  "output/pcn_imd.csv",
	}
	if err := s.RecordRun(run); err != nil {
		t.Fatalf("failed to record run: %v", err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	got := runs[0]
	if got.RunID != run.RunID {
		t.Errorf("expected run ID %s, got %s", run.RunID, got.RunID)
	}
	if got.PracticesRanked != run.PracticesRanked || got.PCNsRanked != run.PCNsRanked {
		t.Errorf("ranked counts not preserved: %+v", got)
	}
	if got.PracticeExcludedPopulation != 4800 || got.PCNExcludedPopulation != 4800 {
		t.Errorf("excluded populations not preserved: %+v", got)
	}
	if got.PracticeOutput != run.PracticeOutput || got.PCNOutput != run.PCNOutput {
		t.Errorf("output paths not preserved: %+v", got)
	}
	if !got.StartedAt.Equal(run.StartedAt) {
		t.Errorf("expected start %v, got %v", run.StartedAt, got.StartedAt)
	}
}

func TestListRunsOrderAndLimit(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := &Run{
			RunID:       string(rune('a' + i)),
			StartedAt:   base.Add(time.Duration(i) * time.Hour),
			CompletedAt: base.Add(time.Duration(i)*time.Hour + time.Minute),
		}
		if err := s.RecordRun(run); err != nil {
			t.Fatalf("failed to record run %d: %v", i, err)
		}
	}

	runs, err := s.ListRuns(3)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}

	// Newest first
	expected := []string{"e", "d", "c"}
	for i, id := range expected {
		if runs[i].RunID != id {
			t.Errorf("position %d: expected run %s, got %s", i, id, runs[i].RunID)
		}
	}
}

func TestDuplicateRunIDRejected(t *testing.T) {
	s := newTestStore(t)

	run := &Run{RunID: "run-001", StartedAt: time.Now(), CompletedAt: time.Now()}
	if err := s.RecordRun(run); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if err := s.RecordRun(run); err == nil {
		t.Error("expected duplicate run ID to be rejected")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	run := &Run{RunID: "run-001", StartedAt: time.Now(), CompletedAt: time.Now()}
	if err := s.RecordRun(run); err != nil {
		t.Fatalf("failed to record run: %v", err)
	}
	s.Close()

	// Reopening applies migrations again; they must be no-ops
	s, err = Open(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s.Close()

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "run-001" {
		t.Errorf("expected the recorded run to survive reopen, got %+v", runs)
	}
}
