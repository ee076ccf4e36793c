package database

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestRepo(t *testing.T) *DBRepository {
	t.Helper()
	repo := InitDB(filepath.Join(t.TempDir(), "history.db"))
	t.Cleanup(repo.Close)
	return repo
}

func TestRunLifecycle(t *testing.T) {
	repo := newTestRepo(t)

	id, err := repo.StartRun([]string{"Toyota Hiace Van", "Nissan Caravan"})
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	if err := repo.FinishRun(id, 40, 3, 5, 1); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	runs, err := repo.RecentRuns(10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.ID != id || r.LotsFound != 40 || r.LotsNew != 3 || r.Sent != 5 || r.Failed != 1 {
		t.Errorf("unexpected run record: %+v", r)
	}
	if r.Searches != "Toyota Hiace Van, Nissan Caravan" {
		t.Errorf("searches = %q", r.Searches)
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)

	first, _ := repo.StartRun([]string{"a"})
	second, _ := repo.StartRun([]string{"b"})

	runs, err := repo.RecentRuns(1)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != second {
		t.Errorf("expected newest run %d first, got %+v (older was %d)", second, runs, first)
	}
}

func TestRecordDelivery(t *testing.T) {
	repo := newTestRepo(t)
	runID, _ := repo.StartRun([]string{"a"})

	if err := repo.RecordDelivery(runID, "1001", "whatsapp:+111", true, nil); err != nil {
		t.Fatalf("record success: %v", err)
	}
	if err := repo.RecordDelivery(runID, "1001", "whatsapp:+222", false, errors.New("rate limited")); err != nil {
		t.Fatalf("record failure: %v", err)
	}

	var count int
	var lastErr string
	row := repo.DB.QueryRow(`SELECT COUNT(*), MAX(error) FROM deliveries WHERE run_id = ?`, runID)
	if err := row.Scan(&count, &lastErr); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if count != 2 {
		t.Errorf("recorded %d deliveries; want 2", count)
	}
	if lastErr != "rate limited" {
		t.Errorf("stored error = %q", lastErr)
	}
}
