package ledger

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ledger"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)

	record, err := store.Get("nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record != nil {
		t.Fatalf("Expected nil for a missing record, got %+v", record)
	}
}

func TestAttemptCounting(t *testing.T) {
	store := openTestStore(t)

	if err := store.RecordFailure("v1", fmt.Errorf("encoder crashed")); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	if err := store.RecordFailure("v1", fmt.Errorf("encoder crashed again")); err != nil {
		t.Fatalf("Second RecordFailure failed: %v", err)
	}
	if err := store.RecordSuccess("v1"); err != nil {
		t.Fatalf("RecordSuccess failed: %v", err)
	}

	record, err := store.Get("v1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record.Outcome != OutcomeSuccess {
		t.Errorf("Expected success outcome, got %s", record.Outcome)
	}
	if record.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", record.Attempts)
	}
	if record.Error != "" {
		t.Errorf("Expected error to clear on success, got %q", record.Error)
	}
}

func TestFailureKeepsCause(t *testing.T) {
	store := openTestStore(t)

	if err := store.RecordFailure("v2", fmt.Errorf("download timed out")); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}

	record, err := store.Get("v2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record.Outcome != OutcomeFailed {
		t.Errorf("Expected failed outcome, got %s", record.Outcome)
	}
	if record.Error != "download timed out" {
		t.Errorf("Expected the failure cause, got %q", record.Error)
	}
}

func TestList(t *testing.T) {
	store := openTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := store.RecordSuccess(id); err != nil {
			t.Fatalf("RecordSuccess %s failed: %v", id, err)
		}
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
}

func TestCleanupOldRecords(t *testing.T) {
	store := openTestStore(t)

	if err := store.put(Record{
		VideoID:   "old",
		Outcome:   OutcomeSuccess,
		Attempts:  1,
		Timestamp: time.Now().Add(-48 * time.Hour),
	}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.RecordSuccess("fresh"); err != nil {
		t.Fatalf("RecordSuccess failed: %v", err)
	}

	if err := store.CleanupOldRecords(24 * time.Hour); err != nil {
		t.Fatalf("CleanupOldRecords failed: %v", err)
	}

	if record, _ := store.Get("old"); record != nil {
		t.Error("Expected the stale record to be removed")
	}
	if record, _ := store.Get("fresh"); record == nil {
		t.Error("Expected the fresh record to survive")
	}
}
