package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pebble "github.com/cockroachdb/pebble"
)

// Outcome is the terminal state of one processing attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Record is the local history entry for one video's processing. Attempts
// counts every pass the worker made over the job, so unconditional retries
// are at least visible to an operator.
type Record struct {
	VideoID   string    `json:"videoId"`
	Outcome   Outcome   `json:"outcome"`
	Error     string    `json:"error,omitempty"`
	Attempts  int       `json:"attempts"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is a worker-local ledger of job outcomes, kept in a Pebble
// database next to the process.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the ledger database at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) put(record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger record: %w", err)
	}
	return s.db.Set([]byte(record.VideoID), data, pebble.Sync)
}

// RecordSuccess marks a video as fully processed, carrying forward the
// attempt count from any earlier failures.
func (s *Store) RecordSuccess(videoID string) error {
	attempts := 1
	if prev, err := s.Get(videoID); err == nil && prev != nil {
		attempts = prev.Attempts + 1
	}
	return s.put(Record{
		VideoID:   videoID,
		Outcome:   OutcomeSuccess,
		Attempts:  attempts,
		Timestamp: time.Now(),
	})
}

// RecordFailure marks one failed processing pass for a video.
func (s *Store) RecordFailure(videoID string, cause error) error {
	attempts := 1
	if prev, err := s.Get(videoID); err == nil && prev != nil {
		attempts = prev.Attempts + 1
	}
	return s.put(Record{
		VideoID:   videoID,
		Outcome:   OutcomeFailed,
		Error:     cause.Error(),
		Attempts:  attempts,
		Timestamp: time.Now(),
	})
}

// Get retrieves the ledger record for a video. A missing record returns
// (nil, nil).
func (s *Store) Get(videoID string) (*Record, error) {
	data, closer, err := s.db.Get([]byte(videoID))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ledger record: %w", err)
	}
	defer closer.Close()

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger record: %w", err)
	}
	return &record, nil
}

// List returns every ledger record.
func (s *Store) List() ([]Record, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var records []Record
	for iter.First(); iter.Valid(); iter.Next() {
		var record Record
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue // skip invalid records
		}
		records = append(records, record)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iteration error: %w", err)
	}
	return records, nil
}

// CleanupOldRecords removes records older than maxAge.
func (s *Store) CleanupOldRecords(maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	defer iter.Close()

	var keysToDelete [][]byte
	for iter.First(); iter.Valid(); iter.Next() {
		var record Record
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue
		}
		if record.Timestamp.Before(cutoff) {
			key := make([]byte, len(iter.Key()))
			copy(key, iter.Key())
			keysToDelete = append(keysToDelete, key)
		}
	}

	for _, key := range keysToDelete {
		if err := s.db.Delete(key, pebble.Sync); err != nil {
			return fmt.Errorf("failed to delete old ledger record: %w", err)
		}
	}
	return nil
}
