package recordstore

import (
	"context"
	"errors"
)

// Item is one keyed record as a bag of attributes. Numeric attributes are
// surfaced as float64.
type Item = map[string]interface{}

// Key identifies one record: every table is partitioned on the shared site
// username with the video id as the sort key.
type Key struct {
	SiteUsername string
	VideoID      string
}

// ErrNotFound is returned by Get when no record exists under the key.
var ErrNotFound = errors.New("record not found")

// Store is the narrow contract with keyed record storage: whole-item put,
// single-field upsert, key lookup, full scan and delete.
type Store interface {
	Put(ctx context.Context, table string, item Item) error
	// UpdateField upserts a single attribute, creating the record when it
	// does not exist yet.
	UpdateField(ctx context.Context, table string, key Key, field string, value interface{}) error
	Get(ctx context.Context, table string, key Key) (Item, error)
	Scan(ctx context.Context, table string) ([]Item, error)
	Delete(ctx context.Context, table string, key Key) error
}
