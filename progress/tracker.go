package progress

import (
	"context"
	"errors"
	"fmt"

	"snowhub/logger"
	"snowhub/models"
	"snowhub/recordstore"
)

// Tasks are the four rendition identities. Each task owns two numeric
// fields on the progress record, one per phase, and no two tasks ever
// write the same field.
var Tasks = []string{"highMP4", "lowMP4", "highWEBM", "lowWEBM"}

// TranscodingField returns the progress-record attribute a task reports its
// transcode percentage under.
func TranscodingField(task string) string {
	return task + "TranscodingProgress"
}

// UploadField returns the progress-record attribute a task reports its
// upload percentage under.
func UploadField(task string) string {
	return task + "UploadProgress"
}

// ErrNotFound means no progress record exists for the video: either the job
// has not started writing yet, or completion was already observed and the
// record cleaned up.
var ErrNotFound = errors.New("no progress record")

// perJobTotal is the per-phase sum when all four tasks report 100.
const perJobTotal = 400

// Tracker owns the per-job progress record in the record store.
type Tracker struct {
	records recordstore.Store
	table   string
	site    string
}

func NewTracker(records recordstore.Store, table, site string) *Tracker {
	return &Tracker{records: records, table: table, site: site}
}

// Update upserts a single progress field, creating the record on the first
// write. Concurrent writers always touch disjoint fields, so no further
// coordination is needed.
func (t *Tracker) Update(ctx context.Context, videoID, field string, value float64) error {
	key := recordstore.Key{SiteUsername: t.site, VideoID: videoID}
	if err := t.records.UpdateField(ctx, t.table, key, field, value); err != nil {
		return fmt.Errorf("failed to update progress %s for %s: %w", field, videoID, err)
	}
	return nil
}

func fieldValue(item recordstore.Item, field string) float64 {
	switch v := item[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Aggregate computes the staged progress for a job. Observing the "done"
// stage is destructive: the first read that sees both phases complete
// deletes the record, and any later read reports ErrNotFound.
func (t *Tracker) Aggregate(ctx context.Context, videoID string) (models.ProgressStatus, error) {
	key := recordstore.Key{SiteUsername: t.site, VideoID: videoID}
	item, err := t.records.Get(ctx, t.table, key)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return models.ProgressStatus{}, ErrNotFound
		}
		return models.ProgressStatus{}, fmt.Errorf("failed to read progress for %s: %w", videoID, err)
	}

	var totalTranscode float64
	for _, task := range Tasks {
		totalTranscode += fieldValue(item, TranscodingField(task))
	}
	if totalTranscode < perJobTotal {
		return models.ProgressStatus{Progress: totalTranscode / 4, Stage: "transcoding"}, nil
	}

	var totalUpload float64
	for _, task := range Tasks {
		totalUpload += fieldValue(item, UploadField(task))
	}
	if totalUpload < perJobTotal {
		return models.ProgressStatus{Progress: totalUpload / 4, Stage: "uploading"}, nil
	}

	// Both phases complete: report done and retire the record.
	if err := t.records.Delete(ctx, t.table, key); err != nil {
		logger.Errorf("Failed to delete progress record for %s: %v", videoID, err)
	}
	return models.ProgressStatus{Progress: 100, Stage: "done"}, nil
}
