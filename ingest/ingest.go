package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"snowhub/blobstore"
	"snowhub/jobqueue"
	"snowhub/logger"
	"snowhub/models"

	"github.com/google/uuid"
)

// Validation errors map to HTTP 400 at the routes boundary.
var (
	ErrNoFile  = errors.New("a video file is required")
	ErrNoTitle = errors.New("a video title is required")
	ErrNoUser  = errors.New("must be logged in to upload")
)

// Service accepts raw uploads: it persists the source blob and enqueues the
// transcode job. Processing itself is fully decoupled; the caller gets a
// videoId back immediately and polls progress separately.
type Service struct {
	blobs blobstore.Store
	queue jobqueue.Queue
	site  string
}

func NewService(blobs blobstore.Store, queue jobqueue.Queue, site string) *Service {
	return &Service{blobs: blobs, queue: queue, site: site}
}

// Ingest validates the submission, writes the raw file under
// uploads/{originalName}, and enqueues a job for it. The blob write always
// completes before the enqueue so a consumer can never lease a job whose
// source is not yet readable.
func (s *Service) Ingest(ctx context.Context, file io.Reader, originalName, title, locationName, userName string) (string, error) {
	if file == nil || originalName == "" {
		return "", ErrNoFile
	}
	if title == "" {
		return "", ErrNoTitle
	}
	if userName == "" {
		return "", ErrNoUser
	}

	videoID := uuid.NewString()
	sourceKey := "uploads/" + originalName
	uploadDate := time.Now().UTC().Format(time.RFC3339)

	if err := s.blobs.Put(ctx, sourceKey, file); err != nil {
		return "", fmt.Errorf("failed to store raw upload: %w", err)
	}

	job := models.Job{
		VideoID:        videoID,
		S3FileLocation: sourceKey,
		Metadata: models.JobMetadata{
			SiteUsername: s.site,
			VideoID:      videoID,
			VideoTitle:   title,
			LocationName: locationName,
			UploadDate:   uploadDate,
			UserName:     userName,
		},
	}
	body, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to encode job message: %w", err)
	}

	if err := s.queue.Send(ctx, string(body)); err != nil {
		// The raw blob is already stored and now has no job pointing at it.
		return "", fmt.Errorf("failed to enqueue job for %s, raw upload %s is orphaned: %w", videoID, sourceKey, err)
	}

	logger.Infof("Ingested video %s (%s) for user %s", videoID, title, userName)
	return videoID, nil
}
