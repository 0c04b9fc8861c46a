package delivery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"snowhub/blobstore"
	"snowhub/logger"
	"snowhub/models"
	"snowhub/recordstore"
	"snowhub/transcode"

	"golang.org/x/sync/errgroup"
)

// AdminUser is the sentinel caller allowed to delete any video.
const AdminUser = "admin"

// signExpiry is how long issued retrieval links stay valid.
const signExpiry = time.Hour

var (
	ErrNotFound  = errors.New("video not found")
	ErrForbidden = errors.New("unauthorised to delete this video")
	// ErrEmptyCatalog means no videos have finished processing yet.
	ErrEmptyCatalog = errors.New("no video metadata available")
)

// Service is the read/delete side of the catalog: list finished videos,
// issue time-limited retrieval links, and remove videos with their
// rendition blobs.
type Service struct {
	blobs   blobstore.Store
	records recordstore.Store
	table   string
	site    string
}

func NewService(blobs blobstore.Store, records recordstore.Store, table, site string) *Service {
	return &Service{blobs: blobs, records: records, table: table, site: site}
}

// List returns every finished video, sorted by one of "date" (newest
// first), "username", "location" or "title" (ascending, case-sensitive).
// Derivable rendition-URL attributes never survive the conversion into
// VideoRecord, so listings carry metadata only.
func (s *Service) List(ctx context.Context, sortBy string) ([]models.VideoRecord, error) {
	items, err := s.records.Scan(ctx, s.table)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video metadata: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}

	videos := make([]models.VideoRecord, 0, len(items))
	for _, item := range items {
		videos = append(videos, models.VideoRecordFromItem(item))
	}

	sort.SliceStable(videos, func(i, j int) bool {
		a, b := videos[i], videos[j]
		switch sortBy {
		case "date":
			return uploadTime(b).Before(uploadTime(a))
		case "username":
			return strings.Compare(a.UserName, b.UserName) < 0
		case "location":
			return strings.Compare(a.LocationName, b.LocationName) < 0
		case "title":
			return strings.Compare(a.VideoTitle, b.VideoTitle) < 0
		default:
			return false
		}
	})

	return videos, nil
}

func uploadTime(v models.VideoRecord) time.Time {
	t, err := time.Parse(time.RFC3339, v.UploadDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SignURL issues a time-limited retrieval link for one rendition file.
func (s *Service) SignURL(ctx context.Context, fileName string) (string, error) {
	url, err := s.blobs.PresignGet(ctx, fileName, signExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate retrieval URL for %s: %w", fileName, err)
	}
	return url, nil
}

// Delete removes a video: the four rendition blobs (best effort, awaited
// together) and then the metadata record. Only the owner or the admin
// sentinel may delete.
func (s *Service) Delete(ctx context.Context, videoID, caller string) error {
	key := recordstore.Key{SiteUsername: s.site, VideoID: videoID}
	item, err := s.records.Get(ctx, s.table, key)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up video %s: %w", videoID, err)
	}

	video := models.VideoRecordFromItem(item)
	if video.UserName != caller && caller != AdminUser {
		return ErrForbidden
	}

	var g errgroup.Group
	for _, blobKey := range transcode.RenditionKeys(videoID) {
		g.Go(func() error {
			return s.blobs.Delete(ctx, blobKey)
		})
	}
	if err := g.Wait(); err != nil {
		logger.Errorf("Failed to delete some renditions for %s: %v", videoID, err)
	}

	if err := s.records.Delete(ctx, s.table, key); err != nil {
		return fmt.Errorf("failed to delete metadata for %s: %w", videoID, err)
	}

	logger.Infof("Deleted video %s on behalf of %s", videoID, caller)
	return nil
}
