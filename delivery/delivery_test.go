package delivery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"snowhub/blobstore"
	"snowhub/models"
	"snowhub/recordstore"
	"snowhub/transcode"
)

const (
	testTable = "videos-test"
	testSite  = "site-test"
)

func putRecord(t *testing.T, records recordstore.Store, videoID, title, location, user, date string) {
	t.Helper()
	record := models.VideoRecord{
		SiteUsername: testSite,
		VideoID:      videoID,
		VideoTitle:   title,
		LocationName: location,
		UserName:     user,
		UploadDate:   date,
	}
	if err := records.Put(context.Background(), testTable, record.Item()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
}

func newTestService(t *testing.T) (*Service, *blobstore.LocalStore, *recordstore.MemoryStore) {
	t.Helper()
	blobs := blobstore.NewLocalStore(t.TempDir(), "")
	records := recordstore.NewMemoryStore()
	return NewService(blobs, records, testTable, testSite), blobs, records
}

func seedCatalog(t *testing.T, records recordstore.Store) {
	t.Helper()
	putRecord(t, records, "v1", "Big Air", "Thredbo", "bob", "2026-07-01T10:00:00Z")
	putRecord(t, records, "v2", "Alpine Run", "Perisher", "alice", "2026-08-15T10:00:00Z")
	putRecord(t, records, "v3", "Carving", "Falls Creek", "carol", "2026-06-20T10:00:00Z")
}

func TestListSorting(t *testing.T) {
	tests := []struct {
		sortBy string
		want   []string // videoIds in expected order
	}{
		{"date", []string{"v2", "v1", "v3"}},
		{"username", []string{"v2", "v1", "v3"}},
		{"location", []string{"v3", "v2", "v1"}},
		{"title", []string{"v2", "v1", "v3"}},
	}

	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			svc, _, records := newTestService(t)
			seedCatalog(t, records)

			videos, err := svc.List(context.Background(), tt.sortBy)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(videos) != len(tt.want) {
				t.Fatalf("Expected %d videos, got %d", len(tt.want), len(videos))
			}
			for i, id := range tt.want {
				if videos[i].VideoID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, videos[i].VideoID)
				}
			}
		})
	}
}

func TestListEmptyCatalog(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.List(context.Background(), "date")
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("Expected ErrEmptyCatalog, got %v", err)
	}
}

func TestListDropsDerivableFields(t *testing.T) {
	svc, _, records := newTestService(t)
	item := models.VideoRecord{
		SiteUsername: testSite,
		VideoID:      "v1",
		VideoTitle:   "Big Air",
		UserName:     "bob",
		UploadDate:   "2026-07-01T10:00:00Z",
	}.Item()
	item["highMp4Url"] = "https://stale.example/v1_high.mp4"
	if err := records.Put(context.Background(), testTable, item); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	videos, err := svc.List(context.Background(), "date")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if videos[0].VideoTitle != "Big Air" {
		t.Errorf("Expected metadata to survive, got %+v", videos[0])
	}
	// VideoRecord has no URL fields, so stale stored links cannot leak out.
}

func TestSignURL(t *testing.T) {
	blobs := blobstore.NewLocalStore(t.TempDir(), "http://localhost:5001/files")
	records := recordstore.NewMemoryStore()
	svc := NewService(blobs, records, testTable, testSite)
	ctx := context.Background()

	if err := blobs.Put(ctx, "v1_high.mp4", strings.NewReader("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	url, err := svc.SignURL(ctx, "v1_high.mp4")
	if err != nil {
		t.Fatalf("SignURL failed: %v", err)
	}
	if !strings.Contains(url, "v1_high.mp4") {
		t.Errorf("Unexpected URL: %q", url)
	}

	if _, err := svc.SignURL(ctx, "missing.mp4"); err == nil {
		t.Error("Expected an error signing a missing rendition")
	}
}

func stageRenditions(t *testing.T, blobs blobstore.Store, videoID string) {
	t.Helper()
	for _, key := range transcode.RenditionKeys(videoID) {
		if err := blobs.Put(context.Background(), key, strings.NewReader("rendition")); err != nil {
			t.Fatalf("Put %s failed: %v", key, err)
		}
	}
}

func TestDeleteByOwner(t *testing.T) {
	svc, blobs, records := newTestService(t)
	ctx := context.Background()
	putRecord(t, records, "v1", "Big Air", "Thredbo", "bob", "2026-07-01T10:00:00Z")
	stageRenditions(t, blobs, "v1")

	if err := svc.Delete(ctx, "v1", "bob"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	key := recordstore.Key{SiteUsername: testSite, VideoID: "v1"}
	if _, err := records.Get(ctx, testTable, key); !errors.Is(err, recordstore.ErrNotFound) {
		t.Errorf("Expected metadata to be deleted, got %v", err)
	}
	for _, blobKey := range transcode.RenditionKeys("v1") {
		if _, err := blobs.Get(ctx, blobKey); !errors.Is(err, blobstore.ErrNotFound) {
			t.Errorf("Expected rendition %s to be deleted, got %v", blobKey, err)
		}
	}
}

func TestDeleteByAdmin(t *testing.T) {
	svc, blobs, records := newTestService(t)
	putRecord(t, records, "v1", "Big Air", "Thredbo", "bob", "2026-07-01T10:00:00Z")
	stageRenditions(t, blobs, "v1")

	if err := svc.Delete(context.Background(), "v1", AdminUser); err != nil {
		t.Fatalf("Admin delete failed: %v", err)
	}
}

func TestDeleteForbidden(t *testing.T) {
	svc, blobs, records := newTestService(t)
	ctx := context.Background()
	putRecord(t, records, "v1", "Big Air", "Thredbo", "bob", "2026-07-01T10:00:00Z")
	stageRenditions(t, blobs, "v1")

	err := svc.Delete(ctx, "v1", "mallory")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}

	// A refused delete touches nothing.
	key := recordstore.Key{SiteUsername: testSite, VideoID: "v1"}
	if _, err := records.Get(ctx, testTable, key); err != nil {
		t.Errorf("Expected metadata to survive, got %v", err)
	}
	for _, blobKey := range transcode.RenditionKeys("v1") {
		if _, err := blobs.Get(ctx, blobKey); err != nil {
			t.Errorf("Expected rendition %s to survive, got %v", blobKey, err)
		}
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Delete(context.Background(), "missing", "bob")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
