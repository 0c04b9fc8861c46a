package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost:5001/files")
	ctx := context.Background()

	if err := store.Put(ctx, "uploads/clip.mp4", strings.NewReader("raw bytes")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	rc, err := store.Get(ctx, "uploads/clip.mp4")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "raw bytes" {
		t.Errorf("Expected body to round-trip, got %q", data)
	}
}

func TestLocalStoreGetMissing(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "")

	_, err := store.Get(context.Background(), "uploads/nope.mp4")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestLocalStoreDelete(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "")
	ctx := context.Background()

	if err := store.Put(ctx, "v1_high.mp4", strings.NewReader("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Delete(ctx, "v1_high.mp4"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "v1_high.mp4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, "v1_high.mp4"); err != nil {
		t.Errorf("Second delete failed: %v", err)
	}
}

func TestLocalStorePresignGet(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost:5001/files")
	ctx := context.Background()

	if err := store.Put(ctx, "uploads/clip.mp4", strings.NewReader("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	link, err := store.PresignGet(ctx, "uploads/clip.mp4", time.Hour)
	if err != nil {
		t.Fatalf("PresignGet failed: %v", err)
	}
	if !strings.HasPrefix(link, "http://localhost:5001/files/uploads/clip.mp4?expires=") {
		t.Errorf("Unexpected link shape: %q", link)
	}

	if _, err := store.PresignGet(ctx, "uploads/missing.mp4", time.Hour); err == nil {
		t.Error("Expected an error signing an absent key")
	}
}
