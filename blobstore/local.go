package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// LocalStore keeps blobs as plain files under a base directory so the whole
// pipeline can run without cloud credentials. Keys may contain slashes;
// they map directly onto subdirectories.
type LocalStore struct {
	baseDir string
	baseURL string
}

// NewLocalStore returns a store rooted at baseDir. baseURL, when non-empty,
// is the public prefix the files are served under and is used to build
// retrieval links.
func NewLocalStore(baseDir, baseURL string) *LocalStore {
	return &LocalStore{baseDir: baseDir, baseURL: baseURL}
}

// BaseDir returns the directory blobs are stored under, so the HTTP layer
// can serve it directly.
func (l *LocalStore) BaseDir() string {
	return l.baseDir
}

func (l *LocalStore) path(key string) string {
	return filepath.Join(l.baseDir, filepath.FromSlash(key))
}

func (l *LocalStore) Put(ctx context.Context, key string, body io.Reader) error {
	fullPath := l.path(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories for %s: %w", key, err)
	}
	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file for %s: %w", key, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (l *LocalStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(l.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	return f, nil
}

func (l *LocalStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(l.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// PresignGet builds a plain retrieval link under the serving prefix. Local
// files carry no embedded authorization; the expiry is advisory only.
func (l *LocalStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if _, err := os.Stat(l.path(key)); err != nil {
		return "", fmt.Errorf("cannot sign %s: %w", key, err)
	}
	u, err := url.JoinPath(l.baseURL, key)
	if err != nil {
		return "", fmt.Errorf("cannot sign %s: %w", key, err)
	}
	return u + "?expires=" + strconv.FormatInt(time.Now().Add(expiry).Unix(), 10), nil
}
