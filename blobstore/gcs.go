package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore stores blobs as objects in a Google Cloud Storage bucket.
// Signed retrieval URLs require the ambient credentials to carry a signing
// identity (a service account key or IAM credentials API access).
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCSStore, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (g *GCSStore) Put(ctx context.Context, key string, body io.Reader) error {
	wc := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(wc, body); err != nil {
		wc.Close()
		return fmt.Errorf("failed to write object %s to bucket %s: %w", key, g.bucket, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to finish object %s in bucket %s: %w", key, g.bucket, err)
	}
	return nil
}

func (g *GCSStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read object %s from bucket %s: %w", key, g.bucket, err)
	}
	return r, nil
}

func (g *GCSStore) Delete(ctx context.Context, key string) error {
	if err := g.client.Bucket(g.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", key, g.bucket, err)
	}
	return nil
}

func (g *GCSStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := g.client.Bucket(g.bucket).SignedURL(key, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for object %s in bucket %s: %w", key, g.bucket, err)
	}
	return url, nil
}

// Close releases the underlying client.
func (g *GCSStore) Close() error {
	return g.client.Close()
}
