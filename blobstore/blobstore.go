package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"snowhub/config"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("blob not found")

// Store is the narrow contract the rest of the service has with durable
// object storage: whole objects addressed by key, plus time-limited
// retrieval links for the delivery read path.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// New constructs the blob store selected by configuration. awsCfg is only
// used by the "s3" backend; the "gcs" backend authenticates through the
// ambient Google credential chain.
func New(ctx context.Context, backend string, awsCfg awsv2.Config) (Store, error) {
	switch backend {
	case "s3":
		return NewS3Store(awsCfg, config.GetBucketName()), nil
	case "gcs":
		return NewGCSStore(ctx, config.GetGCSBucketName())
	case "local":
		return NewLocalStore(config.GetLocalBlobDir(), config.GetPublicBaseURL()+"/files"), nil
	default:
		return nil, fmt.Errorf("unknown blob backend: %s", backend)
	}
}
