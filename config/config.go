package config

import (
	"os"
	"path/filepath"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetRole returns which parts of the service this process runs.
// "api" serves HTTP only, "worker" polls the job queue only, "all" does both.
// Configurable via SNOWHUB_ROLE; defaults to "all" for local development.
func GetRole() string {
	return getenv("SNOWHUB_ROLE", "all")
}

// GetPort returns the HTTP listen port. Configurable via SNOWHUB_PORT.
func GetPort() string {
	return getenv("SNOWHUB_PORT", "5001")
}

// GetAWSRegion returns the AWS region used for the S3, SQS and DynamoDB
// clients. Configurable via AWS_REGION.
func GetAWSRegion() string {
	return getenv("AWS_REGION", "ap-southeast-2")
}

// GetBucketName returns the S3 bucket holding raw uploads and renditions.
// Configurable via S3_VIDEOS_BUCKET_NAME.
func GetBucketName() string {
	return getenv("S3_VIDEOS_BUCKET_NAME", "snowhub-videos")
}

// GetQueueURL returns the SQS queue URL for transcode job messages.
// Configurable via SQS_VIDEO_SERVICE_URL.
func GetQueueURL() string {
	return os.Getenv("SQS_VIDEO_SERVICE_URL")
}

// GetMetadataTable returns the DynamoDB table holding finalized video
// metadata records. Configurable via VIDEO_METADATA_TABLE.
func GetMetadataTable() string {
	return getenv("VIDEO_METADATA_TABLE", "snowhub-video-metadata")
}

// GetProgressTable returns the DynamoDB table holding transient per-job
// progress records. Configurable via VIDEO_PROGRESS_TABLE.
func GetProgressTable() string {
	return getenv("VIDEO_PROGRESS_TABLE", "snowhub-video-progress")
}

// GetSiteUsername returns the partition-key value shared by every record the
// service writes. All tables are partitioned on this single site identity
// with videoId as the sort key. Configurable via QUT_USERNAME.
func GetSiteUsername() string {
	return getenv("QUT_USERNAME", "snowhub")
}

// GetBlobBackend returns which blob store implementation to use:
// "s3" (default), "gcs" or "local". Configurable via SNOWHUB_BLOB_BACKEND.
func GetBlobBackend() string {
	return getenv("SNOWHUB_BLOB_BACKEND", "s3")
}

// GetGCSBucketName returns the GCS bucket used when the blob backend is
// "gcs". Configurable via GCS_VIDEOS_BUCKET_NAME.
func GetGCSBucketName() string {
	return getenv("GCS_VIDEOS_BUCKET_NAME", "snowhub-videos")
}

// GetLocalBlobDir returns the directory the "local" blob backend stores
// objects under. Configurable via SNOWHUB_BLOB_DIR.
func GetLocalBlobDir() string {
	return getenv("SNOWHUB_BLOB_DIR", "./blobs")
}

// GetQueueBackend returns which job queue implementation to use: "sqs"
// (default) or "memory". Configurable via SNOWHUB_QUEUE_BACKEND.
func GetQueueBackend() string {
	return getenv("SNOWHUB_QUEUE_BACKEND", "sqs")
}

// GetRecordBackend returns which record store implementation to use:
// "dynamo" (default) or "memory". Configurable via SNOWHUB_RECORD_BACKEND.
func GetRecordBackend() string {
	return getenv("SNOWHUB_RECORD_BACKEND", "dynamo")
}

// GetPublicBaseURL returns the externally visible base URL of this server,
// used by the local blob backend to build retrieval links.
// Configurable via SNOWHUB_PUBLIC_BASE_URL.
func GetPublicBaseURL() string {
	return getenv("SNOWHUB_PUBLIC_BASE_URL", "http://localhost:"+GetPort())
}

// GetDataDir returns the directory for local databases.
// Configurable via SNOWHUB_DATA_DIR.
func GetDataDir() string {
	return getenv("SNOWHUB_DATA_DIR", "./data")
}

// GetLedgerDBPath returns the full path to the job outcome ledger database.
// Path: {data dir}/ledger.db
func GetLedgerDBPath() string {
	return filepath.Join(GetDataDir(), "ledger.db")
}

// GetWorkDir returns the scratch directory the transcode pipeline downloads
// sources into and writes renditions under. Configurable via
// SNOWHUB_WORK_DIR; defaults to the system temp directory.
func GetWorkDir() string {
	return getenv("SNOWHUB_WORK_DIR", os.TempDir())
}

// GetJWTSecret returns the shared HMAC secret for verifying caller identity
// tokens. When empty, bearer tokens are not required and the caller identity
// is taken from the request itself. Configurable via SNOWHUB_JWT_SECRET.
func GetJWTSecret() string {
	return os.Getenv("SNOWHUB_JWT_SECRET")
}
