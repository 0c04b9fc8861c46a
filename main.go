package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"snowhub/auth"
	"snowhub/blobstore"
	"snowhub/config"
	"snowhub/delivery"
	"snowhub/ingest"
	"snowhub/jobqueue"
	"snowhub/ledger"
	"snowhub/logger"
	"snowhub/progress"
	"snowhub/recordstore"
	"snowhub/routes"
	"snowhub/transcode"
	"snowhub/worker"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

func main() {
	logger.Info("Starting SnowHub video service initialization")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	role := config.GetRole()
	site := config.GetSiteUsername()

	// AWS configuration is shared by the S3, SQS and DynamoDB clients.
	// Explicit key material takes precedence over the default chain.
	awsOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.GetAWSRegion()),
	}
	if key := os.Getenv("SNOWHUB_AWS_ACCESS_KEY"); key != "" {
		awsOpts = append(awsOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, os.Getenv("SNOWHUB_AWS_SECRET_KEY"), "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		logger.Fatalf("Failed to load AWS configuration: %v", err)
	}

	logger.Debugf("Initializing blob store (backend=%s)", config.GetBlobBackend())
	blobs, err := blobstore.New(ctx, config.GetBlobBackend(), awsCfg)
	if err != nil {
		logger.Fatalf("Failed to initialize blob store: %v", err)
	}

	var queue jobqueue.Queue
	switch config.GetQueueBackend() {
	case "memory":
		logger.Warn("Using in-memory job queue; jobs do not survive restarts")
		queue = jobqueue.NewMemoryQueue(time.Second)
	default:
		if config.GetQueueURL() == "" {
			logger.Fatal("SQS_VIDEO_SERVICE_URL is required for the sqs queue backend")
		}
		queue = jobqueue.NewSQSQueue(awsCfg, config.GetQueueURL())
	}

	var records recordstore.Store
	switch config.GetRecordBackend() {
	case "memory":
		logger.Warn("Using in-memory record store; records do not survive restarts")
		records = recordstore.NewMemoryStore()
	default:
		records = recordstore.NewDynamoStore(awsCfg)
	}

	tracker := progress.NewTracker(records, config.GetProgressTable(), site)

	logger.Debug("Initializing job outcome ledger")
	outcomes, err := ledger.Open(config.GetLedgerDBPath())
	if err != nil {
		logger.Fatalf("Failed to initialize job outcome ledger: %v", err)
	}
	defer outcomes.Close()

	go cleanupRoutine(ctx, outcomes)

	if role == "worker" || role == "all" {
		pipeline := transcode.NewPipeline(blobs, records, tracker, config.GetMetadataTable(), config.GetWorkDir())
		w := worker.New(queue, pipeline, outcomes)
		if role == "worker" {
			logger.Info("Running in worker role")
			w.Run(ctx)
			return
		}
		go w.Run(ctx)
	}

	jwtSecret := config.GetJWTSecret()
	if jwtSecret != "" && len(jwtSecret) < auth.MinSecretLen {
		logger.Fatalf("SNOWHUB_JWT_SECRET must be at least %d bytes", auth.MinSecretLen)
	}

	handlers := &routes.Handlers{
		Ingest:   ingest.NewService(blobs, queue, site),
		Progress: tracker,
		Delivery: delivery.NewService(blobs, records, config.GetMetadataTable(), site),
		Outcomes: outcomes,
		Verifier: auth.NewVerifier(jwtSecret),
	}

	mux := http.NewServeMux()
	handlers.Register(mux)

	// The local blob backend is served straight off disk so its retrieval
	// links resolve.
	if local, ok := blobs.(*blobstore.LocalStore); ok {
		mux.Handle("GET /files/", http.StripPrefix("/files/", http.FileServer(http.Dir(local.BaseDir()))))
	}

	port := config.GetPort()
	logger.Infof("SnowHub video service starting on port %s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logger.Fatalf("Server failed to start: %v", err)
	}
}

// cleanupRoutine periodically removes old ledger records.
func cleanupRoutine(ctx context.Context, outcomes *ledger.Store) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Info("Running scheduled cleanup of old job outcomes")
			if err := outcomes.CleanupOldRecords(30 * 24 * time.Hour); err != nil {
				logger.Errorf("Failed to clean up old job outcomes: %v", err)
			}
		}
	}
}
