package worker

import (
	"context"
	"encoding/json"
	"time"

	"snowhub/jobqueue"
	"snowhub/ledger"
	"snowhub/logger"
	"snowhub/models"
)

// Processor runs the rendition pipeline for one job.
type Processor interface {
	Process(ctx context.Context, job models.Job) error
}

// Worker is the control loop: it leases one job at a time from the queue,
// drives the pipeline, and re-enqueues the identical message on failure.
// Multiple worker processes may poll the same queue; the delete call is the
// only cross-worker coordination.
type Worker struct {
	queue    jobqueue.Queue
	pipeline Processor
	outcomes *ledger.Store
}

func New(queue jobqueue.Queue, pipeline Processor, outcomes *ledger.Store) *Worker {
	return &Worker{queue: queue, pipeline: pipeline, outcomes: outcomes}
}

// Run polls the queue until ctx is cancelled. Receive long-polls, so an
// idle worker parks on the queue rather than spinning.
func (w *Worker) Run(ctx context.Context) {
	logger.Info("Polling queue for video processing requests")
	for {
		select {
		case <-ctx.Done():
			logger.Info("Worker stopped")
			return
		default:
		}

		msg, err := w.queue.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Worker stopped")
				return
			}
			logger.Errorf("Error polling queue: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if msg == nil {
			continue
		}

		w.handle(ctx, msg)
	}
}

func (w *Worker) handle(ctx context.Context, msg *jobqueue.Message) {
	var job models.Job
	if err := json.Unmarshal([]byte(msg.Body), &job); err != nil {
		// A body that cannot be decoded would fail on every redelivery, so
		// it is dropped rather than retried.
		logger.Errorf("Dropping malformed queue message: %v", err)
		if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
			logger.Errorf("Failed to delete malformed message: %v", err)
		}
		return
	}

	logger.Infof("Received processing request for videoId %s", job.VideoID)

	// Delete before processing: this job is now redelivered only through
	// the explicit re-enqueue below, never by lease expiry.
	if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		logger.Errorf("Failed to delete message for %s, leaving it leased: %v", job.VideoID, err)
		return
	}

	if err := w.pipeline.Process(ctx, job); err != nil {
		logger.Errorf("Error processing videoId %s: %v", job.VideoID, err)
		if lerr := w.outcomes.RecordFailure(job.VideoID, err); lerr != nil {
			logger.Errorf("Failed to record failure for %s: %v", job.VideoID, lerr)
		}
		if serr := w.queue.Send(ctx, msg.Body); serr != nil {
			logger.Errorf("Failed to re-queue job %s: %v", job.VideoID, serr)
			return
		}
		logger.Infof("Re-queued message for videoId %s", job.VideoID)
		return
	}

	if lerr := w.outcomes.RecordSuccess(job.VideoID); lerr != nil {
		logger.Errorf("Failed to record success for %s: %v", job.VideoID, lerr)
	}
	logger.Infof("Finished processing videoId %s", job.VideoID)
}
