package jobqueue

import "context"

// Message is one leased queue message. ReceiptHandle identifies the lease
// and must be passed back to Delete.
type Message struct {
	Body          string
	ReceiptHandle string
}

// Queue is the narrow contract with the durable job queue: at-least-once
// delivery with an explicit lease/delete cycle and manual re-enqueue.
type Queue interface {
	// Send enqueues a message body.
	Send(ctx context.Context, body string) error
	// Receive waits up to the queue's long-poll window for one message and
	// returns nil when the window elapses with nothing to deliver.
	Receive(ctx context.Context) (*Message, error)
	// Delete removes a leased message so it is never redelivered.
	Delete(ctx context.Context, receiptHandle string) error
}
