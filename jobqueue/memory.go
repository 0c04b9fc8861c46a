package jobqueue

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"
)

// MemoryQueue is an in-process queue for local development and tests. The
// lease semantics are simplified: a received message is already removed from
// the channel, so Delete is a no-op. Crash recovery is out of scope for this
// implementation.
type MemoryQueue struct {
	messages chan string
	wait     time.Duration
	receipts atomic.Int64
}

// NewMemoryQueue returns a queue whose Receive blocks up to wait before
// reporting an empty poll.
func NewMemoryQueue(wait time.Duration) *MemoryQueue {
	return &MemoryQueue{
		messages: make(chan string, 1024),
		wait:     wait,
	}
}

func (q *MemoryQueue) Send(ctx context.Context, body string) error {
	select {
	case q.messages <- body:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Receive(ctx context.Context) (*Message, error) {
	timer := time.NewTimer(q.wait)
	defer timer.Stop()

	select {
	case body := <-q.messages:
		handle := strconv.FormatInt(q.receipts.Add(1), 10)
		return &Message{Body: body, ReceiptHandle: handle}, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryQueue) Delete(ctx context.Context, receiptHandle string) error {
	return nil
}

// Depth reports how many messages are waiting. Test helper.
func (q *MemoryQueue) Depth() int {
	return len(q.messages)
}
