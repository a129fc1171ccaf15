// Package queue defines the contract for enqueuing and draining pattern
// request hits.
//
// The popularity pipeline must never slow down a request, so Enqueue is
// non-blocking: when the queue is full or closed the hit is dropped and
// counted, not retried.
package queue

import (
	"context"
	"sync"

	"github.com/hobbyloop/skein/internal/domain/types"
	"github.com/hobbyloop/skein/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 4096
	defaultBufferSize    = 4096
)

// Hit represents the payload type flowing through the queue.
// Using the types.Hit type for type safety.
type Hit = types.Hit

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a hit to the queue.
	// Returns false if the queue is full and the hit was dropped.
	Enqueue(ctx context.Context, h Hit) bool

	// Dequeue returns a channel that will receive hits as they become available.
	// The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Hit

	// Len returns the current number of queued hits.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new hits can be enqueued and the dequeue channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	hits       chan Hit
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(q)
	}

	// Initialize the hits channel with the configured buffer size
	q.hits = make(chan Hit, q.bufferSize)

	// Initialize metrics
	metrics.UpdateHitQueueCapacity(q.capacity)
	metrics.UpdateHitQueueSize(0)
	metrics.UpdateHitQueueUtilization(0.0)

	return q
}

// Enqueue adds a hit to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, h Hit) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordHitDrop()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	// Check if we're at capacity
	if len(q.hits) >= q.capacity {
		metrics.RecordHitDrop()
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	select {
	case q.hits <- h:
		metrics.RecordHitEnqueue()
		currentSize := len(q.hits)
		metrics.UpdateHitQueueSize(currentSize)
		metrics.UpdateHitQueueUtilization(float64(currentSize) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordHitDrop()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false // context cancelled
	default:
		metrics.RecordHitDrop()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false // queue is full
	}
}

// Dequeue returns a channel that will receive hits as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Hit {
	// Wrap the channel to track queue depth as hits drain
	dequeueChan := make(chan Hit)
	go func() {
		defer close(dequeueChan)
		for h := range q.hits {
			select {
			case dequeueChan <- h:
				currentSize := len(q.hits)
				metrics.UpdateHitQueueSize(currentSize)
				metrics.UpdateHitQueueUtilization(float64(currentSize) / float64(q.capacity))
			case <-ctx.Done():
				return
			}
		}
	}()
	return dequeueChan
}

// Len returns the current number of queued hits.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.hits)
	metrics.UpdateHitQueueSize(size)
	metrics.UpdateHitQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	// Close the hits channel to signal consumers to stop
	close(q.hits)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
