package queue

import "context"

// ChunkQueue is a bounded FIFO for raw audio chunks. When the queue is
// full the oldest pending chunk is dropped so the capture loop never
// blocks behind a slow consumer.
type ChunkQueue struct {
	ch chan []byte
}

// NewChunkQueue creates a queue holding at most size chunks.
func NewChunkQueue(size int) *ChunkQueue {
	if size <= 0 {
		size = 4
	}
	return &ChunkQueue{ch: make(chan []byte, size)}
}

// Push enqueues a chunk, evicting the oldest pending chunk if the queue
// is full. Returns true when an eviction happened.
func (q *ChunkQueue) Push(chunk []byte) bool {
	select {
	case q.ch <- chunk:
		return false
	default:
	}
	// Full: evict one, then retry. A concurrent Pop can race the evict,
	// so the second send is non-blocking too.
	dropped := false
	select {
	case <-q.ch:
		dropped = true
	default:
	}
	select {
	case q.ch <- chunk:
	default:
	}
	return dropped
}

// Pop blocks until a chunk is available or ctx is done.
func (q *ChunkQueue) Pop(ctx context.Context) ([]byte, bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case chunk := <-q.ch:
		return chunk, true
	}
}

// Len reports the number of pending chunks.
func (q *ChunkQueue) Len() int { return len(q.ch) }
