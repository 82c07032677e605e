package queue

import (
	"context"
	"testing"
	"time"
)

func TestPushPopOrder(t *testing.T) {
	q := NewChunkQueue(4)
	q.Push([]byte{1})
	q.Push([]byte{2})

	ctx := context.Background()
	c, ok := q.Pop(ctx)
	if !ok || c[0] != 1 {
		t.Fatalf("expected chunk 1, got %v ok=%v", c, ok)
	}
	c, ok = q.Pop(ctx)
	if !ok || c[0] != 2 {
		t.Fatalf("expected chunk 2, got %v ok=%v", c, ok)
	}
}

func TestPushDropsOldestWhenFull(t *testing.T) {
	q := NewChunkQueue(2)
	q.Push([]byte{1})
	q.Push([]byte{2})
	if dropped := q.Push([]byte{3}); !dropped {
		t.Fatalf("expected eviction on full queue")
	}
	if q.Len() != 2 {
		t.Fatalf("expected len 2, got %d", q.Len())
	}

	c, _ := q.Pop(context.Background())
	if c[0] != 2 {
		t.Fatalf("oldest chunk should have been dropped, head is %v", c)
	}
}

func TestPopHonorsContext(t *testing.T) {
	q := NewChunkQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, ok := q.Pop(ctx); ok {
		t.Fatalf("expected pop to give up when context is done")
	}
}
