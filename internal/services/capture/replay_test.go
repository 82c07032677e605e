package capture

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	applogger "CardSight/pkg/logger"
)

func captureLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func writeTestFrame(t *testing.T, dir, name string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestDirectorySourceReplaysInOrder(t *testing.T) {
	dir := t.TempDir()
	writeTestFrame(t, dir, "frame-002.png")
	writeTestFrame(t, dir, "frame-001.png")
	writeTestFrame(t, dir, "notes.txt.bak")

	src := NewDirectorySource(dir, 100, captureLogger(t))
	defer src.Close()

	frames, errs := src.Frames(context.Background())

	var count, lastIndex int64
	for frame := range frames {
		count++
		if frame.Index <= lastIndex {
			t.Fatalf("frame index not monotonic: %d after %d", frame.Index, lastIndex)
		}
		lastIndex = frame.Index
		if frame.Image == nil {
			t.Fatal("nil image in frame")
		}
	}
	if err := <-errs; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("replayed %d frames, want 2", count)
	}
}

func TestDirectorySourceEmptyDir(t *testing.T) {
	src := NewDirectorySource(t.TempDir(), 100, captureLogger(t))
	frames, errs := src.Frames(context.Background())

	for range frames {
		t.Fatal("unexpected frame from empty directory")
	}
	if err := <-errs; err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestDirectorySourceCancel(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		writeTestFrame(t, dir, "f"+string(rune('a'+i))+".png")
	}

	ctx, cancel := context.WithCancel(context.Background())
	src := NewDirectorySource(dir, 2, captureLogger(t))
	frames, _ := src.Frames(ctx)

	<-frames
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-frames:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("frames channel not closed after cancel")
		}
	}
}
