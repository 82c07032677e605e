package speech

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	applogger "CardSight/pkg/logger"
)

type fakeSource struct {
	calls atomic.Int32
}

func (s *fakeSource) Record(ctx context.Context, _ time.Duration) ([]byte, error) {
	if s.calls.Add(1) == 1 {
		return []byte{0x01, 0x02}, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *fakeSource) Close() error { return nil }

type fakeEngine struct {
	text      string
	available bool
}

func (e *fakeEngine) Transcribe(_ context.Context, _ []byte) (string, float64, error) {
	return e.text, 0, nil
}

func (e *fakeEngine) Name() string    { return "fake" }
func (e *fakeEngine) Available() bool { return e.available }

func speechLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestTranscriberPublishesLatest(t *testing.T) {
	tr := NewTranscriber(&fakeSource{}, &fakeEngine{text: "PSA 10 Topps 2011", available: true}, 4, 7, speechLogger(t))

	tr.Start(context.Background())
	defer tr.Stop()

	deadline := time.After(2 * time.Second)
	for {
		if got := tr.Latest(); got.Active {
			if got.Attributes.Grade != "PSA 10" {
				t.Fatalf("grade = %q, want PSA 10", got.Attributes.Grade)
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Fatalf("confidence = %v out of range", got.Confidence)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("no transcript published within deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestTranscriberUnavailableEngineIsNoop(t *testing.T) {
	tr := NewTranscriber(&fakeSource{}, &fakeEngine{available: false}, 4, 7, speechLogger(t))

	tr.Start(context.Background())
	tr.Stop()

	if tr.Available() {
		t.Fatal("transcriber should report unavailable")
	}
	if got := tr.Latest(); got.Active {
		t.Fatalf("unexpected transcript: %+v", got)
	}
}
