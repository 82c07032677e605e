package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"CardSight/internal/domain/models"
	"CardSight/internal/usecase"
	applogger "CardSight/pkg/logger"
)

type fakeRecognizer struct {
	mu     sync.Mutex
	result models.RecognizedText
}

func (f *fakeRecognizer) Recognize(context.Context, *models.Frame) models.RecognizedText {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

func (f *fakeRecognizer) Engine() string { return "fake" }

func (f *fakeRecognizer) set(r models.RecognizedText) {
	f.mu.Lock()
	f.result = r
	f.mu.Unlock()
}

type fakeTranscripts struct{ latest models.Transcript }

func (f *fakeTranscripts) Latest() models.Transcript { return f.latest }
func (f *fakeTranscripts) Available() bool           { return f.latest.Active }

type fakeResolver struct{ snap *models.PriceSnapshot }

func (f *fakeResolver) Resolve(context.Context, models.Identity) *models.PriceSnapshot {
	return f.snap
}

type fakeTransport struct {
	mu       sync.Mutex
	bundles  []*models.ResultBundle
	statuses []string
}

func (f *fakeTransport) Broadcast(b *models.ResultBundle) {
	f.mu.Lock()
	f.bundles = append(f.bundles, b)
	f.mu.Unlock()
}

func (f *fakeTransport) BroadcastStatus(_, message string) {
	f.mu.Lock()
	f.statuses = append(f.statuses, message)
	f.mu.Unlock()
}

func (f *fakeTransport) full() []*models.ResultBundle {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ResultBundle
	for _, b := range f.bundles {
		if b.Status != "preview" {
			out = append(out, b)
		}
	}
	return out
}

type fakeSessionLog struct {
	mu      sync.Mutex
	entries []*models.ResultBundle
	err     error
}

func (f *fakeSessionLog) Append(_ context.Context, _ string, b *models.ResultBundle) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.entries = append(f.entries, b)
	f.mu.Unlock()
	return nil
}

func (f *fakeSessionLog) History(context.Context, string) ([]*models.ResultBundle, error) {
	return nil, nil
}

func (f *fakeSessionLog) Close() error { return nil }

type fakeEvents struct{}

func (fakeEvents) PublishMessage(context.Context, string, interface{}) error { return nil }
func (fakeEvents) Close() error                                              { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordFrame(string)            {}
func (nopMetrics) RecordRecognition(string)      {}
func (nopMetrics) RecordCache(bool)              {}
func (nopMetrics) RecordSignal(string)           {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}

type chanSource struct {
	frames chan *models.Frame
	errs   chan error
}

func newChanSource(n int) *chanSource {
	s := &chanSource{
		frames: make(chan *models.Frame, n),
		errs:   make(chan error, 1),
	}
	for i := 1; i <= n; i++ {
		s.frames <- &models.Frame{Index: int64(i), CapturedAt: time.Now()}
	}
	close(s.frames)
	close(s.errs)
	return s
}

func (s *chanSource) Frames(context.Context) (<-chan *models.Frame, <-chan error) {
	return s.frames, s.errs
}

func (s *chanSource) Close() error { return nil }

func pipelineLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func troutRecognition() models.RecognizedText {
	return models.RecognizedText{
		Identity:   models.Identity{Name: "Mike Trout", Confidence: 0.8},
		Auction:    models.AuctionInfo{CurrentBid: 40},
		Confidence: 0.8,
		Engine:     "fake",
	}
}

func newTestPipelineWith(t *testing.T, rec *fakeRecognizer, transport *fakeTransport, log *fakeSessionLog) *FramePipeline {
	t.Helper()
	snap := &models.PriceSnapshot{
		Count: 6, Prices: []float64{40, 45, 47, 50, 52, 55},
		Mean: 48.17, Median: 48.5, Min: 40, Max: 55, StdDev: 4.9,
	}

	return NewFramePipeline(
		rec,
		&fakeTranscripts{},
		usecase.NewFuser(),
		&fakeResolver{snap: snap},
		usecase.NewSignalEngine(usecase.SignalConfig{}),
		nil,
		transport,
		log,
		fakeEvents{},
		nopMetrics{},
		pipelineLogger(t),
		WithFPS(1000),
		WithProcessEveryNth(3),
		WithContinuityTTL(30*time.Second),
	)
}

func newTestPipeline(t *testing.T, transport *fakeTransport, log *fakeSessionLog) *FramePipeline {
	t.Helper()
	return newTestPipelineWith(t, &fakeRecognizer{result: troutRecognition()}, transport, log)
}

func testSession() *usecase.Session {
	return &usecase.Session{ID: "test-session", StartedAt: time.Now()}
}

func TestPipelineProcessesEveryNthFrame(t *testing.T) {
	transport := &fakeTransport{}
	log := &fakeSessionLog{}
	p := newTestPipeline(t, transport, log)

	if err := p.Run(context.Background(), testSession(), newChanSource(9)); err != nil {
		t.Fatalf("run: %v", err)
	}

	full := transport.full()
	if len(full) != 3 {
		t.Fatalf("full bundles = %d, want 3 of 9 frames", len(full))
	}
	for _, b := range full {
		if b.Identity.Name != "Mike Trout" {
			t.Errorf("bundle identity = %q", b.Identity.Name)
		}
		if b.Signal.Recommendation == "" {
			t.Error("bundle missing signal")
		}
	}
	if len(log.entries) != 3 {
		t.Errorf("session log entries = %d, want 3", len(log.entries))
	}
}

func TestPipelinePreviewFramesSkipAnalysis(t *testing.T) {
	transport := &fakeTransport{}
	p := newTestPipeline(t, transport, &fakeSessionLog{})

	if err := p.Run(context.Background(), testSession(), newChanSource(2)); err != nil {
		t.Fatalf("run: %v", err)
	}

	transport.mu.Lock()
	defer transport.mu.Unlock()
	if len(transport.bundles) != 2 {
		t.Fatalf("bundles = %d, want 2 previews", len(transport.bundles))
	}
	for _, b := range transport.bundles {
		if b.Status != "preview" {
			t.Errorf("status = %q, want preview", b.Status)
		}
	}
}

func TestPipelineContinuesAfterAppendFailure(t *testing.T) {
	transport := &fakeTransport{}
	log := &fakeSessionLog{err: errors.New("disk full")}
	p := newTestPipeline(t, transport, log)

	// append failures are logged, not fatal, and do not stop the loop
	if err := p.Run(context.Background(), testSession(), newChanSource(6)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(transport.full()) != 2 {
		t.Fatalf("full bundles = %d, want 2", len(transport.full()))
	}
}

func TestPipelineContinuityIsSessionScoped(t *testing.T) {
	transport := &fakeTransport{}
	rec := &fakeRecognizer{result: troutRecognition()}
	p := newTestPipelineWith(t, rec, transport, &fakeSessionLog{})

	first := &usecase.Session{ID: "session-a", StartedAt: time.Now()}
	if err := p.Run(context.Background(), first, newChanSource(3)); err != nil {
		t.Fatalf("run first: %v", err)
	}

	// a second session on the same pipeline sees nothing on screen; it
	// must not inherit the first session's item through continuity
	rec.set(models.RecognizedText{Engine: "fake"})
	second := &usecase.Session{ID: "session-b", StartedAt: time.Now()}
	if err := p.Run(context.Background(), second, newChanSource(3)); err != nil {
		t.Fatalf("run second: %v", err)
	}

	var sawSecond bool
	for _, b := range transport.full() {
		if b.SessionID != "session-b" {
			continue
		}
		sawSecond = true
		if b.Identity.Name != "" {
			t.Fatalf("second session inherited identity %q from the first", b.Identity.Name)
		}
		if b.Signal.Signal != models.SignalGray {
			t.Errorf("signal = %s, want GRAY with no identity", b.Signal.Signal)
		}
	}
	if !sawSecond {
		t.Fatal("no full bundle emitted for the second session")
	}
}

func TestPipelineSourceErrorBroadcastsStatus(t *testing.T) {
	transport := &fakeTransport{}
	p := newTestPipeline(t, transport, &fakeSessionLog{})

	src := &chanSource{
		frames: make(chan *models.Frame),
		errs:   make(chan error, 1),
	}
	src.errs <- errors.New("stream gone")

	if err := p.Run(context.Background(), testSession(), src); err == nil {
		t.Fatal("expected terminal error")
	}
	transport.mu.Lock()
	defer transport.mu.Unlock()
	if len(transport.statuses) != 1 {
		t.Fatalf("statuses = %d, want 1", len(transport.statuses))
	}
}

func TestPipelineStopsOnCancel(t *testing.T) {
	transport := &fakeTransport{}
	p := newTestPipeline(t, transport, &fakeSessionLog{})

	src := &chanSource{
		frames: make(chan *models.Frame),
		errs:   make(chan error),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, testSession(), src) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not stop on cancel")
	}
}
