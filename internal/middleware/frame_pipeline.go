package middleware

import (
	"context"
	"fmt"
	"time"

	"CardSight/internal/domain/models"
	domrepo "CardSight/internal/domain/repository"
	"CardSight/internal/domain/service"
	"CardSight/internal/service/ratelimit"
	"CardSight/internal/usecase"
	applogger "CardSight/pkg/logger"
)

// Recognizer is the minimal text-recognition interface the pipeline needs.
type Recognizer interface {
	Recognize(ctx context.Context, frame *models.Frame) models.RecognizedText
	Engine() string
}

// TranscriptSource exposes the latest speech transcript.
type TranscriptSource interface {
	Latest() models.Transcript
	Available() bool
}

// PriceResolver resolves market evidence for an identity.
type PriceResolver interface {
	Resolve(ctx context.Context, id models.Identity) *models.PriceSnapshot
}

// FramePipeline drives one session: it throttles incoming frames,
// runs the full analysis sequence on every Nth frame, and emits result
// bundles to transport, the session log, and the optional event sink.
type FramePipeline struct {
	recognizer  Recognizer
	transcripts TranscriptSource
	fuser       *usecase.Fuser
	resolver    PriceResolver
	signals     *usecase.SignalEngine
	advisor     service.Advisor
	transport   domrepo.Transport
	sessionLog  domrepo.SessionLog
	events      domrepo.EventPublisher
	metrics     domrepo.Metrics
	limiter     *ratelimit.Limiter
	logger      *applogger.Logger

	fps           int
	everyNth      int
	eventTopic    string
	continuityTTL time.Duration
}

type PipelineOption func(*FramePipeline)

// WithFPS sets the per-session frame budget.
func WithFPS(n int) PipelineOption {
	return func(p *FramePipeline) {
		if n > 0 {
			p.fps = n
		}
	}
}

// WithProcessEveryNth sets how many frames pass between full analyses.
func WithProcessEveryNth(n int) PipelineOption {
	return func(p *FramePipeline) {
		if n > 0 {
			p.everyNth = n
		}
	}
}

// WithEventTopic enables publishing bundles to the event sink.
func WithEventTopic(topic string) PipelineOption {
	return func(p *FramePipeline) {
		p.eventTopic = topic
	}
}

// WithContinuityTTL sets how long a resolved identity bridges frames
// that yield nothing.
func WithContinuityTTL(d time.Duration) PipelineOption {
	return func(p *FramePipeline) {
		if d > 0 {
			p.continuityTTL = d
		}
	}
}

func NewFramePipeline(
	recognizer Recognizer,
	transcripts TranscriptSource,
	fuser *usecase.Fuser,
	resolver PriceResolver,
	signals *usecase.SignalEngine,
	advisor service.Advisor,
	transport domrepo.Transport,
	sessionLog domrepo.SessionLog,
	events domrepo.EventPublisher,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
	opts ...PipelineOption,
) *FramePipeline {
	p := &FramePipeline{
		recognizer:    recognizer,
		transcripts:   transcripts,
		fuser:         fuser,
		resolver:      resolver,
		signals:       signals,
		advisor:       advisor,
		transport:     transport,
		sessionLog:    sessionLog,
		events:        events,
		metrics:       metrics,
		limiter:       ratelimit.New(),
		logger:        logger,
		fps:           5,
		everyNth:      3,
		continuityTTL: usecase.DefaultContinuityTTL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run consumes frames from the source until it is exhausted or ctx is
// cancelled. Per-frame failures become status broadcasts; the loop
// keeps going.
func (p *FramePipeline) Run(ctx context.Context, session *usecase.Session, source domrepo.FrameSource) error {
	frames, errs := source.Frames(ctx)
	defer p.limiter.Forget(session.ID)

	// the continuity slot lives and dies with the session so concurrent
	// sessions never inherit each other's item
	continuity := usecase.NewContinuity(p.continuityTTL)

	var processed int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-errs:
			if ok && err != nil {
				p.transport.BroadcastStatus(session.ID, fmt.Sprintf("frame source failed: %v", err))
				return err
			}
			errs = nil
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			if !p.limiter.Allow(session.ID, float64(p.fps), float64(p.fps)) {
				continue
			}

			processed++
			if processed%int64(p.everyNth) != 0 {
				p.emitPreview(session.ID, frame)
				continue
			}

			if err := p.processFrame(ctx, session.ID, continuity, frame); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.metrics.RecordError("frame_processing")
				p.transport.BroadcastStatus(session.ID, fmt.Sprintf("frame %d failed: %v", frame.Index, err))
			}
		}
	}
}

func (p *FramePipeline) processFrame(ctx context.Context, sessionID string, continuity *usecase.Continuity, frame *models.Frame) error {
	start := time.Now()

	// recognition runs off the loop goroutine so cancellation stays responsive
	recognized := make(chan models.RecognizedText, 1)
	go func() {
		recognized <- p.recognizer.Recognize(ctx, frame)
	}()

	var rec models.RecognizedText
	select {
	case <-ctx.Done():
		return ctx.Err()
	case rec = <-recognized:
	}
	p.metrics.RecordRecognition(rec.Engine)

	transcript := p.transcripts.Latest()
	fused := p.fuser.Fuse(rec.Identity, transcript.Attributes, rec.Confidence, transcript.Confidence)
	tracked := continuity.Update(fused, frame.CapturedAt)

	snap := &models.PriceSnapshot{}
	if tracked.Resolved() {
		snap = p.resolver.Resolve(ctx, tracked)
	}

	sig := p.signals.Score(tracked, rec.Auction.CurrentBid, snap)
	p.metrics.RecordSignal(string(sig.Signal))

	bundle := &models.ResultBundle{
		SessionID:  sessionID,
		FrameIndex: frame.Index,
		Identity:   tracked,
		Auction:    rec.Auction,
		Pricing:    *snap,
		Signal:     sig,
		Audio: models.AudioStatus{
			Active:     transcript.Active,
			Transcript: transcript.Text,
			Confidence: transcript.Confidence,
		},
		ProcessedAt: time.Now(),
	}

	if p.advisor != nil && p.advisor.Available() && sig.Signal != models.SignalGray {
		advisory, err := p.advisor.Advise(ctx, tracked, rec.Auction.CurrentBid, snap)
		if err != nil {
			p.logger.Debug("advisory skipped", applogger.Error(err))
		} else {
			bundle.Advisory = advisory
		}
	}

	p.emit(ctx, bundle)

	p.metrics.RecordFrame(sessionID)
	p.metrics.RecordLatency("frame", time.Since(start).Seconds())
	return nil
}

func (p *FramePipeline) emit(ctx context.Context, bundle *models.ResultBundle) {
	p.transport.Broadcast(bundle)

	if err := p.sessionLog.Append(ctx, bundle.SessionID, bundle); err != nil {
		p.logger.Warn("session log append failed", applogger.Error(err))
		p.metrics.RecordError("session_log")
	}

	if p.eventTopic != "" {
		if err := p.events.PublishMessage(ctx, p.eventTopic, bundle); err != nil {
			p.logger.Warn("event publish failed", applogger.Error(err))
			p.metrics.RecordError("event_publish")
		}
	}
}

func (p *FramePipeline) emitPreview(sessionID string, frame *models.Frame) {
	transcript := p.transcripts.Latest()
	p.transport.Broadcast(&models.ResultBundle{
		SessionID:  sessionID,
		FrameIndex: frame.Index,
		Status:     "preview",
		Audio: models.AudioStatus{
			Active:     transcript.Active,
			Transcript: transcript.Text,
			Confidence: transcript.Confidence,
		},
		ProcessedAt: time.Now(),
	})
}
