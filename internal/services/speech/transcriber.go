package speech

import (
	"context"
	"sync"
	"time"

	"CardSight/internal/domain/models"
	"CardSight/internal/domain/repository"
	"CardSight/internal/domain/service"
	applogger "CardSight/pkg/logger"
	"CardSight/pkg/queue"
)

// Transcriber runs a capture loop and a transcribe loop joined by a
// bounded drop-oldest queue. The frame pipeline only ever reads the
// latest published transcript and never blocks on audio work.
type Transcriber struct {
	source   repository.AudioSource
	engine   service.SpeechEngine
	queue    *queue.ChunkQueue
	chunkDur time.Duration
	logger   *applogger.Logger

	mu     sync.RWMutex
	latest models.Transcript

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTranscriber(source repository.AudioSource, engine service.SpeechEngine, queueSize, chunkSeconds int, l *applogger.Logger) *Transcriber {
	return &Transcriber{
		source:   source,
		engine:   engine,
		queue:    queue.NewChunkQueue(queueSize),
		chunkDur: time.Duration(chunkSeconds) * time.Second,
		logger:   l,
	}
}

// Available reports whether the transcriber can produce transcripts.
func (t *Transcriber) Available() bool {
	return t.source != nil && t.engine != nil && t.engine.Available()
}

// Start launches the capture and transcribe loops. A no-op when the
// engine or source is unavailable.
func (t *Transcriber) Start(ctx context.Context) {
	if !t.Available() {
		t.logger.Warn("speech transcription unavailable, running video-only")
		return
	}

	ctx, t.cancel = context.WithCancel(ctx)
	t.wg.Add(2)
	go t.captureLoop(ctx)
	go t.transcribeLoop(ctx)

	t.logger.Info("speech transcription started",
		applogger.String("engine", t.engine.Name()),
		applogger.Duration("chunk", t.chunkDur),
	)
}

// Stop cancels both loops and waits for them to drain.
func (t *Transcriber) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
}

// Latest returns the most recent transcript snapshot.
func (t *Transcriber) Latest() models.Transcript {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest
}

func (t *Transcriber) captureLoop(ctx context.Context) {
	defer t.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		pcm, err := t.source.Record(ctx, t.chunkDur)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			t.logger.Warn("audio capture failed", applogger.Error(err))
			continue
		}
		if len(pcm) == 0 {
			continue
		}

		if dropped := t.queue.Push(pcm); dropped {
			t.logger.Debug("audio chunk dropped, transcription lagging",
				applogger.Int("pending", t.queue.Len()))
		}
	}
}

func (t *Transcriber) transcribeLoop(ctx context.Context) {
	defer t.wg.Done()

	for {
		pcm, ok := t.queue.Pop(ctx)
		if !ok {
			return
		}

		text, _, err := t.engine.Transcribe(ctx, pcm)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			t.logger.Warn("transcription failed", applogger.Error(err))
			continue
		}

		attrs := ExtractAttributes(text)
		t.mu.Lock()
		t.latest = models.Transcript{
			Text:       text,
			Attributes: attrs,
			Confidence: Score(attrs),
			Active:     text != "",
			CapturedAt: time.Now(),
		}
		t.mu.Unlock()
	}
}
