package repository

import (
	"context"
	"time"

	"CardSight/internal/domain/models"
)

// FrameSource yields sampled frames with a monotonic index at a bounded rate.
type FrameSource interface {
	Frames(ctx context.Context) (<-chan *models.Frame, <-chan error)
	Close() error
}

// AudioSource records one fixed-duration chunk of raw PCM audio
// (16 kHz mono, 16-bit little-endian).
type AudioSource interface {
	Record(ctx context.Context, d time.Duration) ([]byte, error)
	Close() error
}

// ListingSearcher queries a sold-listings source. Search may fail on
// transport errors; callers are expected to degrade to "no data".
type ListingSearcher interface {
	Search(ctx context.Context, query string) ([]models.Comparable, error)
	Name() string
}

// PriceCache persists computed price snapshots keyed by identity hash.
type PriceCache interface {
	Get(ctx context.Context, key string) (*models.PriceSnapshot, bool, error)
	Set(ctx context.Context, key string, snap *models.PriceSnapshot) error
	PurgeExpired(ctx context.Context) error
	Close() error
}

// SessionLog stores the most recent result bundles per session,
// capped and pruned oldest-first.
type SessionLog interface {
	Append(ctx context.Context, sessionID string, b *models.ResultBundle) error
	History(ctx context.Context, sessionID string) ([]*models.ResultBundle, error)
	Close() error
}

// Transport delivers result bundles to connected viewers.
type Transport interface {
	Broadcast(b *models.ResultBundle)
	BroadcastStatus(sessionID, message string)
}

// EventPublisher pushes analysis events to an external sink (optional).
type EventPublisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
	Close() error
}

// Metrics records operational counters for the pipeline.
type Metrics interface {
	RecordFrame(sessionID string)
	RecordRecognition(engine string)
	RecordCache(hit bool)
	RecordSignal(state string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
