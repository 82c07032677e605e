package service

import (
	"context"
	"image"

	"CardSight/internal/domain/models"
)

// OCREngine extracts text fragments from a single image region.
type OCREngine interface {
	// Extract returns raw fragments with per-fragment confidence.
	Extract(ctx context.Context, img image.Image) ([]models.TextFragment, error)
	Name() string
	Available() bool
}

// SpeechEngine transcribes one chunk of raw PCM audio (16 kHz mono,
// 16-bit little-endian) into text with an overall confidence.
type SpeechEngine interface {
	Transcribe(ctx context.Context, pcm []byte) (string, float64, error)
	Name() string
	Available() bool
}
