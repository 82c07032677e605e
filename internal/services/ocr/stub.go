package ocr

import (
	"context"
	"image"

	"CardSight/internal/domain/models"
)

// StubEngine is the terminal fallback. It recognizes nothing, which the
// pipeline treats as an unidentified frame rather than an error.
type StubEngine struct{}

func NewStubEngine() *StubEngine { return &StubEngine{} }

func (s *StubEngine) Extract(_ context.Context, _ image.Image) ([]models.TextFragment, error) {
	return nil, nil
}

func (s *StubEngine) Name() string    { return "stub" }
func (s *StubEngine) Available() bool { return true }
