package ocr

import (
	"context"
	"image"
	"image/draw"
	"strings"
	"sync"

	"CardSight/internal/domain/models"
	"CardSight/internal/domain/service"
	applogger "CardSight/pkg/logger"
)

// Recognizer runs the selected engine over the title and auction regions
// of a frame and parses the combined text. It never returns an error:
// any internal failure degrades to an empty zero-confidence result.
type Recognizer struct {
	engine          service.OCREngine
	titleFraction   float64
	auctionFraction float64
	logger          *applogger.Logger
}

func NewRecognizer(engine service.OCREngine, titleFraction, auctionFraction float64, l *applogger.Logger) *Recognizer {
	return &Recognizer{
		engine:          engine,
		titleFraction:   titleFraction,
		auctionFraction: auctionFraction,
		logger:          l,
	}
}

// Engine returns the name of the active engine.
func (r *Recognizer) Engine() string { return r.engine.Name() }

// Recognize extracts and parses text from both regions of the frame.
func (r *Recognizer) Recognize(ctx context.Context, frame *models.Frame) models.RecognizedText {
	result := models.RecognizedText{Engine: r.engine.Name()}
	if frame == nil || frame.Image == nil {
		return result
	}

	bounds := frame.Image.Bounds()
	titleRegion := image.Rect(
		bounds.Min.X, bounds.Min.Y,
		bounds.Max.X, bounds.Min.Y+int(float64(bounds.Dy())*r.titleFraction),
	)
	auctionRegion := image.Rect(
		bounds.Min.X, bounds.Max.Y-int(float64(bounds.Dy())*r.auctionFraction),
		bounds.Max.X, bounds.Max.Y,
	)

	var wg sync.WaitGroup
	regions := [2][]models.TextFragment{}
	for i, rect := range [2]image.Rectangle{titleRegion, auctionRegion} {
		wg.Add(1)
		go func(i int, rect image.Rectangle) {
			defer wg.Done()
			fragments, err := r.engine.Extract(ctx, crop(frame.Image, rect))
			if err != nil {
				r.logger.Warn("region recognition failed",
					applogger.String("engine", r.engine.Name()),
					applogger.Int("region", i),
					applogger.Error(err),
				)
				return
			}
			regions[i] = fragments
		}(i, rect)
	}
	wg.Wait()

	result.Fragments = append(regions[0], regions[1]...)
	if len(result.Fragments) == 0 {
		return result
	}

	texts := make([]string, 0, len(result.Fragments))
	var sum float64
	for _, f := range result.Fragments {
		texts = append(texts, f.Text)
		sum += f.Confidence
	}
	result.Text = strings.Join(texts, " ")
	result.Confidence = sum / float64(len(result.Fragments))
	result.Identity = ParseAttributes(result.Text)
	result.Identity.Confidence = result.Confidence
	result.Identity.Engine = result.Engine
	result.Auction = ParseAuction(result.Text)

	return result
}

// crop returns the sub-image for rect, copying when the source image
// does not support SubImage.
func crop(img image.Image, rect image.Rectangle) image.Image {
	rect = rect.Intersect(img.Bounds())

	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(rect)
	}

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}
