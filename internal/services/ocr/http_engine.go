package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"CardSight/internal/domain/models"
	xhttp "CardSight/pkg/http"
)

// HTTPEngine delegates recognition to an OCR sidecar service over JSON.
type HTTPEngine struct {
	client *xhttp.Client
	url    string
}

type ocrRequest struct {
	Image string `json:"image"` // base64 JPEG
}

type ocrResponse struct {
	Fragments []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"fragments"`
}

// NewHTTPEngine creates an engine talking to the sidecar at url.
func NewHTTPEngine(url string, timeout time.Duration) *HTTPEngine {
	return &HTTPEngine{
		client: xhttp.NewClient(xhttp.WithTimeout(timeout)),
		url:    url,
	}
}

func (e *HTTPEngine) Extract(ctx context.Context, img image.Image) ([]models.TextFragment, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	req := &ocrRequest{Image: base64.StdEncoding.EncodeToString(buf.Bytes())}

	var resp ocrResponse
	err := e.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    e.url + "/recognize",
		Body:   req,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("ocr sidecar: %w", err)
	}

	fragments := make([]models.TextFragment, 0, len(resp.Fragments))
	for _, f := range resp.Fragments {
		if f.Text == "" {
			continue
		}
		fragments = append(fragments, models.TextFragment{
			Text:       f.Text,
			Confidence: f.Confidence,
		})
	}
	return fragments, nil
}

func (e *HTTPEngine) Name() string { return "ocr-http" }

// Available reports whether a sidecar URL is configured. Transport
// failures are handled per frame, not at selection time.
func (e *HTTPEngine) Available() bool { return e.url != "" }
