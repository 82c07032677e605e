package ocr

import (
	"image"
	"testing"
	"time"

	"CardSight/internal/domain/models"
	applogger "CardSight/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func frameWith(img image.Image) *models.Frame {
	return &models.Frame{Index: 1, Image: img, CapturedAt: time.Now()}
}
