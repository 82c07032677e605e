package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"CardSight/internal/domain/models"
)

// tesseractLineConfidence is assigned per line; the CLI's plain text
// output carries no per-word scores.
const tesseractLineConfidence = 0.7

// TesseractEngine shells out to the tesseract CLI.
type TesseractEngine struct {
	binary string
}

func NewTesseractEngine(binary string) *TesseractEngine {
	if binary == "" {
		binary = "tesseract"
	}
	return &TesseractEngine{binary: binary}
}

func (e *TesseractEngine) Extract(ctx context.Context, img image.Image) ([]models.TextFragment, error) {
	tmp, err := os.CreateTemp("", "frame-*.png")
	if err != nil {
		return nil, fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	tmp.Close()

	cmd := exec.CommandContext(ctx, e.binary, tmp.Name(), "stdout", "--psm", "6")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("tesseract %s: %w", filepath.Base(tmp.Name()), err)
	}

	var fragments []models.TextFragment
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fragments = append(fragments, models.TextFragment{
			Text:       line,
			Confidence: tesseractLineConfidence,
		})
	}
	return fragments, nil
}

func (e *TesseractEngine) Name() string { return "tesseract" }

func (e *TesseractEngine) Available() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}
