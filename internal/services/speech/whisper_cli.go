package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// WhisperEngine shells out to a whisper.cpp style CLI for transcription.
type WhisperEngine struct {
	binary     string
	model      string
	sampleRate int
}

func NewWhisperEngine(binary, model string, sampleRate int) *WhisperEngine {
	if binary == "" {
		binary = "whisper-cli"
	}
	return &WhisperEngine{binary: binary, model: model, sampleRate: sampleRate}
}

func (e *WhisperEngine) Transcribe(ctx context.Context, pcm []byte) (string, float64, error) {
	if len(pcm) == 0 {
		return "", 0, nil
	}

	tmp, err := os.CreateTemp("", "chunk-*.wav")
	if err != nil {
		return "", 0, fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeWAV(tmp, pcm, e.sampleRate); err != nil {
		tmp.Close()
		return "", 0, err
	}
	tmp.Close()

	args := []string{"-f", tmp.Name(), "--no-timestamps", "--no-prints"}
	if e.model != "" {
		args = append([]string{"-m", e.model}, args...)
	}

	cmd := exec.CommandContext(ctx, e.binary, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", 0, fmt.Errorf("whisper: %w", err)
	}

	return strings.TrimSpace(string(out)), 0, nil
}

func (e *WhisperEngine) Name() string { return "whisper-cli" }

func (e *WhisperEngine) Available() bool {
	if _, err := exec.LookPath(e.binary); err != nil {
		return false
	}
	if e.model == "" {
		return true
	}
	_, err := os.Stat(e.model)
	return err == nil
}
