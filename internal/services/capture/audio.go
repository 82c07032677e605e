package capture

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// FFmpegAudioSource records raw PCM chunks from a system audio device
// through the ffmpeg binary. Output is 16 kHz mono signed 16-bit
// little-endian, the format the transcription engine expects.
type FFmpegAudioSource struct {
	binary     string
	inputFmt   string
	device     string
	sampleRate int
}

func NewFFmpegAudioSource(binary, inputFmt, device string, sampleRate int) *FFmpegAudioSource {
	if binary == "" {
		binary = "ffmpeg"
	}
	if inputFmt == "" {
		inputFmt = "pulse"
	}
	if device == "" {
		device = "default"
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &FFmpegAudioSource{
		binary:     binary,
		inputFmt:   inputFmt,
		device:     device,
		sampleRate: sampleRate,
	}
}

// Record captures one chunk of audio of the given duration.
func (s *FFmpegAudioSource) Record(ctx context.Context, d time.Duration) ([]byte, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", s.inputFmt,
		"-i", s.device,
		"-t", fmt.Sprintf("%.1f", d.Seconds()),
		"-ar", fmt.Sprintf("%d", s.sampleRate),
		"-ac", "1",
		"-f", "s16le",
		"-",
	}

	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.binary, args...)
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg capture: %w: %s", err, stderr.String())
	}
	return out.Bytes(), nil
}

func (s *FFmpegAudioSource) Close() error { return nil }

// Available reports whether the ffmpeg binary can be found.
func (s *FFmpegAudioSource) Available() bool {
	_, err := exec.LookPath(s.binary)
	return err == nil
}
