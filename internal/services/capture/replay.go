package capture

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"CardSight/internal/domain/models"
	applogger "CardSight/pkg/logger"
)

// DirectorySource replays a directory of numbered image files at the
// target frame rate, feeding the same pipeline a live capture would.
type DirectorySource struct {
	dir    string
	fps    int
	logger *applogger.Logger
	cancel context.CancelFunc
}

func NewDirectorySource(dir string, fps int, l *applogger.Logger) *DirectorySource {
	if fps <= 0 {
		fps = 5
	}
	return &DirectorySource{dir: dir, fps: fps, logger: l}
}

// Frames streams decoded frames until the directory is exhausted or ctx
// is cancelled. The error channel carries at most one terminal error.
func (s *DirectorySource) Frames(ctx context.Context) (<-chan *models.Frame, <-chan error) {
	frames := make(chan *models.Frame)
	errs := make(chan error, 1)

	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		defer close(frames)
		defer close(errs)

		files, err := s.listImages()
		if err != nil {
			errs <- err
			return
		}
		if len(files) == 0 {
			errs <- fmt.Errorf("replay: no image files in %s", s.dir)
			return
		}

		ticker := time.NewTicker(time.Second / time.Duration(s.fps))
		defer ticker.Stop()

		var index int64
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			img, err := decodeImage(path)
			if err != nil {
				s.logger.Warn("replay frame skipped",
					applogger.String("file", filepath.Base(path)),
					applogger.Error(err),
				)
				continue
			}

			index++
			frame := &models.Frame{Index: index, Image: img, CapturedAt: time.Now()}
			select {
			case <-ctx.Done():
				return
			case frames <- frame:
			}
		}
	}()

	return frames, errs
}

func (s *DirectorySource) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func (s *DirectorySource) listImages() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("replay: read dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, filepath.Join(s.dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
