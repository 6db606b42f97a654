package audio

import (
	"context"
	"fmt"
	log "log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"friday/internal/config"
	"friday/pkg/audioconv"
)

// FileSource replays recorded utterances from a directory, one file per
// Capture, in lexical order. Once exhausted it behaves like a silent room.
type FileSource struct {
	fs    afero.Fs
	files []string
	next  int
}

func NewFileSource(fs afero.Fs, dir string) (*FileSource, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("read utterances dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !audioconv.Supported(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no audio files in %s", dir)
	}

	log.Debug("Loaded utterances", "dir", dir, "count", len(files))

	return &FileSource{fs: fs, files: files}, nil
}

func (s *FileSource) Capture(ctx context.Context, limits config.Limits) ([]float32, error) {
	if s.next >= len(s.files) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(limits.ListenTimeout):
			return nil, ErrWaitTimeout
		}
	}

	path := s.files[s.next]
	s.next++

	pcm, err := audioconv.DecodeFile(s.fs, path, audioconv.Options{
		MaxSamples: int(limits.PhraseLimit.Seconds() * SampleRate),
	})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	log.Debug("Replayed utterance", "file", path, "samples", len(pcm))

	return pcm, nil
}
