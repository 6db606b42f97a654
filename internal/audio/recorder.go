package audio

import (
	"context"
	"fmt"
	log "log/slog"

	"github.com/gordonklaus/portaudio"

	"friday/internal/config"
)

type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Capture records one phrase from the default input device. The stream is
// opened per call so nothing is buffered while the assistant is busy.
func (r *Recorder) Capture(ctx context.Context, limits config.Limits) ([]float32, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, SampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("start stream: %w", err)
	}
	defer stream.Stop()

	det := newPhraseDetector(limits)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("read stream: %w", err)
		}

		keep, done, err := det.feed(frameRMS(buf))
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, buf...)
		}
		if done {
			break
		}
	}

	log.Debug("Captured phrase", "samples", len(out), "threshold", det.threshold)

	return out, nil
}
