package listen

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"regexp"
	"strings"

	"friday/internal/config"
	"friday/pkg/stt"
)

var (
	// ErrNoSpeech: audio was captured but nothing intelligible was in it.
	ErrNoSpeech = errors.New("no speech detected")
	// ErrWaitTimeout: nobody started talking within the listen timeout.
	ErrWaitTimeout = errors.New("listen timeout")
	// ErrUnavailable: capture or transcription backend failed.
	ErrUnavailable = errors.New("speech service unavailable")
)

// Source captures one phrase of mono 16 kHz PCM.
type Source interface {
	Capture(ctx context.Context, limits config.Limits) ([]float32, error)
}

type Transcriber interface {
	TranscribePCM(ctx context.Context, pcm16k []float32) (stt.Result, error)
}

// Listener turns one capture into one transcript.
type Listener struct {
	src Source
	tr  Transcriber

	// errors from src matching timeoutErr are reported as ErrWaitTimeout
	timeoutErr error
}

func NewListener(src Source, tr Transcriber, timeoutErr error) *Listener {
	return &Listener{src: src, tr: tr, timeoutErr: timeoutErr}
}

// non-speech annotations whisper emits, e.g. [BLANK_AUDIO], (music), *cough*
var markerRe = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\*[^*]*\*`)

// Listen returns the lower-cased transcript of one phrase, or one of
// ErrNoSpeech, ErrWaitTimeout and ErrUnavailable.
func (l *Listener) Listen(ctx context.Context, limits config.Limits) (string, error) {
	pcm, err := l.src.Capture(ctx, limits)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if l.timeoutErr != nil && errors.Is(err, l.timeoutErr) {
			return "", ErrWaitTimeout
		}
		return "", fmt.Errorf("%w: capture: %v", ErrUnavailable, err)
	}
	if len(pcm) == 0 {
		return "", ErrNoSpeech
	}

	res, err := l.tr.TranscribePCM(ctx, pcm)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: transcribe: %v", ErrUnavailable, err)
	}

	text := Clean(res.Text)
	log.Debug("Transcribed", "raw", res.Text, "text", text)

	if text == "" {
		return "", ErrNoSpeech
	}

	return text, nil
}

// Clean strips non-speech markers, collapses whitespace and lower-cases.
func Clean(s string) string {
	s = markerRe.ReplaceAllString(s, " ")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
