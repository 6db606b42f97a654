package audio

import (
	"errors"
	"math"
	"time"

	"friday/internal/config"
)

const (
	SampleRate = 16000
	frameSize  = 320 // 20ms
	frameDur   = 20 * time.Millisecond

	minThreshRMS  = 0.015
	ambientFactor = 1.5
	pauseDuration = 800 * time.Millisecond
)

var ErrWaitTimeout = errors.New("listening timed out while waiting for phrase to start")

// phraseDetector decides, frame by frame, where an utterance starts and ends.
// It first measures the background level, then waits for a frame louder than
// the calibrated threshold, then keeps frames until a pause or the phrase
// limit.
type phraseDetector struct {
	ambientFrames int
	waitFrames    int
	phraseFrames  int
	pauseFrames   int

	ambientSum float64
	seen       int
	threshold  float64

	speaking bool
	waited   int
	spoken   int
	silent   int
}

func framesFor(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + frameDur - 1) / frameDur)
}

func newPhraseDetector(l config.Limits) *phraseDetector {
	return &phraseDetector{
		ambientFrames: framesFor(l.Ambient),
		waitFrames:    framesFor(l.ListenTimeout),
		phraseFrames:  framesFor(l.PhraseLimit),
		pauseFrames:   framesFor(pauseDuration),
		threshold:     minThreshRMS,
	}
}

// feed reports whether the frame belongs to the phrase and whether capture
// is complete. ErrWaitTimeout is returned when no speech starts in time.
func (d *phraseDetector) feed(rms float64) (keep, done bool, err error) {
	if d.seen < d.ambientFrames {
		d.seen++
		d.ambientSum += rms
		if d.seen == d.ambientFrames {
			d.threshold = math.Max(minThreshRMS, d.ambientSum/float64(d.seen)*ambientFactor)
		}
		return false, false, nil
	}

	loud := rms > d.threshold

	if !d.speaking {
		if !loud {
			d.waited++
			if d.waitFrames > 0 && d.waited >= d.waitFrames {
				return false, true, ErrWaitTimeout
			}
			return false, false, nil
		}
		d.speaking = true
	}

	d.spoken++
	if loud {
		d.silent = 0
	} else {
		d.silent++
	}

	if d.silent >= d.pauseFrames {
		return true, true, nil
	}
	if d.phraseFrames > 0 && d.spoken >= d.phraseFrames {
		return true, true, nil
	}

	return true, false, nil
}

func frameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
