package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friday/internal/config"
)

type feedResult struct {
	kept   int
	frames int
	err    error
}

// run feeds levels until the detector reports completion.
func run(d *phraseDetector, levels func(i int) float64, max int) feedResult {
	var r feedResult
	for i := 0; i < max; i++ {
		keep, done, err := d.feed(levels(i))
		r.frames++
		if keep {
			r.kept++
		}
		if done {
			r.err = err
			return r
		}
	}
	return r
}

func TestPhraseDetector_WaitTimeout(t *testing.T) {
	d := newPhraseDetector(config.Limits{
		ListenTimeout: 200 * time.Millisecond,
		PhraseLimit:   time.Second,
		Ambient:       100 * time.Millisecond,
	})

	r := run(d, func(int) float64 { return 0.001 }, 1000)

	assert.ErrorIs(t, r.err, ErrWaitTimeout)
	assert.Zero(t, r.kept)
	// 5 calibration frames + 10 waiting frames
	assert.Equal(t, 15, r.frames)
}

func TestPhraseDetector_EndsOnPause(t *testing.T) {
	d := newPhraseDetector(config.Limits{
		ListenTimeout: time.Second,
		PhraseLimit:   10 * time.Second,
	})

	// 3 quiet frames, 10 loud, then silence
	r := run(d, func(i int) float64 {
		if i >= 3 && i < 13 {
			return 0.2
		}
		return 0.001
	}, 1000)

	require.NoError(t, r.err)
	assert.Equal(t, 10+framesFor(pauseDuration), r.kept)
}

func TestPhraseDetector_PhraseLimit(t *testing.T) {
	d := newPhraseDetector(config.Limits{
		ListenTimeout: time.Second,
		PhraseLimit:   400 * time.Millisecond,
	})

	r := run(d, func(int) float64 { return 0.3 }, 1000)

	require.NoError(t, r.err)
	assert.Equal(t, 20, r.kept)
}

func TestPhraseDetector_AmbientCalibrationRaisesThreshold(t *testing.T) {
	d := newPhraseDetector(config.Limits{
		ListenTimeout: 100 * time.Millisecond,
		PhraseLimit:   time.Second,
		Ambient:       100 * time.Millisecond,
	})

	// steady background hum at 0.1 is above the floor but below 1.5x ambient
	r := run(d, func(int) float64 { return 0.1 }, 1000)

	assert.InDelta(t, 0.15, d.threshold, 1e-9)
	assert.ErrorIs(t, r.err, ErrWaitTimeout)
}

func TestFrameRMS(t *testing.T) {
	assert.Zero(t, frameRMS(nil))
	assert.InDelta(t, 0.5, frameRMS([]float32{0.5, -0.5, 0.5, -0.5}), 1e-6)
}
