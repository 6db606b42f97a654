package notify

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Chime is a short mp3 cue decoded once and replayed from memory.
type Chime struct {
	buf *beep.Buffer

	initOnce sync.Once
	initErr  error
}

func LoadChime(path string) (*Chime, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chime: %w", err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode chime: %w", err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)

	return &Chime{buf: buf}, nil
}

// Play blocks until the cue has been played.
func (c *Chime) Play() error {
	format := c.buf.Format()

	c.initOnce.Do(func() {
		c.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
	if c.initErr != nil {
		return fmt.Errorf("init speaker: %w", c.initErr)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(c.buf.Streamer(0, c.buf.Len()), beep.Callback(func() {
		close(done)
	})))
	<-done

	return nil
}
