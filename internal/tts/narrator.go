package tts

import (
	"context"
	log "log/slog"
	"sync"
	"time"
)

// Engine renders text to audible speech and returns when playback ends.
type Engine interface {
	Speak(text string) error
}

// Ducker lowers other audio while a line is spoken.
type Ducker interface {
	Duck(ctx context.Context) error
	Restore(ctx context.Context) error
}

const duckTimeout = 2 * time.Second

// Narrator plays queued lines one at a time on its own goroutine. Say only
// queues, so a caller that listens right after Say may start capturing
// before or during playback.
type Narrator struct {
	engine Engine
	ducker Ducker

	mu     sync.Mutex
	closed bool
	queue  chan string
	done   chan struct{}
}

// NewNarrator starts the playback worker. ducker may be nil.
func NewNarrator(engine Engine, ducker Ducker, depth int) *Narrator {
	if depth <= 0 {
		depth = 1
	}

	n := &Narrator{
		engine: engine,
		ducker: ducker,
		queue:  make(chan string, depth),
		done:   make(chan struct{}),
	}
	go n.run()

	return n
}

// Say queues text without blocking. When the queue is full the line is
// dropped.
func (n *Narrator) Say(text string) {
	if text == "" {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		log.Warn("Narrator closed, dropping line", "text", text)
		return
	}

	select {
	case n.queue <- text:
	default:
		log.Warn("Narration queue full, dropping line", "text", text)
	}
}

// SayNow speaks synchronously on the caller's goroutine, bypassing the queue.
func (n *Narrator) SayNow(text string) error {
	return n.engine.Speak(text)
}

// Close stops accepting lines and waits for queued ones to finish.
func (n *Narrator) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	<-n.done
}

func (n *Narrator) run() {
	defer close(n.done)

	for text := range n.queue {
		n.speak(text)
	}
}

func (n *Narrator) speak(text string) {
	if n.ducker != nil {
		ctx, cancel := context.WithTimeout(context.Background(), duckTimeout)
		if err := n.ducker.Duck(ctx); err != nil {
			log.Debug("Failed to duck other streams", "err", err)
		}
		cancel()

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), duckTimeout)
			defer cancel()
			if err := n.ducker.Restore(ctx); err != nil {
				log.Debug("Failed to restore other streams", "err", err)
			}
		}()
	}

	log.Debug("Speaking", "text", text)

	if err := n.engine.Speak(text); err != nil {
		log.Error("Failed to voice out", "text", text, "err", err)
	}
}
