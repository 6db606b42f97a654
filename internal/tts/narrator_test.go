package tts

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingEngine struct {
	mu     sync.Mutex
	spoken []string
	gate   chan struct{}
	err    error
}

func (e *recordingEngine) Speak(text string) error {
	if e.gate != nil {
		<-e.gate
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spoken = append(e.spoken, text)
	return e.err
}

func (e *recordingEngine) lines() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.spoken...)
}

type countingDucker struct {
	mu              sync.Mutex
	ducks, restores int
}

func (d *countingDucker) Duck(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ducks++
	return nil
}

func (d *countingDucker) Restore(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.restores++
	return errors.New("pactl gone")
}

func TestNarrator_SpeaksInOrder(t *testing.T) {
	e := &recordingEngine{}
	d := &countingDucker{}
	n := NewNarrator(e, d, 8)

	n.Say("Yes sir!")
	n.Say("")
	n.Say("Opening https://github.com")
	n.Close()

	assert.Equal(t, []string{"Yes sir!", "Opening https://github.com"}, e.lines())
	assert.Equal(t, 2, d.ducks)
	assert.Equal(t, 2, d.restores)
}

func TestNarrator_SayDoesNotBlock(t *testing.T) {
	e := &recordingEngine{gate: make(chan struct{})}
	n := NewNarrator(e, nil, 1)

	// the worker holds the first line, the second fills the queue, the
	// third is dropped; none of these calls may block
	n.Say("one")
	n.Say("two")
	n.Say("three")
	n.Say("four")

	close(e.gate)
	n.Close()

	lines := e.lines()
	assert.Contains(t, lines, "one")
	assert.LessOrEqual(t, len(lines), 2)
}

func TestNarrator_SayAfterClose(t *testing.T) {
	e := &recordingEngine{}
	n := NewNarrator(e, nil, 1)
	n.Close()

	assert.NotPanics(t, func() { n.Say("late") })
	assert.Empty(t, e.lines())
}

func TestNarrator_EngineErrorIsSwallowed(t *testing.T) {
	e := &recordingEngine{err: errors.New("no audio device")}
	n := NewNarrator(e, nil, 2)

	n.Say("hello")
	n.Close()

	assert.Equal(t, []string{"hello"}, e.lines())
	assert.Error(t, n.SayNow("direct"))
}
