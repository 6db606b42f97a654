package assistant

import (
	"context"
	"sync"
	"time"

	"friday/internal/config"
	"friday/internal/nlu"
)

type heard struct {
	text string
	err  error
}

// scriptedListener replays heard lines, then cancels the run.
type scriptedListener struct {
	script []heard
	cancel context.CancelFunc
	limits []config.Limits
}

func (l *scriptedListener) Listen(ctx context.Context, limits config.Limits) (string, error) {
	l.limits = append(l.limits, limits)
	if len(l.script) == 0 {
		if l.cancel != nil {
			l.cancel()
		}
		return "", context.Canceled
	}
	h := l.script[0]
	l.script = l.script[1:]
	return h.text, h.err
}

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (c *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.reply, c.err
}

type recordingSpeaker struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSpeaker) Say(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, text)
}

type recordingOpener struct {
	opened []string
	err    error
}

func (o *recordingOpener) Open(u string) error {
	o.opened = append(o.opened, u)
	return o.err
}

type recordingPlayer struct {
	queries []string
	err     error
}

func (p *recordingPlayer) Play(_ context.Context, query string) error {
	p.queries = append(p.queries, query)
	return p.err
}

type countingCue struct{ plays int }

func (c *countingCue) Play() error {
	c.plays++
	return nil
}

type transition struct{ from, to State }

type recordingObserver struct {
	transitions []transition
	dispatched  []nlu.Tool
	classified  int
	heard       int
}

func (o *recordingObserver) StateChanged(from, to State) {
	o.transitions = append(o.transitions, transition{from, to})
}

func (o *recordingObserver) Heard(State, error) { o.heard++ }

func (o *recordingObserver) Classified(time.Duration, error) { o.classified++ }

func (o *recordingObserver) Dispatched(tool nlu.Tool, _ string) {
	o.dispatched = append(o.dispatched, tool)
}

type harness struct {
	listener   *scriptedListener
	classifier *fakeCompleter
	speaker    *recordingSpeaker
	opener     *recordingOpener
	player     *recordingPlayer
	cue        *countingCue
	observer   *recordingObserver
	control    chan Control
	it         *Interpreter
}

var (
	wakeLimits    = config.Limits{ListenTimeout: 5 * time.Second, PhraseLimit: 5 * time.Second}
	commandLimits = config.Limits{ListenTimeout: 6 * time.Second, PhraseLimit: 8 * time.Second}
)

func newHarness(reply string, script ...heard) *harness {
	h := &harness{
		listener:   &scriptedListener{script: script},
		classifier: &fakeCompleter{reply: reply},
		speaker:    &recordingSpeaker{},
		opener:     &recordingOpener{},
		player:     &recordingPlayer{},
		cue:        &countingCue{},
		observer:   &recordingObserver{},
		control:    make(chan Control, 4),
	}

	it, err := New(Config{
		Listener:      h.listener,
		Classifier:    h.classifier,
		Actions:       NewActions(h.speaker, h.opener, h.player),
		Speaker:       h.speaker,
		Cue:           h.cue,
		Observer:      h.observer,
		Control:       h.control,
		WakeWord:      "Friday",
		WakeLimits:    wakeLimits,
		CommandLimits: commandLimits,
	})
	if err != nil {
		panic(err)
	}
	h.it = it

	return h
}
