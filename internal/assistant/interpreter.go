package assistant

import (
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"friday/internal/config"
	"friday/internal/listen"
	"friday/internal/nlu"
)

// stopKeywords end the session without a classifier round trip.
var stopKeywords = []string{"stop", "exit", "quit", "goodbye", "bye", "shutdown"}

const defaultClassifyTimeout = 30 * time.Second

// Listener returns one lower-cased transcript per call.
type Listener interface {
	Listen(ctx context.Context, limits config.Limits) (string, error)
}

// Cue is an audible signal played on wake.
type Cue interface {
	Play() error
}

type Config struct {
	Listener   Listener
	Classifier nlu.Completer
	Actions    *Actions
	Speaker    Speaker

	// optional
	Cue      Cue
	Observer Observer
	Control  <-chan Control

	WakeWord        string
	WakeLimits      config.Limits
	CommandLimits   config.Limits
	ClassifyTimeout time.Duration
}

// Interpreter runs the dormant/active listening loop.
type Interpreter struct {
	listener   Listener
	classifier nlu.Completer
	actions    *Actions
	speaker    Speaker
	cue        Cue
	observer   Observer
	control    <-chan Control

	wakeWord        string
	wakeLimits      config.Limits
	commandLimits   config.Limits
	classifyTimeout time.Duration
}

func New(cfg Config) (*Interpreter, error) {
	switch {
	case cfg.Listener == nil:
		return nil, errors.New("missing parameter: Listener")
	case cfg.Classifier == nil:
		return nil, errors.New("missing parameter: Classifier")
	case cfg.Actions == nil:
		return nil, errors.New("missing parameter: Actions")
	case cfg.Speaker == nil:
		return nil, errors.New("missing parameter: Speaker")
	case strings.TrimSpace(cfg.WakeWord) == "":
		return nil, errors.New("missing parameter: WakeWord")
	}

	timeout := cfg.ClassifyTimeout
	if timeout <= 0 {
		timeout = defaultClassifyTimeout
	}

	return &Interpreter{
		listener:        cfg.Listener,
		classifier:      cfg.Classifier,
		actions:         cfg.Actions,
		speaker:         cfg.Speaker,
		cue:             cfg.Cue,
		observer:        Observers(cfg.Observer),
		control:         cfg.Control,
		wakeWord:        strings.ToLower(strings.TrimSpace(cfg.WakeWord)),
		wakeLimits:      cfg.WakeLimits,
		commandLimits:   cfg.CommandLimits,
		classifyTimeout: timeout,
	}, nil
}

// Run loops from Dormant until ctx is cancelled. Control requests are
// applied between listening cycles.
func (it *Interpreter) Run(ctx context.Context) error {
	st := Dormant

	for {
		var next State

		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-it.control:
			if !ok {
				it.control = nil
				continue
			}
			next = it.apply(ctx, st, c)
		default:
			next = it.Step(ctx, st)
		}

		if next != st {
			log.Info("State changed", "from", st, "to", next)
			it.observer.StateChanged(st, next)
		}
		st = next
	}
}

// Step runs one listening cycle from st and returns the next state.
func (it *Interpreter) Step(ctx context.Context, st State) State {
	switch st {
	case Dormant:
		return it.stepDormant(ctx)
	case Active:
		return it.stepActive(ctx)
	default:
		return Dormant
	}
}

func (it *Interpreter) stepDormant(ctx context.Context) State {
	log.Debug("Listening for trigger word", "word", it.wakeWord)

	heard, err := it.listener.Listen(ctx, it.wakeLimits)
	it.observer.Heard(Dormant, err)
	if err != nil {
		logListenErr(Dormant, err)
		return Dormant
	}

	log.Info("You said", "text", heard)

	if !strings.Contains(heard, it.wakeWord) {
		return Dormant
	}

	it.wake()
	return Active
}

func (it *Interpreter) stepActive(ctx context.Context) State {
	log.Debug("Listening for command")

	command, err := it.listener.Listen(ctx, it.commandLimits)
	it.observer.Heard(Active, err)
	if err != nil {
		logListenErr(Active, err)
		return Active
	}

	log.Info("Command", "text", command)

	if it.Process(ctx, command) == SignalSleep {
		return Dormant
	}
	return Active
}

// Process interprets one command: a local stop check, then classification
// and dispatch. Every failure ends as speech, never as an error.
func (it *Interpreter) Process(ctx context.Context, command string) Signal {
	command = strings.ToLower(strings.TrimSpace(command))
	if command == "" {
		return SignalNone
	}

	if hasStopKeyword(command) {
		log.Debug("Stop keyword heard", "command", command)
		return it.dispatch(ctx, nlu.ToolStopAssistant, "")
	}

	cctx, cancel := context.WithTimeout(ctx, it.classifyTimeout)
	defer cancel()

	start := time.Now()
	d, err := nlu.Classify(cctx, it.classifier, command)
	took := time.Since(start)

	it.observer.Classified(took, err)
	log.Info("AI response time", "took", took.Round(10*time.Millisecond))

	if err != nil {
		if ctx.Err() != nil {
			return SignalNone
		}
		if errors.Is(err, nlu.ErrFormat) {
			log.Warn("Invalid classifier reply", "err", err)
			it.speaker.Say(msgBadFormat)
			return SignalNone
		}
		log.Error("Failed to classify", "err", err)
		it.speaker.Say(msgSomethingWrong)
		return SignalNone
	}

	tool, ok := d.Tool()
	if !ok {
		log.Warn("Unknown tool", "tool", d.ToolName, "argument", d.Argument)
		it.speaker.Say(msgNotSure)
		return SignalNone
	}

	return it.dispatch(ctx, tool, d.Argument)
}

func (it *Interpreter) dispatch(ctx context.Context, tool nlu.Tool, arg string) Signal {
	log.Info("Dispatching", "tool", tool, "argument", arg)
	it.observer.Dispatched(tool, arg)
	return it.actions.Run(ctx, tool, arg)
}

// apply handles a wake or sleep request. Sleep is dispatched as
// stop_assistant.
func (it *Interpreter) apply(ctx context.Context, st State, c Control) State {
	switch {
	case c == ControlWake && st == Dormant:
		it.wake()
		return Active
	case c == ControlSleep && st == Active:
		it.dispatch(ctx, nlu.ToolStopAssistant, "")
		return Dormant
	default:
		log.Debug("Control ignored", "control", c, "state", st)
		return st
	}
}

func (it *Interpreter) wake() {
	if it.cue != nil {
		if err := it.cue.Play(); err != nil {
			log.Warn("Failed to play wake cue", "err", err)
		}
	}
	it.speaker.Say(msgAck)
}

func hasStopKeyword(command string) bool {
	for _, w := range stopKeywords {
		if strings.Contains(command, w) {
			return true
		}
	}
	return false
}

func logListenErr(st State, err error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Debug("Listening interrupted", "state", st, "err", err)
	case errors.Is(err, listen.ErrWaitTimeout):
		log.Debug("Timeout waiting for speech", "state", st)
	case errors.Is(err, listen.ErrNoSpeech):
		log.Info("Didn't catch that", "state", st)
	case errors.Is(err, listen.ErrUnavailable):
		log.Warn("Speech service error", "state", st, "err", err)
	default:
		log.Error("Unexpected listen error", "state", st, "err", err)
	}
}
