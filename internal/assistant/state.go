package assistant

import (
	"fmt"
	"time"

	"friday/internal/nlu"
)

// State is the session's listening mode.
type State int

const (
	Dormant State = iota // waiting for the wake word
	Active               // taking commands
)

func (s State) String() string {
	switch s {
	case Dormant:
		return "dormant"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Signal is what a dispatched command asks of the loop.
type Signal int

const (
	SignalNone Signal = iota
	SignalSleep
)

// Control is an out-of-band request delivered to Run between cycles.
type Control int

const (
	ControlWake Control = iota
	ControlSleep
)

func (c Control) String() string {
	switch c {
	case ControlWake:
		return "wake"
	case ControlSleep:
		return "sleep"
	default:
		return fmt.Sprintf("control(%d)", int(c))
	}
}

func ParseControl(cmd string) (Control, error) {
	switch cmd {
	case "wake":
		return ControlWake, nil
	case "sleep":
		return ControlSleep, nil
	default:
		return 0, fmt.Errorf("unknown command %q", cmd)
	}
}

// Observer is told about everything the loop does. Calls are made from the
// loop goroutine and must not block for long.
type Observer interface {
	StateChanged(from, to State)
	Heard(st State, err error)
	Classified(took time.Duration, err error)
	Dispatched(tool nlu.Tool, argument string)
}

type observers []Observer

// Observers fans out to every non-nil observer.
func Observers(obs ...Observer) Observer {
	var out observers
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (obs observers) StateChanged(from, to State) {
	for _, o := range obs {
		o.StateChanged(from, to)
	}
}

func (obs observers) Heard(st State, err error) {
	for _, o := range obs {
		o.Heard(st, err)
	}
}

func (obs observers) Classified(took time.Duration, err error) {
	for _, o := range obs {
		o.Classified(took, err)
	}
}

func (obs observers) Dispatched(tool nlu.Tool, argument string) {
	for _, o := range obs {
		o.Dispatched(tool, argument)
	}
}
