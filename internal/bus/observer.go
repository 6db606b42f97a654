package bus

import (
	"time"

	"friday/internal/assistant"
	"friday/internal/nlu"
)

type Sink interface {
	Publish(ev Event)
}

// Observer forwards state transitions and dispatched intents to a Sink.
type Observer struct {
	sink Sink
}

func NewObserver(sink Sink) *Observer {
	return &Observer{sink: sink}
}

func (o *Observer) StateChanged(_, to assistant.State) {
	kind := "wake"
	if to == assistant.Dormant {
		kind = "sleep"
	}
	o.sink.Publish(Event{Kind: kind, Content: to.String()})
}

func (o *Observer) Dispatched(tool nlu.Tool, argument string) {
	o.sink.Publish(Event{Kind: "intent", Tool: tool.String(), Content: argument})
}

func (o *Observer) Heard(assistant.State, error) {}

func (o *Observer) Classified(time.Duration, error) {}
