package bus

import (
	"encoding/json"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	queueDepth   = 32
	writeTimeout = 5 * time.Second
)

// Event is one JSON frame sent to the hub.
type Event struct {
	ID      string    `json:"id"`
	From    string    `json:"from"`
	Kind    string    `json:"kind"`
	Tool    string    `json:"tool,omitempty"`
	Content string    `json:"content,omitempty"`
	Time    time.Time `json:"time"`
}

// Publisher streams events to a websocket hub from a background writer.
// A failed write triggers one reconnect attempt, after which the event is
// dropped.
type Publisher struct {
	url   string
	shard string

	conn  *websocket.Conn
	queue chan Event
	done  chan struct{}

	mu     sync.Mutex
	closed bool
}

func Dial(url, shard string) (*Publisher, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	log.Info("Connected to bus", "url", url)

	p := &Publisher{
		url:   url,
		shard: shard,
		conn:  conn,
		queue: make(chan Event, queueDepth),
		done:  make(chan struct{}),
	}
	go p.run()

	return p, nil
}

// Publish stamps and queues ev. It never blocks; events are dropped when the
// writer falls behind.
func (p *Publisher) Publish(ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.From == "" {
		ev.From = p.shard
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	select {
	case p.queue <- ev:
	default:
		log.Warn("Bus queue full, dropping event", "kind", ev.Kind)
	}
}

// Close flushes queued events and closes the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.done

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = p.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return p.conn.Close()
}

func (p *Publisher) run() {
	defer close(p.done)

	for ev := range p.queue {
		data, err := json.Marshal(ev)
		if err != nil {
			log.Error("Failed to encode event", "err", err)
			continue
		}

		err = p.write(data)
		if err == nil {
			continue
		}
		log.Warn("Bus write failed, reconnecting", "url", p.url, "err", err)

		if err := p.reconnect(); err != nil {
			log.Error("Bus reconnect failed", "url", p.url, "err", err)
			continue
		}
		if err := p.write(data); err != nil {
			log.Error("Failed to publish event", "kind", ev.Kind, "err", err)
		}
	}
}

func (p *Publisher) write(data []byte) error {
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

func (p *Publisher) reconnect() error {
	conn, _, err := websocket.DefaultDialer.Dial(p.url, nil)
	if err != nil {
		return err
	}
	p.conn.Close()
	p.conn = conn
	return nil
}
