package metrics

import (
	"context"
	"errors"
	log "log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"friday/internal/assistant"
	"friday/internal/listen"
	"friday/internal/nlu"
)

// Metrics records the interpreter loop as Prometheus series.
type Metrics struct {
	heard      *prometheus.CounterVec
	classified *prometheus.CounterVec
	latency    prometheus.Histogram
	intents    *prometheus.CounterVec
	active     prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		heard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "friday",
			Name:      "transcriptions_total",
			Help:      "Listening cycles by state and outcome.",
		}, []string{"state", "outcome"}),
		classified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "friday",
			Name:      "classifications_total",
			Help:      "Classifier calls by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "friday",
			Name:      "classification_seconds",
			Help:      "Classifier round trip time.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "friday",
			Name:      "intents_total",
			Help:      "Dispatched tools.",
		}, []string{"tool"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "friday",
			Name:      "active",
			Help:      "1 while taking commands, 0 while waiting for the wake word.",
		}),
	}

	reg.MustRegister(m.heard, m.classified, m.latency, m.intents, m.active)

	return m
}

func (m *Metrics) StateChanged(_, to assistant.State) {
	if to == assistant.Active {
		m.active.Set(1)
	} else {
		m.active.Set(0)
	}
}

func (m *Metrics) Heard(st assistant.State, err error) {
	m.heard.WithLabelValues(st.String(), listenOutcome(err)).Inc()
}

func (m *Metrics) Classified(took time.Duration, err error) {
	m.latency.Observe(took.Seconds())

	outcome := "ok"
	switch {
	case errors.Is(err, nlu.ErrFormat):
		outcome = "format_error"
	case err != nil:
		outcome = "service_error"
	}
	m.classified.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Dispatched(tool nlu.Tool, _ string) {
	m.intents.WithLabelValues(tool.String()).Inc()
}

func listenOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, listen.ErrNoSpeech):
		return "no_speech"
	case errors.Is(err, listen.ErrWaitTimeout):
		return "timeout"
	case errors.Is(err, listen.ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("Serving metrics", "addr", addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
