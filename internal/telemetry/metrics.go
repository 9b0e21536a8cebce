package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Call outcomes used as metric labels
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the dashboard's Prometheus collectors
type Metrics struct {
	RemoteCalls        *prometheus.CounterVec
	RemoteCallDuration *prometheus.HistogramVec
	Submissions        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RemoteCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamesystem_remote_calls_total",
				Help: "Total number of calls to the prediction services",
			},
			[]string{"op", "outcome"},
		),
		RemoteCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gamesystem_remote_call_duration_seconds",
				Help:    "Duration of calls to the prediction services in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamesystem_form_submissions_total",
				Help: "Total number of dashboard form submissions",
			},
			[]string{"form", "outcome"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.RemoteCalls, m.RemoteCallDuration, m.Submissions)
	}
	return m
}

// ObserveCall records one remote call. Safe on a nil receiver.
func (m *Metrics) ObserveCall(op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.RemoteCalls.WithLabelValues(op, outcome).Inc()
	m.RemoteCallDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveSubmission records one form submission. Safe on a nil receiver.
func (m *Metrics) ObserveSubmission(form string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.Submissions.WithLabelValues(form, outcome).Inc()
}

// StartMetricsServer serves /metrics for gatherer on addr until ctx is done.
func StartMetricsServer(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

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

	slog.Info("Starting metrics server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
