// Package metrics counts authentication outcomes and serves them in the
// Prometheus exposition format.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/collabogames/collabo-auth/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK                 = "ok"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeUnauthenticated    = "unauthenticated"
	OutcomeInvalidArgument    = "invalid_argument"
	OutcomeAlreadyExists      = "already_exists"
	OutcomeInfrastructure     = "infrastructure"
)

// Recorder owns a private registry so tests and multiple servers in one
// process do not collide on the global one.
type Recorder struct {
	registry *prometheus.Registry
	outcomes *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "collabo_auth",
			Name:      "requests_total",
			Help:      "RPCs handled, by method and outcome.",
		}, []string{"method", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "collabo_auth",
			Name:      "request_duration_seconds",
			Help:      "RPC latency, by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	r.registry.MustRegister(
		r.outcomes,
		r.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe records one finished call.
func (r *Recorder) Observe(method, outcome string, elapsed time.Duration) {
	r.outcomes.WithLabelValues(method, outcome).Inc()
	r.latency.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Outcomes exposes the outcome counter, mainly for tests.
func (r *Recorder) Outcomes() *prometheus.CounterVec { return r.outcomes }

// Handler serves the registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string, logger logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Starting metrics server", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
