package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/evm-coprocessor/copro/internal/domain/models"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WatcherMetrics exports job watcher activity as prometheus collectors
type WatcherMetrics struct {
	registry    *prometheus.Registry
	jobs        prometheus.Counter
	callbacks   *prometheus.CounterVec
	blockHeight prometheus.Gauge
}

// NewWatcherMetrics registers the watcher collectors on a fresh registry
func NewWatcherMetrics() *WatcherMetrics {
	m := &WatcherMetrics{
		registry: prometheus.NewRegistry(),
		jobs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "copro_jobs_processed_total",
			Help: "total number of NewJob events processed",
		}),
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "copro_callbacks_total",
			Help: "callback submissions by outcome",
		}, []string{"status"}),
		blockHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "copro_watcher_block_height",
			Help: "last block the watcher has fully processed",
		}),
	}
	m.registry.MustRegister(m.jobs, m.callbacks, m.blockHeight)
	return m
}

func (m *WatcherMetrics) JobProcessed() {
	m.jobs.Inc()
}

func (m *WatcherMetrics) CallbackSubmitted(status models.CallbackStatus) {
	m.callbacks.WithLabelValues(string(status)).Inc()
}

func (m *WatcherMetrics) BlockHeight(height uint64) {
	m.blockHeight.Set(float64(height))
}

// Registry exposes the underlying registry
func (m *WatcherMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves /metrics and /healthz
func (m *WatcherMetrics) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.InstrumentMetricHandler(
		m.registry, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}),
	))
	return r
}

// Serve listens on addr until ctx is cancelled
func (m *WatcherMetrics) Serve(ctx context.Context, addr string, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

var _ usecase.WatcherMetrics = (*WatcherMetrics)(nil)
