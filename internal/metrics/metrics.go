package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/service"
)

// Metrics owns a private registry for the dashboard process.
type Metrics struct {
	registry      *prometheus.Registry
	notifications *prometheus.CounterVec

	shutdownTimeout time.Duration
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	notifications := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "life_dashboard_notifications_total",
			Help: "Notifications handed to the notifier",
		},
		[]string{"kind", "result"},
	)

	registry.MustRegister(notifications)

	return &Metrics{registry: registry, notifications: notifications, shutdownTimeout: 5 * time.Second}
}

// TrackPendingAlarms exports count as a gauge read at scrape time.
func (m *Metrics) TrackPendingAlarms(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "life_dashboard_pending_alarms",
			Help: "Reminder alarms waiting to fire",
		},
		func() float64 { return float64(count()) },
	))
}

// Instrument counts every Notify call on next by kind and outcome.
func (m *Metrics) Instrument(next service.Notifier) service.Notifier {
	return &notifier{next: next, counter: m.notifications}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done. A shutdown that cannot
// drain open connections in time is logged and returned.
func (m *Metrics) Serve(ctx context.Context, addr string, log *logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listen: %w", err)
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
		defer cancel()
		log.Info("Shutting down metrics server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("Metrics server forced to shutdown", "error", err)
			_ = srv.Close()
			shutdownErr <- fmt.Errorf("metrics shutdown: %w", err)
			return
		}
		shutdownErr <- nil
	}()

	log.Infow("Metrics server listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return <-shutdownErr
}

type notifier struct {
	next    service.Notifier
	counter *prometheus.CounterVec
}

func (n *notifier) Notify(ctx context.Context, key uint, msg service.Notification) error {
	kind := "reminder"
	if key == service.SummaryKey {
		kind = "summary"
	}
	err := n.next.Notify(ctx, key, msg)
	result := "ok"
	if err != nil {
		result = "error"
	}
	n.counter.WithLabelValues(kind, result).Inc()
	return err
}
