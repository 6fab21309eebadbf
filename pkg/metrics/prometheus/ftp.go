// Package prometheus implements the metrics interfaces on top of the
// Prometheus client library and serves the /metrics endpoint.
package prometheus

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marmos91/ftpd/internal/logger"
	"github.com/marmos91/ftpd/pkg/metrics"
)

// ftpMetrics is the Prometheus implementation of metrics.FTPMetrics.
type ftpMetrics struct {
	commands       *prometheus.CounterVec
	replies        *prometheus.CounterVec
	transfers      *prometheus.CounterVec
	transferBytes  *prometheus.CounterVec
	transferTime   *prometheus.HistogramVec
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter
	sessionsClosed prometheus.Counter
}

// NewFTPMetrics creates a Prometheus-backed FTPMetrics registered on reg.
// Pass prometheus.DefaultRegisterer to use the default registry.
func NewFTPMetrics(reg prometheus.Registerer) metrics.FTPMetrics {
	return &ftpMetrics{
		commands: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ftpd_commands_total",
				Help: "Total number of control-channel commands received, by verb",
			},
			[]string{"verb"},
		),
		replies: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ftpd_replies_total",
				Help: "Total number of control-channel replies sent, by code",
			},
			[]string{"code"},
		),
		transfers: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ftpd_transfers_total",
				Help: "Total number of data-channel transfers, by direction and result",
			},
			[]string{"direction", "result"},
		),
		transferBytes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ftpd_transfer_bytes_total",
				Help: "Total bytes moved over data channels, by direction",
			},
			[]string{"direction"},
		),
		transferTime: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ftpd_transfer_duration_seconds",
				Help:    "Duration of data-channel transfers in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"direction"},
		),
		activeSessions: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "ftpd_sessions_active",
				Help: "Current number of connected FTP sessions",
			},
		),
		sessionsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "ftpd_sessions_total",
				Help: "Total number of accepted FTP sessions",
			},
		),
		sessionsClosed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "ftpd_sessions_closed_total",
				Help: "Total number of closed FTP sessions",
			},
		),
	}
}

func (m *ftpMetrics) RecordCommand(verb string) {
	m.commands.WithLabelValues(verb).Inc()
}

func (m *ftpMetrics) RecordReply(code int) {
	m.replies.WithLabelValues(fmt.Sprintf("%d", code)).Inc()
}

func (m *ftpMetrics) RecordTransfer(direction string, result string, bytes int64, duration time.Duration) {
	m.transfers.WithLabelValues(direction, result).Inc()
	if bytes > 0 {
		m.transferBytes.WithLabelValues(direction).Add(float64(bytes))
	}
	m.transferTime.WithLabelValues(direction).Observe(duration.Seconds())
}

func (m *ftpMetrics) SetActiveSessions(count int32) {
	m.activeSessions.Set(float64(count))
}

func (m *ftpMetrics) RecordSessionOpened() {
	m.sessionsTotal.Inc()
}

func (m *ftpMetrics) RecordSessionClosed() {
	m.sessionsClosed.Inc()
}

// Server exposes a Prometheus registry over HTTP at /metrics.
type Server struct {
	registry *prometheus.Registry
	srv      *http.Server
}

// NewServer creates a metrics server with a fresh registry that already
// includes the Go runtime and process collectors.
func NewServer(port int) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &Server{
		registry: registry,
		srv: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}
}

// Registry returns the server's registry for use with NewFTPMetrics.
func (s *Server) Registry() prometheus.Registerer {
	return s.registry
}

// Start serves the metrics endpoint in the background until ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) {
	go func() {
		logger.Info("Metrics server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()
}
