package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics owns its registry; a nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SwipeActions    *prometheus.CounterVec
	MatchEvents     *prometheus.CounterVec
	Prefetches      *prometheus.CounterVec
	ChatSync        *prometheus.CounterVec
	MessagesSent    *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPRequestTime *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		SwipeActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "swipe_actions_total",
			Help: "Swipe actions sent to the backend",
		}, []string{"action", "status"}),
		MatchEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "match_events_total",
			Help: "Match events emitted to the local subscriber",
		}, []string{"delivery"}),
		Prefetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discovery_prefetch_total",
			Help: "Background discovery batch fetches",
		}, []string{"status"}),
		ChatSync: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_sync_total",
			Help: "Chat history synchronisations by source",
		}, []string{"source", "status"}),
		MessagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Outgoing chat messages",
		}, []string{"kind", "status"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Local API requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Local API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SwipeActions, m.MatchEvents, m.Prefetches, m.ChatSync, m.MessagesSent,
		m.HTTPRequests, m.HTTPRequestTime,
	)
	return m
}

func statusLabel(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

func (m *Metrics) Swipe(action string, err error) {
	if m == nil {
		return
	}
	m.SwipeActions.WithLabelValues(action, statusLabel(err)).Inc()
}

func (m *Metrics) MatchEvent(delivered bool) {
	if m == nil {
		return
	}
	label := "delivered"
	if !delivered {
		label = "dropped"
	}
	m.MatchEvents.WithLabelValues(label).Inc()
}

func (m *Metrics) Prefetch(err error) {
	if m == nil {
		return
	}
	m.Prefetches.WithLabelValues(statusLabel(err)).Inc()
}

func (m *Metrics) Sync(source string, err error) {
	if m == nil {
		return
	}
	m.ChatSync.WithLabelValues(source, statusLabel(err)).Inc()
}

func (m *Metrics) MessageSent(kind string, err error) {
	if m == nil {
		return
	}
	m.MessagesSent.WithLabelValues(kind, statusLabel(err)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency by route pattern.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			path := c.Path()
			method := c.Request().Method
			m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			m.HTTPRequestTime.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
