package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Swipe("like", nil)
	m.Swipe("like", errors.New("boom"))
	m.Swipe("pass", nil)
	m.MatchEvent(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SwipeActions.WithLabelValues("like", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SwipeActions.WithLabelValues("like", StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MatchEvents.WithLabelValues("dropped")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Swipe("like", nil)
		m.Sync("rest", nil)
		m.Prefetch(nil)
		m.MessageSent("text", nil)
		m.MatchEvent(true)
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ping/:id", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/ping/:id", "200")))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
