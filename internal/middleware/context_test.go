package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
)

func waitForDone(server context.Context, req *http.Request) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/wait", func(c echo.Context) error {
		select {
		case <-c.Request().Context().Done():
			return c.NoContent(http.StatusNoContent)
		case <-time.After(5 * time.Second):
			return c.NoContent(http.StatusOK)
		}
	}, ServerContext(server))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestServerContext_ClientDisconnectCancels(t *testing.T) {
	clientCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/wait", nil).WithContext(clientCtx)

	rec := waitForDone(context.Background(), req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestServerContext_ShutdownCancels(t *testing.T) {
	server, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	rec := waitForDone(server, httptest.NewRequest(http.MethodGet, "/wait", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
