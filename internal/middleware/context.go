package middleware

import (
	"context"

	"github.com/labstack/echo"
)

// ServerContext ends each request's context when either the client goes away
// or the server context is cancelled.
func ServerContext(server context.Context) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithCancel(c.Request().Context())
			defer cancel()
			stop := context.AfterFunc(server, cancel)
			defer stop()

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
