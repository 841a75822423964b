package middleware

import (
	"context"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/http_util"
	"github.com/labstack/echo"
)

const UserIDKey = "userID"

type Session interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// SessionRequired rejects requests while no backend session is held. Token
// freshness is the REST client's concern, so only presence is checked here.
func SessionRequired(session Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := session.CurrentUserID(c.Request().Context())
			if err != nil {
				return http_util.EncodeError(c, err)
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}
