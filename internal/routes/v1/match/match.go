package routesV1Match

import (
	"net/http"
	"time"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/match"
	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/http_util"
	"github.com/labstack/echo"
)

const (
	defaultPollTimeout = 25 * time.Second
	maxPollTimeout     = 60 * time.Second
)

func UnmatchHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	if err := matchCase.Unmatch(c.Request().Context(), c.Param("id")); err != nil {
		return http_util.EncodeError(c, err)
	}
	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[any]{Message: "Unmatched"})
}

// NextMatchHandler long-polls for the next match event. A timeout answers
// 204 so the caller simply polls again.
func NextMatchHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	timeout := defaultPollTimeout
	if raw := c.QueryParam("timeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return http_util.EncodeError(c, apperrors.InvalidArg("timeout must be a positive duration"))
		}
		timeout = min(d, maxPollTimeout)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev, ok := <-matchCase.Events():
		if !ok {
			return http_util.EncodeError(c, apperrors.Unavailable("match events closed"))
		}
		return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.MatchEvent]{
			Message: "Match",
			Data:    ev,
		})
	case <-timer.C:
		return c.NoContent(http.StatusNoContent)
	case <-c.Request().Context().Done():
		return c.NoContent(http.StatusNoContent)
	}
}
