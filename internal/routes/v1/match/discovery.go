package routesV1Match

import (
	"net/http"
	"strconv"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/discovery"
	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/http_util"
	"github.com/labstack/echo"
)

func LoadHandler(c echo.Context, discoveryCase discovery.IDiscoveryUseCase) error {
	var request entity.LoadCardsRequest
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return http_util.EncodeError(c, apperrors.InvalidArg("limit must be a number"))
		}
		request.Limit = limit
	}

	if problems := request.Validate(c.Request().Context()); len(problems) != 0 {
		return http_util.EncodeError(c, apperrors.InvalidArg(problems["Limit"][0]))
	}

	if err := discoveryCase.LoadCards(c.Request().Context(), request.Limit); err != nil {
		return http_util.EncodeError(c, err)
	}
	return stateResponse(c, "Cards loaded", discoveryCase.State())
}

func CurrentHandler(c echo.Context, discoveryCase discovery.IDiscoveryUseCase) error {
	card, ok := discoveryCase.CurrentCard()
	if !ok {
		return http_util.EncodeError(c, apperrors.ErrNoMoreCards)
	}
	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.Card]{
		Message: "Current card",
		Data:    card,
	})
}

func SwipeHandler(c echo.Context, discoveryCase discovery.IDiscoveryUseCase) error {
	action, ok := entity.ParseAction(c.Param("action"))
	if !ok {
		return http_util.EncodeError(c, apperrors.NotFound("unknown action "+c.Param("action")))
	}

	targetID := c.Param("id")
	result, err := discoveryCase.Act(c.Request().Context(), action, targetID)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.SwipeResponse]{
		Message: "Swipe outcome",
		Data: entity.SwipeResponse{
			Action:   action.String(),
			TargetID: targetID,
			Result:   result,
		},
	})
}

func UndoHandler(c echo.Context, discoveryCase discovery.IDiscoveryUseCase) error {
	card, ok := discoveryCase.Undo()
	if !ok {
		return http_util.EncodeError(c, apperrors.FailedPrecondition("nothing to undo"))
	}
	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.Card]{
		Message: "Undone",
		Data:    card,
	})
}

func StateHandler(c echo.Context, discoveryCase discovery.IDiscoveryUseCase) error {
	return stateResponse(c, "Discovery state", discoveryCase.State())
}

func stateResponse(c echo.Context, message string, snap discovery.Snapshot) error {
	data := entity.DiscoveryStateResponse{
		State:     string(snap.State),
		Cursor:    snap.Cursor,
		Remaining: snap.Remaining,
		UndoDepth: snap.UndoDepth,
		Current:   snap.Current,
	}
	if snap.Err != nil {
		data.Error = snap.Err.Error()
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.DiscoveryStateResponse]{
		Message: message,
		Data:    data,
	})
}
