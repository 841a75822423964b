package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
)

func (c *Client) FetchCards(ctx context.Context, limit int, exclude []string) ([]entity.Card, error) {
	raws, err := call[[]json.RawMessage](ctx, c, request{
		method: http.MethodPost,
		path:   "/discovery/cards",
		body:   entity.FetchCardsRequest{Limit: limit, ExcludeProfiles: exclude},
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return decodeCards(raws, c.log), nil
}

// Swipe sends one action. Pass and block answer without a verdict, which is
// reported as a non-match.
func (c *Client) Swipe(ctx context.Context, action entity.Action, targetID string) (*entity.MatchResult, error) {
	result, err := call[*entity.MatchResult](ctx, c, request{
		method: http.MethodPost,
		path:   "/match/" + action.Path() + "/" + url.PathEscape(targetID),
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &entity.MatchResult{}
	}
	return result, nil
}

func (c *Client) Unmatch(ctx context.Context, matchID string) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/match/" + url.PathEscape(matchID),
		authed: true,
	})
	return err
}
