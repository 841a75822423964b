package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
)

func (c *Client) FetchNotifications(ctx context.Context) ([]entity.Notification, error) {
	raws, err := call[[]json.RawMessage](ctx, c, request{
		method: http.MethodGet,
		path:   "/notifications",
		authed: true,
	})
	if err != nil {
		return nil, err
	}

	all := decodeEach[entity.Notification](raws, c.log, "notification")
	out := all[:0]
	for _, n := range all {
		if n.ID == "" || n.Timestamp.IsZero() {
			c.log.WithField("notification_id", n.ID).Warn("skipping incomplete notification")
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (c *Client) UpdateNotificationSettings(ctx context.Context, s entity.NotificationSettings) error {
	_, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/notifications/settings",
		body:   s,
		authed: true,
	})
	return err
}
