package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
)

func (c *Client) FetchHistory(ctx context.Context, conversationID string) ([]entity.Message, error) {
	raws, err := call[[]json.RawMessage](ctx, c, request{
		method: http.MethodGet,
		path:   "/chat/" + url.PathEscape(conversationID) + "/messages",
		authed: true,
	})
	if err != nil {
		return nil, err
	}

	msgs := decodeEach[entity.Message](raws, c.log, "message")
	for i := range msgs {
		if msgs[i].ConversationID == "" {
			msgs[i].ConversationID = conversationID
		}
	}
	return msgs, nil
}

func (c *Client) SendMessage(ctx context.Context, msg entity.Message) (entity.Message, error) {
	return call[entity.Message](ctx, c, request{
		method: http.MethodPost,
		path:   "/chat/" + url.PathEscape(msg.ConversationID) + "/messages",
		body:   msg,
		authed: true,
	})
}

func (c *Client) FetchConversations(ctx context.Context) ([]entity.Conversation, error) {
	raws, err := call[[]json.RawMessage](ctx, c, request{
		method: http.MethodGet,
		path:   "/chat/conversations",
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return decodeEach[entity.Conversation](raws, c.log, "conversation"), nil
}
