package routesV1Chat

import (
	"net/http"
	"time"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/middleware"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/chat"
	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/http_util"
	"github.com/labstack/echo"
)

func ConversationsHandler(c echo.Context, chatCase chat.IChatUseCase) error {
	load := chatCase.Conversations
	if c.QueryParam("refresh") == "true" {
		load = chatCase.RefreshConversations
	}

	conversations, err := load(c.Request().Context())
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.ConversationsResponse]{
		Message: "Conversations",
		Data: entity.ConversationsResponse{
			Conversations: conversations,
			FetchedAt:     time.Now(),
		},
	})
}

func MessagesHandler(c echo.Context, chatCase chat.IChatUseCase) error {
	conversationID := c.Param("conversationId")
	msgs, err := chatCase.Messages(c.Request().Context(), conversationID)
	if err != nil {
		return http_util.EncodeError(c, err)
	}
	return messagesResponse(c, conversationID, msgs)
}

func RefreshHandler(c echo.Context, chatCase chat.IChatUseCase) error {
	conversationID := c.Param("conversationId")
	msgs, err := chatCase.Refresh(c.Request().Context(), conversationID)
	if err != nil {
		return http_util.EncodeError(c, err)
	}
	return messagesResponse(c, conversationID, msgs)
}

func JoinHandler(c echo.Context, chatCase chat.IChatUseCase) error {
	if err := chatCase.Join(c.Param("conversationId")); err != nil {
		return http_util.EncodeError(c, err)
	}
	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[any]{Message: "Joined"})
}

func SendHandler(c echo.Context, chatCase chat.IChatUseCase) error {
	request, err := http_util.Decode[entity.SendMessageRequest](c)
	if err != nil {
		return http_util.EncodeError(c, apperrors.InvalidArg("invalid request"))
	}
	if request.SenderID == "" {
		request.SenderID = middleware.UserID(c)
	}

	if problems := request.Validate(c.Request().Context()); len(problems) != 0 {
		return http_util.Encode(c, http.StatusBadRequest, http_util.HTTPErrorResponse[any]{
			HTTPResponse: http_util.HTTPResponse[any]{Message: "Bad Request"},
			Code:         string(apperrors.CodeInvalidArgument),
		})
	}

	ctx := c.Request().Context()
	conversationID := c.Param("conversationId")

	var msg entity.Message
	if request.AudioPath != "" {
		msg, err = chatCase.SendVoice(ctx, conversationID, request.SenderID, request.AudioPath, request.AudioDuration)
	} else {
		msg, err = chatCase.SendText(ctx, conversationID, request.SenderID, request.Text)
	}
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusCreated, http_util.HTTPResponse[entity.Message]{
		Message: "Message queued",
		Data:    msg,
	})
}

func messagesResponse(c echo.Context, conversationID string, msgs []entity.Message) error {
	if msgs == nil {
		msgs = []entity.Message{}
	}
	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.MessagesResponse]{
		Message: "Messages",
		Data: entity.MessagesResponse{
			ConversationID: conversationID,
			Messages:       msgs,
		},
	})
}
