package entity

import "time"

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
}

type SwipeResponse struct {
	Action   string       `json:"action"`
	TargetID string       `json:"target_id"`
	Result   *MatchResult `json:"result,omitempty"`
}

type DiscoveryStateResponse struct {
	State     string `json:"state"`
	Error     string `json:"error,omitempty"`
	Cursor    int    `json:"cursor"`
	Remaining int    `json:"remaining"`
	UndoDepth int    `json:"undo_depth"`
	Current   *Card  `json:"current,omitempty"`
}

type MessagesResponse struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
}

type ConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
	FetchedAt     time.Time      `json:"fetched_at"`
}

type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}
