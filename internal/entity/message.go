package entity

import "time"

// Message is keyed by the client generated id, which is the dedup key across
// the local table, REST history and the socket stream.
type Message struct {
	ClientMessageID string    `gorm:"primaryKey;column:client_message_id" json:"client_message_id"`
	ConversationID  string    `gorm:"not null;index;column:conversation_id" json:"conversation_id"`
	SenderID        string    `gorm:"not null;column:sender_id" json:"sender_id"`
	Text            string    `gorm:"column:text" json:"text,omitempty"`
	MediaURL        string    `gorm:"column:media_url" json:"media_url,omitempty"`
	AudioPath       string    `gorm:"column:audio_path" json:"audio_path,omitempty"`
	AudioDuration   int       `gorm:"column:audio_duration" json:"audio_duration,omitempty"`
	Timestamp       time.Time `gorm:"not null;index;column:timestamp" json:"timestamp"`
	Delivered       bool      `gorm:"not null;column:delivered" json:"delivered"`
}

func (Message) TableName() string {
	return "messages"
}

func (m Message) IsVoice() bool {
	return m.AudioPath != "" || (m.MediaURL != "" && m.AudioDuration > 0)
}

type Conversation struct {
	ID           string      `json:"id"`
	MatchID      string      `json:"match_id"`
	MatchedUser  CardSummary `json:"matched_user"`
	LastActivity time.Time   `json:"last_activity"`
}
