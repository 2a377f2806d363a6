package conversation

import "strings"

// ID identifies a conversation within the store.
type ID string

// Sender says who authored a message.
type Sender string

const (
	SenderSelf Sender = "self"
	SenderPeer Sender = "peer"
)

// Kind is the message variant.
type Kind string

const (
	KindText  Kind = "text"
	KindVoice Kind = "voice"
	// KindVideo is part of the message shape but nothing produces it yet.
	KindVideo Kind = "video"
)

// Message is a single entry in a conversation. ID is local to the owning
// conversation and assigned as len(messages)+1 at append time.
type Message struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	TimeLabel string `json:"time"`
	Sender    Sender `json:"sender"`
	Kind      Kind   `json:"kind"`
}

// Conversation is a chat thread with one peer or group.
type Conversation struct {
	ID                 ID        `json:"id"`
	DisplayName        string    `json:"name"`
	AvatarGlyph        string    `json:"avatar"`
	IsOnline           bool      `json:"online"`
	LastMessagePreview string    `json:"last_message"`
	LastActivityTime   string    `json:"last_activity"`
	UnreadCount        int       `json:"unread"`
	Messages           []Message `json:"messages"`
}

// Matches reports whether query occurs in the display name or the preview,
// ignoring case. An empty query matches everything.
func (c Conversation) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.DisplayName), query) ||
		strings.Contains(strings.ToLower(c.LastMessagePreview), query)
}

func (c Conversation) clone() Conversation {
	out := c
	if c.Messages != nil {
		out.Messages = make([]Message, len(c.Messages))
		copy(out.Messages, c.Messages)
	}
	return out
}
