package models

import "time"

// User is the authenticated identity returned by the auth service and
// kept as the local session.
type User struct {
	UserID   string `json:"user_id" yaml:"user_id"`
	Username string `json:"username" yaml:"username"`
	IsAdmin  bool   `json:"is_admin" yaml:"is_admin"`
}

// Message is a single direct message. IDs are server-assigned and
// strictly increasing in creation order.
type Message struct {
	ID         int64  `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Text       string `json:"message"`
	SenderName string `json:"sender_name,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// Chat is a conversation summary derived server-side from message
// history and the friend graph.
type Chat struct {
	ChatUserID string `json:"chat_user_id"`
	Username   string `json:"username"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// FriendRequest is a pending invitation; the server only ever returns
// requests addressed to the queried user with status "pending".
type FriendRequest struct {
	ID         int64  `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	SenderName string `json:"sender_name"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// Friend is an entry of the accepted-friends list.
type Friend struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// AdminUser is the admin panel's view of an account.
type AdminUser struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
	IsBlocked bool   `json:"is_blocked"`
	CreatedAt string `json:"created_at"`
}

// AdminLogEntry is one row of the moderation audit log.
type AdminLogEntry struct {
	ID          int64  `json:"id"`
	ActionType  string `json:"action_type"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// timestampLayouts covers the formats the services emit: stringified
// database timestamps and RFC 3339.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseTimestamp converts a server timestamp string to a time.Time.
// Returns the zero time when the value is empty or unrecognized.
func ParseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Time returns the message creation time, zero when unparseable.
func (m Message) Time() time.Time {
	return ParseTimestamp(m.CreatedAt)
}
