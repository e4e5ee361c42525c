package server

import (
	"fmt"
	"time"
)

const (
	MessageTypeChat    = "chat_message"
	MessageTypePrivate = "private_message"
)

const (
	ActivityJoined = "joined"
	ActivityLeft   = "left"
)

// timestampLayout is RFC 3339 with fixed-width milliseconds so that
// lexicographic comparison of serialized timestamps matches
// chronological order.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ClientMessage is the inbound payload. Type defaults to
// chat_message when absent. The declared username is validated
// against the store before use; it is not the authorization boundary.
type ClientMessage struct {
	Type       string `json:"type,omitempty"`
	Message    string `json:"message"`
	Username   string `json:"username"`
	ToUsername string `json:"to_username,omitempty"`
}

// HistoryMessage is a single room message on the wire, used both for
// buffered entries and for merged history pages.
type HistoryMessage struct {
	Id        int    `json:"id"`
	Message   string `json:"message"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

type PrivateHistoryMessage struct {
	Id           int    `json:"id"`
	Message      string `json:"message"`
	FromUsername string `json:"from_username"`
	ToUsername   string `json:"to_username"`
	Direction    string `json:"direction"`
	Timestamp    string `json:"timestamp"`
}

type HistoryEvent struct {
	Type     string           `json:"type"`
	Messages []HistoryMessage `json:"messages"`
}

type PrivateHistoryEvent struct {
	Type     string                  `json:"type"`
	Messages []PrivateHistoryMessage `json:"messages"`
}

type NewMessageEvent struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Username   string `json:"username"`
	MessageId  int    `json:"message_id"`
	Timestamp  string `json:"timestamp"`
	IsBuffered bool   `json:"is_buffered"`
}

type PrivateMessageSentEvent struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	ToUsername string `json:"to_username"`
	MessageId  int    `json:"message_id"`
	Timestamp  string `json:"timestamp"`
}

type PrivateMessageEvent struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Username  string `json:"username"`
	MessageId int    `json:"message_id"`
	Timestamp string `json:"timestamp"`
}

type UserActivityEvent struct {
	Type      string `json:"type"`
	Activity  string `json:"activity"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

type OnlineUsersEvent struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
	Count int      `json:"count"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewHistoryEvent(messages []HistoryMessage) *HistoryEvent {
	if messages == nil {
		messages = make([]HistoryMessage, 0)
	}
	return &HistoryEvent{
		Type:     "history",
		Messages: messages,
	}
}

func NewPrivateHistoryEvent(messages []PrivateHistoryMessage) *PrivateHistoryEvent {
	if messages == nil {
		messages = make([]PrivateHistoryMessage, 0)
	}
	return &PrivateHistoryEvent{
		Type:     "private_history",
		Messages: messages,
	}
}

func NewChatBroadcast(entry HistoryMessage) *NewMessageEvent {
	return &NewMessageEvent{
		Type:      "new_message",
		Message:   entry.Message,
		Username:  entry.Username,
		MessageId: entry.Id,
		Timestamp: entry.Timestamp,
	}
}

func NewPrivateMessageSentEvent(toUsername, content string, messageId int, timestamp string) *PrivateMessageSentEvent {
	return &PrivateMessageSentEvent{
		Type:       "private_message_sent",
		Message:    content,
		ToUsername: toUsername,
		MessageId:  messageId,
		Timestamp:  timestamp,
	}
}

func NewPrivateMessageEvent(fromUsername, content string, messageId int, timestamp string) *PrivateMessageEvent {
	return &PrivateMessageEvent{
		Type:      MessageTypePrivate,
		Message:   content,
		Username:  fromUsername,
		MessageId: messageId,
		Timestamp: timestamp,
	}
}

func NewUserActivityEvent(activity, username string) *UserActivityEvent {
	verb := "joined"
	if activity == ActivityLeft {
		verb = "left"
	}

	return &UserActivityEvent{
		Type:      "user_activity",
		Activity:  activity,
		Username:  username,
		Timestamp: FormatTimestamp(Now()),
		Message:   fmt.Sprintf("%s %s the chat", username, verb),
	}
}

func NewOnlineUsersEvent(users []string, count int) *OnlineUsersEvent {
	return &OnlineUsersEvent{
		Type:  "online_users",
		Users: users,
		Count: count,
	}
}

func ErrUserNotFound() *ErrorEvent {
	return &ErrorEvent{
		Type:    "error",
		Message: "user not found",
	}
}

func ErrSendFailed() *ErrorEvent {
	return &ErrorEvent{
		Type:    "error",
		Message: "failed to send",
	}
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
