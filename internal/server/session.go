package server

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vkozyrev/go-chatserver/internal/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Session is the per-connection orchestrator. It owns the read and
// write pumps for one websocket connection and dispatches inbound
// payloads. The identity it carries comes from the authentication
// context at upgrade time; sender names in payloads are validated
// against the store before anything is persisted.
type Session struct {
	conn       *websocket.Conn
	chatServer *ChatServer
	log        *log.Logger
	user       types.User
	roomSlug   string
	send       chan any
	stop       chan struct{}
	stopOnce   sync.Once
	joined     bool
}

func NewSession(user types.User, roomSlug string, conn *websocket.Conn, cs *ChatServer, l *log.Logger) *Session {
	return &Session{
		conn:       conn,
		chatServer: cs,
		log:        l,
		user:       user,
		roomSlug:   roomSlug,
		send:       make(chan any, 256),
		stop:       make(chan struct{}),
	}
}

func (s *Session) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		s.log.Println("write exiting")
	}()

	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				return
			}

			bytes, err := serializeMessage(msg)
			if err != nil {
				s.log.Println("failed to serialize message:", err)
				continue
			}

			if !s.sendMessage(websocket.TextMessage, bytes) {
				return
			}
		case <-s.stop:
			return
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !s.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (s *Session) Read() {
	defer func() {
		s.conn.Close()
		s.cleanup()
		s.log.Println("read exiting")
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(appData string) error { s.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.log.Printf("ws: read: %v", err)
			}
			break
		}

		s.handleMessage(raw)
	}
}

// handleMessage parses one inbound payload and dispatches on its type
// discriminator. A parse failure is logged and the payload dropped;
// it never closes the connection.
func (s *Session) handleMessage(raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.log.Println("error parsing message:", err)
		return
	}

	switch msg.Type {
	case MessageTypePrivate:
		s.handlePrivateMessage(&msg)
	case MessageTypeChat, "":
		s.handleChatMessage(&msg)
	default:
		s.log.Printf("dropping message with unknown type %q", msg.Type)
	}
}

func (s *Session) handleChatMessage(msg *ClientMessage) {
	content := strings.TrimSpace(msg.Message)
	if content == "" {
		return
	}

	if !s.chatServer.db.UserExists(msg.Username) {
		s.log.Printf("chat message from unknown user %q", msg.Username)
		s.queueMessage(ErrUserNotFound())
		return
	}

	saved, err := s.chatServer.db.CreateChatMessage(msg.Username, s.roomSlug, content)
	if err != nil {
		s.log.Println("create chat message:", err)
		s.queueMessage(ErrSendFailed())
		return
	}

	entry := HistoryMessage{
		Id:        saved.Id,
		Message:   saved.Content,
		Username:  saved.Username,
		Timestamp: FormatTimestamp(saved.CreatedAt),
	}

	// Buffer only after the message is durably stored.
	s.chatServer.buffer.Append(s.roomSlug, entry)
	s.chatServer.stats.Incr("NumMessages")
	s.chatServer.broadcastRoom(s.roomSlug, NewChatBroadcast(entry))
}

func (s *Session) handlePrivateMessage(msg *ClientMessage) {
	content := strings.TrimSpace(msg.Message)
	toUsername := strings.TrimSpace(msg.ToUsername)
	if content == "" || toUsername == "" {
		return
	}

	if !s.chatServer.db.UserExists(msg.Username) || !s.chatServer.db.UserExists(toUsername) {
		s.queueMessage(ErrUserNotFound())
		return
	}

	saved, err := s.chatServer.db.CreatePrivateMessage(msg.Username, toUsername, content)
	if err != nil {
		s.log.Println("create private message:", err)
		s.queueMessage(ErrSendFailed())
		return
	}

	s.chatServer.stats.Incr("NumPrivateMessages")

	timestamp := FormatTimestamp(saved.CreatedAt)
	s.queueMessage(NewPrivateMessageSentEvent(toUsername, content, saved.Id, timestamp))

	// Live delivery only when the recipient has an active channel;
	// otherwise the message waits in the store for a history fetch.
	if recipient, ok := s.chatServer.directory.Lookup(toUsername); ok {
		recipient.queueMessage(NewPrivateMessageEvent(msg.Username, content, saved.Id, timestamp))
	}
}

func (s *Session) queueMessage(msg any) bool {
	select {
	case s.send <- msg:
	default:
		s.log.Println("failed to send message to client, channel is full")
		return false
	}

	return true
}

func serializeMessage(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (s *Session) sendMessage(msgType int, msg []byte) bool {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := s.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			s.log.Printf("write message: %s", err)
		}
		return false
	}

	return true
}

func (s *Session) stopSession() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *Session) cleanup() {
	s.chatServer.Disconnect(s)
	s.stopSession()
}
