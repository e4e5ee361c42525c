package server

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/vkozyrev/go-chatserver/internal/database"
	"github.com/vkozyrev/go-chatserver/internal/stats"
	"github.com/vkozyrev/go-chatserver/internal/types"
)

var (
	ErrAnonymousUser = errors.New("anonymous user")
	ErrUnknownRoom   = errors.New("room not found")
)

// ChatServer owns the process-wide session state: the room registry,
// the connection directory, the per-room message buffer and the
// broadcast groups. All of it is mutated only through session
// lifecycle calls; each structure is guarded independently and no
// operation holds two locks at once.
type ChatServer struct {
	log          *log.Logger
	db           database.ChatRepository
	stats        stats.StatsProvider
	registry     *RoomRegistry
	directory    *ConnectionDirectory
	buffer       *MessageBuffer
	groups       map[string]map[*Session]struct{}
	groupsLock   sync.RWMutex
	sessions     map[*Session]struct{}
	sessionsLock sync.Mutex
	sessionsWG   sync.WaitGroup
	historyLimit int
}

func NewChatServer(logger *log.Logger, db database.ChatRepository, su stats.StatsProvider, historyLimit int) (*ChatServer, error) {
	cs := &ChatServer{
		log:          logger,
		db:           db,
		stats:        su,
		registry:     NewRoomRegistry(),
		directory:    NewConnectionDirectory(),
		buffer:       NewMessageBuffer(),
		groups:       make(map[string]map[*Session]struct{}),
		sessions:     make(map[*Session]struct{}),
		historyLimit: historyLimit,
	}

	for _, metric := range []string{
		"NumActiveSessions",
		"NumActiveRooms",
		"NumMessages",
		"NumPrivateMessages",
	} {
		su.RegisterMetric(metric)
	}

	return cs, nil
}

// Connect transitions a session from Connecting to Joined. It rejects
// anonymous identities and unknown rooms before any registry mutation,
// then registers the session for group delivery, broadcasts presence
// and sends the merged room history and private history to the new
// session only.
func (cs *ChatServer) Connect(sess *Session) error {
	if sess.user.Username == "" {
		return ErrAnonymousUser
	}

	if !cs.db.RoomExists(sess.roomSlug) {
		return ErrUnknownRoom
	}

	cs.addSession(sess)
	cs.joinGroup(sess)
	cs.registry.Join(sess.roomSlug, sess.user.Username)
	cs.directory.Register(sess.user.Username, sess)
	sess.joined = true
	cs.stats.Incr("NumActiveSessions")
	cs.log.Printf("user %q joined room %q", sess.user.Username, sess.roomSlug)

	cs.broadcastOnlineUsers(sess.roomSlug)
	cs.broadcastRoom(sess.roomSlug, NewUserActivityEvent(ActivityJoined, sess.user.Username))

	cs.sendRoomHistory(sess)
	cs.sendPrivateHistory(sess)

	return nil
}

// Disconnect runs the full leave cleanup for a session. It is a no-op
// for sessions that never joined, and must run even after an abnormal
// transport close.
func (cs *ChatServer) Disconnect(sess *Session) {
	if !sess.joined {
		return
	}
	sess.joined = false

	cs.leaveGroup(sess)
	cs.registry.Leave(sess.roomSlug, sess.user.Username)
	cs.directory.Unregister(sess.user.Username, sess)
	cs.removeSession(sess)
	cs.stats.Decr("NumActiveSessions")
	cs.log.Printf("user %q left room %q", sess.user.Username, sess.roomSlug)

	cs.broadcastOnlineUsers(sess.roomSlug)
	cs.broadcastRoom(sess.roomSlug, NewUserActivityEvent(ActivityLeft, sess.user.Username))
}

func (cs *ChatServer) addSession(s *Session) {
	cs.sessionsLock.Lock()
	defer cs.sessionsLock.Unlock()
	cs.sessions[s] = struct{}{}
	cs.sessionsWG.Add(1)
}

func (cs *ChatServer) removeSession(s *Session) {
	cs.sessionsLock.Lock()
	defer cs.sessionsLock.Unlock()
	if _, ok := cs.sessions[s]; ok {
		delete(cs.sessions, s)
		cs.sessionsWG.Done()
	}
}

func (cs *ChatServer) joinGroup(sess *Session) {
	cs.groupsLock.Lock()
	defer cs.groupsLock.Unlock()

	group, ok := cs.groups[sess.roomSlug]
	if !ok {
		group = make(map[*Session]struct{})
		cs.groups[sess.roomSlug] = group
		cs.stats.Incr("NumActiveRooms")
	}
	group[sess] = struct{}{}
}

func (cs *ChatServer) leaveGroup(sess *Session) {
	cs.groupsLock.Lock()
	defer cs.groupsLock.Unlock()

	group, ok := cs.groups[sess.roomSlug]
	if !ok {
		return
	}

	delete(group, sess)
	if len(group) == 0 {
		delete(cs.groups, sess.roomSlug)
		cs.stats.Decr("NumActiveRooms")
	}
}

// broadcastRoom delivers an event to every member of the room's
// group, including the originating session. Membership is snapshotted
// under the lock; delivery happens outside it.
func (cs *ChatServer) broadcastRoom(roomSlug string, msg any) {
	cs.groupsLock.RLock()
	group := cs.groups[roomSlug]
	members := make([]*Session, 0, len(group))
	for sess := range group {
		members = append(members, sess)
	}
	cs.groupsLock.RUnlock()

	for _, sess := range members {
		sess.queueMessage(msg)
	}
}

// broadcastOnlineUsers sends the current roster to the whole room.
// Nothing is sent once the registry no longer tracks the room, so the
// last leaver's departure produces no empty roster event.
func (cs *ChatServer) broadcastOnlineUsers(roomSlug string) {
	users, count := cs.registry.Snapshot(roomSlug)
	if count == 0 {
		return
	}

	cs.broadcastRoom(roomSlug, NewOnlineUsersEvent(users, count))
}

// sendRoomHistory delivers the merged buffer+store history for the
// session's room to that session only.
func (cs *ChatServer) sendRoomHistory(sess *Session) {
	page, err := cs.db.GetRoomMessages(sess.roomSlug, cs.historyLimit)
	if err != nil {
		cs.log.Println("load room history:", err)
		page = nil
	}

	stored := make([]HistoryMessage, 0, len(page))
	for _, msg := range page {
		stored = append(stored, HistoryMessage{
			Id:        msg.Id,
			Message:   msg.Content,
			Username:  msg.Username,
			Timestamp: FormatTimestamp(msg.CreatedAt),
		})
	}

	merged := mergeRoomHistory(stored, cs.buffer.Snapshot(sess.roomSlug), cs.historyLimit)
	sess.queueMessage(NewHistoryEvent(merged))
}

// sendPrivateHistory delivers the session user's private-message
// history, tagged with direction, then marks received messages read.
func (cs *ChatServer) sendPrivateHistory(sess *Session) {
	msgs, err := cs.db.GetPrivateMessages(sess.user.Username, cs.historyLimit)
	if err != nil {
		cs.log.Println("load private history:", err)
		msgs = nil
	}

	history := make([]PrivateHistoryMessage, 0, len(msgs))
	for _, msg := range msgs {
		direction := types.DirectionReceived
		if msg.FromUsername == sess.user.Username {
			direction = types.DirectionSent
		}

		history = append(history, PrivateHistoryMessage{
			Id:           msg.Id,
			Message:      msg.Content,
			FromUsername: msg.FromUsername,
			ToUsername:   msg.ToUsername,
			Direction:    direction,
			Timestamp:    FormatTimestamp(msg.CreatedAt),
		})
	}

	sess.queueMessage(NewPrivateHistoryEvent(history))

	if err == nil && len(msgs) > 0 {
		if err := cs.db.MarkPrivateMessagesRead(sess.user.Username); err != nil {
			cs.log.Println("mark private messages read:", err)
		}
	}
}

// Shutdown stops every active session and waits for their cleanup to
// finish or the context to expire.
func (cs *ChatServer) Shutdown(ctx context.Context) error {
	cs.log.Println("shutting down sessions")

	cs.sessionsLock.Lock()
	for sess := range cs.sessions {
		sess.stopSession()
	}
	cs.sessionsLock.Unlock()

	done := make(chan struct{})
	go func() {
		cs.sessionsWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
