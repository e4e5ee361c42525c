package server

import (
	"sync"
)

// ConnectionDirectory maps a username to its active session for
// private-message routing. A user connecting a second time overwrites
// the prior entry: last-connected-wins.
type ConnectionDirectory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewConnectionDirectory() *ConnectionDirectory {
	return &ConnectionDirectory{
		sessions: make(map[string]*Session),
	}
}

func (d *ConnectionDirectory) Register(username string, sess *Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[username] = sess
}

// Unregister removes the entry for username, but only if it still
// points at sess. A stale session disconnecting must not evict the
// one that replaced it.
func (d *ConnectionDirectory) Unregister(username string, sess *Session) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if cur, ok := d.sessions[username]; ok && cur == sess {
		delete(d.sessions, username)
	}
}

func (d *ConnectionDirectory) Lookup(username string) (*Session, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	sess, ok := d.sessions[username]
	return sess, ok
}
