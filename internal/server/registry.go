package server

import (
	"sort"
	"sync"
)

// RoomRegistry tracks which usernames are currently connected to each
// room. Membership is ephemeral and never persisted.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{}
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]map[string]struct{}),
	}
}

// Join adds a username to a room's membership set. Adding a username
// that is already present is a no-op.
func (r *RoomRegistry) Join(roomSlug, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomSlug]
	if !ok {
		members = make(map[string]struct{})
		r.rooms[roomSlug] = members
	}
	members[username] = struct{}{}
}

// Leave removes a username from a room's membership set. The room
// entry itself is dropped once the set is empty.
func (r *RoomRegistry) Leave(roomSlug, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomSlug]
	if !ok {
		return
	}

	delete(members, username)
	if len(members) == 0 {
		delete(r.rooms, roomSlug)
	}
}

// Snapshot returns the room's current members and their count.
// An untracked room yields an empty list and zero.
func (r *RoomRegistry) Snapshot(roomSlug string) ([]string, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[roomSlug]
	if !ok {
		return []string{}, 0
	}

	users := make([]string, 0, len(members))
	for username := range members {
		users = append(users, username)
	}
	sort.Strings(users)

	return users, len(users)
}
