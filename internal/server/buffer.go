package server

import (
	"sync"
)

// bufferLimit caps the number of recent messages retained per room.
const bufferLimit = 50

// MessageBuffer is a bounded per-room recency cache of broadcast
// messages. Entries are appended only after successful persistence,
// so every buffered id corresponds to a stored message. The buffer
// for a room outlives its membership: it is kept even after the last
// member leaves.
type MessageBuffer struct {
	mu    sync.Mutex
	rooms map[string][]HistoryMessage
}

func NewMessageBuffer() *MessageBuffer {
	return &MessageBuffer{
		rooms: make(map[string][]HistoryMessage),
	}
}

// Append adds an entry to the room's sequence, truncating from the
// front so at most bufferLimit entries remain.
func (b *MessageBuffer) Append(roomSlug string, entry HistoryMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := append(b.rooms[roomSlug], entry)
	if len(entries) > bufferLimit {
		entries = entries[len(entries)-bufferLimit:]
	}
	b.rooms[roomSlug] = entries
}

// Snapshot returns a copy of the room's buffered entries, oldest
// first, or an empty slice for an untracked room.
func (b *MessageBuffer) Snapshot(roomSlug string) []HistoryMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.rooms[roomSlug]
	out := make([]HistoryMessage, len(entries))
	copy(out, entries)

	return out
}
