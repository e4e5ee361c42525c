package server

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageBuffer_AppendAndSnapshot(t *testing.T) {
	b := NewMessageBuffer()

	assert.Empty(t, b.Snapshot("general"), "expected empty snapshot for untracked room")

	b.Append("general", HistoryMessage{Id: 1, Message: "first"})
	b.Append("general", HistoryMessage{Id: 2, Message: "second"})

	entries := b.Snapshot("general")
	assert.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Id, "expected oldest entry first")
	assert.Equal(t, 2, entries[1].Id)
}

func TestMessageBuffer_TruncatesOldest(t *testing.T) {
	b := NewMessageBuffer()

	for i := 1; i <= bufferLimit+1; i++ {
		b.Append("general", HistoryMessage{Id: i, Message: fmt.Sprintf("msg-%d", i)})
	}

	entries := b.Snapshot("general")
	assert.Len(t, entries, bufferLimit, "expected buffer capped at limit")
	assert.Equal(t, 2, entries[0].Id, "expected oldest entry evicted")
	assert.Equal(t, bufferLimit+1, entries[len(entries)-1].Id, "expected newest entry retained")
}

func TestMessageBuffer_SnapshotIsACopy(t *testing.T) {
	b := NewMessageBuffer()
	b.Append("general", HistoryMessage{Id: 1, Message: "first"})

	entries := b.Snapshot("general")
	entries[0].Message = "mutated"

	assert.Equal(t, "first", b.Snapshot("general")[0].Message, "expected buffer unaffected by snapshot mutation")
}

func TestMessageBuffer_IsolatesRooms(t *testing.T) {
	b := NewMessageBuffer()
	b.Append("general", HistoryMessage{Id: 1})
	b.Append("random", HistoryMessage{Id: 2})

	assert.Len(t, b.Snapshot("general"), 1)
	assert.Len(t, b.Snapshot("random"), 1)
	assert.Equal(t, 2, b.Snapshot("random")[0].Id)
}
