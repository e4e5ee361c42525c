package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionDirectory_RegisterAndLookup(t *testing.T) {
	d := NewConnectionDirectory()

	_, ok := d.Lookup("alice")
	assert.False(t, ok, "expected no session for unknown user")

	sess := &Session{}
	d.Register("alice", sess)

	got, ok := d.Lookup("alice")
	assert.True(t, ok, "expected session to be registered")
	assert.Same(t, sess, got)
}

func TestConnectionDirectory_LastConnectionWins(t *testing.T) {
	d := NewConnectionDirectory()

	first := &Session{}
	second := &Session{}
	d.Register("alice", first)
	d.Register("alice", second)

	got, ok := d.Lookup("alice")
	assert.True(t, ok)
	assert.Same(t, second, got, "expected newer session to replace the older one")
}

func TestConnectionDirectory_UnregisterStaleSession(t *testing.T) {
	d := NewConnectionDirectory()

	first := &Session{}
	second := &Session{}
	d.Register("alice", first)
	d.Register("alice", second)

	// the stale session disconnecting must not evict its replacement
	d.Unregister("alice", first)
	got, ok := d.Lookup("alice")
	assert.True(t, ok, "expected replacement session to survive stale unregister")
	assert.Same(t, second, got)

	d.Unregister("alice", second)
	_, ok = d.Lookup("alice")
	assert.False(t, ok, "expected current session unregister to remove the entry")
}
