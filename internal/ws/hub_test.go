package ws

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type presenceRecorder struct {
	mu     sync.Mutex
	events []string
}

func (p *presenceRecorder) callback() Presence {
	return func(userID string, online bool) {
		p.mu.Lock()
		defer p.mu.Unlock()
		state := "offline"
		if online {
			state = "online"
		}
		p.events = append(p.events, userID+":"+state)
	}
}

func (p *presenceRecorder) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func newTestClient(userID string) *Client {
	return &Client{userID: userID, send: make(chan []byte, 8)}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestHubPresenceTransitions(t *testing.T) {
	rec := &presenceRecorder{}
	hub := NewHub(rec.callback())
	go hub.Run()

	first := newTestClient("u1")
	second := newTestClient("u1")

	hub.register <- first
	waitFor(t, func() bool { return hub.Online("u1") })
	assert.Equal(t, []string{"u1:online"}, rec.snapshot())

	// A second tab does not re-announce presence.
	hub.register <- second
	waitFor(t, func() bool { return hub.Online("u1") })
	assert.Equal(t, []string{"u1:online"}, rec.snapshot())

	hub.unregister <- first
	hub.unregister <- second
	waitFor(t, func() bool { return !hub.Online("u1") })
	assert.Equal(t, []string{"u1:online", "u1:offline"}, rec.snapshot())
}

func TestHubNotifyTargetsUsers(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.register <- alice
	hub.register <- bob
	waitFor(t, func() bool { return hub.Online("alice") && hub.Online("bob") })

	hub.Notify([]string{"bob"}, "new_message", map[string]interface{}{"text": "hello"})

	select {
	case raw := <-bob.send:
		var event Event
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, "new_message", event.Type)
	case <-time.After(time.Second):
		t.Fatal("bob never received the event")
	}

	select {
	case <-alice.send:
		t.Fatal("alice should not receive bob's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubNotifyUnknownUserIsNoop(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	// Must not panic or block.
	hub.Notify([]string{"ghost"}, "new_message", nil)
}
