package events

import (
	"encoding/json"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastsToRegisteredClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a, b := NewClient("a"), NewClient("b")
	hub.Register(a)
	hub.Register(b)
	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	hub.Notify("hack.verified", map[string]string{"id": "h1"})

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var msg struct {
				Type    string            `json:"type"`
				Payload map[string]string `json:"payload"`
				Time    int64             `json:"time"`
			}
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if msg.Type != "hack.verified" || msg.Payload["id"] != "h1" || msg.Time == 0 {
				t.Errorf("unexpected message %+v", msg)
			}
		case <-time.After(time.Second):
			t.Fatalf("client %s got nothing", c.ID)
		}
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	c := NewClient("gone")
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	hub.Unregister(c)
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	if _, open := <-c.Send; open {
		t.Errorf("send channel should be closed")
	}
}

func TestHub_NotifyNeverBlocks(t *testing.T) {
	hub := NewHub()
	// hub loop not running: the buffer fills and further events are dropped
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Notify("hack.created", i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Notify blocked with a full buffer")
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := NewClient("c")
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	hub.Stop()

	select {
	case _, open := <-c.Send:
		if open {
			t.Errorf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("client channel not closed on stop")
	}
}
