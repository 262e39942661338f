package brackets

import (
	"encoding/json"
	"testing"
	"time"
)

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for h.ClientCount(LeagueRoom) != want {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want %d", h.ClientCount(LeagueRoom), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHubPublish(t *testing.T) {
	hub := NewHub(nil)
	stop := make(chan struct{})
	go hub.Run(stop)

	a := &Client{Hub: hub, Send: make(chan []byte, 1), Room: LeagueRoom}
	b := &Client{Hub: hub, Send: make(chan []byte, 1), Room: LeagueRoom}
	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	hub.Publish(MessageResultRecorded, map[string]int{"match_id": 5})
	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var msg struct {
				Type    string         `json:"type"`
				Payload map[string]int `json:"payload"`
			}
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("invalid message %s: %v", raw, err)
			}
			if msg.Type != MessageResultRecorded || msg.Payload["match_id"] != 5 {
				t.Errorf("message = %+v", msg)
			}
		default:
			t.Fatal("client did not receive the message")
		}
	}

	// A full buffer drops the message instead of blocking the publisher.
	hub.Publish(MessageSnapshotChanged, nil)
	hub.Publish(MessageSnapshotChanged, nil)

	hub.Unregister <- a
	waitForClients(t, hub, 1)
	if !a.IsClosed {
		t.Error("unregistered client must have its send channel closed")
	}

	close(stop)
	deadline := time.Now().Add(time.Second)
	for {
		b.Mu.Lock()
		closed := b.IsClosed
		b.Mu.Unlock()
		if closed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("stopping the hub must close remaining clients")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHubJoinLeaveAfterStop(t *testing.T) {
	hub := NewHub(nil)
	stop := make(chan struct{})
	ran := make(chan struct{})
	go func() {
		hub.Run(stop)
		close(ran)
	}()

	c := &Client{Hub: hub, Send: make(chan []byte, 1), Room: LeagueRoom}
	if !hub.Join(c) {
		t.Fatal("Join() = false on a running hub")
	}
	waitForClients(t, hub, 1)
	close(stop)
	<-ran

	done := make(chan bool)
	go func() {
		hub.Leave(c)
		done <- hub.Join(&Client{Hub: hub, Send: make(chan []byte, 1), Room: LeagueRoom})
	}()
	select {
	case joined := <-done:
		if joined {
			t.Error("Join() = true after the hub stopped")
		}
	case <-time.After(time.Second):
		t.Fatal("Leave or Join blocked after the hub stopped")
	}
}
