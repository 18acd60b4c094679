package market

import (
	"context"
	"testing"
	"time"
)

func waitOrFail(t *testing.T, what string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("%s blocked after Stop", what)
	}
}

func TestHubRegisterAfterStopDoesNotBlock(t *testing.T) {
	h := NewHub(nil)
	h.Stop()

	conn := &Connection{Send: make(chan []byte, 1)}
	waitOrFail(t, "Register", func() { h.Register(conn) })

	// The send channel is closed so a write pump would terminate.
	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Error("expected closed send channel, got a message")
		}
	default:
		t.Error("send channel left open on a stopped hub")
	}
}

func TestHubUnregisterAfterStopDoesNotBlock(t *testing.T) {
	h := NewHub(nil)
	h.Stop()

	conn := &Connection{Send: make(chan []byte, 1)}
	waitOrFail(t, "Unregister", func() { h.Unregister(conn) })
}

func TestHubBroadcastAfterStopDoesNotBlock(t *testing.T) {
	h := NewHub(nil)
	h.Stop()

	// More events than the local buffer holds; without a draining run
	// loop every one must still return.
	waitOrFail(t, "Broadcast", func() {
		for i := 0; i < 100; i++ {
			h.Broadcast(context.Background(), Event{Type: EventPriceUpdate, Price: int64(i)})
		}
	})
}

func TestHubDeliversToRegisteredConnection(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	conn := &Connection{Send: make(chan []byte, 4)}
	h.Register(conn)

	h.Broadcast(context.Background(), Event{Type: EventMarketOpened})

	select {
	case payload := <-conn.Send:
		if len(payload) == 0 {
			t.Error("empty payload delivered")
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered to registered connection")
	}
}
