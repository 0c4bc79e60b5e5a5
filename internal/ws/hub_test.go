package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"job-board/internal/events"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	pub := NewPublisher(hub)
	evt := events.NewJobEvent(events.TypeJobApproved, 7, time.Now())
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	select {
	case msg := <-c.send:
		var got events.JobEvent
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.JobID != 7 || got.Type != events.TypeJobApproved {
			t.Fatalf("unexpected event %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected broadcast message")
	}
}

func TestHub_DropsSlowClients(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	slow := &Client{hub: hub, send: make(chan []byte)}
	hub.Register(slow)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast([]byte("x"))
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	cancel()
	<-done

	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel closed")
	}
}

func TestPublisher_NilHub(t *testing.T) {
	var p *Publisher
	if err := p.Publish(context.Background(), events.JobEvent{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
