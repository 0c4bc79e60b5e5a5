package ws

import (
	"context"
	"encoding/json"

	"job-board/internal/events"
)

// Publisher pushes job events to every connected websocket client.
type Publisher struct {
	hub *Hub
}

func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

func (p *Publisher) Publish(_ context.Context, evt events.JobEvent) error {
	if p == nil || p.hub == nil {
		return nil
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	p.hub.Broadcast(b)
	return nil
}
