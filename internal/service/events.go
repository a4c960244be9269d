package service

import "context"

// EventPublisher pushes live-feed events. Implementations must not block on
// slow clients and never fail the caller.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, payload map[string]any)
}

type noopPublisher struct{}

func (noopPublisher) PublishEvent(context.Context, string, map[string]any) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
