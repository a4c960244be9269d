package notifications

import (
	"context"
	"encoding/json"
	"log/slog"

	"folio/internal/featureflags"
	"folio/internal/middleware"
)

// Event types on the live feed.
const (
	EventPostCreated    = "post_created"
	EventPostDeleted    = "post_deleted"
	EventLikeToggled    = "like_toggled"
	EventCommentCreated = "comment_created"
)

// Event is the envelope written to websocket clients.
type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Broadcaster publishes feed events through Redis when available and
// straight to the local hub otherwise.
type Broadcaster struct {
	notifier *Notifier
	hub      *Hub
	flags    *featureflags.Manager
}

func NewBroadcaster(n *Notifier, hub *Hub, flags *featureflags.Manager) *Broadcaster {
	return &Broadcaster{notifier: n, hub: hub, flags: flags}
}

// PublishEvent never fails the caller; delivery problems are logged.
func (b *Broadcaster) PublishEvent(ctx context.Context, eventType string, payload map[string]any) {
	if b == nil || !b.flags.On(featureflags.LiveFeed) {
		return
	}
	raw, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to marshal event", slog.String("type", eventType), slog.String("error", err.Error()))
		return
	}
	message := string(raw)

	if b.notifier.Enabled() {
		err := b.notifier.PublishBroadcast(ctx, message)
		if err == nil {
			return
		}
		middleware.Logger.WarnContext(ctx, "failed to publish event, delivering locally",
			slog.String("type", eventType), slog.String("error", err.Error()))
	}
	if b.hub != nil {
		b.hub.BroadcastAll(message)
	}
}
