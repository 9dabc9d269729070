package bus

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/realtime"
)

// Envelope is the cross-process form of a push: the connection key plus the
// already-serialized event payload.
type Envelope struct {
	UserID  uuid.UUID          `json:"user_id"`
	Channel realtime.Channel   `json:"channel"`
	Event   realtime.EventName `json:"event"`
	Data    json.RawMessage    `json:"data,omitempty"`
}

// Bus relays pushes between processes so a snapshot generated on one
// instance reaches the instance holding the client's connection.
type Bus interface {
	Publish(ctx context.Context, env Envelope) error
	StartForwarder(ctx context.Context, onMsg func(env Envelope)) error
	Close() error
}

// Emitter publishes every push onto the bus instead of the local registry;
// the forwarder on each instance (including this one) performs the local
// delivery.
type Emitter struct {
	Log *logger.Logger
	Bus Bus
}

func (e *Emitter) Emit(ctx context.Context, key realtime.Key, ev realtime.Event) {
	raw, err := json.Marshal(ev.Data)
	if err != nil {
		e.Log.Warn("drop push with unserializable payload", "event", ev.Name, "error", err)
		return
	}
	env := Envelope{
		UserID:  key.UserID,
		Channel: key.Channel,
		Event:   ev.Name,
		Data:    raw,
	}
	if err := e.Bus.Publish(ctx, env); err != nil {
		e.Log.Warn("bus publish failed", "event", ev.Name, "error", err)
	}
}
