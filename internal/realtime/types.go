package realtime

import (
	"context"

	"github.com/google/uuid"
)

// EventName is the SSE event name on the wire.
type EventName string

const (
	EventUserDashboard  EventName = "userDashboard"
	EventAdminDashboard EventName = "adminDashboard"
	EventNotification   EventName = "notification"
)

// Channel separates the per-user streams a single account may hold open.
type Channel string

const (
	ChannelUser  Channel = "user"
	ChannelAdmin Channel = "admin"
)

// Key identifies exactly one live connection slot. Registration under an
// occupied key supersedes the previous connection.
type Key struct {
	UserID  uuid.UUID
	Channel Channel
}

// Event is a named payload delivered to a connection. Data must be
// JSON-serializable; payloads are full snapshots, never deltas.
type Event struct {
	Name EventName `json:"event"`
	Data any       `json:"data,omitempty"`
}

// Emitter is the seam services push through. Implementations must never
// block the caller on delivery.
type Emitter interface {
	Emit(ctx context.Context, key Key, ev Event)
}
