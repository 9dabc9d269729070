package realtime

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
)

const (
	defaultMaxInflight = 64
	defaultSendGrace   = 2 * time.Second
)

// Dispatcher fans payloads out to live connections off the calling
// goroutine. Deliveries run on short-lived goroutines bounded by a weighted
// semaphore, so a burst of pushes never translates into unbounded
// concurrency and never blocks the request path that triggered it.
type Dispatcher struct {
	log       *logger.Logger
	registry  *Registry
	inflight  *semaphore.Weighted
	sendGrace time.Duration
}

func NewDispatcher(log *logger.Logger, registry *Registry, maxInflight int64) *Dispatcher {
	if maxInflight <= 0 {
		maxInflight = defaultMaxInflight
	}
	return &Dispatcher{
		log:       log.With("component", "Dispatcher"),
		registry:  registry,
		inflight:  semaphore.NewWeighted(maxInflight),
		sendGrace: defaultSendGrace,
	}
}

// Push delivers ev to the connection registered under key, if any. No live
// subscriber is not an error; the next connect will fetch fresh state.
func (d *Dispatcher) Push(key Key, ev Event) {
	h := d.registry.Lookup(key)
	if h == nil {
		return
	}
	go d.deliver(key, h, ev)
}

func (d *Dispatcher) deliver(key Key, h *Handle, ev Event) {
	if err := d.inflight.Acquire(context.Background(), 1); err != nil {
		return
	}
	defer d.inflight.Release(1)

	err := h.send(ev, d.sendGrace)
	switch {
	case err == nil:
		return
	case errors.Is(err, ErrClosed):
		// Peer went away; routine churn, not a failure.
		d.log.Debug("push to closed connection", "user_id", key.UserID, "channel", key.Channel, "event", ev.Name)
		d.registry.Remove(key, h)
	default:
		// Anything else invalidates the channel: drop the connection so the
		// client reconnects with a clean snapshot.
		d.log.Warn("push failed, terminating connection", "user_id", key.UserID, "channel", key.Channel, "event", ev.Name, "error", err)
		d.registry.Remove(key, h)
		h.Close()
	}
}

// Broadcast delivers ev to every live connection on the channel.
func (d *Dispatcher) Broadcast(ch Channel, ev Event) {
	for _, key := range d.registry.KeysByChannel(ch) {
		d.Push(key, ev)
	}
}

// Emit implements Emitter for single-process deployments.
func (d *Dispatcher) Emit(ctx context.Context, key Key, ev Event) {
	d.Push(key, ev)
}
