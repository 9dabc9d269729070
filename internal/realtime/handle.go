package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrClosed reports a send against a connection whose peer is gone.
	ErrClosed = errors.New("realtime: connection closed")
	// ErrSlowConsumer reports a consumer that stopped draining its buffer.
	ErrSlowConsumer = errors.New("realtime: outbound buffer full")
)

const defaultOutboundBuffer = 16

// Handle is the opaque per-connection resource held by the registry. The
// serve loop owns the read side of outbound; the dispatcher owns writes.
type Handle struct {
	ID  uuid.UUID
	Key Key

	outbound  chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func NewHandle(key Key) *Handle {
	return &Handle{
		ID:       uuid.New(),
		Key:      key,
		outbound: make(chan Event, defaultOutboundBuffer),
		done:     make(chan struct{}),
	}
}

// Events is the stream the transport layer drains into the wire.
func (h *Handle) Events() <-chan Event {
	return h.outbound
}

// Done is closed once the connection is terminated from either side.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Close terminates the connection. Safe to call from any goroutine and more
// than once; the outbound channel is left open so concurrent senders never
// panic, they observe done instead.
func (h *Handle) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// send queues an event without ever blocking indefinitely. A closed handle
// yields ErrClosed; a buffer that stays full past the grace window yields
// ErrSlowConsumer.
func (h *Handle) send(ev Event, grace time.Duration) error {
	select {
	case <-h.done:
		return ErrClosed
	case h.outbound <- ev:
		return nil
	default:
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-h.done:
		return ErrClosed
	case h.outbound <- ev:
		return nil
	case <-timer.C:
		return ErrSlowConsumer
	}
}
