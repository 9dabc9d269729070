package realtime

import (
	"sync"

	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
)

// Registry is the process-wide map of live connections, one handle per
// (user, channel) key. It is an injected instance; nothing in the package
// holds global state.
type Registry struct {
	mu    sync.RWMutex
	log   *logger.Logger
	conns map[Key]*Handle
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		log:   log.With("component", "Registry"),
		conns: make(map[Key]*Handle),
	}
}

// Register stores handle under key, superseding and closing any previous
// handle for the same key.
func (r *Registry) Register(key Key, h *Handle) {
	r.mu.Lock()
	prev := r.conns[key]
	r.conns[key] = h
	r.mu.Unlock()

	if prev != nil && prev != h {
		prev.Close()
		r.log.Debug("connection superseded", "user_id", key.UserID, "channel", key.Channel, "old_conn_id", prev.ID, "new_conn_id", h.ID)
	} else {
		r.log.Debug("connection registered", "user_id", key.UserID, "channel", key.Channel, "conn_id", h.ID)
	}
}

// Connect builds a fresh handle and registers it in one step.
func (r *Registry) Connect(key Key) *Handle {
	h := NewHandle(key)
	r.Register(key, h)
	return h
}

// Remove deletes the entry only if h is still the registered handle, so a
// late removal can never evict a connection that already superseded it.
func (r *Registry) Remove(key Key, h *Handle) {
	r.mu.Lock()
	current, ok := r.conns[key]
	if ok && current == h {
		delete(r.conns, key)
	}
	r.mu.Unlock()

	if ok && current == h {
		r.log.Debug("connection removed", "user_id", key.UserID, "channel", key.Channel, "conn_id", h.ID)
	}
}

// Lookup returns the live handle for key, or nil.
func (r *Registry) Lookup(key Key) *Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conns[key]
}

// KeysByChannel snapshots the keys currently registered on a channel, for
// fan-outs like an administrative broadcast.
func (r *Registry) KeysByChannel(ch Channel) []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var keys []Key
	for k := range r.conns {
		if k.Channel == ch {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len reports the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
