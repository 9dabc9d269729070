package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDispatcherPushToUnregisteredKeyIsNoOp(t *testing.T) {
	reg := NewRegistry(mustTestLogger(t))
	disp := NewDispatcher(mustTestLogger(t), reg, 4)

	// Must not panic, block, or register anything.
	disp.Push(userKey(), Event{Name: EventUserDashboard, Data: "snapshot"})
	if reg.Len() != 0 {
		t.Fatalf("push must not create connections")
	}
}

func TestDispatcherDeliversOffCallerGoroutine(t *testing.T) {
	reg := NewRegistry(mustTestLogger(t))
	disp := NewDispatcher(mustTestLogger(t), reg, 4)
	key := userKey()
	h := reg.Connect(key)

	// Fill the outbound buffer so a synchronous send would block; Push must
	// still return promptly.
	for i := 0; i < cap(h.outbound); i++ {
		h.outbound <- Event{Name: EventNotification}
	}
	start := time.Now()
	disp.Push(key, Event{Name: EventUserDashboard, Data: "late"})
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Push blocked the caller for %v", elapsed)
	}

	// Drain; the pushed event arrives once the buffer has room.
	for i := 0; i < cap(h.outbound); i++ {
		recvEvent(t, h, time.Second)
	}
	got := recvEvent(t, h, 3*time.Second)
	if got.Name != EventUserDashboard {
		t.Fatalf("event: want %s got %s", EventUserDashboard, got.Name)
	}
}

func TestDispatcherRemovesClosedConnection(t *testing.T) {
	reg := NewRegistry(mustTestLogger(t))
	disp := NewDispatcher(mustTestLogger(t), reg, 4)
	key := userKey()
	h := reg.Connect(key)
	h.Close()

	disp.Push(key, Event{Name: EventUserDashboard})

	deadline := time.After(2 * time.Second)
	for reg.Lookup(key) != nil {
		select {
		case <-deadline:
			t.Fatalf("closed connection was not removed from the registry")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestDispatcherTerminatesSlowConsumer(t *testing.T) {
	reg := NewRegistry(mustTestLogger(t))
	disp := NewDispatcher(mustTestLogger(t), reg, 4)
	disp.sendGrace = 50 * time.Millisecond
	key := userKey()
	h := reg.Connect(key)

	// Nothing drains the handle: saturate it and push once more.
	for i := 0; i < cap(h.outbound); i++ {
		h.outbound <- Event{Name: EventNotification}
	}
	disp.Push(key, Event{Name: EventUserDashboard})

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("slow consumer was not terminated")
	}
	deadline := time.After(2 * time.Second)
	for reg.Lookup(key) != nil {
		select {
		case <-deadline:
			t.Fatalf("slow consumer was not removed from the registry")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestDispatcherConcurrentPushesToDistinctUsers(t *testing.T) {
	reg := NewRegistry(mustTestLogger(t))
	disp := NewDispatcher(mustTestLogger(t), reg, 8)

	const users = 20
	handles := make([]*Handle, users)
	for i := range handles {
		handles[i] = reg.Connect(Key{UserID: uuid.New(), Channel: ChannelUser})
	}
	for _, h := range handles {
		disp.Push(h.Key, Event{Name: EventUserDashboard, Data: h.ID.String()})
	}
	for _, h := range handles {
		got := recvEvent(t, h, 3*time.Second)
		if got.Data != h.ID.String() {
			t.Fatalf("cross-delivery: handle %s got %v", h.ID, got.Data)
		}
	}
}

func TestDispatcherBroadcastReachesEveryChannelConnection(t *testing.T) {
	reg := NewRegistry(mustTestLogger(t))
	disp := NewDispatcher(mustTestLogger(t), reg, 4)

	first := reg.Connect(Key{UserID: uuid.New(), Channel: ChannelAdmin})
	second := reg.Connect(Key{UserID: uuid.New(), Channel: ChannelAdmin})
	bystander := reg.Connect(Key{UserID: uuid.New(), Channel: ChannelUser})

	disp.Broadcast(ChannelAdmin, Event{Name: EventAdminDashboard, Data: "snapshot"})

	for _, h := range []*Handle{first, second} {
		got := recvEvent(t, h, 2*time.Second)
		if got.Name != EventAdminDashboard {
			t.Fatalf("event: want %s got %s", EventAdminDashboard, got.Name)
		}
	}
	select {
	case ev := <-bystander.Events():
		t.Fatalf("user channel received admin broadcast: %v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}
