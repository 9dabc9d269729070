package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/realtime"
)

// PushService materializes dashboard snapshots and hands them to the
// dispatcher. Build failures are logged and swallowed; a stale dashboard is
// preferable to failing the write path that triggered the push.
type PushService interface {
	PushUserSnapshot(ctx context.Context, userID uuid.UUID)
	PushAdminSnapshot(ctx context.Context)
}

type pushService struct {
	log       *logger.Logger
	dashboard DashboardService
	registry  *realtime.Registry
	emitter   realtime.Emitter

	// relayed means the emitter publishes to a cross-instance bus, so the
	// target connection may live in another process and the local registry
	// cannot decide whether anyone is listening.
	relayed bool
}

func NewPushService(log *logger.Logger, dashboard DashboardService, registry *realtime.Registry, emitter realtime.Emitter, relayed bool) PushService {
	return &pushService{
		log:       log.With("service", "PushService"),
		dashboard: dashboard,
		registry:  registry,
		emitter:   emitter,
		relayed:   relayed,
	}
}

func (s *pushService) PushUserSnapshot(ctx context.Context, userID uuid.UUID) {
	key := realtime.Key{UserID: userID, Channel: realtime.ChannelUser}
	if !s.relayed && s.registry.Lookup(key) == nil {
		return
	}
	snap, err := s.dashboard.BuildUserSnapshot(ctx, userID)
	if err != nil {
		s.log.Error("build user snapshot failed", "user_id", userID, "error", err)
		return
	}
	s.emitter.Emit(ctx, key, realtime.Event{Name: realtime.EventUserDashboard, Data: snap})
}

func (s *pushService) PushAdminSnapshot(ctx context.Context) {
	var keys []realtime.Key
	if s.relayed {
		// A zero UserID marks a channel broadcast; every instance's
		// forwarder fans it out to its own admin connections.
		keys = []realtime.Key{{Channel: realtime.ChannelAdmin}}
	} else {
		keys = s.registry.KeysByChannel(realtime.ChannelAdmin)
		if len(keys) == 0 {
			return
		}
	}
	snap, err := s.dashboard.BuildAdminSnapshot(ctx)
	if err != nil {
		s.log.Error("build admin snapshot failed", "error", err)
		return
	}
	ev := realtime.Event{Name: realtime.EventAdminDashboard, Data: snap}
	for _, key := range keys {
		s.emitter.Emit(ctx, key, ev)
	}
}
