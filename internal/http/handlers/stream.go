package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adeptlearn/tutor-backend/internal/http/response"
	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/realtime"
	"github.com/adeptlearn/tutor-backend/internal/requestdata"
	"github.com/adeptlearn/tutor-backend/internal/services"
)

var heartbeatInterval = 20 * time.Second

// StreamHandler serves the SSE dashboards. Each (user, channel) pair holds at
// most one live stream; opening a second one supersedes the first.
type StreamHandler struct {
	log         *logger.Logger
	registry    *realtime.Registry
	push        services.PushService
	idleTimeout time.Duration
}

func NewStreamHandler(log *logger.Logger, registry *realtime.Registry, push services.PushService, idleTimeout time.Duration) *StreamHandler {
	return &StreamHandler{
		log:         log.With("handler", "StreamHandler"),
		registry:    registry,
		push:        push,
		idleTimeout: idleTimeout,
	}
}

func (sh *StreamHandler) UserDashboard(c *gin.Context) {
	sh.serve(c, realtime.ChannelUser)
}

func (sh *StreamHandler) AdminDashboard(c *gin.Context) {
	sh.serve(c, realtime.ChannelAdmin)
}

func (sh *StreamHandler) serve(c *gin.Context, channel realtime.Channel) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.RespondError(c, http.StatusInternalServerError, "streaming_unsupported", fmt.Errorf("response writer does not support flushing"))
		return
	}

	key := realtime.Key{UserID: rd.UserID, Channel: channel}
	handle := sh.registry.Connect(key)
	defer func() {
		handle.Close()
		sh.registry.Remove(key, handle)
	}()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	sh.log.Info("stream open", "user_id", rd.UserID, "channel", channel)

	// The client gets a full snapshot immediately; later pushes are driven
	// by writes elsewhere in the system.
	ctx := c.Request.Context()
	if channel == realtime.ChannelAdmin {
		sh.push.PushAdminSnapshot(ctx)
	} else {
		sh.push.PushUserSnapshot(ctx, rd.UserID)
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	// Zero idle timeout means the stream lives until the client goes away.
	var idle <-chan time.Time
	if sh.idleTimeout > 0 {
		idleTimer := time.NewTimer(sh.idleTimeout)
		defer idleTimer.Stop()
		idle = idleTimer.C
	}

	for {
		select {
		case <-ctx.Done():
			sh.log.Debug("stream client disconnected", "user_id", rd.UserID, "channel", channel)
			return
		case <-handle.Done():
			sh.log.Debug("stream superseded or closed", "user_id", rd.UserID, "channel", channel)
			return
		case <-idle:
			sh.log.Debug("stream idle timeout", "user_id", rd.UserID, "channel", channel)
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				sh.log.Debug("heartbeat write failed", "user_id", rd.UserID, "error", err)
				return
			}
			flusher.Flush()
		case ev := <-handle.Events():
			if err := writeEvent(c.Writer, ev); err != nil {
				sh.log.Debug("event write failed", "user_id", rd.UserID, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev realtime.Event) error {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, payload)
	return err
}
