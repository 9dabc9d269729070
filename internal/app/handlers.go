package app

import (
	httpH "github.com/adeptlearn/tutor-backend/internal/http/handlers"
	httpMW "github.com/adeptlearn/tutor-backend/internal/http/middleware"
	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/realtime"
)

type Handlers struct {
	Auth         *httpH.AuthHandler
	Topic        *httpH.TopicHandler
	Question     *httpH.QuestionHandler
	Notification *httpH.NotificationHandler
	Profile      *httpH.ProfileHandler
	Progress     *httpH.ProgressHandler
	Dashboard    *httpH.DashboardHandler
	Stream       *httpH.StreamHandler
	Health       *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, cfg Config, s Services, registry *realtime.Registry) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:         httpH.NewAuthHandler(s.Auth),
		Topic:        httpH.NewTopicHandler(s.Topic),
		Question:     httpH.NewQuestionHandler(s.Question),
		Notification: httpH.NewNotificationHandler(s.Notification),
		Profile:      httpH.NewProfileHandler(s.User),
		Progress:     httpH.NewProgressHandler(s.Progress, s.Adaptive),
		Dashboard:    httpH.NewDashboardHandler(s.Dashboard),
		Stream:       httpH.NewStreamHandler(log, registry, s.Push, cfg.SSEIdleTimeout),
		Health:       httpH.NewHealthHandler(),
	}
}

func wireMiddleware(log *logger.Logger, s Services) *httpMW.AuthMiddleware {
	return httpMW.NewAuthMiddleware(log, s.Auth)
}
