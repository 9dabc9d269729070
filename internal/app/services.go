package app

import (
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/realtime"
	"github.com/adeptlearn/tutor-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Topic        services.TopicService
	Question     services.QuestionService
	Adaptive     services.AdaptiveService
	Progress     services.ProgressService
	Dashboard    services.DashboardService
	Push         services.PushService
	Notification services.NotificationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, registry *realtime.Registry, emitter realtime.Emitter) Services {
	log.Info("Wiring services...")

	dashboard := services.NewDashboardService(db, log, r.User, r.Topic, r.Attempt, r.Progress)
	push := services.NewPushService(log, dashboard, registry, emitter, cfg.RealtimeBus != "")
	notification := services.NewNotificationService(db, log, r.Notification, emitter)
	adaptiveSvc := services.NewAdaptiveService(db, log, cfg.Adaptive, r.User, r.Topic, r.Attempt, r.Progress, notification)
	question := services.NewQuestionService(db, log, r.Question, r.Topic, r.Attempt, adaptiveSvc, push)
	progress := services.NewProgressService(db, log, r.Topic, r.Progress)
	auth := services.NewAuthService(db, log, r.User, r.UserToken, progress, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	user := services.NewUserService(db, log, r.User, progress)
	topic := services.NewTopicService(db, log, r.Topic)

	return Services{
		Auth:         auth,
		User:         user,
		Topic:        topic,
		Question:     question,
		Adaptive:     adaptiveSvc,
		Progress:     progress,
		Dashboard:    dashboard,
		Push:         push,
		Notification: notification,
	}
}
