package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/adeptlearn/tutor-backend/internal/http/handlers"
	httpMW "github.com/adeptlearn/tutor-backend/internal/http/middleware"
	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler         *httpH.AuthHandler
	TopicHandler        *httpH.TopicHandler
	QuestionHandler     *httpH.QuestionHandler
	NotificationHandler *httpH.NotificationHandler
	ProfileHandler      *httpH.ProfileHandler
	ProgressHandler     *httpH.ProgressHandler
	DashboardHandler    *httpH.DashboardHandler
	StreamHandler       *httpH.StreamHandler
	HealthHandler       *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("tutor-backend"))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		if cfg.StreamHandler != nil {
			protected.GET("/sse/user-dashboard", cfg.StreamHandler.UserDashboard)
		}

		if cfg.TopicHandler != nil {
			protected.GET("/topics", cfg.TopicHandler.ListRoots)
			protected.GET("/topics/leaves", cfg.TopicHandler.ListLeaves)
			protected.GET("/topics/:id", cfg.TopicHandler.Get)
		}

		if cfg.QuestionHandler != nil {
			protected.POST("/questions/generate", cfg.QuestionHandler.Generate)
			protected.GET("/questions/:id", cfg.QuestionHandler.Get)
			protected.POST("/questions/submit", cfg.QuestionHandler.Submit)
		}

		if cfg.NotificationHandler != nil {
			protected.GET("/notifications", cfg.NotificationHandler.List)
			protected.PUT("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
			protected.DELETE("/notifications", cfg.NotificationHandler.Clear)
		}

		if cfg.ProfileHandler != nil {
			protected.GET("/profile", cfg.ProfileHandler.Get)
			protected.PUT("/profile", cfg.ProfileHandler.Update)
		}

		if cfg.ProgressHandler != nil {
			protected.GET("/progress", cfg.ProgressHandler.List)
			protected.GET("/progress/:subtopicId/difficulty", cfg.ProgressHandler.GetDifficulty)
		}

		if cfg.DashboardHandler != nil {
			protected.GET("/dashboard/user", cfg.DashboardHandler.User)
		}
	}

	admin := protected.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAdmin())
		}

		if cfg.StreamHandler != nil {
			admin.GET("/sse/admin-dashboard", cfg.StreamHandler.AdminDashboard)
		}
		if cfg.DashboardHandler != nil {
			admin.GET("/dashboard/admin", cfg.DashboardHandler.Admin)
		}
		if cfg.TopicHandler != nil {
			admin.POST("/topics", cfg.TopicHandler.Create)
			admin.PUT("/topics/:id", cfg.TopicHandler.Update)
			admin.DELETE("/topics/:id", cfg.TopicHandler.Delete)
		}
		if cfg.ProgressHandler != nil {
			admin.POST("/progress/seed/:userId", cfg.ProgressHandler.SeedUser)
		}
	}

	return r
}
