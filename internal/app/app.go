package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/db"
	apphttp "github.com/adeptlearn/tutor-backend/internal/http"
	"github.com/adeptlearn/tutor-backend/internal/observability"
	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/realtime"
	"github.com/adeptlearn/tutor-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Registry *realtime.Registry

	server       *apphttp.Server
	bus          bus.Bus
	dispatcher   *realtime.Dispatcher
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	dbService, err := db.New(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	theDB := dbService.DB()

	registry := realtime.NewRegistry(log)
	dispatcher := realtime.NewDispatcher(log, registry, int64(cfg.MaxInflightPushes))

	// In-process pushes go straight through the dispatcher; with a bus every
	// push takes a round trip through pub/sub so any instance can deliver it.
	var emitter realtime.Emitter = dispatcher
	var pushBus bus.Bus
	if cfg.RealtimeBus == "redis" {
		pushBus, err = bus.NewRedisBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init realtime bus: %w", err)
		}
		emitter = &bus.Emitter{Log: log, Bus: pushBus}
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, registry, emitter)
	handlerset := wireHandlers(log, cfg, serviceset, registry)
	authMW := wireMiddleware(log, serviceset)

	server := apphttp.NewServer(apphttp.RouterConfig{
		Log:                 log,
		AuthMiddleware:      authMW,
		AuthHandler:         handlerset.Auth,
		TopicHandler:        handlerset.Topic,
		QuestionHandler:     handlerset.Question,
		NotificationHandler: handlerset.Notification,
		ProfileHandler:      handlerset.Profile,
		ProgressHandler:     handlerset.Progress,
		DashboardHandler:    handlerset.Dashboard,
		StreamHandler:       handlerset.Stream,
		HealthHandler:       handlerset.Health,
	})

	return &App{
		Log:        log,
		DB:         theDB,
		Router:     server.Engine,
		Cfg:        cfg,
		Repos:      reposet,
		Services:   serviceset,
		Registry:   registry,
		server:     server,
		bus:        pushBus,
		dispatcher: dispatcher,
	}, nil
}

// Start runs startup work that needs a live context: tracing, the topic
// seed, and the bus forwarder when one is configured.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.otelShutdown = observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		ServiceName: "tutor-backend",
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
	})

	if a.Cfg.SeedTopics {
		if err := a.Services.Topic.SeedDefaults(ctx); err != nil {
			return fmt.Errorf("seed topics: %w", err)
		}
	}

	if a.bus != nil {
		err := a.bus.StartForwarder(ctx, func(env bus.Envelope) {
			ev := realtime.Event{Name: env.Event, Data: env.Data}
			if env.UserID == uuid.Nil {
				a.dispatcher.Broadcast(env.Channel, ev)
				return
			}
			a.dispatcher.Push(realtime.Key{UserID: env.UserID, Channel: env.Channel}, ev)
		})
		if err != nil {
			return fmt.Errorf("start bus forwarder: %w", err)
		}
	}
	return nil
}

func (a *App) Run() error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.server.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			a.Log.Warn("bus close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
