package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/platform/envutil"
	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

// Service owns the gorm handle. Postgres is the deployment target; sqlite
// backs local development and tests (DB_DRIVER=sqlite).
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func New(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DB")

	driver := strings.ToLower(envutil.GetEnv("DB_DRIVER", "postgres", log))
	var (
		handle *gorm.DB
		err    error
	)
	switch driver {
	case "sqlite":
		path := envutil.GetEnv("SQLITE_PATH", "tutor.db", log)
		serviceLog.Info("Connecting to sqlite...", "path", path)
		handle, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	default:
		host := envutil.GetEnv("POSTGRES_HOST", "localhost", log)
		port := envutil.GetEnv("POSTGRES_PORT", "5432", log)
		user := envutil.GetEnv("POSTGRES_USER", "postgres", log)
		password := envutil.GetEnv("POSTGRES_PASSWORD", "", log)
		name := envutil.GetEnv("POSTGRES_NAME", "tutor", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

		serviceLog.Info("Connecting to Postgres...", "host", host, "db", name)
		handle, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
		})
		if err == nil {
			if extErr := handle.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; extErr != nil {
				return nil, fmt.Errorf("enable uuid-ossp extension: %w", extErr)
			}
		}
	}
	if err != nil {
		serviceLog.Error("Failed to connect to database", "driver", driver, "error", err)
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	return &Service{db: handle, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Topic{},
		&types.GeneratedQuestion{},
		&types.QuestionAttempt{},
		&types.SubtopicProgress{},
		&types.Notification{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
