package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/realtime"
	"github.com/adeptlearn/tutor-backend/internal/repos"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Topic{},
		&types.GeneratedQuestion{},
		&types.QuestionAttempt{},
		&types.SubtopicProgress{},
		&types.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// captureEmitter records pushes in place of the dispatcher.
type captureEmitter struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	Key   realtime.Key
	Event realtime.Event
}

func (e *captureEmitter) Emit(_ context.Context, key realtime.Key, ev realtime.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, capturedEvent{Key: key, Event: ev})
}

func (e *captureEmitter) byName(name realtime.EventName) []capturedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []capturedEvent
	for _, ce := range e.events {
		if ce.Event.Name == name {
			out = append(out, ce)
		}
	}
	return out
}

type fixture struct {
	db      *gorm.DB
	log     *logger.Logger
	repos   struct {
		user         repos.UserRepo
		userToken    repos.UserTokenRepo
		topic        repos.TopicRepo
		question     repos.QuestionRepo
		attempt      repos.AttemptRepo
		progress     repos.ProgressRepo
		notification repos.NotificationRepo
	}
	emitter *captureEmitter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:      newTestDB(t),
		log:     newTestLogger(t),
		emitter: &captureEmitter{},
	}
	f.repos.user = repos.NewUserRepo(f.db, f.log)
	f.repos.userToken = repos.NewUserTokenRepo(f.db, f.log)
	f.repos.topic = repos.NewTopicRepo(f.db, f.log)
	f.repos.question = repos.NewQuestionRepo(f.db, f.log)
	f.repos.attempt = repos.NewAttemptRepo(f.db, f.log)
	f.repos.progress = repos.NewProgressRepo(f.db, f.log)
	f.repos.notification = repos.NewNotificationRepo(f.db, f.log)
	return f
}

func (f *fixture) mustCreateUser(t *testing.T, email string) *types.User {
	t.Helper()
	user := &types.User{
		ID:                uuid.New(),
		Email:             email,
		Username:          email,
		Password:          "hash",
		Role:              types.RoleUser,
		CurrentDifficulty: types.DifficultyBasic,
	}
	if err := f.repos.user.Create(context.Background(), nil, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (f *fixture) mustCreateTopic(t *testing.T, name string, parentID *uuid.UUID) *types.Topic {
	t.Helper()
	now := time.Now().UTC()
	topic := &types.Topic{
		ID:         uuid.New(),
		Name:       name,
		Difficulty: types.DifficultyBasic,
		ParentID:   parentID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := f.repos.topic.Create(context.Background(), nil, topic); err != nil {
		t.Fatalf("create topic %s: %v", name, err)
	}
	return topic
}

func (f *fixture) mustAppendAttempt(t *testing.T, userID, subtopicID uuid.UUID, correct bool, at time.Time) {
	t.Helper()
	attempt := &types.QuestionAttempt{
		ID:          uuid.New(),
		UserID:      userID,
		QuestionID:  uuid.New(),
		SubtopicID:  subtopicID,
		Correct:     correct,
		AttemptedAt: at,
	}
	if err := f.repos.attempt.Append(context.Background(), nil, attempt); err != nil {
		t.Fatalf("append attempt: %v", err)
	}
}
