package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/adeptlearn/tutor-backend/internal/adaptive"
	"github.com/adeptlearn/tutor-backend/internal/platform/apierr"
	"github.com/adeptlearn/tutor-backend/internal/realtime"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

func newQuestionFixture(t *testing.T) (*fixture, QuestionService, *realtime.Registry, *types.User, *types.Topic) {
	t.Helper()
	f := newFixture(t)
	registry := realtime.NewRegistry(f.log)
	dashboard := NewDashboardService(f.db, f.log, f.repos.user, f.repos.topic, f.repos.attempt, f.repos.progress)
	push := NewPushService(f.log, dashboard, registry, f.emitter, false)
	notification := NewNotificationService(f.db, f.log, f.repos.notification, f.emitter)
	adaptiveSvc := NewAdaptiveService(f.db, f.log, adaptive.DefaultConfig(), f.repos.user, f.repos.topic, f.repos.attempt, f.repos.progress, notification)
	svc := NewQuestionService(f.db, f.log, f.repos.question, f.repos.topic, f.repos.attempt, adaptiveSvc, push)

	user := f.mustCreateUser(t, "student@example.com")
	parent := f.mustCreateTopic(t, "Arithmetic", nil)
	subtopic := f.mustCreateTopic(t, "Division", &parent.ID)
	return f, svc, registry, user, subtopic
}

func TestGenerateUsesCurrentLevelWhenUnspecified(t *testing.T) {
	f, svc, _, user, subtopic := newQuestionFixture(t)
	ctx := context.Background()

	seedProgressRow(t, f, user.ID, subtopic.ID, types.DifficultyMedium)

	q, err := svc.Generate(ctx, user.ID, &subtopic.ID, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if q.Difficulty != types.DifficultyMedium {
		t.Fatalf("difficulty = %s, want the user's current MEDIUM", q.Difficulty)
	}
	if q.TopicID == nil || *q.TopicID != subtopic.ID {
		t.Fatalf("topic id = %v, want %s", q.TopicID, subtopic.ID)
	}
	if q.QuestionText == "" || q.CorrectAnswer == "" {
		t.Fatalf("generated question incomplete: %+v", q)
	}

	stored, err := f.repos.question.GetByID(ctx, nil, q.ID)
	if err != nil || stored == nil {
		t.Fatalf("generated question not persisted: %v", err)
	}
}

func TestGenerateUnknownTopic(t *testing.T) {
	_, svc, _, user, _ := newQuestionFixture(t)
	missing := uuid.New()
	_, err := svc.Generate(context.Background(), user.ID, &missing, "")
	if apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("want 404, got %v", err)
	}
}

func TestSubmitAnswerGradesAndRecords(t *testing.T) {
	f, svc, _, user, subtopic := newQuestionFixture(t)
	ctx := context.Background()

	q, err := svc.Generate(ctx, user.ID, &subtopic.ID, types.DifficultyBasic)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	result, err := svc.SubmitAnswer(ctx, user.ID, q.ID, q.CorrectAnswer, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Correct {
		t.Fatalf("correct answer graded wrong")
	}
	if result.SolutionSteps == "" || result.CorrectAnswer != q.CorrectAnswer {
		t.Fatalf("result missing solution: %+v", result)
	}
	if result.Progress == nil {
		t.Fatalf("expected progress state in result")
	}

	attempts, err := f.repos.attempt.RecentBySubtopic(ctx, nil, user.ID, subtopic.ID, 10)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 1 || !attempts[0].Correct {
		t.Fatalf("attempts = %+v, want one correct row", attempts)
	}

	// A wrong answer is recorded too.
	result, err = svc.SubmitAnswer(ctx, user.ID, q.ID, "definitely wrong", nil)
	if err != nil {
		t.Fatalf("submit wrong: %v", err)
	}
	if result.Correct {
		t.Fatalf("wrong answer graded correct")
	}
}

func TestSubmitAnswerPushesSnapshotToLiveConnection(t *testing.T) {
	f, svc, registry, user, subtopic := newQuestionFixture(t)
	ctx := context.Background()

	// Live user stream; pushes pass the registry gate and reach the emitter.
	key := realtime.Key{UserID: user.ID, Channel: realtime.ChannelUser}
	handle := registry.Connect(key)
	defer handle.Close()

	q, err := svc.Generate(ctx, user.ID, &subtopic.ID, types.DifficultyBasic)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, user.ID, q.ID, q.CorrectAnswer, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	pushed := f.emitter.byName(realtime.EventUserDashboard)
	if len(pushed) != 1 {
		t.Fatalf("user dashboard pushes = %d, want 1", len(pushed))
	}
	snap, ok := pushed[0].Event.Data.(*types.UserSnapshot)
	if !ok {
		t.Fatalf("push payload = %T, want *types.UserSnapshot", pushed[0].Event.Data)
	}
	if snap.TotalAttempts != 1 || snap.CorrectAttempts != 1 {
		t.Fatalf("snapshot totals = %d/%d, want 1/1", snap.CorrectAttempts, snap.TotalAttempts)
	}
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	_, svc, _, user, _ := newQuestionFixture(t)
	_, err := svc.SubmitAnswer(context.Background(), user.ID, uuid.New(), "42", nil)
	if apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("want 404, got %v", err)
	}
}
