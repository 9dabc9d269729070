package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/adaptive"
	"github.com/adeptlearn/tutor-backend/internal/platform/apierr"
	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/repos"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

// ProgressUpdate is what the controller hands back to the submit flow after
// an attempt has been folded into the adaptive state.
type ProgressUpdate struct {
	Progress  *types.SubtopicProgress
	Changed   bool
	Direction adaptive.Direction
}

type AdaptiveService interface {
	OnAttemptSubmitted(ctx context.Context, userID, subtopicID uuid.UUID) (*ProgressUpdate, error)
	GetDifficulty(ctx context.Context, userID, subtopicID uuid.UUID) (types.Difficulty, error)
}

type adaptiveService struct {
	db            *gorm.DB
	log           *logger.Logger
	cfg           adaptive.Config
	userRepo      repos.UserRepo
	topicRepo     repos.TopicRepo
	attemptRepo   repos.AttemptRepo
	progressRepo  repos.ProgressRepo
	notifications NotificationService

	// keyLocks serializes concurrent submissions per (user, subtopic) pair.
	// Distinct pairs never contend; the mutexes are never removed, which is
	// fine at curriculum scale.
	keyLocks sync.Map
}

func NewAdaptiveService(db *gorm.DB, log *logger.Logger, cfg adaptive.Config, userRepo repos.UserRepo, topicRepo repos.TopicRepo, attemptRepo repos.AttemptRepo, progressRepo repos.ProgressRepo, notifications NotificationService) AdaptiveService {
	return &adaptiveService{
		db:            db,
		log:           log.With("service", "AdaptiveService"),
		cfg:           cfg,
		userRepo:      userRepo,
		topicRepo:     topicRepo,
		attemptRepo:   attemptRepo,
		progressRepo:  progressRepo,
		notifications: notifications,
	}
}

func (s *adaptiveService) lockFor(userID, subtopicID uuid.UUID) *sync.Mutex {
	key := userID.String() + ":" + subtopicID.String()
	mu, _ := s.keyLocks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// OnAttemptSubmitted folds the caller's just-persisted attempt into the
// (user, subtopic) adaptive state. The evaluation and save happen inside one
// transaction under a row lock; notifications go out only after commit.
func (s *adaptiveService) OnAttemptSubmitted(ctx context.Context, userID, subtopicID uuid.UUID) (*ProgressUpdate, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user_not_found", fmt.Errorf("user %s not found", userID))
	}
	subtopic, err := s.topicRepo.GetByID(ctx, nil, subtopicID)
	if err != nil {
		return nil, fmt.Errorf("load subtopic: %w", err)
	}
	if subtopic == nil {
		return nil, apierr.NotFound("subtopic_not_found", fmt.Errorf("subtopic %s not found", subtopicID))
	}

	mu := s.lockFor(userID, subtopicID)
	mu.Lock()
	defer mu.Unlock()

	var result adaptive.Result
	evaluate := func(tx *gorm.DB) error {
		state, err := s.progressRepo.LoadOrCreateForUpdate(ctx, tx, userID, subtopicID)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		recent, err := s.attemptRepo.RecentBySubtopic(ctx, tx, userID, subtopicID, s.cfg.Window)
		if err != nil {
			return fmt.Errorf("load attempt window: %w", err)
		}
		window := make([]bool, len(recent))
		for i, a := range recent {
			window[i] = a.Correct
		}

		result = adaptive.Evaluate(s.cfg, *state, window, time.Now().UTC())
		if err := s.progressRepo.Save(ctx, tx, &result.State); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
		if result.Changed {
			user.CurrentDifficulty = result.State.CurrentDifficulty
			if err := s.userRepo.Save(ctx, tx, user); err != nil {
				return fmt.Errorf("save user: %w", err)
			}
		}
		return nil
	}

	err = s.db.WithContext(ctx).Transaction(evaluate)
	if err != nil {
		// The closure reloads progress and the window on every run, so a
		// single retry picks up whatever state won the conflict.
		s.log.Debug("progress evaluation retry", "user_id", userID, "subtopic_id", subtopicID, "error", err)
		err = s.db.WithContext(ctx).Transaction(evaluate)
	}
	if err != nil {
		return nil, err
	}

	if result.Changed {
		s.notifyLevelChange(ctx, userID, subtopic, result)
	}

	return &ProgressUpdate{
		Progress:  &result.State,
		Changed:   result.Changed,
		Direction: result.Direction,
	}, nil
}

func (s *adaptiveService) notifyLevelChange(ctx context.Context, userID uuid.UUID, subtopic *types.Topic, result adaptive.Result) {
	level := result.State.CurrentDifficulty
	meta := map[string]any{"subtopic_id": subtopic.ID.String(), "difficulty": string(level)}

	var msg string
	kind := types.NotificationProgressUp
	if result.Direction == adaptive.DirectionDown {
		kind = types.NotificationProgressDown
		msg = fmt.Sprintf("Difficulty in %s was lowered to %s.", subtopic.Name, level)
	} else {
		msg = fmt.Sprintf("Great job! You advanced to %s in %s.", level, subtopic.Name)
	}
	if _, err := s.notifications.Create(ctx, userID, msg, kind, meta); err != nil {
		s.log.Warn("level change notification failed", "user_id", userID, "error", err)
	}

	// Hitting the floor is the struggle signal worth a separate nudge.
	if result.Direction == adaptive.DirectionDown && level == types.DifficultyBasic {
		if err := s.notifications.NotifyUserDifficulty(ctx, userID, subtopic.Name); err != nil {
			s.log.Warn("difficulty warning failed", "user_id", userID, "error", err)
		}
	}
}

func (s *adaptiveService) GetDifficulty(ctx context.Context, userID, subtopicID uuid.UUID) (types.Difficulty, error) {
	state, err := s.progressRepo.Get(ctx, nil, userID, subtopicID)
	if err != nil {
		return "", fmt.Errorf("load progress: %w", err)
	}
	if state == nil {
		return types.DifficultyBasic, nil
	}
	return state.CurrentDifficulty, nil
}
