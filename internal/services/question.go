package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/platform/apierr"
	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/repos"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

// SubmitResult is returned to the client after grading one answer.
type SubmitResult struct {
	Correct       bool                    `json:"correct"`
	CorrectAnswer string                  `json:"correct_answer"`
	SolutionSteps string                  `json:"solution_steps"`
	Progress      *types.SubtopicProgress `json:"progress,omitempty"`
}

type QuestionService interface {
	Generate(ctx context.Context, userID uuid.UUID, topicID *uuid.UUID, level types.Difficulty) (*types.GeneratedQuestion, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.GeneratedQuestion, error)
	SubmitAnswer(ctx context.Context, userID, questionID uuid.UUID, answer string, elapsedSeconds *int64) (*SubmitResult, error)
}

type questionService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.QuestionRepo
	topicRepo    repos.TopicRepo
	attemptRepo  repos.AttemptRepo
	adaptiveSvc  AdaptiveService
	push         PushService

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewQuestionService(db *gorm.DB, log *logger.Logger, questionRepo repos.QuestionRepo, topicRepo repos.TopicRepo, attemptRepo repos.AttemptRepo, adaptiveSvc AdaptiveService, push PushService) QuestionService {
	return &questionService{
		db:           db,
		log:          log.With("service", "QuestionService"),
		questionRepo: questionRepo,
		topicRepo:    topicRepo,
		attemptRepo:  attemptRepo,
		adaptiveSvc:  adaptiveSvc,
		push:         push,
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

func (s *questionService) draw(kind questionKind, level types.Difficulty) questionDraft {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return generateDraft(s.rng, kind, level)
}

// Generate builds and persists a fresh question. An empty level means "use
// the caller's current level for the topic"; no topic means a BASIC addition
// question.
func (s *questionService) Generate(ctx context.Context, userID uuid.UUID, topicID *uuid.UUID, level types.Difficulty) (*types.GeneratedQuestion, error) {
	kind := kindAddition
	if topicID != nil {
		topic, err := s.topicRepo.GetByID(ctx, nil, *topicID)
		if err != nil {
			return nil, fmt.Errorf("load topic: %w", err)
		}
		if topic == nil {
			return nil, apierr.NotFound("topic_not_found", fmt.Errorf("topic %s not found", *topicID))
		}
		kind = kindForTopic(topic.Name)
		if level == "" {
			level, err = s.adaptiveSvc.GetDifficulty(ctx, userID, *topicID)
			if err != nil {
				return nil, err
			}
		}
	}
	if !level.Valid() {
		level = types.DifficultyBasic
	}

	draft := s.draw(kind, level)
	q := &types.GeneratedQuestion{
		ID:            uuid.New(),
		TopicID:       topicID,
		Difficulty:    level,
		QuestionText:  draft.Text,
		SolutionSteps: draft.Steps,
		CorrectAnswer: draft.Answer,
		Params:        datatypes.JSONMap(draft.Params),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.questionRepo.Create(ctx, nil, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

func (s *questionService) GetByID(ctx context.Context, id uuid.UUID) (*types.GeneratedQuestion, error) {
	q, err := s.questionRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}
	if q == nil {
		return nil, apierr.NotFound("question_not_found", fmt.Errorf("question %s not found", id))
	}
	return q, nil
}

// SubmitAnswer grades the answer, records the attempt, and advances the
// adaptive state. Snapshot pushes happen after the attempt is durable.
func (s *questionService) SubmitAnswer(ctx context.Context, userID, questionID uuid.UUID, answer string, elapsedSeconds *int64) (*SubmitResult, error) {
	q, err := s.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	correct := gradeAnswer(q.CorrectAnswer, answer)
	attempt := &types.QuestionAttempt{
		ID:             uuid.New(),
		UserID:         userID,
		QuestionID:     q.ID,
		Correct:        correct,
		AnswerText:     answer,
		ElapsedSeconds: elapsedSeconds,
		AttemptedAt:    time.Now().UTC(),
	}
	if q.TopicID != nil {
		attempt.SubtopicID = *q.TopicID
	}
	if err := s.attemptRepo.Append(ctx, nil, attempt); err != nil {
		return nil, fmt.Errorf("append attempt: %w", err)
	}

	result := &SubmitResult{
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
		SolutionSteps: q.SolutionSteps,
	}
	if q.TopicID != nil {
		update, err := s.adaptiveSvc.OnAttemptSubmitted(ctx, userID, *q.TopicID)
		if err != nil {
			return nil, err
		}
		result.Progress = update.Progress
	}

	s.push.PushUserSnapshot(ctx, userID)
	s.push.PushAdminSnapshot(ctx)
	return result, nil
}

func gradeAnswer(expected, got string) bool {
	return strings.EqualFold(strings.TrimSpace(expected), strings.TrimSpace(got))
}
