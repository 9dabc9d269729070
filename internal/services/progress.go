package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/repos"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

type ProgressService interface {
	SeedForUser(ctx context.Context, userID uuid.UUID) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.SubtopicProgress, error)
	DifficultyMap(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]types.Difficulty, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	topicRepo    repos.TopicRepo
	progressRepo repos.ProgressRepo
}

func NewProgressService(db *gorm.DB, log *logger.Logger, topicRepo repos.TopicRepo, progressRepo repos.ProgressRepo) ProgressService {
	return &progressService{
		db:           db,
		log:          log.With("service", "ProgressService"),
		topicRepo:    topicRepo,
		progressRepo: progressRepo,
	}
}

// SeedForUser backfills a BASIC progress row for every leaf subtopic the user
// has no row for yet. Returns how many rows were created.
func (s *progressService) SeedForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	leaves, err := s.topicRepo.ListLeaves(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("list leaves: %w", err)
	}
	existing, err := s.progressRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return 0, fmt.Errorf("list progress: %w", err)
	}
	have := make(map[uuid.UUID]bool, len(existing))
	for _, p := range existing {
		have[p.SubtopicID] = true
	}

	created := 0
	now := time.Now().UTC()
	for _, leaf := range leaves {
		if have[leaf.ID] {
			continue
		}
		row := &types.SubtopicProgress{
			ID:                uuid.New(),
			UserID:            userID,
			SubtopicID:        leaf.ID,
			CurrentDifficulty: types.DifficultyBasic,
			LastUpdatedAt:     now,
		}
		if err := s.progressRepo.Create(ctx, nil, row); err != nil {
			return created, fmt.Errorf("seed progress for %s: %w", leaf.Name, err)
		}
		created++
	}
	if created > 0 {
		s.log.Info("seeded progress rows", "user_id", userID, "created", created)
	}
	return created, nil
}

func (s *progressService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.SubtopicProgress, error) {
	return s.progressRepo.ListByUser(ctx, nil, userID)
}

func (s *progressService) DifficultyMap(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]types.Difficulty, error) {
	rows, err := s.progressRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]types.Difficulty, len(rows))
	for _, p := range rows {
		out[p.SubtopicID] = p.CurrentDifficulty
	}
	return out, nil
}
