package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/repos"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

type DashboardService interface {
	BuildUserSnapshot(ctx context.Context, userID uuid.UUID) (*types.UserSnapshot, error)
	BuildAdminSnapshot(ctx context.Context) (*types.AdminSnapshot, error)
}

type dashboardService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	topicRepo    repos.TopicRepo
	attemptRepo  repos.AttemptRepo
	progressRepo repos.ProgressRepo
}

func NewDashboardService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, topicRepo repos.TopicRepo, attemptRepo repos.AttemptRepo, progressRepo repos.ProgressRepo) DashboardService {
	return &dashboardService{
		db:           db,
		log:          log.With("service", "DashboardService"),
		userRepo:     userRepo,
		topicRepo:    topicRepo,
		attemptRepo:  attemptRepo,
		progressRepo: progressRepo,
	}
}

// topicIndex resolves a subtopic to the parent topic its stats roll up under.
// Root topics roll up to themselves.
type topicIndex struct {
	byID map[uuid.UUID]*types.Topic
}

func (s *dashboardService) loadTopicIndex(ctx context.Context) (*topicIndex, error) {
	topics, err := s.topicRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	idx := &topicIndex{byID: make(map[uuid.UUID]*types.Topic, len(topics))}
	for _, t := range topics {
		idx.byID[t.ID] = t
	}
	return idx, nil
}

func (idx *topicIndex) parentOf(subtopicID uuid.UUID) *types.Topic {
	t, ok := idx.byID[subtopicID]
	if !ok {
		return nil
	}
	if t.ParentID != nil {
		if p, ok := idx.byID[*t.ParentID]; ok {
			return p
		}
	}
	return t
}

// rate returns correct/attempts as a percentage rounded to one decimal.
func rate(correct, attempts int64) float64 {
	if attempts == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(attempts)*1000) / 10
}

type topicAccum struct {
	topic     *types.Topic
	attempts  int64
	correct   int64
	diffSum   float64
	diffCount int
}

func rollUp(idx *topicIndex, aggs []repos.SubtopicAgg, difficulty map[uuid.UUID]float64, diffCount map[uuid.UUID]int) []types.TopicStats {
	accums := make(map[uuid.UUID]*topicAccum)
	touch := func(subtopicID uuid.UUID) *topicAccum {
		parent := idx.parentOf(subtopicID)
		if parent == nil {
			return nil
		}
		a, ok := accums[parent.ID]
		if !ok {
			a = &topicAccum{topic: parent}
			accums[parent.ID] = a
		}
		return a
	}
	for _, agg := range aggs {
		if a := touch(agg.SubtopicID); a != nil {
			a.attempts += agg.Attempts
			a.correct += agg.Correct
		}
	}
	for subtopicID, sum := range difficulty {
		if a := touch(subtopicID); a != nil {
			a.diffSum += sum
			a.diffCount += diffCount[subtopicID]
		}
	}

	stats := make([]types.TopicStats, 0, len(accums))
	for _, a := range accums {
		level := types.DifficultyBasic
		if a.diffCount > 0 {
			level = types.DifficultyFromIndex(a.diffSum / float64(a.diffCount))
		}
		stats = append(stats, types.TopicStats{
			TopicID:     a.topic.ID,
			TopicName:   a.topic.Name,
			Attempts:    a.attempts,
			Correct:     a.correct,
			SuccessRate: rate(a.correct, a.attempts),
			Difficulty:  level,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].TopicName < stats[j].TopicName })
	return stats
}

func (s *dashboardService) BuildUserSnapshot(ctx context.Context, userID uuid.UUID) (*types.UserSnapshot, error) {
	idx, err := s.loadTopicIndex(ctx)
	if err != nil {
		return nil, err
	}
	aggs, err := s.attemptRepo.AggregateByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate attempts: %w", err)
	}
	progress, err := s.progressRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	perLevel := make(map[uuid.UUID]types.Difficulty, len(progress))
	diffSum := make(map[uuid.UUID]float64, len(progress))
	diffCount := make(map[uuid.UUID]int, len(progress))
	for _, p := range progress {
		perLevel[p.SubtopicID] = p.CurrentDifficulty
		diffSum[p.SubtopicID] += float64(p.CurrentDifficulty.Index())
		diffCount[p.SubtopicID]++
	}

	snap := &types.UserSnapshot{
		UserID:             userID,
		Topics:             rollUp(idx, aggs, diffSum, diffCount),
		SubtopicDifficulty: perLevel,
	}
	for _, agg := range aggs {
		snap.TotalAttempts += agg.Attempts
		snap.CorrectAttempts += agg.Correct
	}
	snap.SuccessRate = rate(snap.CorrectAttempts, snap.TotalAttempts)
	return snap, nil
}

func (s *dashboardService) BuildAdminSnapshot(ctx context.Context) (*types.AdminSnapshot, error) {
	idx, err := s.loadTopicIndex(ctx)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.userRepo.CountAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	aggs, err := s.attemptRepo.AggregateAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("aggregate attempts: %w", err)
	}
	progress, err := s.progressRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	diffSum := make(map[uuid.UUID]float64)
	diffCount := make(map[uuid.UUID]int)
	for _, p := range progress {
		diffSum[p.SubtopicID] += float64(p.CurrentDifficulty.Index())
		diffCount[p.SubtopicID]++
	}

	snap := &types.AdminSnapshot{
		TotalUsers: totalUsers,
		Topics:     rollUp(idx, aggs, diffSum, diffCount),
	}
	for _, agg := range aggs {
		snap.TotalAttempts += agg.Attempts
		snap.CorrectAttempts += agg.Correct
	}
	snap.OverallSuccessRate = rate(snap.CorrectAttempts, snap.TotalAttempts)
	return snap, nil
}
