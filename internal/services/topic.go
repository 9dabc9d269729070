package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/platform/apierr"
	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/repos"
	"github.com/adeptlearn/tutor-backend/internal/seed"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

// TopicInput carries the writable fields of a topic.
type TopicInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Difficulty  types.Difficulty `json:"difficulty"`
	ParentID    *uuid.UUID       `json:"parent_id,omitempty"`
}

type TopicService interface {
	Create(ctx context.Context, in TopicInput) (*types.Topic, error)
	Update(ctx context.Context, id uuid.UUID, in TopicInput) (*types.Topic, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*types.Topic, error)
	ListRoots(ctx context.Context) ([]*types.Topic, error)
	ListLeaves(ctx context.Context) ([]*types.Topic, error)
	SeedDefaults(ctx context.Context) error
}

type topicService struct {
	db        *gorm.DB
	log       *logger.Logger
	topicRepo repos.TopicRepo
}

func NewTopicService(db *gorm.DB, log *logger.Logger, topicRepo repos.TopicRepo) TopicService {
	return &topicService{
		db:        db,
		log:       log.With("service", "TopicService"),
		topicRepo: topicRepo,
	}
}

func (s *topicService) Create(ctx context.Context, in TopicInput) (*types.Topic, error) {
	if in.Name == "" {
		return nil, apierr.New(http.StatusUnprocessableEntity, "missing_name", fmt.Errorf("topic name is required"))
	}
	existing, err := s.topicRepo.GetByName(ctx, nil, in.Name)
	if err != nil {
		return nil, fmt.Errorf("check topic name: %w", err)
	}
	if existing != nil {
		return nil, apierr.New(http.StatusConflict, "topic_exists", fmt.Errorf("topic %q already exists", in.Name))
	}
	if in.ParentID != nil {
		parent, err := s.topicRepo.GetByID(ctx, nil, *in.ParentID)
		if err != nil {
			return nil, fmt.Errorf("load parent: %w", err)
		}
		if parent == nil {
			return nil, apierr.NotFound("parent_not_found", fmt.Errorf("parent topic %s not found", *in.ParentID))
		}
	}

	level := in.Difficulty
	if !level.Valid() {
		level = types.DifficultyBasic
	}
	now := time.Now().UTC()
	topic := &types.Topic{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		Difficulty:  level,
		ParentID:    in.ParentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.topicRepo.Create(ctx, nil, topic); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	return topic, nil
}

func (s *topicService) Update(ctx context.Context, id uuid.UUID, in TopicInput) (*types.Topic, error) {
	topic, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		topic.Name = in.Name
	}
	if in.Description != "" {
		topic.Description = in.Description
	}
	if in.Difficulty.Valid() {
		topic.Difficulty = in.Difficulty
	}
	if in.ParentID != nil {
		topic.ParentID = in.ParentID
	}
	topic.UpdatedAt = time.Now().UTC()
	if err := s.topicRepo.Save(ctx, nil, topic); err != nil {
		return nil, fmt.Errorf("save topic: %w", err)
	}
	return topic, nil
}

func (s *topicService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.topicRepo.Delete(ctx, nil, id)
}

func (s *topicService) GetByID(ctx context.Context, id uuid.UUID) (*types.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load topic: %w", err)
	}
	if topic == nil {
		return nil, apierr.NotFound("topic_not_found", fmt.Errorf("topic %s not found", id))
	}
	return topic, nil
}

func (s *topicService) ListRoots(ctx context.Context) ([]*types.Topic, error) {
	return s.topicRepo.ListRoots(ctx, nil)
}

func (s *topicService) ListLeaves(ctx context.Context) ([]*types.Topic, error) {
	return s.topicRepo.ListLeaves(ctx, nil)
}

// SeedDefaults walks the seed tree creating topics that do not exist yet.
// Matching is by name, so re-running on a seeded database is a no-op.
func (s *topicService) SeedDefaults(ctx context.Context) error {
	roots, err := seed.DefaultTopics()
	if err != nil {
		return err
	}
	for _, root := range roots {
		if err := s.seedNode(ctx, root, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *topicService) seedNode(ctx context.Context, node seed.TopicNode, parentID *uuid.UUID) error {
	topic, err := s.topicRepo.GetByName(ctx, nil, node.Name)
	if err != nil {
		return fmt.Errorf("check seed topic %q: %w", node.Name, err)
	}
	if topic == nil {
		level := node.Difficulty
		if !level.Valid() {
			level = types.DifficultyBasic
		}
		now := time.Now().UTC()
		topic = &types.Topic{
			ID:          uuid.New(),
			Name:        node.Name,
			Description: node.Description,
			Difficulty:  level,
			ParentID:    parentID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.topicRepo.Create(ctx, nil, topic); err != nil {
			return fmt.Errorf("seed topic %q: %w", node.Name, err)
		}
		s.log.Info("seeded topic", "name", node.Name)
	}
	for _, sub := range node.Subtopics {
		if err := s.seedNode(ctx, sub, &topic.ID); err != nil {
			return err
		}
	}
	return nil
}
