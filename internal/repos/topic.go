package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

type TopicRepo interface {
	Create(ctx context.Context, tx *gorm.DB, topic *types.Topic) error
	Save(ctx context.Context, tx *gorm.DB, topic *types.Topic) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Topic, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Topic, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Topic, error)
	ListRoots(ctx context.Context, tx *gorm.DB) ([]*types.Topic, error)
	ListLeaves(ctx context.Context, tx *gorm.DB) ([]*types.Topic, error)
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return &topicRepo{db: db, log: baseLog.With("repo", "TopicRepo")}
}

func (r *topicRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *topicRepo) Create(ctx context.Context, tx *gorm.DB, topic *types.Topic) error {
	return r.handle(tx).WithContext(ctx).Create(topic).Error
}

func (r *topicRepo) Save(ctx context.Context, tx *gorm.DB, topic *types.Topic) error {
	return r.handle(tx).WithContext(ctx).Save(topic).Error
}

func (r *topicRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.handle(tx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Topic{}).Error
}

func (r *topicRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Topic, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Topic
	err := r.handle(tx).WithContext(ctx).
		Preload("Subtopics").
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *topicRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Topic, error) {
	if name == "" {
		return nil, nil
	}
	var row types.Topic
	err := r.handle(tx).WithContext(ctx).
		Where("name = ?", name).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *topicRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Topic, error) {
	var rows []*types.Topic
	err := r.handle(tx).WithContext(ctx).
		Order("name").
		Find(&rows).Error
	return rows, err
}

func (r *topicRepo) ListRoots(ctx context.Context, tx *gorm.DB) ([]*types.Topic, error) {
	var rows []*types.Topic
	err := r.handle(tx).WithContext(ctx).
		Preload("Subtopics").
		Where("parent_id IS NULL").
		Order("name").
		Find(&rows).Error
	return rows, err
}

// ListLeaves returns topics that have a parent and no children of their own,
// i.e. the practice units the adaptive loop tracks.
func (r *topicRepo) ListLeaves(ctx context.Context, tx *gorm.DB) ([]*types.Topic, error) {
	var rows []*types.Topic
	err := r.handle(tx).WithContext(ctx).
		Where("parent_id IS NOT NULL").
		Where("id NOT IN (?)", r.handle(tx).Model(&types.Topic{}).
			Select("parent_id").
			Where("parent_id IS NOT NULL")).
		Order("name").
		Find(&rows).Error
	return rows, err
}
