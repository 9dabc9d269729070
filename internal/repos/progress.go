package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

type ProgressRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID, subtopicID uuid.UUID) (*types.SubtopicProgress, error)
	// LoadOrCreateForUpdate reads the row under a write lock (postgres) so
	// concurrent evaluations of the same key serialize at the database too,
	// creating the BASIC row on first contact.
	LoadOrCreateForUpdate(ctx context.Context, tx *gorm.DB, userID, subtopicID uuid.UUID) (*types.SubtopicProgress, error)
	Save(ctx context.Context, tx *gorm.DB, progress *types.SubtopicProgress) error
	Create(ctx context.Context, tx *gorm.DB, progress *types.SubtopicProgress) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SubtopicProgress, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.SubtopicProgress, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *progressRepo) Get(ctx context.Context, tx *gorm.DB, userID, subtopicID uuid.UUID) (*types.SubtopicProgress, error) {
	if userID == uuid.Nil || subtopicID == uuid.Nil {
		return nil, nil
	}
	var row types.SubtopicProgress
	err := r.handle(tx).WithContext(ctx).
		Where("user_id = ? AND subtopic_id = ?", userID, subtopicID).
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

func (r *progressRepo) LoadOrCreateForUpdate(ctx context.Context, tx *gorm.DB, userID, subtopicID uuid.UUID) (*types.SubtopicProgress, error) {
	handle := r.handle(tx)

	query := handle.WithContext(ctx)
	// sqlite has no SELECT ... FOR UPDATE; there the per-key mutex in the
	// adaptive service is the only serializer, which is enough for a
	// single-process deployment.
	if handle.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row types.SubtopicProgress
	err := query.
		Where("user_id = ? AND subtopic_id = ?", userID, subtopicID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID != uuid.Nil {
		return &row, nil
	}

	row = types.SubtopicProgress{
		ID:                uuid.New(),
		UserID:            userID,
		SubtopicID:        subtopicID,
		CurrentDifficulty: types.DifficultyBasic,
		LastUpdatedAt:     time.Now().UTC(),
	}
	if err := handle.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *progressRepo) Save(ctx context.Context, tx *gorm.DB, progress *types.SubtopicProgress) error {
	return r.handle(tx).WithContext(ctx).Save(progress).Error
}

func (r *progressRepo) Create(ctx context.Context, tx *gorm.DB, progress *types.SubtopicProgress) error {
	return r.handle(tx).WithContext(ctx).Create(progress).Error
}

func (r *progressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SubtopicProgress, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.SubtopicProgress
	err := r.handle(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error
	return rows, err
}

func (r *progressRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.SubtopicProgress, error) {
	var rows []*types.SubtopicProgress
	err := r.handle(tx).WithContext(ctx).Find(&rows).Error
	return rows, err
}
