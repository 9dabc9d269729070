package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

// SubtopicAgg is one GROUP BY row of the attempt history, keyed by the
// subtopic practiced.
type SubtopicAgg struct {
	SubtopicID uuid.UUID `gorm:"column:subtopic_id"`
	Attempts   int64     `gorm:"column:attempts"`
	Correct    int64     `gorm:"column:correct"`
}

type AttemptRepo interface {
	Append(ctx context.Context, tx *gorm.DB, attempt *types.QuestionAttempt) error
	RecentBySubtopic(ctx context.Context, tx *gorm.DB, userID, subtopicID uuid.UUID, limit int) ([]*types.QuestionAttempt, error)
	AggregateByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]SubtopicAgg, error)
	AggregateAll(ctx context.Context, tx *gorm.DB) ([]SubtopicAgg, error)
}

type attemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	return &attemptRepo{db: db, log: baseLog.With("repo", "AttemptRepo")}
}

func (r *attemptRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Append inserts one history row. Attempts are append-only; nothing in the
// codebase updates or deletes them.
func (r *attemptRepo) Append(ctx context.Context, tx *gorm.DB, attempt *types.QuestionAttempt) error {
	return r.handle(tx).WithContext(ctx).Create(attempt).Error
}

// RecentBySubtopic returns the rolling evaluation window, newest first.
func (r *attemptRepo) RecentBySubtopic(ctx context.Context, tx *gorm.DB, userID, subtopicID uuid.UUID, limit int) ([]*types.QuestionAttempt, error) {
	if userID == uuid.Nil || subtopicID == uuid.Nil || limit <= 0 {
		return nil, nil
	}
	var rows []*types.QuestionAttempt
	err := r.handle(tx).WithContext(ctx).
		Where("user_id = ? AND subtopic_id = ?", userID, subtopicID).
		Order("attempted_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

const aggSelect = "subtopic_id, COUNT(*) AS attempts, SUM(CASE WHEN correct THEN 1 ELSE 0 END) AS correct"

func (r *attemptRepo) AggregateByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]SubtopicAgg, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var rows []SubtopicAgg
	err := r.handle(tx).WithContext(ctx).
		Model(&types.QuestionAttempt{}).
		Select(aggSelect).
		Where("user_id = ?", userID).
		Group("subtopic_id").
		Scan(&rows).Error
	return rows, err
}

func (r *attemptRepo) AggregateAll(ctx context.Context, tx *gorm.DB) ([]SubtopicAgg, error) {
	var rows []SubtopicAgg
	err := r.handle(tx).WithContext(ctx).
		Model(&types.QuestionAttempt{}).
		Select(aggSelect).
		Group("subtopic_id").
		Scan(&rows).Error
	return rows, err
}
