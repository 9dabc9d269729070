package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Notification, error)
	ListByRecipient(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) ([]*types.Notification, error)
	MarkRead(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteByRecipient(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *notificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) error {
	return r.handle(tx).WithContext(ctx).Create(notification).Error
}

func (r *notificationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Notification, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Notification
	err := r.handle(tx).WithContext(ctx).
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

func (r *notificationRepo) ListByRecipient(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) ([]*types.Notification, error) {
	if recipientID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Notification
	err := r.handle(tx).WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.handle(tx).WithContext(ctx).
		Model(&types.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}

func (r *notificationRepo) DeleteByRecipient(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) error {
	if recipientID == uuid.Nil {
		return nil
	}
	return r.handle(tx).WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Delete(&types.Notification{}).Error
}
