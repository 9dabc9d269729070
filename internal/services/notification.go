package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/adeptlearn/tutor-backend/internal/platform/apierr"
	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
	"github.com/adeptlearn/tutor-backend/internal/realtime"
	"github.com/adeptlearn/tutor-backend/internal/repos"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

type NotificationService interface {
	Create(ctx context.Context, recipientID uuid.UUID, message string, kind types.NotificationType, meta map[string]any) (*types.Notification, error)
	ListForUser(ctx context.Context, recipientID uuid.UUID) ([]*types.Notification, error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
	ClearForUser(ctx context.Context, recipientID uuid.UUID) error
	NotifyUserDifficulty(ctx context.Context, recipientID uuid.UUID, topicName string) error
	NotifyAdminErrorPattern(ctx context.Context, adminID uuid.UUID, pattern string) error
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	emitter          realtime.Emitter
}

func NewNotificationService(db *gorm.DB, log *logger.Logger, notificationRepo repos.NotificationRepo, emitter realtime.Emitter) NotificationService {
	return &notificationService{
		db:               db,
		log:              log.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
		emitter:          emitter,
	}
}

// Create persists the notification, then pushes it to the recipient's live
// connection if one exists. The persisted row is the durable truth; the
// push is best effort and its failure never surfaces to the caller.
func (s *notificationService) Create(ctx context.Context, recipientID uuid.UUID, message string, kind types.NotificationType, meta map[string]any) (*types.Notification, error) {
	n := &types.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Message:     message,
		Type:        kind,
		CreatedAt:   time.Now().UTC(),
	}
	if len(meta) > 0 {
		n.Meta = datatypes.JSONMap(meta)
	}
	if err := s.notificationRepo.Create(ctx, nil, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.emitter.Emit(ctx, realtime.Key{UserID: recipientID, Channel: realtime.ChannelUser}, realtime.Event{
		Name: realtime.EventNotification,
		Data: n,
	})
	return n, nil
}

func (s *notificationService) ListForUser(ctx context.Context, recipientID uuid.UUID) ([]*types.Notification, error) {
	return s.notificationRepo.ListByRecipient(ctx, nil, recipientID)
}

func (s *notificationService) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	n, err := s.notificationRepo.GetByID(ctx, nil, notificationID)
	if err != nil {
		return fmt.Errorf("load notification: %w", err)
	}
	if n == nil || n.RecipientID != recipientID {
		return apierr.NotFound("notification_not_found", fmt.Errorf("notification %s not found", notificationID))
	}
	return s.notificationRepo.MarkRead(ctx, nil, notificationID)
}

func (s *notificationService) ClearForUser(ctx context.Context, recipientID uuid.UUID) error {
	return s.notificationRepo.DeleteByRecipient(ctx, nil, recipientID)
}

func (s *notificationService) NotifyUserDifficulty(ctx context.Context, recipientID uuid.UUID, topicName string) error {
	msg := fmt.Sprintf("You are having difficulty with %s. We recommend you practice more!", topicName)
	_, err := s.Create(ctx, recipientID, msg, types.NotificationUserWarning, map[string]any{"topic": topicName})
	return err
}

func (s *notificationService) NotifyAdminErrorPattern(ctx context.Context, adminID uuid.UUID, pattern string) error {
	if adminID == uuid.Nil {
		return apierr.New(http.StatusUnprocessableEntity, "missing_admin", fmt.Errorf("no admin recipient"))
	}
	msg := "A new error pattern was detected: " + pattern
	_, err := s.Create(ctx, adminID, msg, types.NotificationAdminAlert, nil)
	return err
}
