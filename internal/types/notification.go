package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationProgressUp   NotificationType = "progress-up"
	NotificationProgressDown NotificationType = "progress-down"
	NotificationUserWarning  NotificationType = "user-warning"
	NotificationAdminAlert   NotificationType = "admin-alert"
)

// Notification is the durable record of a user-facing message. Live delivery
// over SSE is best effort; this row is the source of truth.
type Notification struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID         `gorm:"type:uuid;not null;index;column:recipient_id" json:"recipient_id"`
	Message     string            `gorm:"not null;column:message" json:"message"`
	Type        NotificationType  `gorm:"not null;column:type" json:"type"`
	Read        bool              `gorm:"not null;default:false;column:read" json:"read"`
	Meta        datatypes.JSONMap `gorm:"column:meta" json:"meta,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;column:created_at" json:"created_at"`
}

func (Notification) TableName() string {
	return "notification"
}
