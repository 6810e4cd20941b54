package notifications

import (
	"context"
	"time"

	"vitalwatch-service/internal/app/models"
	"vitalwatch-service/internal/pkg/dto/events"
)

// NotificationRepository persists delivery records. Records are append-only
// except for MarkDeliveryOutcome, which only flips the delivery fields.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	FindFailed(ctx context.Context, limit int64) ([]models.Notification, error)
	MarkDeliveryOutcome(ctx context.Context, notificationID string, sent bool, sentAt *time.Time, emailError string) error
	FindByUserID(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	CountByOutcome(ctx context.Context) (sent int64, failed int64, err error)
	CountByType(ctx context.Context) (map[string]int64, error)
}

type NotificationUsecase interface {
	HandleAlertEvent(ctx context.Context, event events.AlertEvent) error
	HandleErrorEvent(ctx context.Context, event events.ErrorEvent) error
	RetryFailedNotifications(ctx context.Context) (int, error)
	GetUserNotifications(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	GetDeliveryStatistics(ctx context.Context) (*models.NotificationStatistics, error)
}
