package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/models"
)

// NotificationStore is the persistence seam for notification records. The
// gorm repository implements it; tests substitute an in-memory fake.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	FindDue(ctx context.Context, now time.Time) ([]models.Notification, error)
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, status string, page, pageSize int) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkSent(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	MarkFailed(ctx context.Context, id uuid.UUID, maxRetries int) (*models.Notification, error)
	MarkSkipped(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ExistsScheduled(ctx context.Context, recipientID uuid.UUID, notificationType string, scheduledFor time.Time) (bool, error)
	CreateAttempt(ctx context.Context, attempt *models.DeliveryAttempt) error
}

// PreferenceStore is the persistence seam for recipient preferences.
type PreferenceStore interface {
	FindOrCreateDefault(ctx context.Context, recipientID uuid.UUID) (*models.NotificationPreference, error)
	Save(ctx context.Context, pref *models.NotificationPreference) error
	MutateLocked(ctx context.Context, recipientID uuid.UUID, mutate func(*models.NotificationPreference)) (*models.NotificationPreference, error)
	ListWithReminders(ctx context.Context) ([]models.NotificationPreference, error)
}

// EventPublisher is the outbound messaging seam, satisfied by the Kafka
// producer.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}
