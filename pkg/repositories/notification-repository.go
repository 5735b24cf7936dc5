package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/models"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// FindDue returns pending notifications whose scheduled time has arrived,
// oldest first so long-waiting records are not starved.
func (r *NotificationRepository) FindDue(ctx context.Context, now time.Time) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_for <= ?", models.StatusPending, now).
		Order("scheduled_for asc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, status string, page, pageSize int) ([]models.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := q.Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// CountUnread counts delivered notifications the recipient has not
// acknowledged yet.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND status = ?", recipientID, models.StatusSent).
		Count(&count).Error
	return count, err
}

// MarkSent flips a pending notification to sent. Already-sent records are
// returned unchanged, so reprocessing after a mid-tick crash is harmless.
func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"status":  models.StatusSent,
			"sent_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	return r.GetByID(ctx, id)
}

// MarkFailed counts one failed delivery round. The record stays pending and
// eligible for the next tick until retry_count reaches maxRetries, at which
// point it goes terminal.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, maxRetries int) (*models.Notification, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"retry_count": gorm.Expr("retry_count + 1"),
			"status":      gorm.Expr("CASE WHEN retry_count + 1 >= ? THEN ? ELSE ? END", maxRetries, models.StatusFailed, models.StatusPending),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	return r.GetByID(ctx, id)
}

// MarkSkipped records that no channel was eligible for the notification.
// Terminal, like failed, but distinguishable in history queries.
func (r *NotificationRepository) MarkSkipped(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Update("status", models.StatusSkipped)
	if res.Error != nil {
		return nil, res.Error
	}
	return r.GetByID(ctx, id)
}

// MarkRead acknowledges a delivered notification. Reading an already-read
// record is a no-op; a missing id surfaces gorm.ErrRecordNotFound.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	notification, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.Status == models.StatusRead {
		return notification, nil
	}
	now := time.Now()
	err = r.db.WithContext(ctx).Model(notification).
		Updates(map[string]interface{}{
			"status":  models.StatusRead,
			"read_at": now,
		}).Error
	if err != nil {
		return nil, err
	}
	notification.Status = models.StatusRead
	notification.ReadAt = &now
	return notification, nil
}

// ExistsScheduled is the natural-key check the recurring expansion uses to
// stay idempotent within a day.
func (r *NotificationRepository) ExistsScheduled(ctx context.Context, recipientID uuid.UUID, notificationType string, scheduledFor time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ? AND scheduled_for = ?", recipientID, notificationType, scheduledFor).
		Count(&count).Error
	return count > 0, err
}

func (r *NotificationRepository) CreateAttempt(ctx context.Context, attempt *models.DeliveryAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *NotificationRepository) ListAttempts(ctx context.Context, notificationID uuid.UUID) ([]models.DeliveryAttempt, error) {
	var attempts []models.DeliveryAttempt
	err := r.db.WithContext(ctx).
		Where("notification_id = ?", notificationID).
		Order("created_at asc").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
