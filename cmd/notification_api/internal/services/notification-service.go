package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/models"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/types"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var validTypes = map[string]bool{
	models.TypeWorkoutReminder: true,
	models.TypeMealReminder:    true,
	models.TypeWaterReminder:   true,
	models.TypeHealthAlert:     true,
	models.TypeAchievement:     true,
	models.TypeWeeklySummary:   true,
	models.TypeLogin:           true,
	models.TypeOverdue:         true,
	models.TypePlanExpiry:      true,
}

var validPriorities = map[string]bool{
	models.PriorityLow:    true,
	models.PriorityMedium: true,
	models.PriorityHigh:   true,
	models.PriorityUrgent: true,
}

type NotificationService struct {
	store NotificationStore
	clock func() time.Time
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store, clock: time.Now}
}

// CreateNotification validates and persists a new notification record.
// ScheduledFor defaults to now, priority to medium, status to pending.
func (s *NotificationService) CreateNotification(ctx context.Context, req types.CreateNotificationRequest) (*models.Notification, error) {
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid recipient_id", ErrValidation)
	}
	if req.Type == "" || !validTypes[req.Type] {
		return nil, fmt.Errorf("%w: unknown notification type %q", ErrValidation, req.Type)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !validPriorities[priority] {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}

	for _, ch := range req.Channels {
		if ch != models.ChannelPush && ch != models.ChannelEmail && ch != models.ChannelSMS {
			return nil, fmt.Errorf("%w: unknown channel %q", ErrValidation, ch)
		}
	}

	scheduledFor := s.clock()
	if req.ScheduledFor != nil {
		scheduledFor = *req.ScheduledFor
	}

	notification := &models.Notification{
		RecipientID:  recipientID,
		Type:         req.Type,
		Title:        req.Title,
		Message:      req.Message,
		Data:         req.Data,
		Channels:     req.Channels,
		Priority:     priority,
		Status:       models.StatusPending,
		ScheduledFor: scheduledFor,
	}
	if err := s.store.Create(ctx, notification); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: notification already exists for this recipient, type and scheduled time", ErrConflict)
		}
		return nil, err
	}
	return notification, nil
}

// GetNotifications pages through a recipient's history, newest first, with
// the unread count alongside.
func (s *NotificationService) GetNotifications(ctx context.Context, recipientID uuid.UUID, status string, page, pageSize int) (*types.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	notifications, total, err := s.store.FindByRecipient(ctx, recipientID, status, page, pageSize)
	if err != nil {
		return nil, err
	}
	unread, err := s.store.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return &types.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
		Pagination: types.Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	notification, err := s.store.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: notification %s", ErrNotFound, id)
		}
		return nil, err
	}
	return notification, nil
}
