package types

import (
	"time"

	"github.com/naadiaramirezx/fitlife-notifications/pkg/models"
)

type CreateNotificationRequest struct {
	RecipientID  string                 `json:"recipient_id" binding:"required"`
	Type         string                 `json:"type" binding:"required"`
	Title        string                 `json:"title" binding:"required"`
	Message      string                 `json:"message"`
	Data         map[string]interface{} `json:"data,omitempty"`
	Channels     []string               `json:"channels,omitempty"`
	Priority     string                 `json:"priority,omitempty"`
	ScheduledFor *time.Time             `json:"scheduled_for,omitempty"`
}

// NotificationEvent is the Kafka payload other fitness services publish on
// notification.request. Shape matches CreateNotificationRequest minus the
// binding tags.
type NotificationEvent struct {
	RecipientID  string                 `json:"recipient_id"`
	Type         string                 `json:"type"`
	Title        string                 `json:"title"`
	Message      string                 `json:"message"`
	Data         map[string]interface{} `json:"data,omitempty"`
	Channels     []string               `json:"channels,omitempty"`
	Priority     string                 `json:"priority,omitempty"`
	ScheduledFor *time.Time             `json:"scheduled_for,omitempty"`
}

type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
	Pagination    Pagination            `json:"pagination"`
}
