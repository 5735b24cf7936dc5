package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

const (
	TypeWorkoutReminder = "workout_reminder"
	TypeMealReminder    = "meal_reminder"
	TypeWaterReminder   = "water_reminder"
	TypeHealthAlert     = "health_alert"
	TypeAchievement     = "achievement"
	TypeWeeklySummary   = "weekly_summary"
	TypeLogin           = "login"
	TypeOverdue         = "overdue"
	TypePlanExpiry      = "plan_expiry"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusRead    = "read"
)

const (
	ChannelPush  = "push"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Payload is the open structured part of a notification (workout name,
// sound override and similar), stored as jsonb.
type Payload map[string]interface{}

func (p Payload) Value() (driver.Value, error) { return jsonbValue(p) }
func (p *Payload) Scan(src interface{}) error  { return jsonbScan(p, src) }

type Channels []string

func (c Channels) Value() (driver.Value, error) { return jsonbValue(c) }
func (c *Channels) Scan(src interface{}) error  { return jsonbScan(c, src) }

func (c Channels) Contains(channel string) bool {
	for _, v := range c {
		if v == channel {
			return true
		}
	}
	return false
}

type Notification struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecipientID  uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_recipient_type_schedule" json:"recipient_id"`
	Type         string     `gorm:"size:50;not null;uniqueIndex:idx_recipient_type_schedule" json:"type"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	Message      string     `gorm:"type:text" json:"message"`
	Data         Payload    `gorm:"type:jsonb" json:"data,omitempty"`
	Channels     Channels   `gorm:"type:jsonb" json:"channels,omitempty"`
	Priority     string     `gorm:"size:20;not null;default:medium" json:"priority"`
	Status       string     `gorm:"size:20;not null;default:pending;index" json:"status"`
	ScheduledFor time.Time  `gorm:"not null;index;uniqueIndex:idx_recipient_type_schedule" json:"scheduled_for"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
	RetryCount   int        `gorm:"not null;default:0" json:"retry_count"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// DeliveryAttempt is the audit row written for every channel attempt,
// successful or not.
type DeliveryAttempt struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	NotificationID uuid.UUID `gorm:"type:uuid;not null;index" json:"notification_id"`
	Channel        string    `gorm:"size:50;not null" json:"channel"`
	Provider       string    `gorm:"size:50;not null" json:"provider"`
	Status         string    `gorm:"size:50;not null" json:"status"`
	Error          string    `gorm:"type:text" json:"error,omitempty"`
	Try            int       `gorm:"not null" json:"try"`
	LatencyMs      int64     `gorm:"not null" json:"latency_ms"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	Notification Notification `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"-"`
}
