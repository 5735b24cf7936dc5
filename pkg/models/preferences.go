package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type AudioPreferences struct {
	Enabled bool              `json:"enabled"`
	Volume  float64           `json:"volume"`
	Sounds  map[string]string `json:"sounds"`
}

func (a AudioPreferences) Value() (driver.Value, error) { return jsonbValue(a) }
func (a *AudioPreferences) Scan(src interface{}) error  { return jsonbScan(a, src) }

// DefaultSounds maps event types to the bundled sound played for them.
func DefaultSounds() map[string]string {
	return map[string]string{
		TypeWorkoutReminder: "chime",
		TypeMealReminder:    "bell",
		TypeWaterReminder:   "drop",
		TypeHealthAlert:     "alert",
		TypeAchievement:     "fanfare",
	}
}

type DeviceToken struct {
	Token    string    `json:"token"`
	Active   bool      `json:"active"`
	AddedAt  time.Time `json:"added_at"`
	LastUsed time.Time `json:"last_used"`
}

type DeviceTokens []DeviceToken

func (d DeviceTokens) Value() (driver.Value, error) { return jsonbValue(d) }
func (d *DeviceTokens) Scan(src interface{}) error  { return jsonbScan(d, src) }

// ActiveTokens returns the tokens eligible for push dispatch.
func (d DeviceTokens) ActiveTokens() []string {
	var out []string
	for _, t := range d {
		if t.Active {
			out = append(out, t.Token)
		}
	}
	return out
}

// QuietHours is a recipient-local suppression window. Start and End are
// "HH:MM"; a window with Start >= End wraps midnight.
type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

func (q QuietHours) Value() (driver.Value, error) { return jsonbValue(q) }
func (q *QuietHours) Scan(src interface{}) error  { return jsonbScan(q, src) }

type WorkoutReminders struct {
	Enabled bool           `json:"enabled"`
	Time    string         `json:"time"` // "HH:MM"
	Days    []time.Weekday `json:"days,omitempty"`
}

func (w WorkoutReminders) Value() (driver.Value, error) { return jsonbValue(w) }
func (w *WorkoutReminders) Scan(src interface{}) error  { return jsonbScan(w, src) }

type MealReminders struct {
	Enabled bool              `json:"enabled"`
	Times   map[string]string `json:"times,omitempty"` // meal name -> "HH:MM"
}

func (m MealReminders) Value() (driver.Value, error) { return jsonbValue(m) }
func (m *MealReminders) Scan(src interface{}) error  { return jsonbScan(m, src) }

type WaterReminders struct {
	Enabled         bool   `json:"enabled"`
	IntervalMinutes int    `json:"interval_minutes"`
	Start           string `json:"start"` // "HH:MM"
	End             string `json:"end"`
}

func (w WaterReminders) Value() (driver.Value, error) { return jsonbValue(w) }
func (w *WaterReminders) Scan(src interface{}) error  { return jsonbScan(w, src) }

// NotificationPreference holds a recipient's delivery settings. One row per
// recipient, created lazily with defaults on first access.
type NotificationPreference struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecipientID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"recipient_id"`
	PushEnabled      bool             `gorm:"not null;default:true" json:"push_enabled"`
	EmailEnabled     bool             `gorm:"not null;default:true" json:"email_enabled"`
	SMSEnabled       bool             `gorm:"not null;default:false" json:"sms_enabled"`
	Email            string           `gorm:"size:254" json:"email,omitempty"`
	PhoneNumber      string           `gorm:"size:20" json:"phone_number,omitempty"`
	AudioPreferences AudioPreferences `gorm:"type:jsonb" json:"audio_preferences"`
	DeviceTokens     DeviceTokens     `gorm:"type:jsonb" json:"device_tokens"`
	QuietHours       QuietHours       `gorm:"type:jsonb" json:"quiet_hours"`
	Timezone         string           `gorm:"size:64;not null;default:UTC" json:"timezone"`
	WorkoutReminders WorkoutReminders `gorm:"type:jsonb" json:"workout_reminders"`
	MealReminders    MealReminders    `gorm:"type:jsonb" json:"meal_reminders"`
	WaterReminders   WaterReminders   `gorm:"type:jsonb" json:"water_reminders"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// DefaultPreference is the record created on first access for a recipient.
func DefaultPreference(recipientID uuid.UUID) *NotificationPreference {
	return &NotificationPreference{
		RecipientID:  recipientID,
		PushEnabled:  true,
		EmailEnabled: true,
		SMSEnabled:   false,
		AudioPreferences: AudioPreferences{
			Enabled: true,
			Volume:  0.8,
			Sounds:  DefaultSounds(),
		},
		DeviceTokens: DeviceTokens{},
		QuietHours:   QuietHours{Enabled: false, Start: "22:00", End: "08:00"},
		Timezone:     "UTC",
	}
}
