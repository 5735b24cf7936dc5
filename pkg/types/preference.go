package types

import "github.com/naadiaramirezx/fitlife-notifications/pkg/models"

// UpdatePreferencesRequest carries a partial preference update. Nil fields
// are left untouched by the merge.
type UpdatePreferencesRequest struct {
	PushEnabled      *bool                    `json:"push_enabled,omitempty"`
	EmailEnabled     *bool                    `json:"email_enabled,omitempty"`
	SMSEnabled       *bool                    `json:"sms_enabled,omitempty"`
	Email            *string                  `json:"email,omitempty"`
	PhoneNumber      *string                  `json:"phone_number,omitempty"`
	AudioPreferences *models.AudioPreferences `json:"audio_preferences,omitempty"`
	QuietHours       *models.QuietHours       `json:"quiet_hours,omitempty"`
	Timezone         *string                  `json:"timezone,omitempty"`
	WorkoutReminders *models.WorkoutReminders `json:"workout_reminders,omitempty"`
	MealReminders    *models.MealReminders    `json:"meal_reminders,omitempty"`
	WaterReminders   *models.WaterReminders   `json:"water_reminders,omitempty"`
}

type RegisterDeviceTokenRequest struct {
	Token  string `json:"token" binding:"required"`
	Active *bool  `json:"active,omitempty"`
}
