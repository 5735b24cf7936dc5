package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/gosms"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/models"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/quiet"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/types"
)

type PreferenceService struct {
	store PreferenceStore
	clock func() time.Time
}

func NewPreferenceService(store PreferenceStore) *PreferenceService {
	return &PreferenceService{store: store, clock: time.Now}
}

// GetPreferences returns the recipient's preference row, creating the
// default one on first access.
func (s *PreferenceService) GetPreferences(ctx context.Context, recipientID uuid.UUID) (*models.NotificationPreference, error) {
	return s.store.FindOrCreateDefault(ctx, recipientID)
}

// UpdatePreferences merges the provided fields into the stored row. Nil
// fields stay untouched.
func (s *PreferenceService) UpdatePreferences(ctx context.Context, recipientID uuid.UUID, req types.UpdatePreferencesRequest) (*models.NotificationPreference, error) {
	if err := validatePreferenceUpdate(req); err != nil {
		return nil, err
	}
	if _, err := s.store.FindOrCreateDefault(ctx, recipientID); err != nil {
		return nil, err
	}
	return s.store.MutateLocked(ctx, recipientID, func(pref *models.NotificationPreference) {
		if req.PushEnabled != nil {
			pref.PushEnabled = *req.PushEnabled
		}
		if req.EmailEnabled != nil {
			pref.EmailEnabled = *req.EmailEnabled
		}
		if req.SMSEnabled != nil {
			pref.SMSEnabled = *req.SMSEnabled
		}
		if req.Email != nil {
			pref.Email = *req.Email
		}
		if req.PhoneNumber != nil {
			pref.PhoneNumber = *req.PhoneNumber
		}
		if req.AudioPreferences != nil {
			pref.AudioPreferences = *req.AudioPreferences
		}
		if req.QuietHours != nil {
			pref.QuietHours = *req.QuietHours
		}
		if req.Timezone != nil {
			pref.Timezone = *req.Timezone
		}
		if req.WorkoutReminders != nil {
			pref.WorkoutReminders = *req.WorkoutReminders
		}
		if req.MealReminders != nil {
			pref.MealReminders = *req.MealReminders
		}
		if req.WaterReminders != nil {
			pref.WaterReminders = *req.WaterReminders
		}
	})
}

// AddDeviceToken registers a push endpoint. Re-registering an existing
// token refreshes last_used in place instead of appending a duplicate.
func (s *PreferenceService) AddDeviceToken(ctx context.Context, recipientID uuid.UUID, req types.RegisterDeviceTokenRequest) (*models.NotificationPreference, error) {
	if req.Token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrValidation)
	}
	if _, err := s.store.FindOrCreateDefault(ctx, recipientID); err != nil {
		return nil, err
	}

	now := s.clock()
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return s.store.MutateLocked(ctx, recipientID, func(pref *models.NotificationPreference) {
		for i := range pref.DeviceTokens {
			if pref.DeviceTokens[i].Token == req.Token {
				pref.DeviceTokens[i].LastUsed = now
				pref.DeviceTokens[i].Active = active
				return
			}
		}
		pref.DeviceTokens = append(pref.DeviceTokens, models.DeviceToken{
			Token:    req.Token,
			Active:   active,
			AddedAt:  now,
			LastUsed: now,
		})
	})
}

// RemoveDeviceToken drops the token from the list. Removing an absent token
// is a no-op, and like every other preference operation the default row is
// created lazily if the recipient has none yet.
func (s *PreferenceService) RemoveDeviceToken(ctx context.Context, recipientID uuid.UUID, token string) (*models.NotificationPreference, error) {
	if _, err := s.store.FindOrCreateDefault(ctx, recipientID); err != nil {
		return nil, err
	}
	return s.store.MutateLocked(ctx, recipientID, func(pref *models.NotificationPreference) {
		filtered := pref.DeviceTokens[:0]
		for _, t := range pref.DeviceTokens {
			if t.Token != token {
				filtered = append(filtered, t)
			}
		}
		pref.DeviceTokens = filtered
	})
}

func validatePreferenceUpdate(req types.UpdatePreferencesRequest) error {
	if req.QuietHours != nil && req.QuietHours.Enabled {
		if _, err := quiet.ParseClock(req.QuietHours.Start); err != nil {
			return fmt.Errorf("%w: quiet hours start: %v", ErrValidation, err)
		}
		if _, err := quiet.ParseClock(req.QuietHours.End); err != nil {
			return fmt.Errorf("%w: quiet hours end: %v", ErrValidation, err)
		}
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrValidation, *req.Timezone)
		}
	}
	if req.PhoneNumber != nil && *req.PhoneNumber != "" {
		if _, err := gosms.Normalize(*req.PhoneNumber); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if req.WorkoutReminders != nil && req.WorkoutReminders.Enabled {
		if _, err := quiet.ParseClock(req.WorkoutReminders.Time); err != nil {
			return fmt.Errorf("%w: workout reminder time: %v", ErrValidation, err)
		}
	}
	if req.MealReminders != nil && req.MealReminders.Enabled {
		for meal, at := range req.MealReminders.Times {
			if _, err := quiet.ParseClock(at); err != nil {
				return fmt.Errorf("%w: meal reminder %q: %v", ErrValidation, meal, err)
			}
		}
	}
	if req.WaterReminders != nil && req.WaterReminders.Enabled {
		if req.WaterReminders.IntervalMinutes <= 0 {
			return fmt.Errorf("%w: water reminder interval must be positive", ErrValidation)
		}
		if _, err := quiet.ParseClock(req.WaterReminders.Start); err != nil {
			return fmt.Errorf("%w: water reminder start: %v", ErrValidation, err)
		}
		if _, err := quiet.ParseClock(req.WaterReminders.End); err != nil {
			return fmt.Errorf("%w: water reminder end: %v", ErrValidation, err)
		}
	}
	return nil
}
