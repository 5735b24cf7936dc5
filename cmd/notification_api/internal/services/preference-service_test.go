package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/models"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/types"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestGetPreferencesCreatesDefaultOnce(t *testing.T) {
	store := newFakePreferenceStore()
	svc := NewPreferenceService(store)
	recipient := uuid.New()

	pref, err := svc.GetPreferences(context.Background(), recipient)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if !pref.PushEnabled || !pref.EmailEnabled || pref.SMSEnabled {
		t.Errorf("defaults = push %v email %v sms %v, want true/true/false",
			pref.PushEnabled, pref.EmailEnabled, pref.SMSEnabled)
	}
	if pref.QuietHours.Enabled {
		t.Error("quiet hours should default to disabled")
	}
	if pref.Timezone != "UTC" {
		t.Errorf("timezone = %q, want UTC", pref.Timezone)
	}

	if _, err := svc.GetPreferences(context.Background(), recipient); err != nil {
		t.Fatalf("second GetPreferences: %v", err)
	}
	if store.createCalls != 1 {
		t.Errorf("default row created %d times, want 1", store.createCalls)
	}
}

func TestUpdatePreferencesPartialMerge(t *testing.T) {
	store := newFakePreferenceStore()
	svc := NewPreferenceService(store)
	recipient := uuid.New()

	pref, err := svc.UpdatePreferences(context.Background(), recipient, types.UpdatePreferencesRequest{
		SMSEnabled:  boolPtr(true),
		PhoneNumber: strPtr("+14155552671"),
		QuietHours:  &models.QuietHours{Enabled: true, Start: "21:00", End: "07:30"},
	})
	if err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	if !pref.SMSEnabled || pref.PhoneNumber != "+14155552671" {
		t.Errorf("sms fields not merged: %+v", pref)
	}
	if pref.QuietHours.Start != "21:00" || pref.QuietHours.End != "07:30" {
		t.Errorf("quiet hours not merged: %+v", pref.QuietHours)
	}
	// Fields left nil in the request keep their defaults.
	if !pref.PushEnabled || !pref.EmailEnabled {
		t.Errorf("untouched fields changed: %+v", pref)
	}
}

func TestUpdatePreferencesValidation(t *testing.T) {
	svc := NewPreferenceService(newFakePreferenceStore())
	recipient := uuid.New()

	cases := []struct {
		name string
		req  types.UpdatePreferencesRequest
	}{
		{"bad quiet hours clock", types.UpdatePreferencesRequest{
			QuietHours: &models.QuietHours{Enabled: true, Start: "25:99", End: "08:00"},
		}},
		{"unknown timezone", types.UpdatePreferencesRequest{
			Timezone: strPtr("Mars/Olympus_Mons"),
		}},
		{"unparseable phone", types.UpdatePreferencesRequest{
			PhoneNumber: strPtr("not a number"),
		}},
		{"bad workout time", types.UpdatePreferencesRequest{
			WorkoutReminders: &models.WorkoutReminders{Enabled: true, Time: "soon"},
		}},
		{"bad meal time", types.UpdatePreferencesRequest{
			MealReminders: &models.MealReminders{Enabled: true, Times: map[string]string{"lunch": "noon"}},
		}},
		{"nonpositive water interval", types.UpdatePreferencesRequest{
			WaterReminders: &models.WaterReminders{Enabled: true, IntervalMinutes: 0, Start: "08:00", End: "20:00"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.UpdatePreferences(context.Background(), recipient, tc.req); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestAddDeviceTokenUpsert(t *testing.T) {
	store := newFakePreferenceStore()
	svc := NewPreferenceService(store)
	recipient := uuid.New()

	first := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time { return first }

	pref, err := svc.AddDeviceToken(context.Background(), recipient, types.RegisterDeviceTokenRequest{Token: "device-1"})
	if err != nil {
		t.Fatalf("AddDeviceToken: %v", err)
	}
	if len(pref.DeviceTokens) != 1 {
		t.Fatalf("tokens = %d, want 1", len(pref.DeviceTokens))
	}
	if !pref.DeviceTokens[0].Active || !pref.DeviceTokens[0].AddedAt.Equal(first) {
		t.Errorf("unexpected token entry: %+v", pref.DeviceTokens[0])
	}

	// Registering the same token again refreshes it in place.
	later := first.Add(48 * time.Hour)
	svc.clock = func() time.Time { return later }
	pref, err = svc.AddDeviceToken(context.Background(), recipient, types.RegisterDeviceTokenRequest{Token: "device-1"})
	if err != nil {
		t.Fatalf("AddDeviceToken again: %v", err)
	}
	if len(pref.DeviceTokens) != 1 {
		t.Fatalf("tokens = %d after re-register, want 1", len(pref.DeviceTokens))
	}
	if !pref.DeviceTokens[0].LastUsed.Equal(later) {
		t.Errorf("last_used = %v, want refreshed to %v", pref.DeviceTokens[0].LastUsed, later)
	}
	if !pref.DeviceTokens[0].AddedAt.Equal(first) {
		t.Error("added_at should survive a re-register")
	}

	// A second distinct token appends.
	pref, err = svc.AddDeviceToken(context.Background(), recipient, types.RegisterDeviceTokenRequest{
		Token:  "device-2",
		Active: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("AddDeviceToken second: %v", err)
	}
	if len(pref.DeviceTokens) != 2 {
		t.Fatalf("tokens = %d, want 2", len(pref.DeviceTokens))
	}
	if pref.DeviceTokens[1].Active {
		t.Error("explicit active=false should be honored")
	}
}

func TestAddDeviceTokenRequiresToken(t *testing.T) {
	svc := NewPreferenceService(newFakePreferenceStore())
	if _, err := svc.AddDeviceToken(context.Background(), uuid.New(), types.RegisterDeviceTokenRequest{}); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestRemoveDeviceToken(t *testing.T) {
	store := newFakePreferenceStore()
	svc := NewPreferenceService(store)
	recipient := uuid.New()

	for _, token := range []string{"device-1", "device-2"} {
		if _, err := svc.AddDeviceToken(context.Background(), recipient, types.RegisterDeviceTokenRequest{Token: token}); err != nil {
			t.Fatalf("seed %s: %v", token, err)
		}
	}

	pref, err := svc.RemoveDeviceToken(context.Background(), recipient, "device-1")
	if err != nil {
		t.Fatalf("RemoveDeviceToken: %v", err)
	}
	if len(pref.DeviceTokens) != 1 || pref.DeviceTokens[0].Token != "device-2" {
		t.Errorf("tokens after remove = %+v, want just device-2", pref.DeviceTokens)
	}

	// Removing an absent token leaves the list untouched.
	pref, err = svc.RemoveDeviceToken(context.Background(), recipient, "device-99")
	if err != nil {
		t.Fatalf("RemoveDeviceToken absent: %v", err)
	}
	if len(pref.DeviceTokens) != 1 {
		t.Errorf("tokens = %d after absent remove, want 1", len(pref.DeviceTokens))
	}
}

func TestRemoveDeviceTokenUnknownRecipientCreatesDefault(t *testing.T) {
	store := newFakePreferenceStore()
	svc := NewPreferenceService(store)

	// Like Get/Update/AddDeviceToken, an unseen recipient gets the default
	// row lazily; removing from an empty token list is then a no-op.
	pref, err := svc.RemoveDeviceToken(context.Background(), uuid.New(), "device-1")
	if err != nil {
		t.Fatalf("RemoveDeviceToken: %v", err)
	}
	if len(pref.DeviceTokens) != 0 {
		t.Errorf("tokens = %d, want 0", len(pref.DeviceTokens))
	}
	if store.createCalls != 1 {
		t.Errorf("default row created %d times, want 1", store.createCalls)
	}
}
