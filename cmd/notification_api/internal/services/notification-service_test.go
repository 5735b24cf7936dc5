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

func TestCreateNotificationDefaults(t *testing.T) {
	store := newFakeNotificationStore()
	svc := NewNotificationService(store)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time { return fixed }

	n, err := svc.CreateNotification(context.Background(), types.CreateNotificationRequest{
		RecipientID: uuid.New().String(),
		Type:        models.TypeAchievement,
		Title:       "New personal best",
	})
	if err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}
	if n.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", n.Status)
	}
	if n.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want medium", n.Priority)
	}
	if !n.ScheduledFor.Equal(fixed) {
		t.Errorf("scheduled_for = %v, want the creation instant", n.ScheduledFor)
	}
	if n.ID == uuid.Nil {
		t.Error("id not assigned")
	}
}

func TestCreateNotificationValidation(t *testing.T) {
	store := newFakeNotificationStore()
	svc := NewNotificationService(store)
	valid := types.CreateNotificationRequest{
		RecipientID: uuid.New().String(),
		Type:        models.TypeWorkoutReminder,
		Title:       "Go run",
	}

	cases := []struct {
		name   string
		mutate func(*types.CreateNotificationRequest)
	}{
		{"bad recipient id", func(r *types.CreateNotificationRequest) { r.RecipientID = "not-a-uuid" }},
		{"unknown type", func(r *types.CreateNotificationRequest) { r.Type = "carrier_pigeon" }},
		{"empty type", func(r *types.CreateNotificationRequest) { r.Type = "" }},
		{"missing title", func(r *types.CreateNotificationRequest) { r.Title = "" }},
		{"unknown priority", func(r *types.CreateNotificationRequest) { r.Priority = "asap" }},
		{"unknown channel", func(r *types.CreateNotificationRequest) { r.Channels = []string{"fax"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			if _, err := svc.CreateNotification(context.Background(), req); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateNotificationDuplicateNaturalKey(t *testing.T) {
	store := newFakeNotificationStore()
	svc := NewNotificationService(store)
	at := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	req := types.CreateNotificationRequest{
		RecipientID:  uuid.New().String(),
		Type:         models.TypeWorkoutReminder,
		Title:        "Morning workout",
		ScheduledFor: &at,
	}

	if _, err := svc.CreateNotification(context.Background(), req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateNotification(context.Background(), req)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict for a duplicate recipient/type/schedule", err)
	}
}

func TestGetNotificationsPagination(t *testing.T) {
	store := newFakeNotificationStore()
	svc := NewNotificationService(store)
	recipient := uuid.New()

	for i := 0; i < 5; i++ {
		n := &models.Notification{
			RecipientID:  recipient,
			Type:         models.TypeWaterReminder,
			Title:        "Drink up",
			Status:       models.StatusPending,
			ScheduledFor: time.Date(2025, 6, 1, 8+i, 0, 0, 0, time.UTC),
		}
		if err := store.Create(context.Background(), n); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	// Two of them were already delivered and count as unread.
	marked := 0
	for id := range store.notifications {
		if marked == 2 {
			break
		}
		if _, err := store.MarkSent(context.Background(), id); err != nil {
			t.Fatalf("mark sent: %v", err)
		}
		marked++
	}

	resp, err := svc.GetNotifications(context.Background(), recipient, "", 1, 2)
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	if len(resp.Notifications) != 2 {
		t.Errorf("page size = %d, want 2", len(resp.Notifications))
	}
	if resp.Pagination.Total != 5 {
		t.Errorf("total = %d, want 5", resp.Pagination.Total)
	}
	if resp.UnreadCount != 2 {
		t.Errorf("unread = %d, want 2", resp.UnreadCount)
	}

	// Out-of-range inputs are clamped rather than rejected.
	resp, err = svc.GetNotifications(context.Background(), recipient, "", 0, 0)
	if err != nil {
		t.Fatalf("GetNotifications clamped: %v", err)
	}
	if resp.Pagination.Page != 1 || resp.Pagination.PageSize != defaultPageSize {
		t.Errorf("pagination = %+v, want page 1 size %d", resp.Pagination, defaultPageSize)
	}

	resp, err = svc.GetNotifications(context.Background(), recipient, "", 1, 9999)
	if err != nil {
		t.Fatalf("GetNotifications oversized: %v", err)
	}
	if resp.Pagination.PageSize != maxPageSize {
		t.Errorf("page size = %d, want clamp to %d", resp.Pagination.PageSize, maxPageSize)
	}
}

func TestGetNotificationsStatusFilter(t *testing.T) {
	store := newFakeNotificationStore()
	svc := NewNotificationService(store)
	recipient := uuid.New()

	pending := &models.Notification{
		RecipientID:  recipient,
		Type:         models.TypeMealReminder,
		Title:        "Lunch",
		Status:       models.StatusPending,
		ScheduledFor: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	sent := &models.Notification{
		RecipientID:  recipient,
		Type:         models.TypeMealReminder,
		Title:        "Breakfast",
		Status:       models.StatusPending,
		ScheduledFor: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	for _, n := range []*models.Notification{pending, sent} {
		if err := store.Create(context.Background(), n); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if _, err := store.MarkSent(context.Background(), sent.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	resp, err := svc.GetNotifications(context.Background(), recipient, models.StatusSent, 1, 10)
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	if len(resp.Notifications) != 1 || resp.Notifications[0].ID != sent.ID {
		t.Errorf("filter returned %d rows, want just the sent one", len(resp.Notifications))
	}
}

func TestMarkRead(t *testing.T) {
	store := newFakeNotificationStore()
	svc := NewNotificationService(store)
	recipient := uuid.New()

	n := &models.Notification{
		RecipientID:  recipient,
		Type:         models.TypeAchievement,
		Title:        "Streak",
		Status:       models.StatusPending,
		ScheduledFor: time.Now(),
	}
	if err := store.Create(context.Background(), n); err != nil {
		t.Fatalf("seed: %v", err)
	}

	read, err := svc.MarkRead(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if read.Status != models.StatusRead || read.ReadAt == nil {
		t.Errorf("got %+v, want read status with read_at set", read)
	}
	firstReadAt := *read.ReadAt

	// Re-reading is a no-op, not an error.
	again, err := svc.MarkRead(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("MarkRead twice: %v", err)
	}
	if !again.ReadAt.Equal(firstReadAt) {
		t.Error("read_at should not move on a repeated mark")
	}
}

func TestMarkReadUnknownID(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationStore())
	if _, err := svc.MarkRead(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
