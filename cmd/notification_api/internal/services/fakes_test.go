package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/gomailer"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/gopush"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/gosms"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/models"
	"gorm.io/gorm"
)

// fakeNotificationStore mirrors the repository's semantics in memory so the
// services can be exercised without postgres.
type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications map[uuid.UUID]*models.Notification
	attempts      []models.DeliveryAttempt
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{notifications: make(map[uuid.UUID]*models.Notification)}
}

func (s *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.notifications {
		if existing.RecipientID == n.RecipientID && existing.Type == n.Type && existing.ScheduledFor.Equal(n.ScheduledFor) {
			return gorm.ErrDuplicatedKey
		}
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	cp := *n
	s.notifications[n.ID] = &cp
	return nil
}

func (s *fakeNotificationStore) GetByID(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *fakeNotificationStore) FindDue(_ context.Context, now time.Time) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []models.Notification
	for _, n := range s.notifications {
		if n.Status == models.StatusPending && !n.ScheduledFor.After(now) {
			due = append(due, *n)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ScheduledFor.Before(due[j].ScheduledFor) })
	return due, nil
}

func (s *fakeNotificationStore) FindByRecipient(_ context.Context, recipientID uuid.UUID, status string, page, pageSize int) ([]models.Notification, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.Notification
	for _, n := range s.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if status != "" && n.Status != status {
			continue
		}
		all = append(all, *n)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *fakeNotificationStore) CountUnread(_ context.Context, recipientID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && n.Status == models.StatusSent {
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) MarkSent(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if n.Status == models.StatusPending {
		now := time.Now()
		n.Status = models.StatusSent
		n.SentAt = &now
	}
	cp := *n
	return &cp, nil
}

func (s *fakeNotificationStore) MarkFailed(_ context.Context, id uuid.UUID, maxRetries int) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if n.Status == models.StatusPending {
		n.RetryCount++
		if n.RetryCount >= maxRetries {
			n.Status = models.StatusFailed
		}
	}
	cp := *n
	return &cp, nil
}

func (s *fakeNotificationStore) MarkSkipped(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if n.Status == models.StatusPending {
		n.Status = models.StatusSkipped
	}
	cp := *n
	return &cp, nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if n.Status != models.StatusRead {
		now := time.Now()
		n.Status = models.StatusRead
		n.ReadAt = &now
	}
	cp := *n
	return &cp, nil
}

func (s *fakeNotificationStore) ExistsScheduled(_ context.Context, recipientID uuid.UUID, notificationType string, scheduledFor time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && n.Type == notificationType && n.ScheduledFor.Equal(scheduledFor) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeNotificationStore) CreateAttempt(_ context.Context, attempt *models.DeliveryAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, *attempt)
	return nil
}

type fakePreferenceStore struct {
	mu    sync.Mutex
	prefs map[uuid.UUID]*models.NotificationPreference
	// createCalls counts default creations for the race test.
	createCalls int
	failFind    bool
}

func newFakePreferenceStore() *fakePreferenceStore {
	return &fakePreferenceStore{prefs: make(map[uuid.UUID]*models.NotificationPreference)}
}

func (s *fakePreferenceStore) FindOrCreateDefault(_ context.Context, recipientID uuid.UUID) (*models.NotificationPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFind {
		return nil, fmt.Errorf("preference store unavailable")
	}
	if pref, ok := s.prefs[recipientID]; ok {
		cp := *pref
		return &cp, nil
	}
	s.createCalls++
	pref := models.DefaultPreference(recipientID)
	pref.ID = uuid.New()
	s.prefs[recipientID] = pref
	cp := *pref
	return &cp, nil
}

func (s *fakePreferenceStore) Save(_ context.Context, pref *models.NotificationPreference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *pref
	s.prefs[pref.RecipientID] = &cp
	return nil
}

func (s *fakePreferenceStore) MutateLocked(_ context.Context, recipientID uuid.UUID, mutate func(*models.NotificationPreference)) (*models.NotificationPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pref, ok := s.prefs[recipientID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	mutate(pref)
	pref.UpdatedAt = time.Now()
	cp := *pref
	return &cp, nil
}

func (s *fakePreferenceStore) ListWithReminders(_ context.Context) ([]models.NotificationPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.NotificationPreference
	for _, pref := range s.prefs {
		if pref.WorkoutReminders.Enabled || pref.MealReminders.Enabled || pref.WaterReminders.Enabled {
			out = append(out, *pref)
		}
	}
	return out, nil
}

func (s *fakePreferenceStore) set(pref *models.NotificationPreference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[pref.RecipientID] = pref
}

// Channel sender fakes with scripted outcomes.

type fakePushSender struct {
	mu    sync.Mutex
	fail  bool
	calls int
	last  gopush.Message
}

func (f *fakePushSender) Provider() string { return "fake" }

func (f *fakePushSender) Send(msg gopush.Message, tokens []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = msg
	if f.fail {
		return tokens, fmt.Errorf("push gateway down")
	}
	return nil, nil
}

type fakeMailer struct {
	mu    sync.Mutex
	fail  bool
	calls int
	last  gomailer.Email
}

func (f *fakeMailer) Provider() string { return "fake" }

func (f *fakeMailer) Send(email gomailer.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = email
	if f.fail {
		return fmt.Errorf("smtp relay refused connection")
	}
	return nil
}

type fakeSMSSender struct {
	mu    sync.Mutex
	fail  bool
	calls int
}

func (f *fakeSMSSender) Provider() string { return "fake" }

func (f *fakeSMSSender) Send(sms gosms.SMS) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return fmt.Errorf("sms gateway down")
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
}

func (f *fakePublisher) Publish(_ context.Context, topic string, _, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	return nil
}
