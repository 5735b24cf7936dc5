package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/naadiaramirezx/fitlife-notifications/cmd/notification_api/internal/services"
	"github.com/naadiaramirezx/fitlife-notifications/metrics"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/models"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/quiet"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Deliverer is what the scheduler drives each due notification through.
type Deliverer interface {
	SendNotification(ctx context.Context, notification *models.Notification) (*types.DeliveryResult, error)
}

// Scheduler owns the two periodic drivers: the short due-notification tick
// and the daily recurring-reminder expansion tick. Both are single-flight;
// a tick that fires while the previous one is still processing is skipped.
type Scheduler struct {
	notifications services.NotificationStore
	preferences   services.PreferenceStore
	delivery      Deliverer

	dueInterval       time.Duration
	expansionInterval time.Duration
	fanout            int

	log   *zap.Logger
	clock func() time.Time

	dueMu       sync.Mutex
	expansionMu sync.Mutex
}

func New(
	notifications services.NotificationStore,
	preferences services.PreferenceStore,
	delivery Deliverer,
	dueInterval, expansionInterval time.Duration,
	fanout int,
	log *zap.Logger,
) *Scheduler {
	return &Scheduler{
		notifications:     notifications,
		preferences:       preferences,
		delivery:          delivery,
		dueInterval:       dueInterval,
		expansionInterval: expansionInterval,
		fanout:            fanout,
		log:               log,
		clock:             time.Now,
	}
}

// Start runs both tick loops until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.log.Info("scheduler starting",
		zap.Duration("due_interval", s.dueInterval),
		zap.Duration("expansion_interval", s.expansionInterval),
	)

	dueTicker := time.NewTicker(s.dueInterval)
	defer dueTicker.Stop()
	expansionTicker := time.NewTicker(s.expansionInterval)
	defer expansionTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler shutting down")
			return ctx.Err()
		case <-dueTicker.C:
			if !s.dueMu.TryLock() {
				metrics.SchedulerTicksSkippedTotal.WithLabelValues("due").Inc()
				s.log.Warn("due tick still in flight, skipping")
				continue
			}
			go func() {
				defer s.dueMu.Unlock()
				if _, err := s.ProcessDueNotifications(ctx, s.clock()); err != nil {
					s.log.Error("due tick failed", zap.Error(err))
				}
			}()
		case <-expansionTicker.C:
			if !s.expansionMu.TryLock() {
				metrics.SchedulerTicksSkippedTotal.WithLabelValues("expansion").Inc()
				continue
			}
			go func() {
				defer s.expansionMu.Unlock()
				if _, err := s.ExpandRecurringReminders(ctx, s.clock()); err != nil {
					s.log.Error("expansion tick failed", zap.Error(err))
				}
			}()
		}
	}
}

// ProcessDueNotifications pulls every due record and drives it through the
// delivery service with bounded fan-out. Returns how many were processed.
// Store errors abort the tick; pending records are picked up again next
// time.
func (s *Scheduler) ProcessDueNotifications(ctx context.Context, now time.Time) (int, error) {
	start := time.Now()
	defer func() {
		metrics.SchedulerTickDuration.WithLabelValues("due").Observe(time.Since(start).Seconds())
	}()

	due, err := s.notifications.FindDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("finding due notifications: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}
	s.log.Info("processing due notifications", zap.Int("count", len(due)))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, s.fanout)
	for i := range due {
		notification := due[i]
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			result, err := s.delivery.SendNotification(gctx, &notification)
			if err != nil {
				s.log.Error("delivery failed",
					zap.String("notification_id", notification.ID.String()),
					zap.Error(err),
				)
				// Keep going; the record stays pending for the next tick.
				return nil
			}
			s.log.Info("notification processed",
				zap.String("notification_id", notification.ID.String()),
				zap.String("outcome", string(result.Outcome)),
			)
			return nil
		})
	}
	g.Wait()
	return len(due), nil
}

// ExpandRecurringReminders materializes today's one-shot notifications from
// every recipient's enabled reminder schedules. Occurrences already in the
// past and occurrences already persisted (same recipient, type and time)
// are skipped, so re-running within a day creates nothing twice.
func (s *Scheduler) ExpandRecurringReminders(ctx context.Context, now time.Time) (int, error) {
	start := time.Now()
	defer func() {
		metrics.SchedulerTickDuration.WithLabelValues("expansion").Observe(time.Since(start).Seconds())
	}()

	prefs, err := s.preferences.ListWithReminders(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing reminder preferences: %w", err)
	}

	created := 0
	for i := range prefs {
		n, err := s.expandRecipient(ctx, &prefs[i], now)
		if err != nil {
			s.log.Error("reminder expansion failed for recipient",
				zap.String("recipient_id", prefs[i].RecipientID.String()),
				zap.Error(err),
			)
			continue
		}
		created += n
	}
	if created > 0 {
		s.log.Info("recurring reminders expanded", zap.Int("created", created))
	}
	return created, nil
}

func (s *Scheduler) expandRecipient(ctx context.Context, pref *models.NotificationPreference, now time.Time) (int, error) {
	loc, err := time.LoadLocation(pref.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)

	created := 0
	for _, occ := range todaysOccurrences(pref, local) {
		if !occ.at.After(local) {
			continue
		}
		n, err := s.createOccurrence(ctx, pref.RecipientID, occ)
		if err != nil {
			return created, err
		}
		created += n
	}
	return created, nil
}

type occurrence struct {
	at      time.Time
	typ     string
	title   string
	message string
}

// todaysOccurrences computes every reminder fire time for the local day.
func todaysOccurrences(pref *models.NotificationPreference, local time.Time) []occurrence {
	var out []occurrence

	if w := pref.WorkoutReminders; w.Enabled && dayMatches(w.Days, local.Weekday()) {
		if at, ok := clockToday(w.Time, local); ok {
			out = append(out, occurrence{
				at:      at,
				typ:     models.TypeWorkoutReminder,
				title:   "Time to work out",
				message: "Your scheduled workout is coming up.",
			})
		}
	}

	if m := pref.MealReminders; m.Enabled {
		for meal, clock := range m.Times {
			if at, ok := clockToday(clock, local); ok {
				out = append(out, occurrence{
					at:      at,
					typ:     models.TypeMealReminder,
					title:   "Meal reminder",
					message: fmt.Sprintf("Time for %s.", meal),
				})
			}
		}
	}

	if w := pref.WaterReminders; w.Enabled && w.IntervalMinutes > 0 {
		startAt, okStart := clockToday(w.Start, local)
		endAt, okEnd := clockToday(w.End, local)
		if okStart && okEnd && startAt.Before(endAt) {
			for at := startAt; !at.After(endAt); at = at.Add(time.Duration(w.IntervalMinutes) * time.Minute) {
				out = append(out, occurrence{
					at:      at,
					typ:     models.TypeWaterReminder,
					title:   "Hydration check",
					message: "Time to drink some water.",
				})
			}
		}
	}

	return out
}

func (s *Scheduler) createOccurrence(ctx context.Context, recipientID uuid.UUID, occ occurrence) (int, error) {
	scheduledFor := occ.at.UTC()
	exists, err := s.notifications.ExistsScheduled(ctx, recipientID, occ.typ, scheduledFor)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}
	err = s.notifications.Create(ctx, &models.Notification{
		RecipientID:  recipientID,
		Type:         occ.typ,
		Title:        occ.title,
		Message:      occ.message,
		Priority:     models.PriorityMedium,
		Status:       models.StatusPending,
		ScheduledFor: scheduledFor,
	})
	if err != nil {
		// Lost the race against a concurrent expansion; the row exists.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, nil
		}
		return 0, err
	}
	metrics.RemindersExpandedTotal.WithLabelValues(occ.typ).Inc()
	return 1, nil
}

func dayMatches(days []time.Weekday, today time.Weekday) bool {
	if len(days) == 0 {
		return true
	}
	for _, d := range days {
		if d == today {
			return true
		}
	}
	return false
}

func clockToday(clock string, local time.Time) (time.Time, bool) {
	minutes, err := quiet.ParseClock(clock)
	if err != nil {
		return time.Time{}, false
	}
	at := time.Date(local.Year(), local.Month(), local.Day(), minutes/60, minutes%60, 0, 0, local.Location())
	return at, true
}
