package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/naadiaramirezx/fitlife-notifications/metrics"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/gomailer"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/gopush"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/gosms"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/models"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/quiet"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/types"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DLQTopic receives notifications that exhausted their retries.
	DLQTopic = "notification.dlq"

	fromAddress = "noreply@fitlife.app"
)

// DeliveryService resolves a recipient's preferences, applies quiet hours
// and fans a notification out across the enabled channels. It is the only
// component that moves a notification out of pending.
type DeliveryService struct {
	notifications NotificationStore
	preferences   PreferenceStore
	push          gopush.Sender
	mailer        gomailer.Mailer
	sms           gosms.Sender
	producer      EventPublisher
	maxRetries    int
	log           *zap.Logger
	tracer        trace.Tracer
	clock         func() time.Time
}

func NewDeliveryService(
	notifications NotificationStore,
	preferences PreferenceStore,
	push gopush.Sender,
	mailer gomailer.Mailer,
	sms gosms.Sender,
	producer EventPublisher,
	maxRetries int,
	log *zap.Logger,
	tracer trace.Tracer,
) *DeliveryService {
	return &DeliveryService{
		notifications: notifications,
		preferences:   preferences,
		push:          push,
		mailer:        mailer,
		sms:           sms,
		producer:      producer,
		maxRetries:    maxRetries,
		log:           log,
		tracer:        tracer,
		clock:         time.Now,
	}
}

// SendNotification runs one delivery round for a pending notification.
// Preference-store failures abort before any mutation; per-channel failures
// are absorbed into the result and the retry state machine.
func (s *DeliveryService) SendNotification(ctx context.Context, notification *models.Notification) (*types.DeliveryResult, error) {
	ctx, span := s.tracer.Start(ctx, "deliver-notification")
	defer span.End()

	pref, err := s.preferences.FindOrCreateDefault(ctx, notification.RecipientID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("resolving preferences for %s: %w", notification.RecipientID, err)
	}

	now := s.clock()
	if notification.Priority != models.PriorityUrgent && quiet.InWindow(pref.QuietHours, pref.Timezone, now) {
		metrics.DeliveriesSuppressedTotal.Inc()
		s.log.Info("delivery suppressed by quiet hours",
			zap.String("notification_id", notification.ID.String()),
			zap.String("recipient_id", notification.RecipientID.String()),
		)
		return &types.DeliveryResult{Outcome: types.OutcomeSuppressed}, nil
	}

	jobs := s.eligibleChannels(notification, pref)
	if len(jobs) == 0 {
		if _, err := s.notifications.MarkSkipped(ctx, notification.ID); err != nil {
			return nil, err
		}
		metrics.NotificationsTerminalTotal.WithLabelValues(models.StatusSkipped).Inc()
		s.log.Warn("no eligible channel, notification skipped",
			zap.String("notification_id", notification.ID.String()),
		)
		return &types.DeliveryResult{Outcome: types.OutcomeSkipped}, nil
	}

	results := make([]types.ChannelResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = s.attempt(gctx, notification, job)
			return nil
		})
	}
	g.Wait()

	succeeded := false
	for _, r := range results {
		if r.Success {
			succeeded = true
			break
		}
	}

	if succeeded {
		if _, err := s.notifications.MarkSent(ctx, notification.ID); err != nil {
			return nil, err
		}
		return &types.DeliveryResult{Outcome: types.OutcomeSent, Success: true, PerChannel: results}, nil
	}

	updated, err := s.notifications.MarkFailed(ctx, notification.ID, s.maxRetries)
	if err != nil {
		return nil, err
	}
	if updated.Status == models.StatusFailed {
		metrics.NotificationsTerminalTotal.WithLabelValues(models.StatusFailed).Inc()
		s.publishDLQ(ctx, updated, results)
	} else {
		metrics.DeliveryRetriesTotal.WithLabelValues(notification.Type).Inc()
	}
	return &types.DeliveryResult{Outcome: types.OutcomeFailed, PerChannel: results}, nil
}

type channelJob struct {
	channel  string
	send     func() error
	provider string
}

// eligibleChannels selects the channels to attempt: the notification's
// explicit channel list when present, otherwise everything the preferences
// enable. Enablement always applies; push additionally needs at least one
// active device token.
func (s *DeliveryService) eligibleChannels(n *models.Notification, pref *models.NotificationPreference) []channelJob {
	candidates := []string{models.ChannelPush, models.ChannelEmail, models.ChannelSMS}
	if len(n.Channels) > 0 {
		candidates = n.Channels
	}

	var jobs []channelJob
	for _, ch := range candidates {
		switch ch {
		case models.ChannelPush:
			tokens := pref.DeviceTokens.ActiveTokens()
			if pref.PushEnabled && len(tokens) > 0 {
				msg := gopush.Message{
					Title: n.Title,
					Body:  n.Message,
					Sound: s.pushSound(n, pref),
					Data:  n.Data,
				}
				jobs = append(jobs, channelJob{
					channel:  models.ChannelPush,
					provider: s.push.Provider(),
					send: func() error {
						_, err := s.push.Send(msg, tokens)
						return err
					},
				})
			}
		case models.ChannelEmail:
			if pref.EmailEnabled && pref.Email != "" {
				email := gomailer.NewEmail(fromAddress, []string{pref.Email},
					gomailer.WithSubject(n.Title),
					gomailer.WithText(n.Message),
				)
				jobs = append(jobs, channelJob{
					channel:  models.ChannelEmail,
					provider: s.mailer.Provider(),
					send: func() error {
						return s.mailer.Send(email)
					},
				})
			}
		case models.ChannelSMS:
			if pref.SMSEnabled && pref.PhoneNumber != "" {
				sms := gosms.NewSMS(pref.PhoneNumber, n.Title+": "+n.Message)
				jobs = append(jobs, channelJob{
					channel:  models.ChannelSMS,
					provider: s.sms.Provider(),
					send: func() error {
						return s.sms.Send(sms)
					},
				})
			}
		}
	}
	return jobs
}

// attempt runs one channel sender and records the outcome as a value plus a
// DeliveryAttempt audit row. Sender errors never escape.
func (s *DeliveryService) attempt(ctx context.Context, n *models.Notification, job channelJob) types.ChannelResult {
	start := time.Now()
	err := job.send()
	latency := time.Since(start)

	metrics.DeliverySendDuration.WithLabelValues(job.provider, job.channel).Observe(latency.Seconds())

	result := types.ChannelResult{
		Channel:   job.channel,
		Provider:  job.provider,
		Success:   err == nil,
		LatencyMs: latency.Milliseconds(),
	}
	status := "delivered"
	if err != nil {
		result.Error = err.Error()
		status = "failed"
		s.log.Warn("channel delivery failed",
			zap.String("notification_id", n.ID.String()),
			zap.String("channel", job.channel),
			zap.Error(err),
		)
	}
	metrics.DeliveriesAttemptedTotal.WithLabelValues(job.channel, status, job.provider).Inc()

	attempt := &models.DeliveryAttempt{
		NotificationID: n.ID,
		Channel:        job.channel,
		Provider:       job.provider,
		Status:         status,
		Error:          result.Error,
		Try:            n.RetryCount + 1,
		LatencyMs:      result.LatencyMs,
	}
	if err := s.notifications.CreateAttempt(ctx, attempt); err != nil {
		s.log.Error("failed to record delivery attempt",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err),
		)
	}
	return result
}

// pushSound resolves the sound for a push: an explicit override in the
// payload wins, then the recipient's per-event sound map.
func (s *DeliveryService) pushSound(n *models.Notification, pref *models.NotificationPreference) string {
	if !pref.AudioPreferences.Enabled {
		return ""
	}
	if override, ok := n.Data["sound"].(string); ok && override != "" {
		return override
	}
	return pref.AudioPreferences.Sounds[n.Type]
}

func (s *DeliveryService) publishDLQ(ctx context.Context, n *models.Notification, results []types.ChannelResult) {
	if s.producer == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"notification": n,
		"per_channel":  results,
	})
	if err != nil {
		s.log.Error("failed to marshal DLQ payload", zap.Error(err))
		return
	}
	if err := s.producer.Publish(ctx, DLQTopic, n.ID[:], payload); err != nil {
		s.log.Error("failed to publish to DLQ",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err),
		)
	}
}
