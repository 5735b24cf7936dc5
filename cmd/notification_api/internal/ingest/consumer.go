package ingest

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/naadiaramirezx/fitlife-notifications/cmd/notification_api/internal/services"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/kafka"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/types"
	"go.uber.org/zap"
)

// RequestTopic is where the other fitness services publish notification
// requests (plan expiry alerts, achievement unlocks, wearable health
// alerts).
const RequestTopic = "notification.request"

const consumerGroup = "notifications"

// HandleRequests consumes notification.request events and feeds them
// through the same create path as the HTTP API. Malformed or invalid events
// are logged and dropped; they never stop the loop.
func HandleRequests(ctx context.Context, broker string, svc *services.NotificationService, log *zap.Logger) {
	c := kafka.NewConsumer(RequestTopic, []string{broker}, consumerGroup)
	defer c.Close()

	log.Info("starting ingest consumer",
		zap.String("topic", RequestTopic),
		zap.String("broker", broker),
	)

	for {
		select {
		case <-ctx.Done():
			log.Info("ingest consumer shutting down", zap.String("topic", RequestTopic))
			return
		default:
			m, err := c.ReadFromKafka(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				log.Error("error reading from kafka", zap.String("topic", RequestTopic), zap.Error(err))
				continue
			}

			var event types.NotificationEvent
			if err := json.Unmarshal(m.Value, &event); err != nil {
				log.Error("dropping malformed notification event",
					zap.ByteString("raw", m.Value),
					zap.Error(err),
				)
				continue
			}

			notification, err := svc.CreateNotification(ctx, types.CreateNotificationRequest{
				RecipientID:  event.RecipientID,
				Type:         event.Type,
				Title:        event.Title,
				Message:      event.Message,
				Data:         event.Data,
				Channels:     event.Channels,
				Priority:     event.Priority,
				ScheduledFor: event.ScheduledFor,
			})
			if err != nil {
				if errors.Is(err, services.ErrValidation) {
					log.Warn("dropping invalid notification event",
						zap.String("type", event.Type),
						zap.Error(err),
					)
					continue
				}
				log.Error("failed to persist notification event", zap.Error(err))
				continue
			}

			log.Info("notification event ingested",
				zap.String("notification_id", notification.ID.String()),
				zap.String("type", notification.Type),
				zap.Int64("offset", m.Offset),
			)
		}
	}
}
