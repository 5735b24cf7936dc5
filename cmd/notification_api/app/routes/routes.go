package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/naadiaramirezx/fitlife-notifications/cmd/notification_api/internal/handler"
	"github.com/naadiaramirezx/fitlife-notifications/middlewares"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Notifications(router *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, log *zap.Logger) {
	notificationHandler := handler.NewNotificationHandler(db, log)

	router.POST("/", middlewares.IdempotencyMiddleware(redisClient), notificationHandler.Create)
	router.GET("/:recipientId", notificationHandler.List)
	router.POST("/:id/read", notificationHandler.MarkRead)
}

func Preferences(router *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	preferenceHandler := handler.NewPreferenceHandler(db, log)

	router.GET("/:recipientId", preferenceHandler.Get)
	router.PATCH("/:recipientId", preferenceHandler.Update)
	router.POST("/:recipientId/devices", preferenceHandler.AddDeviceToken)
	router.DELETE("/:recipientId/devices/:token", preferenceHandler.RemoveDeviceToken)
}
