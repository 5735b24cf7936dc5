package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/naadiaramirezx/fitlife-notifications/cmd/notification_api/internal/ingest"
	"github.com/naadiaramirezx/fitlife-notifications/cmd/notification_api/internal/scheduler"
	"github.com/naadiaramirezx/fitlife-notifications/cmd/notification_api/internal/services"
	"github.com/naadiaramirezx/fitlife-notifications/cmd/notification_api/app/routes"
	"github.com/naadiaramirezx/fitlife-notifications/logger"
	"github.com/naadiaramirezx/fitlife-notifications/metrics"
	"github.com/naadiaramirezx/fitlife-notifications/middlewares"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/config"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/database"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/kafka"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/models"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/repositories"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/utils"
	"github.com/naadiaramirezx/fitlife-notifications/tracing"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	logr, err := logger.InitLogger()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	defer logr.Sync()

	dsn := os.Getenv("NOTIFICATIONS_DB")
	db, err := database.InitDB(dsn)
	if err != nil {
		logr.Fatal("DB not initialized", zap.Error(err))
	}
	if err := database.MigrateDB(db,
		&models.Notification{},
		&models.NotificationPreference{},
		&models.DeliveryAttempt{},
	); err != nil {
		logr.Fatal("migration failed", zap.Error(err))
	}

	redisClient := database.InitRedis(utils.GetEnvDefault("REDIS_ADDR", "localhost:6379"))

	cfg, err := config.LoadConfig(utils.GetEnvDefault("CONFIG_PATH", "./config.yaml"))
	if err != nil {
		logr.Fatal("failed to load config", zap.Error(err))
	}

	metrics.InitAPIMetrics()
	shutdownTracer := tracing.InitTracer("notification_api", logr)
	defer shutdownTracer()
	tracer := otel.Tracer("notification_api")

	broker := utils.GetEnv("KAFKA_BROKER")
	producer := kafka.NewProducer([]string{broker})
	logr.Info("Kafka producer initialized", zap.String("broker", broker))

	pushSender, err := config.BuildPushSender(cfg)
	if err != nil {
		logr.Fatal(err.Error(), zap.Error(err))
	}
	mailer, err := config.BuildMailer(cfg)
	if err != nil {
		logr.Fatal(err.Error(), zap.Error(err))
	}
	smsSender, err := config.BuildSMSSender(cfg)
	if err != nil {
		logr.Fatal(err.Error(), zap.Error(err))
	}

	notificationRepo := repositories.NewNotificationRepository(db)
	preferenceRepo := repositories.NewPreferenceRepository(db)

	delivery := services.NewDeliveryService(
		notificationRepo,
		preferenceRepo,
		pushSender,
		mailer,
		smsSender,
		producer,
		cfg.Scheduler.MaxRetries,
		logr,
		tracer,
	)

	dueTick, err := cfg.Scheduler.DueTick()
	if err != nil {
		logr.Fatal("invalid due_interval", zap.Error(err))
	}
	expansionTick, err := cfg.Scheduler.ExpansionTick()
	if err != nil {
		logr.Fatal("invalid expansion_interval", zap.Error(err))
	}

	sched := scheduler.New(
		notificationRepo,
		preferenceRepo,
		delivery,
		dueTick,
		expansionTick,
		cfg.Scheduler.Fanout,
		logr,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sched.Start(ctx); err != nil && err != context.Canceled {
			logr.Error("scheduler stopped", zap.Error(err))
		}
	}()

	ingestService := services.NewNotificationService(notificationRepo)
	go ingest.HandleRequests(ctx, broker, ingestService, logr)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.GinMetricsMiddleware())
	router.Use(middlewares.NewRateLimiter(rate.Limit(50), 100).Middleware())

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api")
	routes.Notifications(v1.Group("/notifications"), db, redisClient, logr)
	routes.Preferences(v1.Group("/preferences"), db, logr)

	go handleShutdown(cancel, producer, logr)
	if err := router.Run(":" + utils.GetEnvDefault("PORT", "3000")); err != nil {
		logr.Fatal("Failed to start server", zap.Error(err))
	}
}

func handleShutdown(cancel context.CancelFunc, producer *kafka.Producer, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Shutdown signal received", zap.String("signal", sig.String()))

	cancel()
	if err := producer.Close(); err != nil {
		log.Error("Error closing Kafka producer", zap.Error(err))
	} else {
		log.Info("Kafka producer closed cleanly")
	}

	os.Exit(0)
}
