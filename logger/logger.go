package logger

import (
	"os"

	"go.uber.org/zap"
)

// InitLogger builds the process-wide zap logger. Production JSON config by
// default, switched to the development console encoder when APP_ENV=dev.
func InitLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "dev" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
