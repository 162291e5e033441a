package utils

import (
	"os"

	"go.uber.org/zap"
)

var logger *zap.Logger

// InitLogger builds the process-wide logger. APP_ENV=development switches to
// the console encoder at debug level; anything else logs production JSON.
func InitLogger() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	logger = l
}

// GetLogger returns the shared logger, initializing lazily so callers outside
// main never need InitLogger first.
func GetLogger() *zap.Logger {
	if logger == nil {
		InitLogger()
	}
	return logger
}
