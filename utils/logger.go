package utils

import (
	"log"

	"movecall/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instance.
var Logger *zap.Logger

// InitializeLogger sets up the logging configuration.
func InitializeLogger() {
	var cfg zap.Config

	if config.IsProduction() {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := zap.InfoLevel
	if err := level.Set(config.AppConfig.LogLevel); err != nil {
		level = zap.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	var err error
	Logger, err = cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
}

// GetLogger retrieves the global logger.
func GetLogger() *zap.Logger {
	if Logger == nil {
		InitializeLogger()
	}
	return Logger
}
