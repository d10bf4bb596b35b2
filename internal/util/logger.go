package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "ongkir-service"

// Version is stamped at build time with
// -ldflags "-X ongkir-service/internal/util.Version=<tag>".
var Version = "dev"

var logger *zap.Logger

// InitLogger initializes the global logger. Production emits JSON at info
// level; anything else gets the colored development console at debug level.
// Every entry carries the service name, version and environment.
func InitLogger(env string, opts ...zap.Option) error {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	built, err := config.Build(opts...)
	if err != nil {
		return err
	}

	logger = built.With(
		zap.String("service", serviceName),
		zap.String("version", Version),
		zap.String("env", env),
	)
	zap.ReplaceGlobals(logger)
	return nil
}

// GetLogger returns the global logger
func GetLogger() *zap.Logger {
	if logger == nil {
		logger, _ = zap.NewDevelopment()
	}
	return logger
}

// SyncLogger flushes any buffered log entries
func SyncLogger() {
	if logger != nil {
		_ = logger.Sync()
	}
}
