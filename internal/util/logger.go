package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a production logger when env is "production", a silent
// one for "test" and a development logger otherwise.
func NewLogger(env string) *zap.SugaredLogger {
	var logger *zap.SugaredLogger

	switch env {
	case "production":
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		logger = zap.Must(cfg.Build()).Sugar()
	case "test":
		logger = zap.NewNop().Sugar()
	default:
		logger = zap.Must(zap.NewDevelopment()).Sugar()
	}

	defer logger.Sync()

	return logger
}
