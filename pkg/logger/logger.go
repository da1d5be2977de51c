package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerConfig struct {
	Debug bool
	// OutputPaths defaults to stdout
	OutputPaths []string
}

// NewLogger builds a JSON zap logger. Debug lowers the level to debug.
func NewLogger(cfg *LoggerConfig, options ...zap.Option) (*zap.Logger, error) {
	mergedOptions := []zap.Option{
		zap.WithCaller(true),
	}
	mergedOptions = append(mergedOptions, options...)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zap.InfoLevel
	if cfg != nil && cfg.Debug {
		level = zap.DebugLevel
	}

	outputPaths := []string{"stdout"}
	if cfg != nil && len(cfg.OutputPaths) > 0 {
		outputPaths = cfg.OutputPaths
	}

	c := &zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	return c.Build(mergedOptions...)
}
