package core

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger replaces the global logger with a production logger at level.
func NewLogger(level string) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		zap.L().Warn("Unknown log level, keeping info", zap.String("level", level))
		atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	config := zap.NewProductionConfig()
	config.Level = atomicLevel

	logger, err := config.Build()
	if err != nil {
		zap.L().Fatal("Failed to build logger", zap.Error(err))
	}
	zap.ReplaceGlobals(logger)
}
