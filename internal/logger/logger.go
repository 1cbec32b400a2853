package logger

import (
	"context"

	"files-manager/internal/config"
	"files-manager/internal/database"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger builds the process logger. With LOG_TO_DB set, warn and error
// entries are mirrored into the "logs" collection by a background writer.
func NewLogger(lc fx.Lifecycle, cfg *config.Config, mongodb *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	if !cfg.LogToDB {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				_ = baseLogger.Sync()
				return nil
			},
		})
		return baseLogger, nil
	}

	writer := NewDBLogWriter(mongodb.DB.Collection("logs"))
	logger := zap.New(NewDBCore(baseLogger.Core(), writer), zap.AddCaller())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = logger.Sync()
			return writer.Close(ctx)
		},
	})
	return logger, nil
}
