package main

import (
	"context"
	"log"

	"files-manager/internal/config"
	"files-manager/internal/database"
	"files-manager/internal/features/file"
	"files-manager/internal/features/sweeper"
	"files-manager/internal/logger"
	"files-manager/internal/metrics"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Sweep makes a single pass over FOLDER_PATH and exits.
func Sweep(lc fx.Lifecycle, s *sweeper.Sweeper, logger *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				code := 0
				defer func() {
					if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				removed, err := s.Run(context.Background())
				if err != nil {
					logger.Error("Sweep failed", zap.Int("removed", removed), zap.Error(err))
					code = 1
					return
				}
				logger.Info("Sweep complete", zap.String("root", s.Root), zap.Int("removed", removed))
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			database.NewDatabase,
			logger.NewLogger,
			metrics.NewMetrics,
			file.NewFileRepository,
			sweeper.NewSweeper,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Sweep),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
