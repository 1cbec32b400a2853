package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"

	"files-manager/internal/config"
	"files-manager/internal/database"
	"files-manager/internal/features/user"
	"files-manager/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type seedUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Seed registers the users listed in SEED_FILE and skips those already present.
func Seed(
	lc fx.Lifecycle,
	userRepo user.UserRepository,
	userService user.UserService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx := context.Background()
				path := os.Getenv("SEED_FILE")
				if path == "" {
					path = "cmd/seed/data/users.json"
				}

				b, err := os.ReadFile(path)
				if err != nil {
					logger.Error("Failed to read seed file", zap.String("path", path), zap.Error(err))
					return
				}
				var users []seedUser
				if err := json.Unmarshal(b, &users); err != nil {
					logger.Error("Failed to parse seed file", zap.String("path", path), zap.Error(err))
					return
				}

				if err := userRepo.EnsureIndexes(ctx); err != nil {
					logger.Warn("Failed to ensure user indexes", zap.Error(err))
				}

				created := 0
				for _, u := range users {
					_, err := userService.Register(ctx, u.Email, u.Password)
					switch {
					case err == nil:
						created++
						logger.Info("User created", zap.String("email", u.Email))
					case errors.Is(err, user.ErrEmailTaken):
						logger.Info("User exists, skipping", zap.String("email", u.Email))
					default:
						logger.Error("Failed to create user", zap.String("email", u.Email), zap.Error(err))
					}
				}

				logger.Info("Seeding complete", zap.Int("created", created), zap.Int("total", len(users)))
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
			user.NewUserRepository,
			user.NewUserService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
