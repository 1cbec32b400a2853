package main

import (
	"context"
	"fmt"
	"time"

	"files-manager/internal/cache"
	common_api "files-manager/internal/common/api"
	"files-manager/internal/common/models"
	"files-manager/internal/config"
	"files-manager/internal/database"
	"files-manager/internal/features/auth"
	"files-manager/internal/features/events"
	"files-manager/internal/features/file"
	"files-manager/internal/features/sweeper"
	"files-manager/internal/features/system"
	"files-manager/internal/features/user"
	"files-manager/internal/logger"
	"files-manager/internal/metrics"
	"files-manager/internal/middleware"

	_ "files-manager/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.MaxUploadBytes,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			} else {
				log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(models.ErrorResponse{Error: msg})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.AccessLogMiddleware(log))
	app.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, log *zap.Logger) {
	log.Info("registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		log.Debug("setting up route", zap.String("api", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				log.Info("listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					log.Error("server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, fileRepo file.FileRepository, userRepo user.UserRepository, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := fileRepo.EnsureIndexes(ctx); err != nil {
					log.Warn("ensure file indexes", zap.Error(err))
				}
				if err := userRepo.EnsureIndexes(ctx); err != nil {
					log.Warn("ensure user indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// StartSweeper runs the orphan blob sweeper for the lifetime of the app.
func StartSweeper(lc fx.Lifecycle, s *sweeper.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.InitializeScheduler(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return s.StopScheduler()
		},
	})
}

// @title           Files Manager API
// @version         1.0
// @description     Per-user file tree with metadata in MongoDB and content on local disk.

// @host            localhost:5000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Database
			database.NewDatabase,

			// Initialize Logger
			logger.NewLogger,

			// Session cache and metrics
			cache.NewCache,
			metrics.NewMetrics,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Repositories
			user.NewUserRepository,
			file.NewFileRepository,

			// Initialize Services
			user.NewUserService,
			auth.NewSessionService,
			file.NewHierarchyValidator,
			file.NewDiskStorage,
			file.NewFileService,
			events.NewHub,
			sweeper.NewSweeper,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(s auth.SessionService) middleware.SessionVerifier { return s },
			func(h *events.Hub) file.EventPublisher { return h },

			// Initialize Controller
			auth.NewAuthController,
			user.NewUserController,
			file.NewFileController,
			events.NewEventsController,
			system.NewHealthController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(file.NewFileApi),
			AsRoute(events.NewEventsApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewMetricsApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartSweeper,
			InitializeIndexes,
		),
	)

	app.Run()
}
