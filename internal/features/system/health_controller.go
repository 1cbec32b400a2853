package system

import (
	"context"

	"files-manager/internal/cache"
	"files-manager/internal/common/models"
	"files-manager/internal/database"
	"files-manager/internal/features/file"
	"files-manager/internal/features/user"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthChecker reports whether a backing store answers.
type HealthChecker interface {
	Alive(ctx context.Context) bool
}

// Counter reports the number of records in a collection.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type StatusResponse struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

type StatsResponse struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

type HealthController struct {
	Cache  HealthChecker
	DB     HealthChecker
	Users  Counter
	Files  Counter
	Logger *zap.Logger
}

func NewHealthController(
	c cache.Cache,
	db *database.MongodbDB,
	userRepo user.UserRepository,
	fileRepo file.FileRepository,
	logger *zap.Logger,
) *HealthController {
	return &HealthController{
		Cache:  c,
		DB:     db,
		Users:  userRepo,
		Files:  fileRepo,
		Logger: logger,
	}
}

// GetStatus godoc
// @Summary      Backend liveness
// @Description  The redis field reports the session cache, whichever driver backs it.
// @Tags         system
// @Produce      json
// @Success      200  {object} StatusResponse
// @Router       /status [get]
func (ctrl *HealthController) GetStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()
	return c.JSON(StatusResponse{
		Redis: ctrl.Cache.Alive(ctx),
		DB:    ctrl.DB.Alive(ctx),
	})
}

// GetStats godoc
// @Summary      Record counts
// @Tags         system
// @Produce      json
// @Success      200  {object} StatsResponse
// @Failure      500  {object} models.ErrorResponse
// @Router       /stats [get]
func (ctrl *HealthController) GetStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	users, err := ctrl.Users.Count(ctx)
	if err != nil {
		ctrl.Logger.Error("count users", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Internal server error"})
	}
	files, err := ctrl.Files.Count(ctx)
	if err != nil {
		ctrl.Logger.Error("count files", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Internal server error"})
	}

	return c.JSON(StatsResponse{Users: users, Files: files})
}
