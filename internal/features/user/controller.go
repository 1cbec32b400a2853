package user

import (
	"errors"

	"files-manager/internal/common/models"
	"files-manager/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserController struct {
	UserService UserService
	Logger      *zap.Logger
}

func NewUserController(userService UserService, logger *zap.Logger) *UserController {
	return &UserController{
		UserService: userService,
		Logger:      logger,
	}
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUser godoc
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body CreateUserRequest true "Credentials"
// @Success      201  {object} UserResponse
// @Failure      400  {object} models.ErrorResponse
// @Router       /users [post]
func (ctrl *UserController) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid request body"})
	}

	u, err := ctrl.UserService.Register(c.UserContext(), req.Email, req.Password)
	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(u.Response())
	case errors.Is(err, ErrMissingEmail):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Missing email"})
	case errors.Is(err, ErrMissingPassword):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Missing password"})
	case errors.Is(err, ErrEmailTaken):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Already exist"})
	default:
		ctrl.Logger.Error("register user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Internal server error"})
	}
}

// GetMe godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Param        X-Token header string true "Session token"
// @Success      200  {object} UserResponse
// @Failure      401  {object} models.ErrorResponse
// @Router       /users/me [get]
func (ctrl *UserController) GetMe(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Unauthorized"})
	}

	u, err := ctrl.UserService.GetUser(c.UserContext(), userID)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Unauthorized"})
	}
	if err != nil {
		ctrl.Logger.Error("get current user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Internal server error"})
	}
	return c.JSON(u.Response())
}
