package auth

import (
	"encoding/base64"
	"errors"
	"strings"

	"files-manager/internal/common/models"
	"files-manager/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthController struct {
	SessionService SessionService
	Logger         *zap.Logger
}

func NewAuthController(sessionService SessionService, logger *zap.Logger) *AuthController {
	return &AuthController{
		SessionService: sessionService,
		Logger:         logger,
	}
}

type ConnectResponse struct {
	Token string `json:"token"`
}

// Connect godoc
// @Summary      Open a session
// @Description  Exchange Basic credentials (email:password) for an X-Token
// @Tags         auth
// @Produce      json
// @Param        Authorization header string true "Basic base64(email:password)"
// @Success      200  {object} ConnectResponse
// @Failure      401  {object} models.ErrorResponse
// @Router       /connect [get]
func (ctrl *AuthController) Connect(c *fiber.Ctx) error {
	email, password, ok := parseBasicAuth(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Unauthorized"})
	}

	token, err := ctrl.SessionService.Connect(c.UserContext(), email, password)
	if errors.Is(err, models.ErrUnauthenticated) {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Unauthorized"})
	}
	if err != nil {
		ctrl.Logger.Error("connect", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Internal server error"})
	}
	return c.JSON(ConnectResponse{Token: token})
}

// Disconnect godoc
// @Summary      Close a session
// @Tags         auth
// @Param        X-Token header string true "Session token"
// @Success      204
// @Failure      401  {object} models.ErrorResponse
// @Router       /disconnect [get]
func (ctrl *AuthController) Disconnect(c *fiber.Ctx) error {
	err := ctrl.SessionService.Disconnect(c.UserContext(), c.Get(middleware.TokenHeader))
	if errors.Is(err, models.ErrUnauthenticated) {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Unauthorized"})
	}
	if err != nil {
		ctrl.Logger.Error("disconnect", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Internal server error"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseBasicAuth(header string) (email, password string, ok bool) {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	email, password, ok = strings.Cut(string(decoded), ":")
	return email, password, ok
}
