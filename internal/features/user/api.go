package user

import (
	"files-manager/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserApi struct {
	controller *UserController
	verifier   middleware.SessionVerifier
	logger     *zap.Logger
}

func NewUserApi(controller *UserController, verifier middleware.SessionVerifier, logger *zap.Logger) *UserApi {
	return &UserApi{
		controller: controller,
		verifier:   verifier,
		logger:     logger,
	}
}

// Setup registers all user-related routes
func (h *UserApi) Setup(app *fiber.App) {
	app.Post("/users", h.controller.CreateUser)
	app.Get("/users/me", middleware.SessionMiddleware(h.verifier, h.logger), h.controller.GetMe)
}
