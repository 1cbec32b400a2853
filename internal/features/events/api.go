package events

import (
	"files-manager/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type EventsApi struct {
	controller *EventsController
	verifier   middleware.SessionVerifier
	logger     *zap.Logger
}

func NewEventsApi(controller *EventsController, verifier middleware.SessionVerifier, logger *zap.Logger) *EventsApi {
	return &EventsApi{
		controller: controller,
		verifier:   verifier,
		logger:     logger,
	}
}

func (h *EventsApi) Setup(app *fiber.App) {
	app.Get("/ws/files",
		middleware.SessionMiddleware(h.verifier, h.logger),
		requireUpgrade,
		websocket.New(h.controller.Stream),
	)
}

func requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
