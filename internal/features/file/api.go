package file

import (
	"files-manager/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type FileApi struct {
	controller *FileController
	verifier   middleware.SessionVerifier
	logger     *zap.Logger
}

func NewFileApi(controller *FileController, verifier middleware.SessionVerifier, logger *zap.Logger) *FileApi {
	return &FileApi{
		controller: controller,
		verifier:   verifier,
		logger:     logger,
	}
}

func (h *FileApi) Setup(app *fiber.App) {
	files := app.Group("/files", middleware.SessionMiddleware(h.verifier, h.logger))
	files.Post("/", h.controller.PostUpload)
	files.Get("/", h.controller.GetIndex)
	files.Get("/:id", h.controller.GetShow)
}
