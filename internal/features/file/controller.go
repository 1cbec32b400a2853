package file

import (
	"errors"
	"strconv"

	"files-manager/internal/common/models"
	"files-manager/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type FileController struct {
	FileService FileService
	Logger      *zap.Logger
}

func NewFileController(fileService FileService, logger *zap.Logger) *FileController {
	return &FileController{
		FileService: fileService,
		Logger:      logger,
	}
}

// UploadRequest is the POST /files body. ParentID may be the number 0,
// the string "0" or a folder id.
type UploadRequest struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	ParentID interface{} `json:"parentId,omitempty" swaggertype:"string"`
	IsPublic bool        `json:"isPublic"`
	Data     string      `json:"data,omitempty"`
}

// PostUpload godoc
// @Summary      Create a file, image or folder
// @Description  Non-folder types carry their content as base64 in data.
// @Tags         files
// @Accept       json
// @Produce      json
// @Param        X-Token header string true "Session token"
// @Param        input body UploadRequest true "File"
// @Success      201  {object} File
// @Failure      400  {object} models.ErrorResponse
// @Failure      401  {object} models.ErrorResponse
// @Failure      500  {object} models.ErrorResponse
// @Router       /files [post]
func (ctrl *FileController) PostUpload(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Unauthorized"})
	}

	var req UploadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid request body"})
	}

	f, err := ctrl.FileService.Upload(c.UserContext(), userID, UploadInput{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: parentIDString(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		return ctrl.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

// GetShow godoc
// @Summary      Get one file
// @Tags         files
// @Produce      json
// @Param        X-Token header string true "Session token"
// @Param        id path string true "File ID"
// @Success      200  {object} File
// @Failure      401  {object} models.ErrorResponse
// @Failure      404  {object} models.ErrorResponse
// @Router       /files/{id} [get]
func (ctrl *FileController) GetShow(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Unauthorized"})
	}

	f, err := ctrl.FileService.Show(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return ctrl.writeError(c, err)
	}
	return c.JSON(f)
}

// GetIndex godoc
// @Summary      List a folder
// @Description  Up to 20 of the caller's entries directly under parentId (default root).
// @Tags         files
// @Produce      json
// @Param        X-Token header string true "Session token"
// @Param        parentId query string false "Folder ID or 0"
// @Param        page query int false "Zero-based page" default(0)
// @Success      200  {array} File
// @Failure      401  {object} models.ErrorResponse
// @Router       /files [get]
func (ctrl *FileController) GetIndex(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Unauthorized"})
	}

	files, err := ctrl.FileService.List(c.UserContext(), userID, ListInput{
		ParentID: c.Query("parentId"),
		Page:     c.QueryInt("page", 0),
	})
	if err != nil {
		return ctrl.writeError(c, err)
	}
	return c.JSON(files)
}

func (ctrl *FileController) writeError(c *fiber.Ctx, err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: verr.Reason})
	case errors.Is(err, ErrParentNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Parent not found"})
	case errors.Is(err, ErrParentNotAFolder):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Parent is not a folder"})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "Not found"})
	case errors.Is(err, ErrStorageWriteFailed):
		ctrl.Logger.Error("store upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Cannot store file"})
	default:
		ctrl.Logger.Error("files request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Internal server error"})
	}
}

// parentIDString normalises the decoded JSON parentId for ParseParentRef.
func parentIDString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		// Not a number or string: hand over something that cannot parse.
		return "invalid"
	}
}
