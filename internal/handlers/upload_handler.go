package handlers

import (
	"net/http"

	"github.com/boxerly/backend/pkg/storage"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// UploadHandler hands out presigned URLs for media uploads. The server never
// proxies file bytes.
type UploadHandler struct {
	storage *storage.Service
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(storageService *storage.Service) *UploadHandler {
	return &UploadHandler{storage: storageService}
}

// RegisterUploadRoutes registers upload-related routes
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/uploads/presign", h.PresignUpload)
	g.GET("/uploads/url", h.PresignRead)
}

// PresignUploadRequest defines the request body for a presigned upload URL
type PresignUploadRequest struct {
	FileName    string `json:"file_name" validate:"required,max=200"`
	ContentType string `json:"content_type" validate:"required,max=100"`
	Kind        string `json:"kind" validate:"required,oneof=avatar combat"`
}

// PresignUpload generates a presigned PUT URL for a media upload
func (h *UploadHandler) PresignUpload(c echo.Context) error {
	if h.storage == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Object storage is not configured")
	}

	var req PresignUploadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	prefix := "avatars"
	if req.Kind == "combat" {
		prefix = "combats"
	}

	url, key, err := h.storage.GenerateUploadURL(c.Request().Context(), prefix, req.FileName, req.ContentType)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"upload_url": url, "key": key})
}

// PresignRead generates a presigned GET URL for a stored object
func (h *UploadHandler) PresignRead(c echo.Context) error {
	if h.storage == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Object storage is not configured")
	}

	key := c.QueryParam("key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing object key")
	}

	url, err := h.storage.GenerateReadURL(c.Request().Context(), key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"url": url})
}
