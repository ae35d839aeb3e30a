package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skilllink/skilllink-client/internal/core/ports"
)

// UploadHandler accepts multipart file uploads.
type UploadHandler struct {
	api ports.MarketplaceAPI
}

func NewUploadHandler(api ports.MarketplaceAPI) *UploadHandler {
	return &UploadHandler{api: api}
}

func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	kind := c.FormValue("type")
	if kind == "" {
		kind = "document"
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer src.Close()

	url, err := h.api.UploadFile(c.Request().Context(), ports.UploadInput{
		FileName: fh.Filename,
		Kind:     kind,
		Content:  src,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]string{"url": url})
}
