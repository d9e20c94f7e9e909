package handlers

import (
	"mime"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// maxUploadBytes caps a single map image upload.
const maxUploadBytes = 10 << 20

type uploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
}

type uploadResponse struct {
	StorageID string `json:"storageId"`
}

func (h *Handler) GenerateUploadURL(c echo.Context) error {
	url, err := h.svc.Tracks.GenerateUploadURL(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, uploadURLResponse{UploadURL: url})
}

// Upload stores the raw request body under a one-shot upload token.
func (h *Handler) Upload(c echo.Context) error {
	req := c.Request()
	body := http.MaxBytesReader(c.Response(), req.Body, maxUploadBytes)
	id, err := h.blobs.Put(req.Context(), c.Param("token"), req.Header.Get(echo.HeaderContentType), body)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, uploadResponse{StorageID: id})
}

func (h *Handler) Download(c echo.Context) error {
	f, contentType, err := h.blobs.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	defer f.Close()

	header := c.Response().Header()
	header.Set(echo.HeaderXContentTypeOptions, "nosniff")
	if !inlineImage(contentType) {
		header.Set(echo.HeaderContentDisposition, "attachment")
	}
	return c.Stream(http.StatusOK, contentType, f)
}

// inlineImage reports whether a stored content type may render in the
// browser. SVG can carry script and is downloaded like everything else.
func inlineImage(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "image/") && mt != "image/svg+xml"
}
