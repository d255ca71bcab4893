package artwork

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"melodex/internal/cache"
	"melodex/internal/domain"
	"melodex/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	images  *cache.ImageCache
}

func NewHandler(service *Service, images *cache.ImageCache) *Handler {
	return &Handler{
		service: service,
		images:  images,
	}
}

type applyExternalRequest struct {
	URL      string `json:"url" binding:"required"`
	Provider string `json:"provider" binding:"required"`
	// ReplaceLocal defaults to true: external enrichment supersedes a
	// locally sourced image unless the caller opts out.
	ReplaceLocal *bool `json:"replace_local"`
}

// applyExternal handles POST /api/v1/{artists|albums}/:id/images/:slot
func (h *Handler) applyExternal(kind domain.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, slot, ok := parseTarget(c, kind)
		if !ok {
			return
		}

		var req applyExternalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_INPUT", "url and provider are required", err.Error())
			return
		}

		replaceLocal := true
		if req.ReplaceLocal != nil {
			replaceLocal = *req.ReplaceLocal
		}

		res, err := h.service.ApplyExternal(c.Request.Context(), kind, id, slot, req.URL, req.Provider, replaceLocal)
		if err != nil {
			handleError(c, err)
			return
		}

		response.Success(c, http.StatusOK, res)
	}
}

// deleteImage handles DELETE /api/v1/{artists|albums}/:id/images/:slot
func (h *Handler) deleteImage(kind domain.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, slot, ok := parseTarget(c, kind)
		if !ok {
			return
		}

		res, err := h.service.DeleteImage(c.Request.Context(), kind, id, slot)
		if err != nil {
			handleError(c, err)
			return
		}

		response.Success(c, http.StatusOK, res)
	}
}

// uploadCustom handles POST /api/v1/{artists|albums}/:id/images/:slot/custom
// with a single multipart "file" field.
func (h *Handler) uploadCustom(kind domain.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, slot, ok := parseTarget(c, kind)
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "a single 'file' field is required")
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "could not read uploaded file")
			return
		}
		defer file.Close()

		uploadedBy := c.GetInt64("user_id")
		asset, err := h.service.UploadCustom(
			c.Request.Context(),
			kind, id, slot,
			fileHeader.Filename,
			fileHeader.Size,
			fileHeader.Header.Get("Content-Type"),
			file,
			uploadedBy,
		)
		if err != nil {
			handleError(c, err)
			return
		}

		response.Success(c, http.StatusCreated, asset)
	}
}

// listCustom handles GET /api/v1/{artists|albums}/:id/images/:slot/custom
func (h *Handler) listCustom(kind domain.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, slot, ok := parseTarget(c, kind)
		if !ok {
			return
		}

		assets, err := h.service.ListCustom(c.Request.Context(), kind, id, slot)
		if err != nil {
			handleError(c, err)
			return
		}

		response.Success(c, http.StatusOK, gin.H{"assets": assets})
	}
}

// ApplyCustomAsset handles POST /api/v1/custom-assets/:id/apply
func (h *Handler) ApplyCustomAsset(c *gin.Context) {
	assetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid asset id")
		return
	}

	res, err := h.service.ApplyCustom(c.Request.Context(), assetID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// DeleteCustomAsset handles DELETE /api/v1/custom-assets/:id
func (h *Handler) DeleteCustomAsset(c *gin.Context) {
	assetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid asset id")
		return
	}

	res, err := h.service.DeleteCustom(c.Request.Context(), assetID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// serveImage handles GET /api/v1/{artists|albums}/:id/images/:slot and
// returns the currently displayed image: active custom asset, else external,
// else local. Bytes come from the process-local cache when present.
func (h *Handler) serveImage(kind domain.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, slot, ok := parseTarget(c, kind)
		if !ok {
			return
		}

		if data, ok := h.images.Get(kind, id, slot); ok {
			c.Data(http.StatusOK, sniffImageContentType(data), data)
			return
		}

		path, err := h.service.DisplayImagePath(c.Request.Context(), kind, id, slot)
		if err != nil {
			handleError(c, err)
			return
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				response.Error(c, http.StatusNotFound, "NOT_FOUND", "image file is missing")
				return
			}
			handleError(c, err)
			return
		}

		h.images.Put(kind, id, slot, data)
		c.Data(http.StatusOK, contentTypeFor(filepath.Ext(path)), data)
	}
}

func parseTarget(c *gin.Context, kind domain.EntityKind) (int64, domain.ImageSlot, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid entity id")
		return 0, "", false
	}

	slot, ok := domain.ParseImageSlot(c.Param("slot"))
	if !ok || !slot.ValidFor(kind) {
		response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "unknown image slot for "+string(kind))
		return 0, "", false
	}

	return id, slot, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, ErrInvalidImage):
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_IMAGE", err.Error())
	case errors.Is(err, ErrDownloadFailed):
		response.Error(c, http.StatusBadGateway, "DOWNLOAD_FAILED", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// sniffImageContentType inspects magic bytes for cached data, which carries
// no file path.
func sniffImageContentType(data []byte) string {
	if len(data) >= 4 && string(data[1:4]) == "PNG" {
		return "image/png"
	}
	if len(data) >= 12 && string(data[8:12]) == "WEBP" {
		return "image/webp"
	}
	return "image/jpeg"
}
