package handlers

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"profile-service/internal/media"
	"profile-service/internal/metrics"
	"profile-service/internal/services"
	"profile-service/internal/storage"
	"profile-service/internal/utils"
)

type UploadHandler struct {
	svc    *services.UploadService
	store  storage.BlobStore
	logger *zap.SugaredLogger
}

func NewUploadHandler(svc *services.UploadService, store storage.BlobStore, logger *zap.SugaredLogger) *UploadHandler {
	return &UploadHandler{svc: svc, store: store, logger: logger}
}

// POST /api/upload/photo (multipart fields 'photo' and 'userId')
func (h *UploadHandler) UploadPhoto(c *fiber.Ctx) error {
	return h.upload(c, media.ClassPhoto, "photo")
}

// POST /api/upload/video (multipart fields 'video' and 'userId')
func (h *UploadHandler) UploadVideo(c *fiber.Ctx) error {
	return h.upload(c, media.ClassVideo, "video")
}

func (h *UploadHandler) upload(c *fiber.Ctx, class media.AssetClass, field string) error {
	userID := c.FormValue("userId")
	if userID == "" {
		return utils.JSONError(c, fiber.StatusBadRequest, "userId is required")
	}

	fileHeader, err := c.FormFile(field)
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "No file uploaded")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "cannot open file")
	}
	defer f.Close()

	// declared type from the transport envelope; content is not sniffed
	ct := fileHeader.Header.Get("Content-Type")

	ref, err := h.svc.Upload(c.UserContext(), userID, class, fileHeader.Filename, ct, fileHeader.Size, f)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrUnsupportedType), errors.Is(err, utils.ErrTooLarge):
			metrics.UploadsTotal.WithLabelValues(string(class), "rejected").Inc()
			return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, utils.ErrUploadAborted):
			metrics.UploadsTotal.WithLabelValues(string(class), "aborted").Inc()
			return utils.JSONError(c, fiber.StatusBadRequest, "upload aborted")
		default:
			metrics.UploadsTotal.WithLabelValues(string(class), "failed").Inc()
			h.logger.Errorw("upload failed", "class", class, "user_id", userID, "error", err)
			return utils.JSONError(c, fiber.StatusInternalServerError, "upload failed")
		}
	}

	metrics.UploadsTotal.WithLabelValues(string(class), "ok").Inc()
	return c.JSON(fiber.Map{"url": ref.URL})
}

// GET /uploads/* streams a stored blob; works against any storage backend.
func (h *UploadHandler) Serve(c *fiber.Ctx) error {
	key := c.Params("*")
	if strings.Contains(key, "..") {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid path")
	}
	rc, err := h.store.Get(c.UserContext(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.JSONError(c, fiber.StatusNotFound, "not found")
		}
		h.logger.Errorw("blob read failed", "key", key, "error", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "storage error")
	}
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		c.Set(fiber.HeaderContentType, ct)
	}
	return c.SendStream(rc)
}
