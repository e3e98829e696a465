package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"profile-service/internal/services"
	"profile-service/internal/storage"
)

type uploadResponse struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

func newUploadApp(store *storage.MemoryStore) *fiber.App {
	logger := zap.NewNop().Sugar()
	svc := services.NewUploadService(store, false, logger)
	h := NewUploadHandler(svc, store, logger)

	app := fiber.New(fiber.Config{BodyLimit: 110 * 1024 * 1024})
	app.Post("/api/upload/photo", h.UploadPhoto)
	app.Post("/api/upload/video", h.UploadVideo)
	app.Get("/uploads/*", h.Serve)
	return app
}

func multipartBody(t *testing.T, field, filename, contentType, userID string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if userID != "" {
		require.NoError(t, w.WriteField("userId", userID))
	}
	if field != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeResponse(t *testing.T, resp *http.Response) uploadResponse {
	t.Helper()
	defer resp.Body.Close()
	var out uploadResponse
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestUploadPhotoSuccess(t *testing.T) {
	store := storage.NewMemoryStore()
	app := newUploadApp(store)

	payload := bytes.Repeat([]byte{0x42}, 5*1024*1024)
	body, ct := multipartBody(t, "photo", "me.png", "image/png", "u1", payload)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/photo", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.Regexp(t, regexp.MustCompile(`^/uploads/photo/u1/\d+-\d+\.png$`), out.URL)

	// the returned path resolves to the original bytes
	getReq := httptest.NewRequest(http.MethodGet, out.URL, nil)
	getResp, err := app.Test(getReq, -1)
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
	got, err := io.ReadAll(getResp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestUploadVideoSuccess(t *testing.T) {
	store := storage.NewMemoryStore()
	app := newUploadApp(store)

	body, ct := multipartBody(t, "video", "clip.mp4", "video/mp4", "u7", []byte("mp4 bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/video", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.Regexp(t, regexp.MustCompile(`^/uploads/videos/u7/\d+-\d+\.mp4$`), out.URL)
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	store := storage.NewMemoryStore()
	app := newUploadApp(store)

	body, ct := multipartBody(t, "photo", "doc.pdf", "application/pdf", "u1", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/photo", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.NotEmpty(t, out.Error)
	assert.Equal(t, 0, store.Len(), "no file may appear under the upload namespace")
}

func TestUploadMissingFile(t *testing.T) {
	app := newUploadApp(storage.NewMemoryStore())

	body, ct := multipartBody(t, "", "", "", "u1", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/photo", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No file uploaded", decodeResponse(t, resp).Error)
}

func TestUploadMissingUserID(t *testing.T) {
	app := newUploadApp(storage.NewMemoryStore())

	body, ct := multipartBody(t, "photo", "me.png", "image/png", "", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/photo", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadWrongFieldName(t *testing.T) {
	store := storage.NewMemoryStore()
	app := newUploadApp(store)

	// photo field on the video endpoint
	body, ct := multipartBody(t, "photo", "clip.mp4", "video/mp4", "u1", []byte("mp4"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/video", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, store.Len())
}

func TestServeUnknownKey(t *testing.T) {
	app := newUploadApp(storage.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/uploads/photo/u1/absent.png", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
