package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"profile-service/internal/media"
	"profile-service/internal/models"
	"profile-service/internal/storage"
	"profile-service/internal/utils"
)

// UploadService validates a submitted file and streams it into the blob
// store under a collision-resistant, owner-namespaced key. It never touches
// profile records; attaching the returned reference is the caller's job.
type UploadService struct {
	store      storage.BlobStore
	thumbnails bool
	logger     *zap.SugaredLogger
}

func NewUploadService(store storage.BlobStore, thumbnails bool, logger *zap.SugaredLogger) *UploadService {
	return &UploadService{store: store, thumbnails: thumbnails, logger: logger}
}

// Upload runs validation before any byte is persisted, then writes the
// stream under "{class-dir}/{userID}/{name}". A failed or abandoned write
// leaves no blob retrievable under the key.
func (s *UploadService) Upload(ctx context.Context, userID string, class media.AssetClass, filename, contentType string, size int64, r io.Reader) (*models.MediaReference, error) {
	if err := media.Validate(class, contentType, size); err != nil {
		return nil, err
	}

	name := media.NewObjectName(filename)
	key := media.ObjectKey(class, userID, name)

	src := r
	var buf bytes.Buffer
	if s.thumbnails && class == media.ClassPhoto {
		src = io.TeeReader(r, &buf)
	}

	if err := s.store.Put(ctx, key, contentType, src); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %v", utils.ErrUploadAborted, err)
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrStorageFailure, err)
	}

	ref := &models.MediaReference{
		UserID:      userID,
		Key:         key,
		URL:         "/uploads/" + key,
		Type:        string(class),
		Size:        size,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}

	if s.thumbnails && class == media.ClassPhoto {
		if thumbKey, err := s.putThumbnail(ctx, key, buf.Bytes()); err != nil {
			s.logger.Warnw("thumbnail generation failed", "key", key, "error", err)
		} else {
			ref.Thumbnail = thumbKey
		}
	}
	return ref, nil
}

// putThumbnail stores a 320px JPEG preview next to the original. Best-effort:
// the upload already succeeded when this runs.
func (s *UploadService) putThumbnail(ctx context.Context, key string, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	thumb := imaging.Resize(img, 320, 0, imaging.Lanczos)
	var out bytes.Buffer
	if err := imaging.Encode(&out, thumb, imaging.JPEG); err != nil {
		return "", err
	}
	thumbKey := key + "_thumb.jpg"
	if err := s.store.Put(ctx, thumbKey, "image/jpeg", &out); err != nil {
		return "", err
	}
	return thumbKey, nil
}
