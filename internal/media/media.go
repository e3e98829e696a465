package media

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"time"

	"profile-service/internal/utils"
)

// AssetClass is the upload category; each class has its own size/type policy.
type AssetClass string

const (
	ClassPhoto AssetClass = "photo"
	ClassVideo AssetClass = "video"
)

// Dir returns the storage prefix for the class. Videos live under "videos"
// (plural) while photos live under "photo" - the layout the static file
// server expects.
func (c AssetClass) Dir() string {
	if c == ClassVideo {
		return "videos"
	}
	return string(c)
}

type policy struct {
	allowedTypes map[string]bool
	maxSize      int64
}

var policies = map[AssetClass]policy{
	ClassPhoto: {
		allowedTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/gif":  true,
		},
		maxSize: 10 * 1024 * 1024,
	},
	ClassVideo: {
		allowedTypes: map[string]bool{
			"video/mp4":       true,
			"video/webm":      true,
			"video/quicktime": true,
		},
		maxSize: 100 * 1024 * 1024,
	},
}

// Validate checks the declared content type and size against the class
// policy. It runs before any byte is written to storage. The declared type
// comes from the multipart envelope and is not verified against content.
func Validate(class AssetClass, contentType string, size int64) error {
	p, ok := policies[class]
	if !ok {
		return fmt.Errorf("%w: unknown asset class %q", utils.ErrUnsupportedType, class)
	}
	if !p.allowedTypes[contentType] {
		return fmt.Errorf("%w: %s", utils.ErrUnsupportedType, contentType)
	}
	if size > p.maxSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", utils.ErrTooLarge, size, p.maxSize)
	}
	return nil
}

// NewObjectName builds a collision-resistant file name from the capture-time
// instant and a random disambiguator, keeping the original extension:
// "1717689600123-482910473.png". No global counter or lock involved.
func NewObjectName(originalFilename string) string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	suffix := binary.BigEndian.Uint32(b[:]) % 1_000_000_000
	ext := filepath.Ext(originalFilename)
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), suffix, ext)
}

// ObjectKey namespaces an object name by asset class and owner.
func ObjectKey(class AssetClass, userID, name string) string {
	return class.Dir() + "/" + userID + "/" + name
}
