package promptvault

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/banned104/lorakeep/internal/hash"
	"github.com/banned104/lorakeep/internal/models"
)

// MaxImageBytes is the largest attachment accepted per image.
const MaxImageBytes = 10 << 20

// extensionForMIME maps the accepted image content types to the file
// extension used when writing them out.
var extensionForMIME = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/bmp":  "bmp",
}

// ErrUnsupportedImageType is returned for content types outside the
// allow-list.
type ErrUnsupportedImageType struct {
	MIME string
}

func (e *ErrUnsupportedImageType) Error() string {
	return fmt.Sprintf("unsupported image type %q", e.MIME)
}

// ErrImageTooLarge is returned when an attachment exceeds MaxImageBytes.
type ErrImageTooLarge struct {
	Size int64
}

func (e *ErrImageTooLarge) Error() string {
	return fmt.Sprintf("image is %d bytes, limit is %d", e.Size, MaxImageBytes)
}

// ExtensionForType returns the output extension for an accepted MIME
// type, or false for anything outside the allow-list.
func ExtensionForType(mime string) (string, bool) {
	ext, ok := extensionForMIME[mime]
	return ext, ok
}

// NewImage validates and wraps raw image bytes as an attachment with a
// fresh id.
func NewImage(name, mime string, data []byte) (models.PromptImage, error) {
	if _, ok := extensionForMIME[mime]; !ok {
		return models.PromptImage{}, &ErrUnsupportedImageType{MIME: mime}
	}
	if int64(len(data)) > MaxImageBytes {
		return models.PromptImage{}, &ErrImageTooLarge{Size: int64(len(data))}
	}

	return models.PromptImage{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      mime,
		Size:      int64(len(data)),
		Data:      data,
		CreatedAt: time.Now().UnixMilli(),
	}, nil
}

// DedupeImages drops attachments whose bytes are identical to an
// earlier one in the list, keeping first occurrences.
func DedupeImages(images []models.PromptImage) []models.PromptImage {
	if len(images) < 2 {
		return images
	}

	seen := make(map[string]bool, len(images))
	out := images[:0:0]
	for _, img := range images {
		fp := hash.TruncatedSHA256Bytes(img.Data)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		out = append(out, img)
	}
	return out
}

// NewImageFromFile reads a file from disk and validates it as an
// attachment. The content type is sniffed from the leading bytes.
func NewImageFromFile(path string) (models.PromptImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.PromptImage{}, err
	}
	if info.Size() > MaxImageBytes {
		return models.PromptImage{}, &ErrImageTooLarge{Size: info.Size()}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.PromptImage{}, err
	}

	return NewImage(filepath.Base(path), http.DetectContentType(data), data)
}
