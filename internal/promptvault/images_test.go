package promptvault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banned104/lorakeep/internal/models"
)

// pngHeader is enough of a PNG signature for content-type sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestNewImage(t *testing.T) {
	data := []byte("fake image bytes")

	img, err := NewImage("pic.png", "image/png", data)
	require.NoError(t, err)

	assert.NotEmpty(t, img.ID)
	assert.Equal(t, "pic.png", img.Name)
	assert.Equal(t, "image/png", img.Type)
	assert.Equal(t, int64(len(data)), img.Size)
	assert.Equal(t, data, img.Data)
	assert.NotZero(t, img.CreatedAt)
}

func TestNewImageRejectsUnsupportedType(t *testing.T) {
	for _, mime := range []string{"image/tiff", "application/pdf", "text/html", ""} {
		_, err := NewImage("x", mime, []byte("data"))
		var typeErr *ErrUnsupportedImageType
		require.ErrorAs(t, err, &typeErr, "mime %q", mime)
		assert.Equal(t, mime, typeErr.MIME)
	}
}

func TestNewImageRejectsOversize(t *testing.T) {
	big := make([]byte, MaxImageBytes+1)

	_, err := NewImage("big.png", "image/png", big)
	var sizeErr *ErrImageTooLarge
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, int64(MaxImageBytes+1), sizeErr.Size)
}

func TestNewImageAcceptsLimitExactly(t *testing.T) {
	data := make([]byte, MaxImageBytes)

	_, err := NewImage("exact.png", "image/png", data)
	assert.NoError(t, err)
}

func TestExtensionForType(t *testing.T) {
	tests := []struct {
		mime string
		ext  string
		ok   bool
	}{
		{"image/jpeg", "jpg", true},
		{"image/jpg", "jpg", true},
		{"image/png", "png", true},
		{"image/gif", "gif", true},
		{"image/webp", "webp", true},
		{"image/bmp", "bmp", true},
		{"image/tiff", "", false},
		{"text/plain", "", false},
	}

	for _, tt := range tests {
		ext, ok := ExtensionForType(tt.mime)
		assert.Equal(t, tt.ok, ok, tt.mime)
		assert.Equal(t, tt.ext, ext, tt.mime)
	}
}

func TestDedupeImages(t *testing.T) {
	a, err := NewImage("a.png", "image/png", []byte("alpha"))
	require.NoError(t, err)
	b, err := NewImage("b.png", "image/png", []byte("beta"))
	require.NoError(t, err)
	aCopy, err := NewImage("copy.png", "image/png", []byte("alpha"))
	require.NoError(t, err)

	out := DedupeImages([]models.PromptImage{a, b, aCopy})

	require.Len(t, out, 2)
	assert.Equal(t, "a.png", out[0].Name)
	assert.Equal(t, "b.png", out[1].Name)
}

func TestDedupeImagesShortLists(t *testing.T) {
	assert.Nil(t, DedupeImages(nil))

	one, err := NewImage("one.png", "image/png", []byte("x"))
	require.NoError(t, err)
	out := DedupeImages([]models.PromptImage{one})
	assert.Len(t, out, 1)
}

func TestNewImageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))

	img, err := NewImageFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "shot.png", img.Name)
	assert.Equal(t, "image/png", img.Type)
	assert.Equal(t, int64(len(pngHeader)), img.Size)
}

func TestNewImageFromFileRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just plain text"), 0o644))

	_, err := NewImageFromFile(path)
	var typeErr *ErrUnsupportedImageType
	assert.ErrorAs(t, err, &typeErr)
}

func TestNewImageFromFileMissing(t *testing.T) {
	_, err := NewImageFromFile(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}
