package promptvault

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banned104/lorakeep/internal/models"
)

func samplePrompts(t *testing.T) []models.PromptEntry {
	t.Helper()

	img, err := NewImage("scene.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)

	now := time.Now().UnixMilli()
	return []models.PromptEntry{
		{
			ID:        "prompt-1",
			Title:     "Watercolor",
			Prompt:    "wtrclr style, soft light",
			Images:    []models.PromptImage{img},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "prompt-2",
			Title:     "Plain",
			Prompt:    "no images here",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func TestExportZip(t *testing.T) {
	prompts := samplePrompts(t)

	var buf bytes.Buffer
	require.NoError(t, ExportZip(prompts, &buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = true
	}
	imageMember := "images/" + prompts[0].Images[0].ID + ".png"
	assert.True(t, names[manifestName])
	assert.True(t, names[imageMember])
	assert.Len(t, zr.File, 2)

	var man manifest
	for _, f := range zr.File {
		if f.Name == manifestName {
			require.NoError(t, readZipJSON(f, &man))
		}
	}
	assert.Equal(t, CacheVersion, man.Version)
	assert.Equal(t, 2, man.Total)
	require.Len(t, man.Prompts, 2)
	require.Len(t, man.Prompts[0].Images, 1)
	assert.Equal(t, imageMember, man.Prompts[0].Images[0].File)
	assert.Empty(t, man.Prompts[1].Images)
}

func TestExportZipSkipsUnsupportedImages(t *testing.T) {
	prompts := []models.PromptEntry{{
		ID:     "p",
		Title:  "odd",
		Prompt: "body",
		Images: []models.PromptImage{{
			ID:   "img",
			Name: "doc.tiff",
			Type: "image/tiff",
			Data: []byte("tiff-bytes"),
		}},
	}}

	var buf bytes.Buffer
	require.NoError(t, ExportZip(prompts, &buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, manifestName, zr.File[0].Name)
}

func TestImportZipRoundTrip(t *testing.T) {
	prompts := samplePrompts(t)

	var buf bytes.Buffer
	require.NoError(t, ExportZip(prompts, &buf))

	imported, err := ImportZip(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, imported, 2)

	assert.Equal(t, "Watercolor", imported[0].Title)
	assert.Equal(t, "wtrclr style, soft light", imported[0].Prompt)
	require.Len(t, imported[0].Images, 1)
	assert.Equal(t, []byte("png-bytes"), imported[0].Images[0].Data)
	assert.Equal(t, "scene.png", imported[0].Images[0].Name)

	// imports always mint fresh ids
	assert.NotEqual(t, prompts[0].ID, imported[0].ID)
	assert.NotEqual(t, prompts[0].Images[0].ID, imported[0].Images[0].ID)
	assert.Equal(t, "Plain", imported[1].Title)
}

func TestImportZipMissingManifest(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("images/orphan.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("bytes"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ImportZip(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.ErrorIs(t, err, ErrMissingManifest)
}

func TestImportZipSkipsMissingImageMembers(t *testing.T) {
	man := manifest{
		Version: CacheVersion,
		Total:   1,
		Prompts: []manifestPrompt{{
			ID:     "p",
			Title:  "dangling",
			Prompt: "body",
			Images: []manifestImage{{
				ID:   "img",
				Name: "gone.png",
				Type: "image/png",
				File: "images/gone.png",
			}},
		}},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	mw, err := zw.Create(manifestName)
	require.NoError(t, err)
	require.NoError(t, json.NewEncoder(mw).Encode(man))
	require.NoError(t, zw.Close())

	imported, err := ImportZip(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Empty(t, imported[0].Images)
}

func TestImportZipNotAnArchive(t *testing.T) {
	data := []byte("this is not a zip file")

	_, err := ImportZip(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}
