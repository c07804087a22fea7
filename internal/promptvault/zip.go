package promptvault

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/banned104/lorakeep/internal/log"
	"github.com/banned104/lorakeep/internal/models"
)

const manifestName = "prompts.json"

// ErrMissingManifest is returned when an archive has no prompts.json.
var ErrMissingManifest = errors.New("archive has no " + manifestName)

// manifestImage is the image entry inside prompts.json. Binary data is
// not inlined; File names the archive member holding it.
type manifestImage struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Size      int64  `json:"size"`
	File      string `json:"file"`
	CreatedAt int64  `json:"createdAt"`
}

type manifestPrompt struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Prompt    string          `json:"prompt"`
	Images    []manifestImage `json:"images"`
	CreatedAt int64           `json:"createdAt"`
	UpdatedAt int64           `json:"updatedAt"`
}

type manifest struct {
	Version    string           `json:"version"`
	ExportDate string           `json:"exportDate"`
	Total      int              `json:"totalPrompts"`
	Prompts    []manifestPrompt `json:"prompts"`
}

// ExportZip writes the given entries as a zip archive: each image as a
// binary member under images/, plus a prompts.json manifest referencing
// the members by filename.
func ExportZip(prompts []models.PromptEntry, w io.Writer) error {
	zw := zip.NewWriter(w)

	man := manifest{
		Version:    CacheVersion,
		ExportDate: time.Now().Format("2006-01-02 15:04:05"),
		Total:      len(prompts),
		Prompts:    make([]manifestPrompt, 0, len(prompts)),
	}

	for _, p := range prompts {
		mp := manifestPrompt{
			ID:        p.ID,
			Title:     p.Title,
			Prompt:    p.Prompt,
			Images:    make([]manifestImage, 0, len(p.Images)),
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}

		for _, img := range p.Images {
			ext, ok := ExtensionForType(img.Type)
			if !ok {
				log.Warnf("skipping image %s with type %q", img.ID, img.Type)
				continue
			}
			name := fmt.Sprintf("images/%s.%s", img.ID, ext)

			fw, err := zw.Create(name)
			if err != nil {
				return err
			}
			if _, err := fw.Write(img.Data); err != nil {
				return err
			}

			mp.Images = append(mp.Images, manifestImage{
				ID:        img.ID,
				Name:      img.Name,
				Type:      img.Type,
				Size:      img.Size,
				File:      name,
				CreatedAt: img.CreatedAt,
			})
		}

		man.Prompts = append(man.Prompts, mp)
	}

	mw, err := zw.Create(manifestName)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(mw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(man); err != nil {
		return err
	}

	return zw.Close()
}

// ImportZip reads an archive produced by ExportZip and returns its
// entries. Every prompt and image gets a fresh id so repeated imports
// never collide with existing entries. Images whose archive member is
// missing are dropped with a warning.
func ImportZip(r io.ReaderAt, size int64) ([]models.PromptEntry, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	members := make(map[string]*zip.File, len(zr.File))
	var manFile *zip.File
	for _, f := range zr.File {
		members[f.Name] = f
		if f.Name == manifestName {
			manFile = f
		}
	}
	if manFile == nil {
		return nil, ErrMissingManifest
	}

	var man manifest
	if err := readZipJSON(manFile, &man); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestName, err)
	}

	prompts := make([]models.PromptEntry, 0, len(man.Prompts))
	for _, mp := range man.Prompts {
		entry := models.PromptEntry{
			ID:        uuid.NewString(),
			Title:     mp.Title,
			Prompt:    mp.Prompt,
			CreatedAt: mp.CreatedAt,
			UpdatedAt: mp.UpdatedAt,
		}

		for _, mi := range mp.Images {
			member, ok := members[mi.File]
			if !ok {
				log.Warnf("archive missing image file %s, skipping", mi.File)
				continue
			}
			data, err := readZipBytes(member)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", mi.File, err)
			}
			if int64(len(data)) > MaxImageBytes {
				return nil, &ErrImageTooLarge{Size: int64(len(data))}
			}

			entry.Images = append(entry.Images, models.PromptImage{
				ID:        uuid.NewString(),
				Name:      mi.Name,
				Type:      mi.Type,
				Size:      int64(len(data)),
				Data:      data,
				CreatedAt: mi.CreatedAt,
			})
		}

		prompts = append(prompts, entry)
	}

	return prompts, nil
}

func readZipJSON(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return json.NewDecoder(rc).Decode(v)
}

func readZipBytes(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
