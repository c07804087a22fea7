// Package models defines the core data structures for lorakeep.
package models

import "encoding/json"

// Creator identifies the catalog user who published a record.
type Creator struct {
	Username string `json:"username"`
}

// File is one downloadable artifact attached to a version.
type File struct {
	Name        string `json:"name"`
	DownloadURL string `json:"downloadUrl"`
}

// Resource is one auxiliary asset referenced by an image's generation metadata.
type Resource struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Weight *float64 `json:"weight,omitempty"`
	Hash   string   `json:"hash,omitempty"`
}

// ImageMeta carries the generation parameters recorded for a sample image.
// The catalog attaches arbitrary extra keys; they are preserved in Extra.
type ImageMeta struct {
	Prompt         string     `json:"prompt,omitempty"`
	NegativePrompt string     `json:"negativePrompt,omitempty"`
	CFGScale       float64    `json:"cfgScale,omitempty"`
	Steps          int        `json:"steps,omitempty"`
	Sampler        string     `json:"sampler,omitempty"`
	Seed           int64      `json:"seed,omitempty"`
	ClipSkip       int        `json:"clipSkip,omitempty"`
	Resources      []Resource `json:"resources,omitempty"`

	Extra map[string]any `json:"-"`
}

// Image is one sample image attached to a version.
type Image struct {
	URL       string     `json:"url"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Hash      string     `json:"hash,omitempty"`
	NSFW      bool       `json:"nsfw,omitempty"`
	NSFWLevel int        `json:"nsfwLevel,omitempty"`
	Meta      *ImageMeta `json:"meta,omitempty"`
}

// Version is one release of a record.
type Version struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	CreatedAt    string   `json:"createdAt"`
	Description  string   `json:"description,omitempty"`
	TrainedWords []string `json:"trainedWords,omitempty"`
	Files        []File   `json:"files"`
	Images       []Image  `json:"images"`
}

// Record is one cataloged LoRA model. ID is the stable external identity
// assigned by the catalog and is unique across the store.
type Record struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type,omitempty"`
	Creator     Creator   `json:"creator"`
	Tags        []string  `json:"tags,omitempty"`
	Versions    []Version `json:"modelVersions"`

	// User annotation. NoteTimestamp is epoch milliseconds of the last
	// note change.
	Note          string `json:"note,omitempty"`
	NoteTimestamp int64  `json:"noteTimestamp,omitempty"`
}

// UnmarshalJSON decodes a record, accepting the legacy "versions" key
// as an alias for "modelVersions". Older documents carry the legacy
// key; without the fallback their whole version payload would be
// silently dropped. The canonical key wins when both are present.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		LegacyVersions []Version `json:"versions"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.Versions == nil {
		r.Versions = aux.LegacyVersions
	}
	return nil
}

// TrainedWords flattens the trained words across all versions.
func (r *Record) TrainedWords() []string {
	var words []string
	for _, v := range r.Versions {
		words = append(words, v.TrainedWords...)
	}
	return words
}
