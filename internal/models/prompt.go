package models

// PromptImage is one image attached to a prompt entry. Data holds the
// raw image bytes in memory; exports write them as separate archive
// entries and reference them by filename.
type PromptImage struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"` // MIME type, e.g. image/png
	Size      int64  `json:"size"`
	Data      []byte `json:"data,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// PromptEntry is one free-text prompt note.
type PromptEntry struct {
	ID        string        `json:"id"`
	Title     string        `json:"title,omitempty"`
	Prompt    string        `json:"prompt"`
	Images    []PromptImage `json:"images,omitempty"`
	CreatedAt int64         `json:"createdAt"`
	UpdatedAt int64         `json:"updatedAt"`
}

// PromptMetadata mirrors Metadata for the prompt cache.
type PromptMetadata struct {
	ExportDate   string `json:"exportDate"`
	TotalPrompts int    `json:"totalPrompts"`
	AppVersion   string `json:"appVersion"`
}

// PromptDailyRecord logs which prompt ids were saved on one day. Unlike
// the model cache's DailyRecord it is rewritten wholesale on every save,
// so it stays a plain wire struct.
type PromptDailyRecord struct {
	Date         string   `json:"date"`
	PromptIDs    []string `json:"promptIds"`
	PromptTitles []string `json:"promptTitles"`
	Timestamp    int64    `json:"timestamp"`
}

// PromptDocument is the whole persisted unit for the prompt vault. It
// lives in its own storage slot, separate from the model cache.
type PromptDocument struct {
	Version      string              `json:"version"`
	Timestamp    int64               `json:"timestamp"`
	Prompts      []PromptEntry       `json:"prompts"`
	DailyRecords []PromptDailyRecord `json:"dailyRecords"`
	Metadata     *PromptMetadata     `json:"metadata,omitempty"`
}
