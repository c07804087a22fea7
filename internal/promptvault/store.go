// Package promptvault manages the secondary cache of free-text prompt
// notes with attached images. It mirrors the model cache's Document
// discipline against its own storage slot.
package promptvault

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banned104/lorakeep/internal/log"
	"github.com/banned104/lorakeep/internal/models"
	"github.com/banned104/lorakeep/internal/storage"
	"github.com/banned104/lorakeep/pkg/version"
)

const (
	// CacheVersion is the prompt Document format version.
	CacheVersion = "1.0.0"

	// SlotKey is the storage slot holding the prompt Document.
	SlotKey = "prompt_manager_cache"
)

// Store persists prompt entries.
type Store struct {
	slots *storage.Store
}

// New creates a prompt store over the given slot store.
func New(slots *storage.Store) *Store {
	return &Store{slots: slots}
}

// Load reads the stored prompt Document and returns its entries. The
// second return is false when no valid Document exists; an invalid one
// is wiped, same policy as the model cache.
func (s *Store) Load() ([]models.PromptEntry, bool) {
	raw, ok, err := s.slots.Get(SlotKey)
	if err != nil {
		log.Errorf("load prompt cache: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var doc models.PromptDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || !validDocument(&doc) {
		if version.NewerThan(doc.Version, CacheVersion) {
			log.Errorf("prompt cache version %s was written by a newer release, wiping storage", doc.Version)
		} else {
			log.Errorf("prompt cache document invalid, wiping storage")
		}
		if derr := s.slots.Delete(SlotKey); derr != nil {
			log.Errorf("wipe invalid prompt cache: %v", derr)
		}
		return nil, false
	}

	return doc.Prompts, true
}

func validDocument(doc *models.PromptDocument) bool {
	if doc.Version != CacheVersion || doc.Timestamp == 0 {
		return false
	}
	return doc.Prompts != nil
}

// Save writes the prompt list, preserving stored daily records.
func (s *Store) Save(prompts []models.PromptEntry) error {
	doc := s.buildDocument(prompts)
	return s.writeDocument(doc)
}

// Clear destroys the prompt Document.
func (s *Store) Clear() error {
	return s.slots.Delete(SlotKey)
}

// Add creates a new prompt entry at the head of the list and records
// today's save. Blank titles are stored empty, not defaulted.
func (s *Store) Add(title, prompt string, images []models.PromptImage) (models.PromptEntry, error) {
	now := time.Now().UnixMilli()
	entry := models.PromptEntry{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Prompt:    strings.TrimSpace(prompt),
		Images:    DedupeImages(images),
		CreatedAt: now,
		UpdatedAt: now,
	}

	existing, _ := s.Load()
	prompts := append([]models.PromptEntry{entry}, existing...)

	if err := s.Save(prompts); err != nil {
		return models.PromptEntry{}, err
	}
	s.recordDailySave(prompts)
	return entry, nil
}

// Update overwrites an entry's title and body. Returns false if no
// entry has that id.
func (s *Store) Update(id, title, prompt string) bool {
	prompts, ok := s.Load()
	if !ok {
		return false
	}

	found := false
	for i := range prompts {
		if prompts[i].ID != id {
			continue
		}
		prompts[i].Title = strings.TrimSpace(title)
		prompts[i].Prompt = strings.TrimSpace(prompt)
		prompts[i].UpdatedAt = time.Now().UnixMilli()
		found = true
		break
	}
	if !found {
		return false
	}

	if err := s.Save(prompts); err != nil {
		log.Errorf("update prompt: %v", err)
		return false
	}
	s.recordDailySave(prompts)
	return true
}

// Delete removes an entry. Returns false if no entry has that id.
func (s *Store) Delete(id string) bool {
	prompts, ok := s.Load()
	if !ok {
		return false
	}

	filtered := prompts[:0:0]
	for _, p := range prompts {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == len(prompts) {
		return false
	}

	if err := s.Save(filtered); err != nil {
		log.Errorf("delete prompt: %v", err)
		return false
	}
	s.recordDailySave(filtered)
	return true
}

// Search returns the entries whose title or body contains the query,
// case-insensitive. An empty query returns every entry.
func (s *Store) Search(query string) []models.PromptEntry {
	prompts, _ := s.Load()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return prompts
	}

	var out []models.PromptEntry
	for _, p := range prompts {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Prompt), q) {
			out = append(out, p)
		}
	}
	return out
}

// DailyRecords returns the per-day prompt save log.
func (s *Store) DailyRecords() []models.PromptDailyRecord {
	doc, ok := s.readDocument()
	if !ok {
		return nil
	}
	return doc.DailyRecords
}

// PromptsForDate resolves one day's prompt id list against the stored
// entries; dangling ids are dropped.
func (s *Store) PromptsForDate(date string) []models.PromptEntry {
	doc, ok := s.readDocument()
	if !ok {
		return nil
	}

	var day *models.PromptDailyRecord
	for i := range doc.DailyRecords {
		if doc.DailyRecords[i].Date == date {
			day = &doc.DailyRecords[i]
			break
		}
	}
	if day == nil {
		return nil
	}

	byID := make(map[string]*models.PromptEntry, len(doc.Prompts))
	for i := range doc.Prompts {
		byID[doc.Prompts[i].ID] = &doc.Prompts[i]
	}

	var out []models.PromptEntry
	for _, id := range day.PromptIDs {
		if p, ok := byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out
}

// recordDailySave snapshots the current entry list into today's daily
// record. Unlike the model cache's append-only daily index, the prompt
// day log is rewritten wholesale on every save.
func (s *Store) recordDailySave(prompts []models.PromptEntry) {
	doc, ok := s.readDocument()
	if !ok {
		return
	}

	today := time.Now().Format("2006-01-02")
	now := time.Now().UnixMilli()

	day := models.PromptDailyRecord{
		Date:         today,
		PromptIDs:    make([]string, 0, len(prompts)),
		PromptTitles: make([]string, 0, len(prompts)),
		Timestamp:    now,
	}
	for _, p := range prompts {
		title := p.Title
		if title == "" {
			title = "untitled"
		}
		day.PromptIDs = append(day.PromptIDs, p.ID)
		day.PromptTitles = append(day.PromptTitles, title)
	}

	replaced := false
	for i := range doc.DailyRecords {
		if doc.DailyRecords[i].Date == today {
			doc.DailyRecords[i] = day
			replaced = true
			break
		}
	}
	if !replaced {
		doc.DailyRecords = append(doc.DailyRecords, day)
	}

	if err := s.writeDocument(doc); err != nil {
		log.Errorf("record daily prompt save: %v", err)
	}
}

func (s *Store) buildDocument(prompts []models.PromptEntry) *models.PromptDocument {
	var daily []models.PromptDailyRecord
	if existing, ok := s.readDocument(); ok {
		daily = existing.DailyRecords
	}
	if daily == nil {
		daily = []models.PromptDailyRecord{}
	}
	if prompts == nil {
		prompts = []models.PromptEntry{}
	}

	now := time.Now()
	return &models.PromptDocument{
		Version:      CacheVersion,
		Timestamp:    now.UnixMilli(),
		Prompts:      prompts,
		DailyRecords: daily,
		Metadata: &models.PromptMetadata{
			ExportDate:   now.Format("2006-01-02 15:04:05"),
			TotalPrompts: len(prompts),
			AppVersion:   CacheVersion,
		},
	}
}

func (s *Store) readDocument() (*models.PromptDocument, bool) {
	raw, ok, err := s.slots.Get(SlotKey)
	if err != nil || !ok {
		return nil, false
	}

	var doc models.PromptDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false
	}
	if doc.DailyRecords == nil {
		doc.DailyRecords = []models.PromptDailyRecord{}
	}
	return &doc, true
}

func (s *Store) writeDocument(doc *models.PromptDocument) error {
	doc.Timestamp = time.Now().UnixMilli()
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.slots.Put(SlotKey, string(data))
}
