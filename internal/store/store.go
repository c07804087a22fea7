// Package store implements the persisted record cache: a versioned JSON
// Document holding every cached model record plus the per-day save
// history, written whole to a single storage slot on every mutation.
package store

import (
	"encoding/json"
	"time"

	"github.com/banned104/lorakeep/internal/log"
	"github.com/banned104/lorakeep/internal/models"
	"github.com/banned104/lorakeep/internal/storage"
)

const (
	// CacheVersion is the compiled-in Document format version. A stored
	// Document with any other version string is invalid and gets wiped
	// on load, never migrated.
	CacheVersion = "1.0.0"

	// SlotKey is the storage slot holding the model cache Document.
	SlotKey = "lora_models_cache"
)

// RecordStore owns the canonical Document. All operations are
// synchronous read-modify-write against the one slot; concurrent
// instances of the application are not coordinated (last writer wins).
type RecordStore struct {
	slots *storage.Store
}

// New creates a RecordStore over the given slot store.
func New(slots *storage.Store) *RecordStore {
	return &RecordStore{slots: slots}
}

// Stats summarizes the cache slot without loading record contents.
type Stats struct {
	HasCache    bool
	RecordCount int
	LastUpdated time.Time
}

// Load reads and validates the stored Document and returns its records.
// The second return is false when no valid Document exists. An invalid
// or version-mismatched Document is destroyed: the slot is removed and
// the wipe is logged distinctly from the ordinary empty-slot case.
func (s *RecordStore) Load() ([]models.Record, bool) {
	raw, ok, err := s.slots.Get(SlotKey)
	if err != nil {
		log.Errorf("load cache: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	doc, err := decodeDocument([]byte(raw))
	if err != nil {
		log.Errorf("cache document invalid, wiping storage: %v", err)
		if derr := s.slots.Delete(SlotKey); derr != nil {
			log.Errorf("wipe invalid cache: %v", derr)
		}
		return nil, false
	}

	return doc.Records, true
}

// Save builds a fresh Document from records while preserving the
// existing Document's dailyRecords, then writes it.
func (s *RecordStore) Save(records []models.Record) error {
	doc := s.buildDocument(records)
	return s.writeDocument(doc)
}

// SaveRecordsOnly replaces the record list and is guaranteed to leave
// dailyRecords untouched. Save carries the same guarantee; this name
// exists for call sites where preserving day history is the point.
func (s *RecordStore) SaveRecordsOnly(records []models.Record) error {
	return s.Save(records)
}

// Clear destroys the stored Document.
func (s *RecordStore) Clear() error {
	return s.slots.Delete(SlotKey)
}

// Stats reports whether a cache exists, how many records it holds, and
// when it was last written. The stored bytes pass through the same
// validation gate as Load, so a document Load would wipe never reads as
// an existing cache; the slot itself is only wiped by Load.
func (s *RecordStore) Stats() Stats {
	raw, ok, err := s.slots.Get(SlotKey)
	if err != nil || !ok {
		return Stats{}
	}

	doc, err := decodeDocument([]byte(raw))
	if err != nil {
		return Stats{}
	}

	return Stats{
		HasCache:    true,
		RecordCount: len(doc.Records),
		LastUpdated: time.UnixMilli(doc.Timestamp),
	}
}

// MergeRecords merges two record lists deduplicating by id. Where both
// lists carry the same id the incoming record wins wholesale; there is
// no field-level merge. Existing order is preserved, genuinely new
// incoming records append in their own order.
func MergeRecords(existing, incoming []models.Record) []models.Record {
	merged := make([]models.Record, len(existing))
	copy(merged, existing)

	index := make(map[int64]int, len(existing))
	for i, r := range existing {
		index[r.ID] = i
	}

	for _, r := range incoming {
		if i, ok := index[r.ID]; ok {
			merged[i] = r
			continue
		}
		index[r.ID] = len(merged)
		merged = append(merged, r)
	}

	return merged
}

// UpdateNote overwrites the note of the record with the given id and
// stamps NoteTimestamp. Returns false if no such record is stored.
func (s *RecordStore) UpdateNote(id int64, text string) bool {
	doc, ok := s.readDocument()
	if !ok {
		return false
	}

	rec := doc.FindRecord(id)
	if rec == nil {
		return false
	}

	rec.Note = text
	rec.NoteTimestamp = time.Now().UnixMilli()

	if err := s.writeDocument(doc); err != nil {
		log.Errorf("update note: %v", err)
		return false
	}
	return true
}

// buildDocument assembles a fresh Document around records, carrying
// over the currently stored dailyRecords.
func (s *RecordStore) buildDocument(records []models.Record) *models.Document {
	var daily []models.DailyRecord
	if existing, ok := s.readDocument(); ok {
		daily = existing.DailyRecords
	}
	if daily == nil {
		daily = []models.DailyRecord{}
	}
	if records == nil {
		records = []models.Record{}
	}

	now := time.Now()
	return &models.Document{
		Version:      CacheVersion,
		Timestamp:    now.UnixMilli(),
		Records:      records,
		DailyRecords: daily,
		Metadata: models.Metadata{
			ExportDate:   now.Format("2006-01-02 15:04:05"),
			TotalRecords: len(records),
			AppVersion:   CacheVersion,
		},
	}
}

// readDocument returns the raw stored Document without the full
// validation gate. Internal mutations use it so that day-history
// operations on an otherwise healthy document do not trigger wipes;
// undecodable payloads still read as absent.
func (s *RecordStore) readDocument() (*models.Document, bool) {
	raw, ok, err := s.slots.Get(SlotKey)
	if err != nil || !ok {
		return nil, false
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false
	}
	if doc.DailyRecords == nil {
		doc.DailyRecords = []models.DailyRecord{}
	}
	return &doc, true
}

func (s *RecordStore) writeDocument(doc *models.Document) error {
	doc.Timestamp = time.Now().UnixMilli()
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.slots.Put(SlotKey, string(data))
}
