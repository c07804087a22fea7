package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/banned104/lorakeep/internal/log"
	"github.com/banned104/lorakeep/internal/models"
)

// Daily Index operations. The index is not a separate store: the
// dailyRecords array lives inside the same Document, so every mutation
// here is a whole-document read-modify-write.

// RecordNewToday associates the genuinely new ids among records with
// the current local date. Ids already present for the day are skipped,
// so repeated calls are idempotent and the parallel title list cannot
// accumulate duplicates. An empty input, or an input with nothing new,
// is a no-op that does not touch storage.
func (s *RecordStore) RecordNewToday(records []models.Record) error {
	return s.recordForDate(records, CurrentDate())
}

// RecordForDate is RecordNewToday against an explicit target date. The
// date must be well-formed YYYY-MM-DD and must not be after the current
// local date; violations are errors, the caller's whole action should
// abort on them.
func (s *RecordStore) RecordForDate(records []models.Record, targetDate string) error {
	if err := validateTarget(targetDate); err != nil {
		return err
	}
	return s.recordForDate(records, targetDate)
}

func (s *RecordStore) recordForDate(records []models.Record, date string) error {
	if len(records) == 0 {
		return nil
	}

	doc, ok := s.readDocument()
	if !ok {
		// First save ever: start a fresh Document so day history can
		// exist before any record list has been cached.
		doc = s.buildDocument(nil)
	}

	idx := doc.FindDaily(date)
	if idx == -1 {
		doc.DailyRecords = append(doc.DailyRecords, models.DailyRecord{Date: date})
		idx = len(doc.DailyRecords) - 1
	}
	day := &doc.DailyRecords[idx]

	added := 0
	for _, r := range records {
		if day.Has(r.ID) {
			continue
		}
		day.Entries = append(day.Entries, models.DailyEntry{ID: r.ID, Title: r.Name})
		added++
	}

	if added == 0 && len(day.Entries) > 0 {
		// Every incoming id is already recorded for the day.
		return nil
	}

	day.Timestamp = time.Now().UnixMilli()

	if err := s.writeDocument(doc); err != nil {
		return fmt.Errorf("record daily save: %w", err)
	}
	return nil
}

// DailyRecords returns every day entry, sorted by date ascending.
func (s *RecordStore) DailyRecords() []models.DailyRecord {
	doc, ok := s.readDocument()
	if !ok {
		return []models.DailyRecord{}
	}
	daily := doc.DailyRecords
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })
	return daily
}

// DailyRecordsForMonth returns the day entries for one calendar month,
// selected by YYYY-MM string prefix.
func (s *RecordStore) DailyRecordsForMonth(year, month int) []models.DailyRecord {
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	var out []models.DailyRecord
	for _, day := range s.DailyRecords() {
		if len(day.Date) >= len(prefix) && day.Date[:len(prefix)] == prefix {
			out = append(out, day)
		}
	}
	return out
}

// DailyRecordForDate returns the day entry for one date, if present.
func (s *RecordStore) DailyRecordForDate(date string) (models.DailyRecord, bool) {
	doc, ok := s.readDocument()
	if !ok {
		return models.DailyRecord{}, false
	}
	idx := doc.FindDaily(date)
	if idx == -1 {
		return models.DailyRecord{}, false
	}
	return doc.DailyRecords[idx], true
}

// RecordsForDate resolves a day's id list against the stored record
// set. Ids with no matching record are silently dropped, tolerating
// records deleted after they were recorded.
func (s *RecordStore) RecordsForDate(date string) []models.Record {
	doc, ok := s.readDocument()
	if !ok {
		return nil
	}

	idx := doc.FindDaily(date)
	if idx == -1 {
		return nil
	}

	var out []models.Record
	for _, entry := range doc.DailyRecords[idx].Entries {
		if rec := doc.FindRecord(entry.ID); rec != nil {
			out = append(out, *rec)
		}
	}
	return out
}

// ClearDate removes the whole day entry for date. Returns false if the
// date had no entry.
func (s *RecordStore) ClearDate(date string) bool {
	doc, ok := s.readDocument()
	if !ok {
		return false
	}

	idx := doc.FindDaily(date)
	if idx == -1 {
		return false
	}

	doc.DailyRecords = append(doc.DailyRecords[:idx], doc.DailyRecords[idx+1:]...)

	if err := s.writeDocument(doc); err != nil {
		log.Errorf("clear daily record: %v", err)
		return false
	}
	return true
}

// RemoveRecordFromDate removes one id (with its paired title) from a
// day's entry. A day left empty is deleted outright. Returns false if
// the date or the id within that date does not exist.
func (s *RecordStore) RemoveRecordFromDate(date string, recordID int64) bool {
	doc, ok := s.readDocument()
	if !ok {
		return false
	}

	dayIdx := doc.FindDaily(date)
	if dayIdx == -1 {
		return false
	}
	day := &doc.DailyRecords[dayIdx]

	entryIdx := -1
	for i, entry := range day.Entries {
		if entry.ID == recordID {
			entryIdx = i
			break
		}
	}
	if entryIdx == -1 {
		return false
	}

	day.Entries = append(day.Entries[:entryIdx], day.Entries[entryIdx+1:]...)

	if len(day.Entries) == 0 {
		doc.DailyRecords = append(doc.DailyRecords[:dayIdx], doc.DailyRecords[dayIdx+1:]...)
	}

	if err := s.writeDocument(doc); err != nil {
		log.Errorf("remove record from date: %v", err)
		return false
	}
	return true
}
