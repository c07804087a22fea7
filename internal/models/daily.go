package models

import "encoding/json"

// DailyEntry is one (record id, display title) pair stored for a day.
// The title is a snapshot of the record name at recording time and is
// not re-synced if the record is renamed later.
type DailyEntry struct {
	ID    int64
	Title string
}

// DailyRecord logs which record ids were newly associated with one
// calendar day. Date (YYYY-MM-DD) is the primary key within a Document.
//
// In memory the payload is a single list of pairs so ids and titles can
// never drift apart; on the wire it serializes as the historical pair of
// parallel arrays (recordIds, recordTitles).
type DailyRecord struct {
	Date      string
	Entries   []DailyEntry
	Timestamp int64
}

type dailyRecordWire struct {
	Date         string   `json:"date"`
	RecordIDs    []int64  `json:"recordIds"`
	RecordTitles []string `json:"recordTitles"`
	Timestamp    int64    `json:"timestamp"`
}

// RecordIDs returns the day's record ids in entry order.
func (d *DailyRecord) RecordIDs() []int64 {
	ids := make([]int64, len(d.Entries))
	for i, e := range d.Entries {
		ids[i] = e.ID
	}
	return ids
}

// RecordTitles returns the day's title snapshots in entry order.
func (d *DailyRecord) RecordTitles() []string {
	titles := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		titles[i] = e.Title
	}
	return titles
}

// Has reports whether the day already holds the given record id.
func (d *DailyRecord) Has(id int64) bool {
	for _, e := range d.Entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (d DailyRecord) MarshalJSON() ([]byte, error) {
	w := dailyRecordWire{
		Date:         d.Date,
		RecordIDs:    make([]int64, 0, len(d.Entries)),
		RecordTitles: make([]string, 0, len(d.Entries)),
		Timestamp:    d.Timestamp,
	}
	for _, e := range d.Entries {
		w.RecordIDs = append(w.RecordIDs, e.ID)
		w.RecordTitles = append(w.RecordTitles, e.Title)
	}
	return json.Marshal(w)
}

// UnmarshalJSON re-pairs the parallel arrays. Historical documents can
// carry title lists that drifted shorter than the id list; missing
// titles become empty strings rather than failing the whole load.
func (d *DailyRecord) UnmarshalJSON(data []byte) error {
	var w dailyRecordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	d.Date = w.Date
	d.Timestamp = w.Timestamp
	d.Entries = make([]DailyEntry, 0, len(w.RecordIDs))
	for i, id := range w.RecordIDs {
		title := ""
		if i < len(w.RecordTitles) {
			title = w.RecordTitles[i]
		}
		d.Entries = append(d.Entries, DailyEntry{ID: id, Title: title})
	}
	return nil
}
