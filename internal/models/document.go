package models

// Metadata is display-oriented information stamped into a Document.
type Metadata struct {
	ExportDate   string `json:"exportDate"`
	TotalRecords int    `json:"totalRecords"`
	AppVersion   string `json:"appVersion"`
}

// Document is the whole persisted unit for the model cache: every cached
// record plus the per-day save history, written atomically as one JSON
// value to a single storage slot.
type Document struct {
	Version      string        `json:"version"`
	Timestamp    int64         `json:"timestamp"`
	Records      []Record      `json:"records"`
	DailyRecords []DailyRecord `json:"dailyRecords"`
	Metadata     Metadata      `json:"metadata"`
}

// FindRecord returns a pointer to the record with the given id, or nil.
func (d *Document) FindRecord(id int64) *Record {
	for i := range d.Records {
		if d.Records[i].ID == id {
			return &d.Records[i]
		}
	}
	return nil
}

// FindDaily returns the index of the DailyRecord for date, or -1.
func (d *Document) FindDaily(date string) int {
	for i := range d.DailyRecords {
		if d.DailyRecords[i].Date == date {
			return i
		}
	}
	return -1
}
