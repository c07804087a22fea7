package models

import "time"

// Slot is one string-keyed persisted value. Each cache Document is
// serialized whole into a single slot row; there is no partial-field
// atomicity below this granularity.
type Slot struct {
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
