// Package export converts between the canonical cache Document and
// transportable file bundles: single-file JSON, day-partitioned JSON
// archives, and day-partitioned Markdown archives, plus the
// shape-tolerant importer.
package export

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/banned104/lorakeep/internal/models"
	"github.com/banned104/lorakeep/internal/store"
)

// Kind selects an export format.
type Kind string

const (
	// KindJSON exports the given record list as one pretty-printed
	// Document.
	KindJSON Kind = "json"

	// KindAllCache exports every cached record as one Document.
	KindAllCache Kind = "all-cache"

	// KindDailyJSON exports a zip with one JSON file per recorded day
	// plus summary.json and a README manifest.
	KindDailyJSON Kind = "daily-json"

	// KindDailyMarkdown exports a zip with one Markdown file per
	// recorded day plus a summary Markdown.
	KindDailyMarkdown Kind = "daily-markdown"
)

// ErrNoRecords is returned when an export has nothing to package.
var ErrNoRecords = errors.New("no records to export")

// DateRange bounds daily exports, inclusive on both ends. Empty fields
// leave that end unbounded.
type DateRange struct {
	Start string
	End   string
}

// Config parameterizes one export.
type Config struct {
	Kind      Kind
	Filename  string // optional; a default is derived from Kind and today's date
	DateRange *DateRange
}

// Result reports what an export produced.
type Result struct {
	Message   string
	Filename  string
	FileCount int
}

// Exporter reads the cache through the Record Store and writes bundles.
type Exporter struct {
	store *store.RecordStore
}

// NewExporter creates an exporter over the given store.
func NewExporter(s *store.RecordStore) *Exporter {
	return &Exporter{store: s}
}

// DefaultFilename derives the conventional file name for a kind.
func DefaultFilename(kind Kind) string {
	date := time.Now().Format("2006-01-02")
	switch kind {
	case KindJSON:
		return fmt.Sprintf("current_models_%s.json", date)
	case KindAllCache:
		return fmt.Sprintf("lora_models_cache_%s.json", date)
	case KindDailyJSON:
		return fmt.Sprintf("daily_models_%s.zip", date)
	case KindDailyMarkdown:
		return fmt.Sprintf("daily_markdown_%s.zip", date)
	default:
		return fmt.Sprintf("export_%s", date)
	}
}

// Export dispatches on cfg.Kind, writing the bundle to w. The records
// argument feeds KindJSON; the other kinds read the store.
func (e *Exporter) Export(records []models.Record, cfg Config, w io.Writer) (*Result, error) {
	filename := cfg.Filename
	if filename == "" {
		filename = DefaultFilename(cfg.Kind)
	}

	switch cfg.Kind {
	case KindJSON:
		if len(records) == 0 {
			return nil, ErrNoRecords
		}
		if err := e.WriteJSON(records, w); err != nil {
			return nil, err
		}
		return &Result{
			Message:   fmt.Sprintf("exported %d records", len(records)),
			Filename:  filename,
			FileCount: 1,
		}, nil

	case KindAllCache:
		all, ok := e.store.Load()
		if !ok || len(all) == 0 {
			return nil, ErrNoRecords
		}
		if err := e.WriteJSON(all, w); err != nil {
			return nil, err
		}
		return &Result{
			Message:   fmt.Sprintf("exported %d cached records", len(all)),
			Filename:  filename,
			FileCount: 1,
		}, nil

	case KindDailyJSON:
		days, err := e.WriteDailyJSONZip(w, cfg.DateRange)
		if err != nil {
			return nil, err
		}
		return &Result{
			Message:   fmt.Sprintf("exported %d days as JSON bundle", days),
			Filename:  filename,
			FileCount: days + 2, // per-day files + summary.json + README.md
		}, nil

	case KindDailyMarkdown:
		days, err := e.WriteDailyMarkdownZip(w, cfg.DateRange)
		if err != nil {
			return nil, err
		}
		return &Result{
			Message:   fmt.Sprintf("exported %d days as Markdown bundle", days),
			Filename:  filename,
			FileCount: days + 1, // per-day files + summary.md
		}, nil

	default:
		return nil, fmt.Errorf("unsupported export kind: %s", cfg.Kind)
	}
}

// WriteJSON serializes a full Document (current dailyRecords included)
// as pretty-printed JSON.
func (e *Exporter) WriteJSON(records []models.Record, w io.Writer) error {
	daily := e.store.DailyRecords()
	now := time.Now()

	doc := models.Document{
		Version:      store.CacheVersion,
		Timestamp:    now.UnixMilli(),
		Records:      records,
		DailyRecords: daily,
		Metadata: models.Metadata{
			ExportDate:   now.Format("2006-01-02 15:04:05"),
			TotalRecords: len(records),
			AppVersion:   store.CacheVersion,
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// filteredDays returns the recorded days inside the range. YYYY-MM-DD
// strings order correctly under plain comparison.
func (e *Exporter) filteredDays(r *DateRange) []models.DailyRecord {
	days := e.store.DailyRecords()
	if r == nil {
		return days
	}
	var out []models.DailyRecord
	for _, day := range days {
		if r.Start != "" && day.Date < r.Start {
			continue
		}
		if r.End != "" && day.Date > r.End {
			continue
		}
		out = append(out, day)
	}
	return out
}

// dayBundle is the JSON payload of one per-day archive entry.
type dayBundle struct {
	Date       string          `json:"date"`
	Timestamp  int64           `json:"timestamp"`
	ModelCount int             `json:"modelCount"`
	Models     []models.Record `json:"models"`
}

// summaryBundle is the JSON payload of the archive's summary entry.
type summaryBundle struct {
	ExportDate   string          `json:"exportDate"`
	TotalDays    int             `json:"totalDays"`
	TotalRecords int             `json:"totalRecords"`
	Days         []daySummary    `json:"days"`
	AllModels    []models.Record `json:"allModels"`
}

type daySummary struct {
	Date       string `json:"date"`
	ModelCount int    `json:"modelCount"`
	Timestamp  int64  `json:"timestamp"`
}

// WriteDailyJSONZip writes one JSON file per recorded day plus
// summary.json and a README.md manifest into a zip archive. Returns the
// number of day files written.
func (e *Exporter) WriteDailyJSONZip(w io.Writer, dateRange *DateRange) (int, error) {
	days := e.filteredDays(dateRange)
	if len(days) == 0 {
		return 0, ErrNoRecords
	}

	all, _ := e.store.Load()
	now := time.Now()

	zw := zip.NewWriter(w)

	summary := summaryBundle{
		ExportDate:   now.Format(time.RFC3339),
		TotalDays:    len(days),
		TotalRecords: len(all),
		AllModels:    all,
	}

	for _, day := range days {
		resolved := e.store.RecordsForDate(day.Date)
		bundle := dayBundle{
			Date:       day.Date,
			Timestamp:  day.Timestamp,
			ModelCount: len(resolved),
			Models:     resolved,
		}
		if err := writeZipJSON(zw, fmt.Sprintf("models_%s.json", day.Date), bundle); err != nil {
			return 0, err
		}
		summary.Days = append(summary.Days, daySummary{
			Date:       day.Date,
			ModelCount: len(day.Entries),
			Timestamp:  day.Timestamp,
		})
	}

	if err := writeZipJSON(zw, "summary.json", summary); err != nil {
		return 0, err
	}

	if err := writeZipText(zw, "README.md", bundleReadme(days, now)); err != nil {
		return 0, err
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("finalize archive: %w", err)
	}
	return len(days), nil
}

// WriteDailyMarkdownZip writes one Markdown file per recorded day plus
// summary.md into a zip archive. Days whose ids no longer resolve to
// any cached record are skipped in the per-day files but still counted
// in the summary table.
func (e *Exporter) WriteDailyMarkdownZip(w io.Writer, dateRange *DateRange) (int, error) {
	days := e.filteredDays(dateRange)
	if len(days) == 0 {
		return 0, ErrNoRecords
	}

	all, _ := e.store.Load()
	now := time.Now()

	zw := zip.NewWriter(w)

	written := 0
	for _, day := range days {
		resolved := e.store.RecordsForDate(day.Date)
		if len(resolved) == 0 {
			continue
		}
		name := fmt.Sprintf("models_%s.md", day.Date)
		if err := writeZipText(zw, name, dayMarkdown(day, resolved, now)); err != nil {
			return 0, err
		}
		written++
	}

	if err := writeZipText(zw, "summary.md", summaryMarkdown(days, all, now)); err != nil {
		return 0, err
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("finalize archive: %w", err)
	}
	return written, nil
}

func bundleReadme(days []models.DailyRecord, now time.Time) string {
	s := "# Daily model export\n\n"
	s += fmt.Sprintf("Exported %s.\n\nContents:\n\n", now.Format("2006-01-02 15:04:05"))
	for _, day := range days {
		s += fmt.Sprintf("- `models_%s.json` - models saved on %s (%d entries)\n", day.Date, day.Date, len(day.Entries))
	}
	s += "- `summary.json` - per-day counts and the full record list\n"
	s += "- `README.md` - this manifest\n"
	return s
}

func writeZipJSON(zw *zip.Writer, name string, v any) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", name, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}

func writeZipText(zw *zip.Writer, name, content string) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", name, err)
	}
	if _, err := io.WriteString(f, content); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}
