// Package calendar builds the month-grid view-model over the daily
// save history.
package calendar

import (
	"time"

	"github.com/banned104/lorakeep/internal/models"
)

// Config controls grid generation.
type Config struct {
	MaxTitleDisplay int // titles shown per day cell
	FirstDayOfWeek  int // 0 = Sunday, 1 = Monday
}

// DefaultConfig returns the standard grid settings.
func DefaultConfig() Config {
	return Config{
		MaxTitleDisplay: 6,
		FirstDayOfWeek:  1,
	}
}

// Day is one cell of the month grid.
type Day struct {
	Date           string // YYYY-MM-DD
	Day            int    // day of month
	HasRecord      bool
	RecordTitles   []string // truncated to MaxTitleDisplay
	TotalRecords   int
	IsCurrentMonth bool
	IsToday        bool
}

// MonthInfo describes one calendar month.
type MonthInfo struct {
	Year           int
	Month          int // 1-12
	MonthName      string
	DaysInMonth    int
	FirstDayOfWeek int // weekday of the 1st (0-6)
}

// GetMonthInfo computes month metadata.
func GetMonthInfo(year, month int) MonthInfo {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return MonthInfo{
		Year:           year,
		Month:          month,
		MonthName:      first.Month().String(),
		DaysInMonth:    first.AddDate(0, 1, -1).Day(),
		FirstDayOfWeek: int(first.Weekday()),
	}
}

// Grid generates the 6x7 (42 cell) month grid, including the leading
// and trailing days of the neighboring months needed to fill the rows.
func Grid(year, month int, records []models.DailyRecord, cfg Config) []Day {
	if cfg.MaxTitleDisplay <= 0 {
		cfg.MaxTitleDisplay = DefaultConfig().MaxTitleDisplay
	}

	byDate := make(map[string]*models.DailyRecord, len(records))
	for i := range records {
		byDate[records[i].Date] = &records[i]
	}

	today := time.Now().Format("2006-01-02")

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	offset := (int(start.Weekday()) - cfg.FirstDayOfWeek + 7) % 7
	start = start.AddDate(0, 0, -offset)

	grid := make([]Day, 0, 42)
	for i := 0; i < 42; i++ {
		current := start.AddDate(0, 0, i)
		date := current.Format("2006-01-02")

		cell := Day{
			Date:           date,
			Day:            current.Day(),
			IsCurrentMonth: int(current.Month()) == month,
			IsToday:        date == today,
		}

		if day, ok := byDate[date]; ok {
			titles := day.RecordTitles()
			if len(titles) > cfg.MaxTitleDisplay {
				titles = titles[:cfg.MaxTitleDisplay]
			}
			cell.HasRecord = true
			cell.RecordTitles = titles
			cell.TotalRecords = len(day.Entries)
		}

		grid = append(grid, cell)
	}
	return grid
}

// RelativeMonth shifts (year, month) by offset months, normalizing
// across year boundaries.
func RelativeMonth(year, month, offset int) (int, int) {
	t := time.Date(year, time.Month(month+offset), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), int(t.Month())
}

// CurrentYearMonth returns the current local year and month.
func CurrentYearMonth() (int, int) {
	now := time.Now()
	return now.Year(), int(now.Month())
}

// ValidYearMonth bounds accepted months to a sane range.
func ValidYearMonth(year, month int) bool {
	return year >= 1970 && year <= 3000 && month >= 1 && month <= 12
}

// IntensityLevel maps a day's record count to one of five display
// buckets (0 through 4) used for calendar cell shading.
func IntensityLevel(recordCount int) int {
	switch {
	case recordCount == 0:
		return 0
	case recordCount == 1:
		return 1
	case recordCount <= 3:
		return 2
	case recordCount <= 6:
		return 3
	default:
		return 4
	}
}

// WeekdayNames returns the day-of-week header labels starting from the
// configured first day.
func WeekdayNames(firstDayOfWeek int) []string {
	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if firstDayOfWeek <= 0 || firstDayOfWeek > 6 {
		return names
	}
	out := make([]string, 0, 7)
	out = append(out, names[firstDayOfWeek:]...)
	out = append(out, names[:firstDayOfWeek]...)
	return out
}
