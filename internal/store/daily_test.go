package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banned104/lorakeep/internal/models"
)

func TestRecordNewTodayOnEmptyStore(t *testing.T) {
	s := testStore(t)

	// No document exists yet; recording must create one
	require.NoError(t, s.RecordNewToday([]models.Record{sampleRecord(1, "alpha")}))

	day, ok := s.DailyRecordForDate(CurrentDate())
	require.True(t, ok)
	assert.Equal(t, []int64{1}, day.RecordIDs())
	assert.Equal(t, []string{"alpha"}, day.RecordTitles())

	// The fresh document must load cleanly afterwards
	records, ok := s.Load()
	assert.True(t, ok)
	assert.Empty(t, records)
}

func TestRecordNewTodayDeduplicates(t *testing.T) {
	s := testStore(t)

	batch := []models.Record{sampleRecord(1, "alpha"), sampleRecord(2, "beta")}
	require.NoError(t, s.RecordNewToday(batch))
	require.NoError(t, s.RecordNewToday(batch))
	require.NoError(t, s.RecordNewToday([]models.Record{sampleRecord(2, "beta"), sampleRecord(3, "gamma")}))

	day, ok := s.DailyRecordForDate(CurrentDate())
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, day.RecordIDs())
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, day.RecordTitles())
}

func TestRecordNewTodayEmptyInputIsNoop(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.RecordNewToday(nil))

	_, ok := s.DailyRecordForDate(CurrentDate())
	assert.False(t, ok)
}

func TestRecordForDateRejectsFuture(t *testing.T) {
	s := testStore(t)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	err := s.RecordForDate([]models.Record{sampleRecord(1, "alpha")}, tomorrow)
	assert.ErrorIs(t, err, ErrFutureDate)

	_, ok := s.DailyRecordForDate(tomorrow)
	assert.False(t, ok)
}

func TestRecordForDateRejectsMalformed(t *testing.T) {
	s := testStore(t)

	for _, bad := range []string{"2024/01/02", "20240102", "2024-1-2", "yesterday", ""} {
		err := s.RecordForDate([]models.Record{sampleRecord(1, "alpha")}, bad)
		assert.ErrorIs(t, err, ErrBadDate, "date %q", bad)
	}
}

func TestRecordForDateBackfill(t *testing.T) {
	s := testStore(t)

	past := "2024-03-15"
	require.NoError(t, s.RecordForDate([]models.Record{sampleRecord(7, "old find")}, past))

	day, ok := s.DailyRecordForDate(past)
	require.True(t, ok)
	assert.Equal(t, []int64{7}, day.RecordIDs())
}

func TestDailyRecordsSorted(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.RecordForDate([]models.Record{sampleRecord(2, "b")}, "2024-06-02"))
	require.NoError(t, s.RecordForDate([]models.Record{sampleRecord(1, "a")}, "2024-06-01"))
	require.NoError(t, s.RecordForDate([]models.Record{sampleRecord(3, "c")}, "2024-06-03"))

	days := s.DailyRecords()
	require.Len(t, days, 3)
	assert.Equal(t, "2024-06-01", days[0].Date)
	assert.Equal(t, "2024-06-02", days[1].Date)
	assert.Equal(t, "2024-06-03", days[2].Date)
}

func TestDailyRecordsForMonth(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.RecordForDate([]models.Record{sampleRecord(1, "a")}, "2024-06-01"))
	require.NoError(t, s.RecordForDate([]models.Record{sampleRecord(2, "b")}, "2024-06-30"))
	require.NoError(t, s.RecordForDate([]models.Record{sampleRecord(3, "c")}, "2024-07-01"))

	june := s.DailyRecordsForMonth(2024, 6)
	require.Len(t, june, 2)
	assert.Equal(t, "2024-06-01", june[0].Date)
	assert.Equal(t, "2024-06-30", june[1].Date)
}

func TestRecordsForDateDropsDangling(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save([]models.Record{sampleRecord(1, "alpha"), sampleRecord(2, "beta")}))
	require.NoError(t, s.RecordNewToday([]models.Record{sampleRecord(1, "alpha"), sampleRecord(2, "beta")}))

	// Drop record 2 from the cache; the day still references it
	require.NoError(t, s.Save([]models.Record{sampleRecord(1, "alpha")}))

	resolved := s.RecordsForDate(CurrentDate())
	require.Len(t, resolved, 1)
	assert.Equal(t, int64(1), resolved[0].ID)

	// The day entry itself keeps the dangling id
	day, _ := s.DailyRecordForDate(CurrentDate())
	assert.Len(t, day.Entries, 2)
}

func TestClearDate(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.RecordForDate([]models.Record{sampleRecord(1, "a")}, "2024-06-01"))

	assert.True(t, s.ClearDate("2024-06-01"))
	assert.False(t, s.ClearDate("2024-06-01"))

	_, ok := s.DailyRecordForDate("2024-06-01")
	assert.False(t, ok)
}

func TestRemoveRecordFromDate(t *testing.T) {
	s := testStore(t)

	batch := []models.Record{sampleRecord(1, "a"), sampleRecord(2, "b")}
	require.NoError(t, s.RecordForDate(batch, "2024-06-01"))

	assert.True(t, s.RemoveRecordFromDate("2024-06-01", 1))
	assert.False(t, s.RemoveRecordFromDate("2024-06-01", 1))

	day, ok := s.DailyRecordForDate("2024-06-01")
	require.True(t, ok)
	assert.Equal(t, []int64{2}, day.RecordIDs())
	assert.Equal(t, []string{"b"}, day.RecordTitles())
}

func TestRemoveLastRecordDeletesDay(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.RecordForDate([]models.Record{sampleRecord(1, "a")}, "2024-06-01"))

	assert.True(t, s.RemoveRecordFromDate("2024-06-01", 1))

	_, ok := s.DailyRecordForDate("2024-06-01")
	assert.False(t, ok)
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2024-06-01"))
	assert.ErrorIs(t, ValidateDate("2024-6-1"), ErrBadDate)
	assert.ErrorIs(t, ValidateDate("not-a-date"), ErrBadDate)
	// Well-formed but impossible dates are rejected too
	assert.ErrorIs(t, ValidateDate("2024-13-45"), ErrBadDate)
}
