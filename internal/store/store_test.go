package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banned104/lorakeep/internal/models"
	"github.com/banned104/lorakeep/internal/storage"
)

// testStore creates a RecordStore over a temporary database.
func testStore(t *testing.T) *RecordStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	slots, err := storage.New(storage.DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		if err := slots.Close(); err != nil {
			t.Logf("Failed to close test store: %v", err)
		}
	})

	return New(slots)
}

func sampleRecord(id int64, name string) models.Record {
	return models.Record{
		ID:      id,
		Name:    name,
		Type:    "LORA",
		Creator: models.Creator{Username: "maker"},
		Versions: []models.Version{
			{ID: id * 10, Name: "v1", TrainedWords: []string{"word"}},
		},
	}
}

func TestLoadEmpty(t *testing.T) {
	s := testStore(t)

	records, ok := s.Load()
	assert.False(t, ok)
	assert.Nil(t, records)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)

	saved := []models.Record{sampleRecord(1, "alpha"), sampleRecord(2, "beta")}
	require.NoError(t, s.Save(saved))

	loaded, ok := s.Load()
	require.True(t, ok)
	require.Len(t, loaded, 2)
	assert.Equal(t, int64(1), loaded[0].ID)
	assert.Equal(t, "beta", loaded[1].Name)
	assert.Equal(t, "maker", loaded[1].Creator.Username)
}

func TestLoadWipesVersionMismatch(t *testing.T) {
	s := testStore(t)

	doc := models.Document{
		Version:   "0.9.0",
		Timestamp: 123,
		Records:   []models.Record{sampleRecord(1, "old")},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, s.slots.Put(SlotKey, string(raw)))

	_, ok := s.Load()
	assert.False(t, ok)

	// The invalid document must be gone, not retried
	_, exists, err := s.slots.Get(SlotKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLoadWipesMalformed(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.slots.Put(SlotKey, "not json at all"))

	_, ok := s.Load()
	assert.False(t, ok)

	_, exists, err := s.slots.Get(SlotKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSavePreservesDailyRecords(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save([]models.Record{sampleRecord(1, "alpha")}))
	require.NoError(t, s.RecordNewToday([]models.Record{sampleRecord(1, "alpha")}))

	// A later save of a different record list keeps the day history
	require.NoError(t, s.Save([]models.Record{sampleRecord(2, "beta")}))

	days := s.DailyRecords()
	require.Len(t, days, 1)
	assert.Equal(t, []int64{1}, days[0].RecordIDs())
}

func TestMergeRecordsIncomingWins(t *testing.T) {
	existing := []models.Record{sampleRecord(1, "alpha"), sampleRecord(2, "beta")}
	incoming := []models.Record{sampleRecord(2, "beta-updated"), sampleRecord(3, "gamma")}

	merged := MergeRecords(existing, incoming)

	require.Len(t, merged, 3)
	assert.Equal(t, "alpha", merged[0].Name)
	assert.Equal(t, "beta-updated", merged[1].Name)
	assert.Equal(t, "gamma", merged[2].Name)
}

func TestMergeRecordsIdempotent(t *testing.T) {
	existing := []models.Record{sampleRecord(1, "alpha")}
	incoming := []models.Record{sampleRecord(1, "alpha")}

	once := MergeRecords(existing, incoming)
	twice := MergeRecords(once, incoming)

	assert.Equal(t, once, twice)
	assert.Len(t, twice, 1)
}

func TestMergeRecordsEmptyInputs(t *testing.T) {
	assert.Empty(t, MergeRecords(nil, nil))

	only := []models.Record{sampleRecord(1, "alpha")}
	assert.Equal(t, only, MergeRecords(nil, only))
	assert.Equal(t, only, MergeRecords(only, nil))
}

func TestUpdateNote(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save([]models.Record{sampleRecord(1, "alpha")}))

	assert.True(t, s.UpdateNote(1, "use at weight 0.8"))
	assert.False(t, s.UpdateNote(99, "nope"))

	loaded, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, "use at weight 0.8", loaded[0].Note)
	assert.Positive(t, loaded[0].NoteTimestamp)
}

func TestUpdateNoteClear(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save([]models.Record{sampleRecord(1, "alpha")}))
	require.True(t, s.UpdateNote(1, "something"))
	require.True(t, s.UpdateNote(1, ""))

	loaded, _ := s.Load()
	assert.Empty(t, loaded[0].Note)
}

func TestStats(t *testing.T) {
	s := testStore(t)

	assert.False(t, s.Stats().HasCache)

	require.NoError(t, s.Save([]models.Record{sampleRecord(1, "alpha"), sampleRecord(2, "beta")}))

	stats := s.Stats()
	assert.True(t, stats.HasCache)
	assert.Equal(t, 2, stats.RecordCount)
	assert.False(t, stats.LastUpdated.IsZero())
}

func TestStatsAgreesWithLoadOnInvalidDocument(t *testing.T) {
	s := testStore(t)

	doc := models.Document{
		Version:      "0.9.0",
		Timestamp:    123,
		Records:      []models.Record{sampleRecord(1, "old")},
		DailyRecords: []models.DailyRecord{},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, s.slots.Put(SlotKey, string(raw)))

	// A document Load would wipe must not read as an existing cache
	stats := s.Stats()
	assert.False(t, stats.HasCache)
	assert.Zero(t, stats.RecordCount)

	// Stats itself leaves the slot alone
	_, exists, err := s.slots.Get(SlotKey)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDecodeDocumentNewerVersion(t *testing.T) {
	doc := models.Document{
		Version:      "9.9.9",
		Timestamp:    123,
		Records:      []models.Record{},
		DailyRecords: []models.DailyRecord{},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = decodeDocument(raw)
	require.ErrorIs(t, err, ErrVersionMismatch)
	assert.Contains(t, err.Error(), "newer release")
}

func TestClear(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save([]models.Record{sampleRecord(1, "alpha")}))
	require.NoError(t, s.Clear())

	_, ok := s.Load()
	assert.False(t, ok)
}
