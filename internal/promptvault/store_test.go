package promptvault

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banned104/lorakeep/internal/models"
	"github.com/banned104/lorakeep/internal/storage"
)

func testVault(t *testing.T) *Store {
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

func TestLoadEmpty(t *testing.T) {
	vault := testVault(t)

	prompts, ok := vault.Load()
	assert.False(t, ok)
	assert.Empty(t, prompts)
}

func TestAddPrependsEntry(t *testing.T) {
	vault := testVault(t)

	first, err := vault.Add("First", "a watercolor scene", nil)
	require.NoError(t, err)
	second, err := vault.Add("Second", "neon city at night", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotZero(t, first.CreatedAt)

	prompts, ok := vault.Load()
	require.True(t, ok)
	require.Len(t, prompts, 2)
	assert.Equal(t, "Second", prompts[0].Title)
	assert.Equal(t, "First", prompts[1].Title)
}

func TestAddTrimsWhitespace(t *testing.T) {
	vault := testVault(t)

	entry, err := vault.Add("  Spaced  ", "  body text  ", nil)
	require.NoError(t, err)

	assert.Equal(t, "Spaced", entry.Title)
	assert.Equal(t, "body text", entry.Prompt)
}

func TestAddDedupesIdenticalImages(t *testing.T) {
	vault := testVault(t)

	img1, err := NewImage("a.png", "image/png", []byte("same-bytes"))
	require.NoError(t, err)
	img2, err := NewImage("b.png", "image/png", []byte("same-bytes"))
	require.NoError(t, err)
	img3, err := NewImage("c.png", "image/png", []byte("other-bytes"))
	require.NoError(t, err)

	entry, err := vault.Add("pics", "body", []models.PromptImage{img1, img2, img3})
	require.NoError(t, err)

	require.Len(t, entry.Images, 2)
	assert.Equal(t, "a.png", entry.Images[0].Name)
	assert.Equal(t, "c.png", entry.Images[1].Name)
}

func TestLoadWipesVersionMismatch(t *testing.T) {
	vault := testVault(t)

	doc := models.PromptDocument{
		Version:   "0.9.0",
		Timestamp: time.Now().UnixMilli(),
		Prompts:   []models.PromptEntry{},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, vault.slots.Put(SlotKey, string(data)))

	_, ok := vault.Load()
	assert.False(t, ok)

	// the invalid document must be gone from the slot
	_, exists, err := vault.slots.Get(SlotKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLoadWipesNewerVersion(t *testing.T) {
	vault := testVault(t)

	doc := models.PromptDocument{
		Version:   "9.9.9",
		Timestamp: time.Now().UnixMilli(),
		Prompts:   []models.PromptEntry{},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, vault.slots.Put(SlotKey, string(data)))

	_, ok := vault.Load()
	assert.False(t, ok)

	_, exists, err := vault.slots.Get(SlotKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLoadWipesMalformed(t *testing.T) {
	vault := testVault(t)

	require.NoError(t, vault.slots.Put(SlotKey, "{not json"))

	_, ok := vault.Load()
	assert.False(t, ok)

	_, exists, err := vault.slots.Get(SlotKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdate(t *testing.T) {
	vault := testVault(t)

	entry, err := vault.Add("Old", "old body", nil)
	require.NoError(t, err)

	assert.True(t, vault.Update(entry.ID, "New", "new body"))

	prompts, ok := vault.Load()
	require.True(t, ok)
	require.Len(t, prompts, 1)
	assert.Equal(t, "New", prompts[0].Title)
	assert.Equal(t, "new body", prompts[0].Prompt)
	assert.GreaterOrEqual(t, prompts[0].UpdatedAt, prompts[0].CreatedAt)
}

func TestUpdateMissing(t *testing.T) {
	vault := testVault(t)

	_, err := vault.Add("kept", "body", nil)
	require.NoError(t, err)

	assert.False(t, vault.Update("no-such-id", "x", "y"))
}

func TestDelete(t *testing.T) {
	vault := testVault(t)

	entry, err := vault.Add("doomed", "body", nil)
	require.NoError(t, err)
	_, err = vault.Add("kept", "body", nil)
	require.NoError(t, err)

	assert.True(t, vault.Delete(entry.ID))

	prompts, ok := vault.Load()
	require.True(t, ok)
	require.Len(t, prompts, 1)
	assert.Equal(t, "kept", prompts[0].Title)
}

func TestDeleteMissing(t *testing.T) {
	vault := testVault(t)

	_, err := vault.Add("kept", "body", nil)
	require.NoError(t, err)

	assert.False(t, vault.Delete("no-such-id"))
}

func TestSearch(t *testing.T) {
	vault := testVault(t)

	_, err := vault.Add("Watercolor set", "soft pastel tones", nil)
	require.NoError(t, err)
	_, err = vault.Add("Neon", "cyberpunk WATERCOLOR mix", nil)
	require.NoError(t, err)
	_, err = vault.Add("Portraits", "studio lighting", nil)
	require.NoError(t, err)

	matches := vault.Search("watercolor")
	require.Len(t, matches, 2)

	matches = vault.Search("studio")
	require.Len(t, matches, 1)
	assert.Equal(t, "Portraits", matches[0].Title)

	assert.Len(t, vault.Search(""), 3)
	assert.Empty(t, vault.Search("nothing-here"))
}

func TestDailyRecordsSnapshot(t *testing.T) {
	vault := testVault(t)

	first, err := vault.Add("First", "body", nil)
	require.NoError(t, err)
	second, err := vault.Add("", "untitled body", nil)
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")
	days := vault.DailyRecords()
	require.Len(t, days, 1)
	assert.Equal(t, today, days[0].Date)
	assert.Equal(t, []string{second.ID, first.ID}, days[0].PromptIDs)
	assert.Equal(t, []string{"untitled", "First"}, days[0].PromptTitles)

	// deleting rewrites the day snapshot rather than appending
	require.True(t, vault.Delete(first.ID))
	days = vault.DailyRecords()
	require.Len(t, days, 1)
	assert.Equal(t, []string{second.ID}, days[0].PromptIDs)
}

func TestPromptsForDate(t *testing.T) {
	vault := testVault(t)

	entry, err := vault.Add("Today", "body", nil)
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")
	prompts := vault.PromptsForDate(today)
	require.Len(t, prompts, 1)
	assert.Equal(t, entry.ID, prompts[0].ID)

	assert.Empty(t, vault.PromptsForDate("1999-12-31"))
}

func TestPromptsForDateDropsDangling(t *testing.T) {
	vault := testVault(t)

	entry, err := vault.Add("kept", "body", nil)
	require.NoError(t, err)

	// hand-craft a day referencing an id that no longer exists
	doc, ok := vault.readDocument()
	require.True(t, ok)
	require.Len(t, doc.DailyRecords, 1)
	doc.DailyRecords[0].PromptIDs = append(doc.DailyRecords[0].PromptIDs, "ghost-id")
	doc.DailyRecords[0].PromptTitles = append(doc.DailyRecords[0].PromptTitles, "ghost")
	require.NoError(t, vault.writeDocument(doc))

	today := time.Now().Format("2006-01-02")
	prompts := vault.PromptsForDate(today)
	require.Len(t, prompts, 1)
	assert.Equal(t, entry.ID, prompts[0].ID)
}

func TestClear(t *testing.T) {
	vault := testVault(t)

	_, err := vault.Add("gone", "body", nil)
	require.NoError(t, err)

	require.NoError(t, vault.Clear())

	_, ok := vault.Load()
	assert.False(t, ok)
	assert.Empty(t, vault.DailyRecords())
}
