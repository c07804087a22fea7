package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractModelID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID int64
		wantOK bool
	}{
		{"plain model page", "https://civitai.com/models/12345", 12345, true},
		{"model page with slug", "https://civitai.com/models/12345/watercolor-dreams", 12345, true},
		{"trailing slash", "https://civitai.com/models/777/", 777, true},
		{"query string", "https://civitai.com/models/42?modelVersionId=99", 42, true},
		{"surrounding whitespace", "  https://civitai.com/models/5  ", 5, true},
		{"api endpoint path", "https://civitai.com/api/v1/models/12345", 12345, true},
		{"no models segment", "https://civitai.com/images/12345", 0, false},
		{"models segment last", "https://civitai.com/models", 0, false},
		{"non-numeric id", "https://civitai.com/models/watercolor", 0, false},
		{"zero id", "https://civitai.com/models/0", 0, false},
		{"negative id", "https://civitai.com/models/-3", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractModelID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestFetchByID(t *testing.T) {
	var gotPath, gotAccept, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 12345,
			"name": "Watercolor Dreams",
			"type": "LORA",
			"creator": {"username": "artmaker"},
			"tags": ["style"],
			"modelVersions": [{"id": 99, "name": "v1", "trainedWords": ["wtrclr"]}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(Config{
		BaseURL:   srv.URL,
		Token:     "secret-token",
		RateLimit: 6000, // keep the test from throttling
	})

	record, err := client.FetchByID(context.Background(), 12345)
	require.NoError(t, err)

	assert.Equal(t, "/12345", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "Bearer secret-token", gotAuth)

	assert.Equal(t, int64(12345), record.ID)
	assert.Equal(t, "Watercolor Dreams", record.Name)
	assert.Equal(t, "artmaker", record.Creator.Username)
	require.Len(t, record.Versions, 1)
	assert.Equal(t, []string{"wtrclr"}, record.Versions[0].TrainedWords)
}

func TestFetchByIDNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id": 1, "name": "x", "creator": {"username": "y"}, "modelVersions": []}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, RateLimit: 6000})

	_, err := client.FetchByID(context.Background(), 1)
	require.NoError(t, err)
}

func TestFetchByIDErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, RateLimit: 6000})

	_, err := client.FetchByID(context.Background(), 404)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestFetchByURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/55", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 55, "name": "x", "creator": {"username": "y"}, "modelVersions": []}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, RateLimit: 6000})

	record, err := client.FetchByURL(context.Background(), "https://civitai.com/models/55/some-slug")
	require.NoError(t, err)
	assert.Equal(t, int64(55), record.ID)
}

func TestFetchByURLBadURL(t *testing.T) {
	client := NewClient(Config{RateLimit: 6000})

	_, err := client.FetchByURL(context.Background(), "https://civitai.com/images/55")
	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{})

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultTimeout, client.http.Timeout)
}
