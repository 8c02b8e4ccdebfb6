package localization_test

import (
	"aduan/frontend/internal/localization"
	"encoding/json"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"id.json":   {Data: []byte(`{"greeting": "Halo", "only.id": "Hanya"}`)},
		"en.json":   {Data: []byte(`{"greeting": "Hello"}`)},
		"notes.txt": {Data: []byte("ignored")},
	}
}

func TestGetString_Fallbacks(t *testing.T) {
	// Arrange
	loc, err := localization.LoadFS(testFS(), "id")
	require.NoError(t, err)

	// Act & Assert
	assert.Equal(t, "Hello", loc.GetString("en", "greeting"))
	assert.Equal(t, "Halo", loc.GetString("id", "greeting"))
	assert.Equal(t, "Hanya", loc.GetString("en", "only.id"), "missing key falls back to the fallback language")
	assert.Equal(t, "Halo", loc.GetString("fr", "greeting"), "unknown language uses the fallback language")
	assert.Equal(t, "no.such.key", loc.GetString("en", "no.such.key"), "unknown key is returned as is")
}

func TestLoadFS_RequiresFallback(t *testing.T) {
	// Act
	_, err := localization.LoadFS(testFS(), "de")

	// Assert
	assert.Error(t, err)
}

func TestLoadFS_RejectsBrokenJSON(t *testing.T) {
	// Arrange
	fsys := fstest.MapFS{"id.json": {Data: []byte(`{"greeting": `)}}

	// Act
	_, err := localization.LoadFS(fsys, "id")

	// Assert
	assert.Error(t, err)
}

func TestDetectLanguage(t *testing.T) {
	loc, err := localization.LoadFS(testFS(), "id")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"exact", "en", "en"},
		{"region stripped", "en-US,en;q=0.9", "en"},
		{"first supported wins", "fr-FR, id;q=0.8, en;q=0.5", "id"},
		{"nothing supported", "fr, de", "id"},
		{"empty header", "", "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loc.DetectLanguage(tt.header, "id"))
		})
	}
}

func TestHasAndLanguages(t *testing.T) {
	loc, err := localization.LoadFS(testFS(), "id")
	require.NoError(t, err)

	assert.True(t, loc.Has("en"))
	assert.False(t, loc.Has("notes"))
	assert.ElementsMatch(t, []string{"id", "en"}, loc.Languages())
}

// The embedded files must stay in step: a key present in one language and
// missing in the other would silently show the fallback text.
func TestEmbeddedLocalesHaveSameKeys(t *testing.T) {
	loc, err := localization.NewLocalizer()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"id", "en"}, loc.Languages())

	id := readLocale(t, "locales/id.json")
	en := readLocale(t, "locales/en.json")
	for key := range id {
		assert.Contains(t, en, key)
	}
	for key := range en {
		assert.Contains(t, id, key)
	}
	assert.Equal(t, "Menunggu Verifikasi", loc.GetString("id", "status.pending"))
}

func readLocale(t *testing.T, name string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	var m map[string]string
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}
