package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/news-trust/internal/trust"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadColumnMapping(t *testing.T) {
	yml := `
columns:
  title: Headline
  content: body
`
	m, err := LoadColumnMapping(strings.NewReader(yml))
	require.NoError(t, err)

	assert.Equal(t, "headline", m.Title)
	assert.Equal(t, "body", m.Content)
	assert.Equal(t, "url", m.URL)
	assert.Equal(t, "publish_date", m.PublishDate)
}

func TestLoadColumnMapping_Invalid(t *testing.T) {
	_, err := LoadColumnMapping(strings.NewReader("columns:\n  title: \"\"\n"))
	assert.Error(t, err)

	_, err = LoadColumnMapping(strings.NewReader("columns: [1, 2"))
	assert.Error(t, err)
}

func TestLoadColumnMappingFile(t *testing.T) {
	m, err := LoadColumnMappingFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultColumnMapping(), m)

	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns:\n  url: link\n"), 0o600))

	m, err = LoadColumnMappingFile(path)
	require.NoError(t, err)
	assert.Equal(t, "link", m.URL)

	_, err = LoadColumnMappingFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestColumnMapping_Map(t *testing.T) {
	m := ColumnMapping{Title: "headline", Content: "body", URL: "link"}

	sub := m.Map(Record{"headline": "H", "body": "B", "link": "https://x.test", "extra": "ignored"})

	assert.Equal(t, trust.Submission{Title: "H", Content: "B", URL: "https://x.test"}, sub)
}
