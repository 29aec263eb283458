package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src Source) []RecordResult {
	t.Helper()
	ch, err := src.Stream(context.Background())
	require.NoError(t, err)

	var out []RecordResult
	for res := range ch {
		out = append(out, res)
	}
	return out
}

func TestCSVReader_Stream(t *testing.T) {
	data := "Title, Content ,url\n" +
		"First,\"Body, with comma\",https://bbc.co.uk/1\n" +
		"Second,Another body,\n"

	results := collect(t, NewCSVReader(strings.NewReader(data)))

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, Record{"title": "First", "content": "Body, with comma", "url": "https://bbc.co.uk/1"}, results[0].Record)
	assert.Equal(t, 2, results[0].Line)
	assert.Equal(t, "Second", results[1].Record["title"])
	assert.Equal(t, 3, results[1].Line)
}

func TestCSVReader_Stream_BadRowContinues(t *testing.T) {
	data := "title,content\n" +
		"only-one-field\n" +
		"ok,body\n"

	results := collect(t, NewCSVReader(strings.NewReader(data)))

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.Equal(t, 2, results[0].Line)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, "ok", results[1].Record["title"])
}

func TestCSVReader_Stream_EmptyInput(t *testing.T) {
	_, err := NewCSVReader(strings.NewReader("")).Stream(context.Background())
	assert.Error(t, err)
}
