package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenameFromURL(t *testing.T) {
	tests := map[string]string{
		"https://example.com":                      "example_com",
		"https://www.example.com/":                 "example_com",
		"https://example.com/news/harbour-floods":  "example_com_news_harbour_floods",
		"https://example.com/2024/05/story.html?x": "example_com_2024_05_story",
		"not a url":                                "not_a_url",
	}
	for raw, want := range tests {
		assert.Equal(t, want, FilenameFromURL(raw), raw)
	}

	long := "https://example.com/" + strings.Repeat("a", 500)
	assert.Len(t, FilenameFromURL(long), maxNameLen)
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.Write("https://example.com/news/harbour", []byte("<html></html>"), ".html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "example_com_news_harbour.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}
