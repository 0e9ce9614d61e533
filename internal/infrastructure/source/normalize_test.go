package source

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecord(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{
		"source": {"id": "reuters", "name": "Reuters"},
		"title": "Sample Title",
		"description": "Sample description.",
		"url": "https://example.com/a",
		"publishedAt": "2024-05-01T12:00:00Z"
	}`)

	article, err := normalizeRecord(raw)
	require.NoError(t, err)

	assert.Equal(t, "Sample Title", article.Title)
	assert.Equal(t, "https://example.com/a", article.URL)
	require.NotNil(t, article.Description)
	assert.Equal(t, "Sample description.", *article.Description)
	require.NotNil(t, article.SourceName)
	assert.Equal(t, "Reuters", *article.SourceName)
	require.NotNil(t, article.PublishedAt)
	assert.True(t, article.PublishedAt.Equal(time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)))
	assert.Nil(t, article.Score)
	assert.Nil(t, article.Reasoning)
}

func TestNormalizeRecord_Defaults(t *testing.T) {
	t.Parallel()

	article, err := normalizeRecord(json.RawMessage(`{}`))
	require.NoError(t, err)

	assert.Empty(t, article.Title)
	assert.Empty(t, article.URL)
	assert.Nil(t, article.Description)
	assert.Nil(t, article.PublishedAt)
	assert.Nil(t, article.SourceName)
}

func TestNormalizeRecord_Malformed(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"array":              `[1, 2]`,
		"string":             `"headline"`,
		"null":               `null`,
		"null title":         `{"title": null, "url": "u"}`,
		"numeric url":        `{"title": "t", "url": 42}`,
		"object description": `{"title": "t", "url": "u", "description": {"x": 1}}`,
		"bad timestamp":      `{"title": "t", "url": "u", "publishedAt": "last week"}`,
		"numeric source":     `{"title": "t", "url": "u", "source": {"name": 7}}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := normalizeRecord(json.RawMessage(raw))
			assert.Error(t, err)
		})
	}
}

func TestNormalizeRecord_SourceWithoutObject(t *testing.T) {
	t.Parallel()

	article, err := normalizeRecord(json.RawMessage(`{"title": "t", "url": "u", "source": "flat"}`))
	require.NoError(t, err)
	assert.Nil(t, article.SourceName)
}

func TestNormalizeRecord_TimestampLayouts(t *testing.T) {
	t.Parallel()

	for _, value := range []string{
		`"2024-05-01T12:00:00Z"`,
		`"2024-05-01T14:00:00.5+02:00"`,
		`"2024-05-01T12:00:00"`,
		`1714564800`,
		`1714564800.25`,
		`1714564800000`,
	} {
		article, err := normalizeRecord(json.RawMessage(`{"title": "t", "url": "u", "publishedAt": ` + value + `}`))
		require.NoError(t, err, value)
		require.NotNil(t, article.PublishedAt, value)
		assert.Equal(t, 2024, article.PublishedAt.UTC().Year())
	}

	article, err := normalizeRecord(json.RawMessage(`{"title": "x", "url": "u", "publishedAt": 1700000000000}`))
	require.NoError(t, err)
	require.NotNil(t, article.PublishedAt)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), *article.PublishedAt)

	article, err = normalizeRecord(json.RawMessage(`{"title": "x", "url": "u", "publishedAt": 1714564800.5}`))
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1714564800, int64(500*time.Millisecond)).UTC(), *article.PublishedAt)

	for _, value := range []string{`1e20`, `-1e20`, `99999999999999999`} {
		_, err := normalizeRecord(json.RawMessage(`{"title": "t", "url": "u", "publishedAt": ` + value + `}`))
		require.Error(t, err, value)
	}
}

func TestStripMarkup(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain text", stripMarkup("plain text"))
	assert.Equal(t, "Keys & wallets", stripMarkup("<p>Keys &amp; <em>wallets</em></p>"))
	assert.Equal(t, "Tom & Jerry", stripMarkup("Tom &amp; Jerry"))
}

func TestExtractRecords(t *testing.T) {
	t.Parallel()

	assert.Len(t, extractRecords([]byte(`{"articles": [{}, {}]}`)), 2)
	assert.Empty(t, extractRecords([]byte(`{"articles": "nope"}`)))
	assert.Empty(t, extractRecords([]byte(`{"articles": {"a": 1}}`)))
	assert.Empty(t, extractRecords([]byte(`{"status": "ok"}`)))
	assert.Empty(t, extractRecords([]byte(`[{"title": "t"}]`)))
}

func TestNormalizeRecords_SkipsMalformed(t *testing.T) {
	t.Parallel()

	records := []json.RawMessage{
		json.RawMessage(`{"title": "first", "url": "a"}`),
		json.RawMessage(`42`),
		json.RawMessage(`{"title": "second", "url": "b"}`),
	}

	articles, skipped := normalizeRecords(records)
	require.Len(t, articles, 2)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "first", articles[0].Title)
	assert.Equal(t, "second", articles[1].Title)
}
