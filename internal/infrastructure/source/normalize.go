package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsDigest/internal/domain"
)

var errNotObject = errors.New("record is not a JSON object")

// Numeric timestamps above this magnitude are milliseconds; after conversion
// anything still beyond it is rejected.
const unixMillisWatershed = 2e10

var publishedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// extractRecords pulls the "articles" array out of a provider document.
// Any other document shape yields no records.
func extractRecords(payload []byte) []json.RawMessage {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil
	}
	return recordsFrom(doc["articles"])
}

func recordsFrom(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil
	}
	return records
}

// normalizeRecords maps raw provider records onto articles in order.
// Malformed records are dropped; the number of dropped records is returned.
func normalizeRecords(records []json.RawMessage) ([]domain.Article, int) {
	articles := make([]domain.Article, 0, len(records))
	skipped := 0
	for _, raw := range records {
		article, err := normalizeRecord(raw)
		if err != nil {
			skipped++
			continue
		}
		articles = append(articles, article)
	}
	return articles, skipped
}

func normalizeRecord(raw json.RawMessage) (domain.Article, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.Article{}, errNotObject
	}

	title, err := requiredString(fields, "title")
	if err != nil {
		return domain.Article{}, err
	}

	url, err := requiredString(fields, "url")
	if err != nil {
		return domain.Article{}, err
	}

	description, err := optionalString(fields, "description")
	if err != nil {
		return domain.Article{}, err
	}
	if description != nil {
		text := stripMarkup(*description)
		description = &text
	}

	publishedAt, err := optionalTime(fields, "publishedAt")
	if err != nil {
		return domain.Article{}, err
	}

	sourceName, err := nestedSourceName(fields)
	if err != nil {
		return domain.Article{}, err
	}

	return domain.Article{
		Title:       title,
		Description: description,
		URL:         url,
		PublishedAt: publishedAt,
		SourceName:  sourceName,
	}, nil
}

// requiredString defaults a missing key to "" but rejects explicit null and non-string values.
func requiredString(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", nil
	}
	if isNull(raw) {
		return "", fmt.Errorf("%s is null", key)
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("%s is not a string", key)
	}
	return value, nil
}

func optionalString(fields map[string]json.RawMessage, key string) (*string, error) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%s is not a string", key)
	}
	return &value, nil
}

func optionalTime(fields map[string]json.RawMessage, key string) (*time.Time, error) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil, nil
	}

	var unix float64
	if err := json.Unmarshal(raw, &unix); err == nil {
		return unixTime(key, unix)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, fmt.Errorf("%s is not a timestamp", key)
	}
	text = strings.TrimSpace(text)
	for _, layout := range publishedLayouts {
		if ts, err := time.Parse(layout, text); err == nil {
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("%s: unrecognized timestamp %q", key, text)
}

func unixTime(key string, value float64) (*time.Time, error) {
	if math.Abs(value) > unixMillisWatershed {
		value /= 1000
	}
	if math.Abs(value) > unixMillisWatershed {
		return nil, fmt.Errorf("%s: timestamp %v out of range", key, value)
	}
	sec, frac := math.Modf(value)
	ts := time.Unix(int64(sec), int64(math.Round(frac*float64(time.Second)))).UTC()
	return &ts, nil
}

// nestedSourceName reads source.name; a source that is not an object carries no name.
func nestedSourceName(fields map[string]json.RawMessage) (*string, error) {
	raw, ok := fields["source"]
	if !ok {
		return nil, nil
	}
	var source map[string]json.RawMessage
	if err := json.Unmarshal(raw, &source); err != nil || source == nil {
		return nil, nil
	}
	name, err := optionalString(source, "name")
	if err != nil {
		return nil, fmt.Errorf("source.%w", err)
	}
	return name, nil
}

// stripMarkup reduces HTML fragments and entities in provider descriptions to plain text.
func stripMarkup(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return text
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
