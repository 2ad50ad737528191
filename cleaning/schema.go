package cleaning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/newsprep/core"
)

const (
	// minRawTextLength is the minimum trimmed length of the assembled body.
	minRawTextLength = 10

	// paidPlanMarker appears in content fields withheld on free plans.
	paidPlanMarker = "ONLY AVAILABLE"
)

// pubDateLayouts are tried in order after RFC 3339.
var pubDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// EnforceSchema maps a raw article onto the cleaned record shape.
// idx is the article's position in the response and names articles lacking an id.
// Text fields are assembled but not yet normalized.
func EnforceSchema(raw core.RawArticle, idx int) (core.CleanedArticle, error) {
	articleID := strings.TrimSpace(raw.ArticleID)
	if articleID == "" {
		articleID = fmt.Sprintf("article_%04d", idx)
	}

	title := strings.TrimSpace(firstNonEmpty(raw.Title, raw.Headline))

	content := raw.Content
	if strings.Contains(strings.ToUpper(content), paidPlanMarker) {
		content = ""
	}

	parts := make([]string, 0, 3)
	for _, part := range []string{title, raw.Description, content} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	body := strings.Join(parts, " ")
	if len(strings.TrimSpace(body)) < minRawTextLength {
		return core.CleanedArticle{}, fmt.Errorf("%w: article %s", ErrInsufficientText, articleID)
	}

	link := strings.TrimSpace(firstNonEmpty(raw.Link, raw.URL))

	article := core.CleanedArticle{
		ArticleID:   articleID,
		Title:       title,
		BodyText:    body,
		Source:      strings.TrimSpace(firstNonEmpty(raw.SourceName, raw.SourceID)),
		Domain:      hostOf(link),
		Category:    normalizeCategory(raw.Category),
		PubDatetime: parsePubDate(raw.PubDate, raw.PubDateAlt),
		URL:         link,
	}
	return article, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func hostOf(link string) string {
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Host
}

func normalizeCategory(values core.StringList) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parsePubDate returns unix seconds for the first usable candidate, or nil.
// Strings without a zone are read as UTC.
func parsePubDate(candidates ...json.RawMessage) *int64 {
	for _, raw := range candidates {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}

		if raw[0] == '"' {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
				continue
			}
			if ts, ok := parseDateString(strings.TrimSpace(s)); ok {
				return &ts
			}
			// a present but unparseable value wins over the fallback field
			return nil
		}

		var f float64
		if err := json.Unmarshal(raw, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		if f == 0 {
			continue
		}
		ts := int64(f)
		return &ts
	}
	return nil
}

func parseDateString(s string) (int64, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.Unix(), true
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.Unix(), true
		}
	}
	return 0, false
}
