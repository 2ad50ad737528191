package core

//go:generate go run ../cmd/musgen

import (
	"bytes"
	"encoding/json"
	"time"
)

// ID is a unique identifier for ledger entities.
// It is generated from database sequences.
type ID uint64

// StringList decodes either a JSON string or a JSON array of strings.
// The news API is inconsistent about list-valued fields such as category.
type StringList []string

// UnmarshalJSON accepts null, a single string or an array of strings.
func (s *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		if single == "" {
			*s = nil
			return nil
		}
		*s = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// RawArticle is a single article object as returned by the news API.
// Fallback fields cover alternative spellings some sources use.
type RawArticle struct {
	ArticleID   string          `json:"article_id,omitempty"`
	Title       string          `json:"title,omitempty"`
	Headline    string          `json:"headline,omitempty"`
	Description string          `json:"description,omitempty"`
	Content     string          `json:"content,omitempty"`
	Link        string          `json:"link,omitempty"`
	URL         string          `json:"url,omitempty"`
	PubDate     json.RawMessage `json:"pubDate,omitempty"`
	PubDateAlt  json.RawMessage `json:"pub_date,omitempty"`
	SourceID    string          `json:"source_id,omitempty"`
	SourceName  string          `json:"source_name,omitempty"`
	Category    StringList      `json:"category,omitempty"`
	Language    string          `json:"language,omitempty"`
	Country     StringList      `json:"country,omitempty"`
}

// RawPayload is the envelope of a news API response.
type RawPayload struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Results      []RawArticle `json:"results"`
	NextPage     string       `json:"nextPage,omitempty"`
}

// Flag values attached to cleaned articles by the linguistic and date checks.
const (
	FlagExtremelyLong = "extremely_long"
	FlagVeryShort     = "very_short"
	FlagFutureDated   = "future_dated"
)

// CleanedArticle is a raw article after schema enforcement and text normalization.
type CleanedArticle struct {
	ArticleID      string   `json:"article_id"`
	Title          string   `json:"title"`
	BodyText       string   `json:"body_text"`
	Source         string   `json:"source"`
	Domain         string   `json:"domain"`
	Category       []string `json:"category"`
	PubDatetime    *int64   `json:"pub_datetime"` // Unix seconds, UTC
	URL            string   `json:"url"`
	Fingerprint    string   `json:"fingerprint"`
	Flags          []string `json:"flags,omitempty"`
	CharacterCount int      `json:"character_count"`
	TokenCount     int      `json:"token_count"`
	SentenceCount  int      `json:"sentence_count"`
}

// PublishedAt returns the publication time, or nil when unknown.
func (a *CleanedArticle) PublishedAt() *time.Time {
	if a.PubDatetime == nil {
		return nil
	}
	t := time.Unix(*a.PubDatetime, 0).UTC()
	return &t
}

// Features holds the derived fields computed by the feature extraction stage.
// Each field is populated by exactly one feature function.
type Features struct {
	TokenCount     int        `json:"token_count"`
	SentenceCount  int        `json:"sentence_count"`
	PubDatetime    *time.Time `json:"pub_datetime"`
	SourceCategory string     `json:"source_category"`
	Domain         string     `json:"domain"`
	CategoryTag    string     `json:"category_tag"`
}

// FeatureRecord is a cleaned article together with its extracted features.
type FeatureRecord struct {
	Article  CleanedArticle `json:"article"`
	Features Features       `json:"features"`
}

// EmbeddedRecord is a feature record with its semantic vector attached.
type EmbeddedRecord struct {
	FeatureRecord
	Embedding []float32 `json:"embedding"`
}

// RunStatus describes the outcome of a pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusEmpty     RunStatus = "empty"
	RunStatusFailed    RunStatus = "failed"
)

// Run is a ledger entry describing one pipeline invocation.
type Run struct {
	Id          ID        `json:"id"`
	Status      RunStatus `json:"status"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at,omitzero"`
	RawPath     string    `json:"raw_path,omitempty"`
	CleanedPath string    `json:"cleaned_path,omitempty"`
	DatasetPath string    `json:"dataset_path,omitempty"`
	Fetched     int       `json:"fetched"`
	Cleaned     int       `json:"cleaned"`
	Embedded    int       `json:"embedded"`
	Error       string    `json:"error,omitempty"`
}
