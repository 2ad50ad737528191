package dataset

import (
	"github.com/poiesic/newsprep/core"
)

// Row is one line of the output dataset.
type Row struct {
	ArticleID      string    `parquet:"article_id" json:"article_id"`
	Title          string    `parquet:"title" json:"title"`
	CleanedText    string    `parquet:"cleaned_text" json:"cleaned_text"`
	Source         string    `parquet:"source" json:"source"`
	URL            string    `parquet:"url" json:"url"`
	Category       []string  `parquet:"category,list" json:"category"`
	CharacterCount int64     `parquet:"character_count" json:"character_count"`
	TokenCount     int64     `parquet:"token_count" json:"token_count"`
	SentenceCount  int64     `parquet:"sentence_count" json:"sentence_count"`
	PubDatetime    *int64    `parquet:"pub_datetime,optional" json:"pub_datetime"` // Unix seconds, UTC
	Domain         string    `parquet:"domain" json:"domain"`
	CategoryTag    string    `parquet:"category_tag" json:"category_tag"`
	SourceCategory string    `parquet:"source_category" json:"source_category"`
	Flags          []string  `parquet:"flags,list" json:"flags"`
	Embedding      []float32 `parquet:"embedding,list" json:"embedding"`
}

// Columns lists the column names in output order.
var Columns = []string{
	"article_id",
	"title",
	"cleaned_text",
	"source",
	"url",
	"category",
	"character_count",
	"token_count",
	"sentence_count",
	"pub_datetime",
	"domain",
	"category_tag",
	"source_category",
	"flags",
	"embedding",
}

// NewRow flattens an embedded record into a dataset row.
func NewRow(record core.EmbeddedRecord) Row {
	article := record.Article
	features := record.Features

	var pub *int64
	if features.PubDatetime != nil {
		ts := features.PubDatetime.Unix()
		pub = &ts
	}

	return Row{
		ArticleID:      article.ArticleID,
		Title:          article.Title,
		CleanedText:    article.BodyText,
		Source:         article.Source,
		URL:            article.URL,
		Category:       nonNil(article.Category),
		CharacterCount: int64(article.CharacterCount),
		TokenCount:     int64(features.TokenCount),
		SentenceCount:  int64(features.SentenceCount),
		PubDatetime:    pub,
		Domain:         features.Domain,
		CategoryTag:    features.CategoryTag,
		SourceCategory: features.SourceCategory,
		Flags:          nonNil(article.Flags),
		Embedding:      record.Embedding,
	}
}

// NewRows flattens records, preserving order.
func NewRows(records []core.EmbeddedRecord) []Row {
	rows := make([]Row, len(records))
	for i, record := range records {
		rows[i] = NewRow(record)
	}
	return rows
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
