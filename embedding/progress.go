package embedding

import (
	"fmt"
	"io"
)

// batchProgress rewrites a single status line after each embedded batch.
// A nil *batchProgress reports nothing.
type batchProgress struct {
	w        io.Writer
	batches  int
	articles int
	batch    int
	done     int
}

// newBatchProgress returns nil when w is nil. articles must be positive.
func newBatchProgress(w io.Writer, articles, batchSize int) *batchProgress {
	if w == nil {
		return nil
	}
	return &batchProgress{
		w:        w,
		batches:  (articles + batchSize - 1) / batchSize,
		articles: articles,
	}
}

func (b *batchProgress) batchDone(size int) {
	if b == nil {
		return
	}
	b.batch++
	b.done = min(b.done+size, b.articles)
	fmt.Fprintf(b.w, "\rEmbedding: batch %d/%d, %d/%d articles (%.1f%%)",
		b.batch, b.batches, b.done, b.articles, float64(b.done)/float64(b.articles)*100)
	if b.batch == b.batches {
		fmt.Fprintln(b.w)
	}
}
