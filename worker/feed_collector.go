package worker

import (
	"context"
	"log/slog"
	"strings"

	"news-herald/internal/feed"
	"news-herald/internal/fingerprint"
	"news-herald/internal/model"
)

// Source fetches the entries of one feed.
type Source interface {
	Fetch(ctx context.Context, url string) ([]feed.Entry, error)
}

// ItemInserter stores an item unless its fingerprint is already known.
type ItemInserter interface {
	InsertIfNew(ctx context.Context, it model.Item) (bool, error)
}

// SourceResult is the outcome of ingesting one feed.
type SourceResult struct {
	URL        string `json:"url"`
	Fetched    int    `json:"fetched"`
	Taken      int    `json:"taken"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
	Malformed  int    `json:"malformed"`
	Err        error  `json:"-"`
}

// IngestReport summarises one ingest run.
type IngestReport struct {
	Sources []SourceResult `json:"sources"`
}

// Inserted is the number of new items across all sources.
func (r IngestReport) Inserted() int {
	n := 0
	for _, s := range r.Sources {
		n += s.Inserted
	}
	return n
}

// Failed lists the sources that could not be fetched or stored.
func (r IngestReport) Failed() []SourceResult {
	var out []SourceResult
	for _, s := range r.Sources {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// FeedCollector pulls the first Limit entries of each feed into the item
// store. A failing feed is logged and skipped; the others still run.
type FeedCollector struct {
	Source Source
	Store  ItemInserter
	URLs   []string
	Limit  int
}

// Run ingests every configured feed once.
func (w *FeedCollector) Run(ctx context.Context) IngestReport {
	limit := w.Limit
	if limit <= 0 {
		limit = 3
	}
	var rep IngestReport
	for _, url := range w.URLs {
		if ctx.Err() != nil {
			break
		}
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		res := w.ingest(ctx, url, limit)
		if res.Err != nil {
			slog.Error("feed-collector: source failed", "url", url, "error", res.Err)
		} else {
			slog.Info("feed-collector: source done", "url", url, "taken", res.Taken, "inserted", res.Inserted, "duplicates", res.Duplicates, "malformed", res.Malformed)
		}
		rep.Sources = append(rep.Sources, res)
	}
	return rep
}

func (w *FeedCollector) ingest(ctx context.Context, url string, limit int) SourceResult {
	res := SourceResult{URL: url}
	entries, err := w.Source.Fetch(ctx, url)
	if err != nil {
		res.Err = err
		return res
	}
	res.Fetched = len(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	res.Taken = len(entries)
	for _, e := range entries {
		if e.Malformed {
			res.Malformed++
			slog.Warn("feed-collector: skipping malformed entry", "url", url)
			continue
		}
		it := model.Item{
			Title:       e.Title,
			Summary:     e.Summary,
			Link:        e.Link,
			PublishedAt: e.PublishedAt,
			Fingerprint: fingerprint.Of(e.Title, e.Summary),
		}
		inserted, err := w.Store.InsertIfNew(ctx, it)
		if err != nil {
			res.Err = err
			return res
		}
		if inserted {
			res.Inserted++
		} else {
			res.Duplicates++
		}
	}
	return res
}

