package feed

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Placeholders used when an entry lacks a field.
const (
	NoTitle   = "No title available"
	NoSummary = "No summary available"
	NoLink    = "No link available"
)

// Entry is one feed entry reduced to the fields the pipeline stores.
type Entry struct {
	Title       string
	Summary     string
	Link        string
	PublishedAt string
	// Malformed is set when the entry carries no usable content at all.
	Malformed bool
}

// Fetcher downloads and parses syndication documents (RSS, Atom, JSON Feed).
type Fetcher struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	userAgent  string
	now        func() time.Time
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		parser:     gofeed.NewParser(),
		userAgent:  userAgent,
		now:        time.Now,
	}
}

// Fetch returns the entries of the feed at url in document order.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	data, err := f.download(ctx, url)
	if err != nil {
		return nil, err
	}
	return f.Parse(data)
}

// Parse converts a syndication document into entries.
func (f *Fetcher) Parse(data []byte) ([]Entry, error) {
	parsed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	entries := make([]Entry, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		entries = append(entries, f.normalize(it))
	}
	return entries, nil
}

func (f *Fetcher) normalize(it *gofeed.Item) Entry {
	if it == nil {
		return Entry{Malformed: true}
	}
	title := strings.TrimSpace(it.Title)
	summary := strings.TrimSpace(cmp.Or(it.Description, it.Content))
	link := strings.TrimSpace(it.Link)
	if title == "" && summary == "" && link == "" {
		return Entry{Malformed: true}
	}
	published := strings.TrimSpace(cmp.Or(it.Published, it.Updated))
	if published == "" {
		published = f.now().UTC().Format(time.RFC3339)
	}
	return Entry{
		Title:       cmp.Or(title, NoTitle),
		Summary:     cmp.Or(summary, NoSummary),
		Link:        cmp.Or(link, NoLink),
		PublishedAt: published,
	}
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}
