// Package feed pulls the upstream blog feed and normalizes its entries into
// the shape the ingestion stage stages.
package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
)

// Item is one feed entry reduced to the fields the pipeline needs.
type Item struct {
	Title string
	// Link is the entry's canonical URL and the pipeline's deduplication
	// identity. Entries without one cannot be tracked.
	Link string
	// PublishedAt is the source-native timestamp string, kept verbatim.
	PublishedAt string
	BodyHTML    string
	CoverURL    string
}

// Fetcher retrieves and parses the configured feed.
type Fetcher struct {
	URL string
	// Limit caps the number of items taken from the top of the feed. Zero
	// means no cap.
	Limit int
	// ExtractFullContent replaces thin entry bodies with readability-extracted
	// page content before staging.
	ExtractFullContent bool
	Log                *logrus.Logger
}

// Fetch downloads and parses the feed, newest entries first as the feed
// orders them.
func (f *Fetcher) Fetch(ctx context.Context) ([]Item, error) {
	parsed, err := gofeed.NewParser().ParseURLWithContext(f.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", f.URL, err)
	}

	count := len(parsed.Items)
	if f.Limit > 0 && count > f.Limit {
		count = f.Limit
	}

	items := make([]Item, 0, count)
	for _, entry := range parsed.Items[:count] {
		items = append(items, fromEntry(entry))
	}

	if f.ExtractFullContent {
		f.extractAll(items)
	}

	f.Log.WithFields(logrus.Fields{"url": f.URL, "items": len(items)}).Debug("feed fetched")
	return items, nil
}

func fromEntry(entry *gofeed.Item) Item {
	item := Item{
		Title:       entry.Title,
		Link:        entry.Link,
		PublishedAt: entry.Published,
		BodyHTML:    entry.Content,
	}
	if item.PublishedAt == "" {
		item.PublishedAt = entry.Updated
	}
	if item.BodyHTML == "" {
		item.BodyHTML = entry.Description
	}
	if entry.Image != nil {
		item.CoverURL = entry.Image.URL
	}
	if item.CoverURL == "" {
		for _, enc := range entry.Enclosures {
			if enc != nil && strings.HasPrefix(enc.Type, "image/") {
				item.CoverURL = enc.URL
				break
			}
		}
	}
	return item
}
