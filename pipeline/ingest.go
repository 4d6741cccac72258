package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hnrq/veloren-translate/envelope"
	"github.com/hnrq/veloren-translate/feed"
	"github.com/hnrq/veloren-translate/ledger"
	"github.com/hnrq/veloren-translate/naming"
)

// FeedSource fetches the upstream feed.
type FeedSource interface {
	Fetch(ctx context.Context) ([]feed.Item, error)
}

// Ingestor stages new feed entries as raw HTML objects and records their
// links in the ledger. The ledger is saved once per pass, and only after
// every staged write has succeeded: a partial failure leaves this pass's
// links unrecorded, so the next pass re-stages them. Duplicated documents
// are the accepted cost of never losing one.
type Ingestor struct {
	Source    FeedSource
	Store     BlobStore
	Ledger    *ledger.Ledger
	RawBucket string
	Log       *logrus.Logger
	Clock     Clock
}

// Run executes one ingestion pass.
func (g *Ingestor) Run(ctx context.Context) (Result, error) {
	items, err := g.Source.Fetch(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch feed: %w", err)
	}

	links := make([]string, 0, len(items))
	byLink := make(map[string]feed.Item, len(items))
	for _, item := range items {
		if item.Link == "" {
			g.Log.WithField("title", item.Title).Warn("feed entry has no link, cannot deduplicate, skipping")
			continue
		}
		if _, ok := byLink[item.Link]; ok {
			continue
		}
		byLink[item.Link] = item
		links = append(links, item.Link)
	}

	processed := g.Ledger.Load(ctx)
	newLinks := processed.Missing(links)
	if len(newLinks) == 0 {
		g.Log.WithField("feed_items", len(items)).Info("no new feed entries")
		return Result{Outcome: OutcomeNoNewItems, Message: "no new items in feed"}, nil
	}

	// Keys are assigned sequentially so entries staged in the same
	// millisecond still get distinct discriminators. The writes themselves
	// fan out concurrently.
	keys := make([]string, len(newLinks))
	payloads := make([][]byte, len(newLinks))
	var lastMilli int64
	for i, link := range newLinks {
		item := byLink[link]
		createdAt := g.Clock.now()
		if ms := createdAt.UnixMilli(); ms <= lastMilli {
			createdAt = time.UnixMilli(lastMilli + 1)
		}
		lastMilli = createdAt.UnixMilli()

		keys[i] = naming.RawKey(item.Title, createdAt)
		payloads[i] = []byte(envelope.Wrap(envelope.Metadata{
			Title:       item.Title,
			PublishedAt: item.PublishedAt,
			SourceURL:   item.Link,
			CoverURL:    item.CoverURL,
		}, item.BodyHTML))
	}

	errs := make([]error, len(newLinks))
	var wg sync.WaitGroup
	for i := range newLinks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = g.Store.Upload(ctx, g.RawBucket, keys[i], payloads[i], "text/html")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			// No ledger save on a partial failure: every link from this pass
			// stays unrecorded and is re-staged next time.
			return Result{}, fmt.Errorf("stage %s: %w", keys[i], err)
		}
	}

	for _, link := range newLinks {
		processed.Add(link)
	}
	if err := g.Ledger.Save(ctx, processed); err != nil {
		return Result{}, err
	}

	g.Log.WithFields(logrus.Fields{"new_items": len(newLinks), "ledger_size": processed.Len()}).Info("ingestion pass complete")
	return Result{
		Outcome:  OutcomeCompleted,
		Message:  fmt.Sprintf("ingested %d new item(s)", len(newLinks)),
		Written:  keys,
		NewItems: len(newLinks),
	}, nil
}
