package feed

import (
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const (
	extractWorkers = 5
	extractTimeout = 30 * time.Second

	// Bodies shorter than this are treated as summaries worth replacing with
	// the extracted article.
	thinBodyLimit = 500
)

// extractAll upgrades thin entry bodies with readability-extracted page
// content, a bounded number of fetches at a time. An extraction failure
// leaves the feed-provided body in place.
func (f *Fetcher) extractAll(items []Item) {
	idx := make(chan int, len(items))
	var wg sync.WaitGroup

	for w := 0; w < extractWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				f.extractOne(&items[i])
			}
		}()
	}

	for i := range items {
		if items[i].Link != "" && len(items[i].BodyHTML) < thinBodyLimit {
			idx <- i
		}
	}
	close(idx)
	wg.Wait()
}

func (f *Fetcher) extractOne(item *Item) {
	article, err := readability.FromURL(item.Link, extractTimeout)
	if err != nil {
		f.Log.WithError(err).WithField("url", item.Link).Warn("content extraction failed, keeping feed body")
		return
	}

	if article.Content != "" {
		item.BodyHTML = article.Content
	}
	if item.CoverURL == "" {
		item.CoverURL = article.Image
	}
}
