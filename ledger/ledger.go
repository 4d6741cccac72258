// Package ledger persists the set of feed item links that have already been
// staged. The set lives as one JSON array in the raw bucket and is rewritten
// whole on every save: last writer wins, and within a run the set only grows.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hnrq/veloren-translate/storage"
)

// Key is the fixed object name of the persisted set, at the root of the raw
// bucket next to the raw-html/ staging area.
const Key = "processed_rss_items.json"

// Store is the blob-store surface the ledger needs. *storage.S3 satisfies it.
type Store interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error
}

// Ledger reads and writes the persisted processed set.
type Ledger struct {
	store  Store
	bucket string
	log    *logrus.Logger
}

// New builds a ledger backed by the given bucket.
func New(store Store, bucket string, log *logrus.Logger) *Ledger {
	return &Ledger{store: store, bucket: bucket, log: log}
}

// Load reads the persisted set. Load never fails: absence of the ledger
// object is the first-run case and yields an empty set, and any other read or
// decode problem also degrades to an empty set so ingestion is never blocked.
// The conditions are distinguished in the logs only; degrading on a real
// failure re-ingests at most everything currently in the feed, which the
// at-least-once contract already allows.
func (l *Ledger) Load(ctx context.Context) *ProcessedSet {
	data, err := l.store.Download(ctx, l.bucket, Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			l.log.WithField("bucket", l.bucket).Info("no ledger object yet, starting from an empty set")
		} else {
			l.log.WithError(err).WithField("bucket", l.bucket).Error("ledger read failed, proceeding with an empty set")
		}
		return NewProcessedSet()
	}

	var links []string
	if err := json.Unmarshal(data, &links); err != nil {
		l.log.WithError(err).Error("ledger payload is not a JSON string array, proceeding with an empty set")
		return NewProcessedSet()
	}
	return NewProcessedSet(links...)
}

// Save overwrites the persisted set with the full contents of set.
func (l *Ledger) Save(ctx context.Context, set *ProcessedSet) error {
	data, err := json.Marshal(set.Links())
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := l.store.Upload(ctx, l.bucket, Key, data, "application/json"); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	l.log.WithFields(logrus.Fields{"bucket": l.bucket, "links": set.Len()}).Debug("ledger saved")
	return nil
}
