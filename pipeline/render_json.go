package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hnrq/veloren-translate/envelope"
	"github.com/hnrq/veloren-translate/naming"
)

// Record is the structured document shape consumed by the JSON content store.
// Content carries the translated HTML as is, with the metadata marker
// stripped.
type Record struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	SourceURL string `json:"source_url"`
	Language  string `json:"language"`
	Content   string `json:"content"`
	Cover     string `json:"cover"`
	Slug      string `json:"slug"`
}

// JSONRenderer wraps translated HTML objects into structured JSON records,
// named <lang>/<renderMillis>/<base>.json so every render lands under its own
// prefix.
type JSONRenderer struct {
	Store            BlobStore
	TranslatedBucket string
	OutputBucket     string
	Log              *logrus.Logger
	Clock            Clock
}

// Handle processes one storage event.
func (r *JSONRenderer) Handle(ctx context.Context, ev ObjectEvent) (Result, error) {
	if ev.Bucket != r.TranslatedBucket {
		return Result{Outcome: OutcomeSkipped, Message: "not a translated document"}, nil
	}
	parsed, ok := naming.ParseTranslatedKey(ev.Key)
	if !ok {
		r.Log.WithField("key", ev.Key).Debug("name does not match the translation contract, skipping")
		return Result{Outcome: OutcomeSkipped, Message: "not a translated document"}, nil
	}

	data, err := r.Store.Download(ctx, ev.Bucket, ev.Key)
	if err != nil {
		return Result{}, fmt.Errorf("download %s: %w", ev.Key, err)
	}

	meta, body := envelope.Decode(string(data))
	record := Record{
		Title:     meta.Title,
		Date:      meta.PublishedAt,
		SourceURL: meta.SourceURL,
		Language:  parsed.Language,
		Content:   body,
		Cover:     meta.CoverURL,
		Slug:      naming.RecordSlug(meta.Title),
	}

	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("encode record for %s: %w", ev.Key, err)
	}

	key := naming.JSONKey(parsed.Base, parsed.Language, r.Clock.now())
	if err := r.Store.Upload(ctx, r.OutputBucket, key, payload, "application/json"); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", key, err)
	}

	r.Log.WithFields(logrus.Fields{"source": ev.Key, "written": key}).Info("json record rendered")
	return Result{
		Outcome: OutcomeCompleted,
		Message: fmt.Sprintf("rendered %s", key),
		Written: []string{key},
	}, nil
}
