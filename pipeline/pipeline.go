// Package pipeline implements the four processing stages of the translation
// pipeline. Stages communicate only through object storage: each one is
// triggered by an HTTP call or an object-creation event, validates that the
// event concerns it, transforms one document, and writes the result under the
// naming contract the next stage watches for.
package pipeline

import (
	"context"
	"time"
)

// Stage names, used for routing, status and metrics labels.
const (
	StageIngest         = "ingest"
	StageTranslate      = "translate"
	StageRenderMarkdown = "render-markdown"
	StageRenderJSON     = "render-json"
)

// ObjectEvent is an object-storage creation notification, however delivered:
// a bucket notification from the broker, or a manual injection over HTTP.
type ObjectEvent struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"name"`
	ContentType string `json:"contentType,omitempty"`
}

// Outcome classifies how a stage invocation ended short of failure.
type Outcome string

const (
	// OutcomeCompleted means the stage transformed its input and wrote output.
	OutcomeCompleted Outcome = "completed"
	// OutcomeSkipped means the trigger did not concern this stage. Buckets
	// deliver every creation event to every listener, so skipping is routine
	// and never an error.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeNoNewItems means an ingestion pass found nothing new to stage.
	OutcomeNoNewItems Outcome = "no_new_items"
)

// Result describes a finished stage invocation.
type Result struct {
	Outcome  Outcome  `json:"outcome"`
	Message  string   `json:"message"`
	Written  []string `json:"written,omitempty"`
	NewItems int      `json:"new_items,omitempty"`
}

// Handler is implemented by the event-driven stages.
type Handler interface {
	Handle(ctx context.Context, ev ObjectEvent) (Result, error)
}

// ObserveFunc receives the outcome of every stage invocation, however
// triggered. Status tracking and metrics hang off it.
type ObserveFunc func(stage string, res Result, err error, elapsed time.Duration)

// BlobStore is the object-storage surface shared by the stages.
type BlobStore interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error
}

// TranslationJob describes one batch translation request: one source object,
// one output namespace, a fixed list of target languages.
type TranslationJob struct {
	SourceBucket    string
	SourceKey       string
	OutputBucket    string
	OutputPrefix    string
	SourceLanguage  string
	TargetLanguages []string
}

// TranslationClient hands a job to the external batch translation service
// and returns once it has finished. The service writes the per-language
// outputs itself; no document payload passes through this process.
type TranslationClient interface {
	Translate(ctx context.Context, job TranslationJob) error
}

// ConvertFunc turns an HTML fragment into Markdown.
type ConvertFunc func(html string) (string, error)

// Clock pins invocation timestamps in tests. A nil Clock reads the wall
// clock.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c != nil {
		return c()
	}
	return time.Now()
}
