package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hnrq/veloren-translate/envelope"
	"github.com/hnrq/veloren-translate/markdown"
	"github.com/hnrq/veloren-translate/naming"
)

// MarkdownRenderer converts translated HTML objects into frontmatter-headed
// Markdown documents, one per language, named <lang>/<base>.md so re-renders
// of the same document overwrite instead of piling up.
type MarkdownRenderer struct {
	Store            BlobStore
	Convert          ConvertFunc
	TranslatedBucket string
	OutputBucket     string
	Log              *logrus.Logger
}

// Handle processes one storage event.
func (r *MarkdownRenderer) Handle(ctx context.Context, ev ObjectEvent) (Result, error) {
	parsed, ok := r.match(ev)
	if !ok {
		return Result{Outcome: OutcomeSkipped, Message: "not a translated document"}, nil
	}

	data, err := r.Store.Download(ctx, ev.Bucket, ev.Key)
	if err != nil {
		return Result{}, fmt.Errorf("download %s: %w", ev.Key, err)
	}

	meta, body := envelope.Decode(string(data))
	rendered, err := r.Convert(body)
	if err != nil {
		return Result{}, fmt.Errorf("convert %s to markdown: %w", ev.Key, err)
	}

	doc, err := markdown.Compose(markdown.Frontmatter{
		Title:     meta.Title,
		Date:      meta.PublishedAt,
		SourceURL: meta.SourceURL,
		// The language comes from the object name, never from the body.
		Language: parsed.Language,
	}, rendered)
	if err != nil {
		return Result{}, err
	}

	key := naming.MarkdownKey(parsed.Base, parsed.Language)
	if err := r.Store.Upload(ctx, r.OutputBucket, key, []byte(doc), "text/markdown"); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", key, err)
	}

	r.Log.WithFields(logrus.Fields{"source": ev.Key, "written": key}).Info("markdown rendered")
	return Result{
		Outcome: OutcomeCompleted,
		Message: fmt.Sprintf("rendered %s", key),
		Written: []string{key},
	}, nil
}

func (r *MarkdownRenderer) match(ev ObjectEvent) (naming.TranslatedKey, bool) {
	if ev.Bucket != r.TranslatedBucket {
		return naming.TranslatedKey{}, false
	}
	parsed, ok := naming.ParseTranslatedKey(ev.Key)
	if !ok {
		r.Log.WithField("key", ev.Key).Debug("name does not match the translation contract, skipping")
	}
	return parsed, ok
}
