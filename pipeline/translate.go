package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hnrq/veloren-translate/naming"
)

// Translator reacts to raw-HTML creation events by submitting one batch
// translation job per staged document. It is pure delegation: the translation
// service reads the source object and writes one output per target language
// under a fresh timestamp prefix in the translated bucket.
type Translator struct {
	Client           TranslationClient
	RawBucket        string
	TranslatedBucket string
	SourceLanguage   string
	TargetLanguages  []string
	Log              *logrus.Logger
	Clock            Clock
}

// Handle processes one storage event.
func (t *Translator) Handle(ctx context.Context, ev ObjectEvent) (Result, error) {
	if ev.Bucket != t.RawBucket ||
		!strings.HasPrefix(ev.Key, naming.RawPrefix+"/") ||
		!strings.HasSuffix(ev.Key, ".html") {
		t.Log.WithFields(logrus.Fields{"bucket": ev.Bucket, "key": ev.Key}).Debug("event outside the raw staging area, skipping")
		return Result{Outcome: OutcomeSkipped, Message: "not a raw-HTML object"}, nil
	}

	job := TranslationJob{
		SourceBucket:    ev.Bucket,
		SourceKey:       ev.Key,
		OutputBucket:    t.TranslatedBucket,
		OutputPrefix:    fmt.Sprintf("%d/", t.Clock.now().UnixMilli()),
		SourceLanguage:  t.SourceLanguage,
		TargetLanguages: t.TargetLanguages,
	}
	if err := t.Client.Translate(ctx, job); err != nil {
		return Result{}, fmt.Errorf("translate %s: %w", ev.Key, err)
	}

	t.Log.WithFields(logrus.Fields{
		"key":       ev.Key,
		"languages": strings.Join(t.TargetLanguages, ","),
		"output":    job.OutputBucket + "/" + job.OutputPrefix,
	}).Info("batch translation finished")
	return Result{
		Outcome: OutcomeCompleted,
		Message: fmt.Sprintf("translated %s into %d language(s)", ev.Key, len(t.TargetLanguages)),
	}, nil
}
