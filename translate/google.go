// Package translate submits batch jobs to the Cloud Translation v3 API. The
// service reads the staged source object and writes one output per target
// language directly into the translated bucket; this client only submits the
// job and waits for the long-running operation to settle.
package translate

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	translatev3 "google.golang.org/api/translate/v3"

	"github.com/hnrq/veloren-translate/pipeline"
)

const defaultPollInterval = 5 * time.Second

// Config locates the project and credentials for the translation service.
type Config struct {
	Project  string
	Location string
	// CredentialsFile is a service-account key path. Empty falls back to
	// application default credentials.
	CredentialsFile string
}

// Client implements pipeline.TranslationClient against Cloud Translation v3.
type Client struct {
	svc          *translatev3.Service
	parent       string
	pollInterval time.Duration
	log          *logrus.Logger
}

// NewClient builds the service client.
func NewClient(ctx context.Context, cfg Config, log *logrus.Logger) (*Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		jwtCfg, err := google.JWTConfigFromJSON(data, translatev3.CloudTranslationScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account file: %w", err)
		}
		opts = append(opts, option.WithHTTPClient(jwtCfg.Client(ctx)))
	}

	svc, err := translatev3.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create translation service: %w", err)
	}
	return &Client{
		svc:          svc,
		parent:       fmt.Sprintf("projects/%s/locations/%s", cfg.Project, cfg.Location),
		pollInterval: defaultPollInterval,
		log:          log,
	}, nil
}

// Translate submits one batch job and blocks until it finishes or ctx is
// canceled.
func (c *Client) Translate(ctx context.Context, job pipeline.TranslationJob) error {
	req := &translatev3.BatchTranslateTextRequest{
		SourceLanguageCode:  job.SourceLanguage,
		TargetLanguageCodes: job.TargetLanguages,
		InputConfigs: []*translatev3.InputConfig{{
			GcsSource: &translatev3.GcsSource{InputUri: gcsURI(job.SourceBucket, job.SourceKey)},
			MimeType:  "text/html",
		}},
		OutputConfig: &translatev3.OutputConfig{
			GcsDestination: &translatev3.GcsDestination{
				OutputUriPrefix: gcsURI(job.OutputBucket, job.OutputPrefix),
			},
		},
	}

	op, err := c.svc.Projects.Locations.BatchTranslateText(c.parent, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("submit batch translation: %w", err)
	}
	c.log.WithFields(logrus.Fields{"operation": op.Name, "source": job.SourceKey}).Info("batch translation submitted")

	return c.await(ctx, op)
}

// await polls the long-running operation until it reports done.
func (c *Client) await(ctx context.Context, op *translatev3.Operation) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		if op.Done {
			if op.Error != nil {
				return fmt.Errorf("batch translation %s failed: %s", op.Name, op.Error.Message)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		latest, err := c.svc.Projects.Locations.Operations.Get(op.Name).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("poll batch translation %s: %w", op.Name, err)
		}
		op = latest
	}
}

func gcsURI(bucket, key string) string {
	return "gs://" + bucket + "/" + key
}
