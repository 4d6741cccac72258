// Package config reads the daemon's environment surface. A .env file in the
// working directory is honored for local development; real deployments set
// the variables directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hnrq/veloren-translate/pipeline"
)

// Config is the full configuration of one daemon instance.
type Config struct {
	Port   string
	Stages []string

	FeedURL          string
	MaxFeedItems     int
	FetchFullContent bool

	RawBucket        string
	TranslatedBucket string
	MarkdownBucket   string
	JSONBucket       string

	SourceLanguage     string
	TargetLanguages    []string
	TranslateProject   string
	TranslateLocation  string
	ServiceAccountFile string

	S3Region       string
	S3Profile      string
	S3Endpoint     string
	S3UsePathStyle bool

	// KafkaBrokers empty disables the storage-event consumers; events can
	// still be injected over HTTP.
	KafkaBrokers     []string
	KafkaTopic       string
	KafkaGroupPrefix string
}

// AllStages lists the stage names accepted in STAGES, in pipeline order.
func AllStages() []string {
	return []string{
		pipeline.StageIngest,
		pipeline.StageTranslate,
		pipeline.StageRenderMarkdown,
		pipeline.StageRenderJSON,
	}
}

// Load reads .env (if present) and the process environment, then validates
// the keys required by the enabled stages.
func Load() (Config, error) {
	godotenv.Load()

	cfg := Config{
		Port:   GetEnv("PORT", "8080"),
		Stages: splitList(GetEnv("STAGES", strings.Join(AllStages(), ","))),

		FeedURL:          GetEnv("FEED_URL", "https://veloren.net/rss.xml"),
		MaxFeedItems:     GetEnvInt("MAX_FEED_ITEMS", 0),
		FetchFullContent: GetEnvBool("FETCH_FULL_CONTENT", false),

		RawBucket:        os.Getenv("RAW_BUCKET"),
		TranslatedBucket: os.Getenv("TRANSLATED_BUCKET"),
		MarkdownBucket:   os.Getenv("MARKDOWN_BUCKET"),
		JSONBucket:       os.Getenv("JSON_BUCKET"),

		SourceLanguage:     GetEnv("SOURCE_LANGUAGE", "en"),
		TargetLanguages:    splitList(GetEnv("TARGET_LANGUAGES", "es,pt-BR")),
		TranslateProject:   os.Getenv("TRANSLATE_PROJECT"),
		TranslateLocation:  GetEnv("TRANSLATE_LOCATION", "us-central1"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),

		S3Region:       os.Getenv("S3_REGION"),
		S3Profile:      os.Getenv("S3_PROFILE"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3UsePathStyle: GetEnvBool("S3_USE_PATH_STYLE", false),

		KafkaBrokers:     splitList(GetEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:       GetEnv("KAFKA_TOPIC", "blog-storage-events"),
		KafkaGroupPrefix: GetEnv("KAFKA_GROUP_PREFIX", "veloren-translate"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every enabled stage has the keys it needs.
func (c Config) Validate() error {
	if len(c.Stages) == 0 {
		return fmt.Errorf("STAGES selects no stage")
	}
	if len(c.TargetLanguages) == 0 {
		return fmt.Errorf("TARGET_LANGUAGES is empty")
	}

	var missing []string
	need := func(key, val string) {
		if val != "" {
			return
		}
		for _, m := range missing {
			if m == key {
				return
			}
		}
		missing = append(missing, key)
	}

	for _, stage := range c.Stages {
		switch stage {
		case pipeline.StageIngest:
			need("RAW_BUCKET", c.RawBucket)
		case pipeline.StageTranslate:
			need("RAW_BUCKET", c.RawBucket)
			need("TRANSLATED_BUCKET", c.TranslatedBucket)
			need("TRANSLATE_PROJECT", c.TranslateProject)
		case pipeline.StageRenderMarkdown:
			need("TRANSLATED_BUCKET", c.TranslatedBucket)
			need("MARKDOWN_BUCKET", c.MarkdownBucket)
		case pipeline.StageRenderJSON:
			need("TRANSLATED_BUCKET", c.TranslatedBucket)
			need("JSON_BUCKET", c.JSONBucket)
		default:
			return fmt.Errorf("unknown stage %q in STAGES", stage)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}
	return nil
}

// StageEnabled reports whether the named stage is hosted by this instance.
func (c Config) StageEnabled(name string) bool {
	for _, s := range c.Stages {
		if s == name {
			return true
		}
	}
	return false
}

// GroupID derives the consumer group for one stage.
func (c Config) GroupID(stage string) string {
	return c.KafkaGroupPrefix + "-" + stage
}

// GetEnv returns the value of key, or fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetEnvInt returns the integer value of key, or fallback when unset or
// unparseable.
func GetEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// GetEnvBool returns the boolean value of key, or fallback when unset or
// unparseable.
func GetEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
