package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hnrq/veloren-translate/api"
	"github.com/hnrq/veloren-translate/config"
	"github.com/hnrq/veloren-translate/events"
	"github.com/hnrq/veloren-translate/feed"
	"github.com/hnrq/veloren-translate/ledger"
	"github.com/hnrq/veloren-translate/logging"
	"github.com/hnrq/veloren-translate/markdown"
	"github.com/hnrq/veloren-translate/metrics"
	"github.com/hnrq/veloren-translate/pipeline"
	"github.com/hnrq/veloren-translate/status"
	"github.com/hnrq/veloren-translate/storage"
	"github.com/hnrq/veloren-translate/translate"
)

func main() {
	log := logging.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("configuration error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, storage.Config{
		Region:       cfg.S3Region,
		Profile:      cfg.S3Profile,
		Endpoint:     cfg.S3Endpoint,
		UsePathStyle: cfg.S3UsePathStyle,
	})
	if err != nil {
		log.WithError(err).Fatal("object storage init failed")
	}

	mets := metrics.New()
	statusMgr := status.NewManager(cfg.Stages...)
	observe := func(stage string, res pipeline.Result, err error, elapsed time.Duration) {
		outcome := string(res.Outcome)
		if err != nil {
			outcome = "failed"
		}
		statusMgr.Record(stage, res, err)
		mets.ObserveStage(stage, outcome, elapsed)
	}

	deps := api.Deps{
		Status:  statusMgr,
		Observe: observe,
		Log:     log,
	}

	if cfg.StageEnabled(pipeline.StageIngest) {
		deps.Ingest = &pipeline.Ingestor{
			Source: &feed.Fetcher{
				URL:                cfg.FeedURL,
				Limit:              cfg.MaxFeedItems,
				ExtractFullContent: cfg.FetchFullContent,
				Log:                log,
			},
			Store:     store,
			Ledger:    ledger.New(store, cfg.RawBucket, log),
			RawBucket: cfg.RawBucket,
			Log:       log,
		}
	}

	if cfg.StageEnabled(pipeline.StageTranslate) {
		client, err := translate.NewClient(ctx, translate.Config{
			Project:         cfg.TranslateProject,
			Location:        cfg.TranslateLocation,
			CredentialsFile: cfg.ServiceAccountFile,
		}, log)
		if err != nil {
			log.WithError(err).Fatal("translation client init failed")
		}
		deps.Events = append(deps.Events, api.EventStage{
			Name: pipeline.StageTranslate,
			Handler: &pipeline.Translator{
				Client:           client,
				RawBucket:        cfg.RawBucket,
				TranslatedBucket: cfg.TranslatedBucket,
				SourceLanguage:   cfg.SourceLanguage,
				TargetLanguages:  cfg.TargetLanguages,
				Log:              log,
			},
		})
	}

	if cfg.StageEnabled(pipeline.StageRenderMarkdown) {
		deps.Events = append(deps.Events, api.EventStage{
			Name: pipeline.StageRenderMarkdown,
			Handler: &pipeline.MarkdownRenderer{
				Store:            store,
				Convert:          markdown.Convert,
				TranslatedBucket: cfg.TranslatedBucket,
				OutputBucket:     cfg.MarkdownBucket,
				Log:              log,
			},
		})
	}

	if cfg.StageEnabled(pipeline.StageRenderJSON) {
		deps.Events = append(deps.Events, api.EventStage{
			Name: pipeline.StageRenderJSON,
			Handler: &pipeline.JSONRenderer{
				Store:            store,
				TranslatedBucket: cfg.TranslatedBucket,
				OutputBucket:     cfg.JSONBucket,
				Log:              log,
			},
		})
	}

	// Each event stage joins the notification topic under its own consumer
	// group, so one stage's failure never stalls another's offsets.
	if len(cfg.KafkaBrokers) == 0 {
		log.Warn("KAFKA_BROKERS is empty, storage-event consumers disabled")
	} else {
		for _, stage := range deps.Events {
			consumer, err := events.NewConsumer(events.ConsumerConfig{
				Brokers: cfg.KafkaBrokers,
				Topic:   cfg.KafkaTopic,
				GroupID: cfg.GroupID(stage.Name),
				Stage:   stage.Name,
				Handler: stage.Handler,
				Observe: observe,
				Log:     log,
			})
			if err != nil {
				log.WithError(err).WithField("stage", stage.Name).Fatal("consumer init failed")
			}
			if err := consumer.Start(ctx); err != nil {
				log.WithError(err).WithField("stage", stage.Name).Fatal("consumer start failed")
			}
			defer consumer.Close()
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(deps),
	}
	go func() {
		log.WithField("addr", srv.Addr).Info("api server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("api server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("api server shutdown failed")
	}
}
