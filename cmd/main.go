package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/application/services"
	"github.com/kennydd0/RedditVideoMakerBot/config"
	"github.com/kennydd0/RedditVideoMakerBot/infrastructure/adapters"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the settings file")
	threadID := flag.String("thread", "", "thread id to render, overrides the settings file")
	flag.Parse()

	// Secrets live in .env during local runs; a missing file is fine.
	_ = godotenv.Load()

	var opts []config.Option
	if *threadID != "" {
		opts = append(opts, config.WithThreadID(*threadID))
	}
	cfg, err := config.Load(*configPath, opts...)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if writeErr := os.WriteFile(*configPath, []byte(config.Sample()), 0o644); writeErr == nil {
				fmt.Fprintf(os.Stderr, "wrote a sample settings file to %s, edit it and run again\n", *configPath)
				os.Exit(1)
			}
		}
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	zeroLogger := adapters.NewZerologWrapper(cfg.Pipeline.LogLevel)

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}
	workerPool, err := ants.NewPool(cfg.Pipeline.Workers, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	contentFetcher := adapters.NewContentFetcher(zeroLogger)

	synthesizer, err := adapters.SelectSynthesizer(cfg, contentFetcher, zeroLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create speech synthesizer")
	}
	cardRenderer, err := adapters.SelectRenderer(cfg, contentFetcher, zeroLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create card renderer")
	}
	artifactCache, err := adapters.NewDiskArtifactCache(zeroLogger, cfg.Pipeline.CacheDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create artifact cache")
	}

	toolkit := adapters.NewFFmpegToolkit(zeroLogger)
	backgrounds := adapters.NewBackgroundManager(zeroLogger, cfg.Background.Video, cfg.Background.Audio, cfg.Pipeline.AssetsDir)
	threadFetcher := adapters.NewRedditFetcher(zeroLogger, contentFetcher, cfg.Thread.APIBaseURL,
		cfg.Thread.IncludeBody, cfg.Thread.MinReplyLength, cfg.Thread.MaxReplyLength)

	var publisher outbound.VideoPublisherPort
	if cfg.Publish.Enabled {
		publisher, err = adapters.NewS3VideoPublisher(zeroLogger, cfg.Publish.Bucket, cfg.Publish.Region)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create video publisher")
		}
	}

	retry := services.RetryPolicy{
		Attempts:  cfg.Pipeline.RetryAttempts,
		BaseDelay: cfg.RetryBaseDelay(),
	}

	narrator := services.NewNarrationService(zeroLogger, synthesizer, artifactCache, toolkit, cfg.TTS.Voice, retry)
	visualRenderer := services.NewVisualRenderer(zeroLogger, cardRenderer, artifactCache, cfg.Render.Theme, cfg.Render.Width, retry)
	timelineBuilder := services.NewTimelineBuilder(zeroLogger, cfg.Padding(), cfg.IntroOffset(), cfg.MaxDuration())
	composer := services.NewComposer(zeroLogger, toolkit)

	orchestrator := services.NewPipelineOrchestrator(cfg, zeroLogger, workerPool,
		threadFetcher, backgrounds, narrator, visualRenderer, timelineBuilder, composer, publisher)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := orchestrator.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Pipeline run failed")
	}

	fmt.Println(result.OutputPath)
}
