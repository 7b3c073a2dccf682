package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/10botics/cantonese-speech-to-text/internal/app"
	"github.com/10botics/cantonese-speech-to-text/internal/config"
	"github.com/10botics/cantonese-speech-to-text/internal/events"
	"github.com/10botics/cantonese-speech-to-text/internal/guard"
	relay "github.com/10botics/cantonese-speech-to-text/internal/http"
	"github.com/10botics/cantonese-speech-to-text/internal/observability"
	"github.com/10botics/cantonese-speech-to-text/internal/observability/logging"
	"github.com/10botics/cantonese-speech-to-text/internal/observability/metrics"
	"github.com/10botics/cantonese-speech-to-text/internal/service/speaker"
	"github.com/10botics/cantonese-speech-to-text/internal/service/stt"
	"github.com/10botics/cantonese-speech-to-text/internal/service/stt/fal"
	"github.com/10botics/cantonese-speech-to-text/internal/service/stt/mock"
	"github.com/10botics/cantonese-speech-to-text/internal/service/textconv"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Application startup failed")
	}
	defer application.Shutdown()

	publisher := events.New(&events.Config{
		Enabled:        cfg.Kafka.Enabled,
		Brokers:        cfg.Kafka.Brokers,
		TopicCompleted: cfg.Kafka.TopicCompleted,
		TopicSpeakers:  cfg.Kafka.TopicSpeakers,
		Principal:      cfg.Kafka.Principal,
	})
	defer publisher.Close()

	bootLog := logging.WithComponent("bootstrap")

	var adapter stt.Adapter
	switch cfg.STT.Provider {
	case "fal":
		adapter = fal.New(fal.Config{
			Endpoint: cfg.STT.FalEndpoint,
			APIKey:   cfg.STT.FalAPIKey,
		})
	default:
		bootLog.Info().Str("provider", cfg.STT.Provider).Msg("Using mock STT adapter")
		adapter = mock.New()
	}

	var converter textconv.Converter
	if cfg.Convert.TraditionalChinese {
		converter = textconv.SimplifiedToTraditional{}
	}

	handlers := &relay.Handlers{
		Adapter:  adapter,
		Provider: cfg.STT.Provider,
		Resolver: speaker.NewResolver(speaker.NewOpenAIClient(
			cfg.Naming.APIKey, cfg.Naming.BaseURL, cfg.Naming.Model)),
		Limiter: guard.NewRateLimiter(guard.RateLimitConfig{
			Window:      cfg.RateLimit.Window,
			MaxRequests: cfg.RateLimit.MaxRequests,
		}),
		Limits: guard.Limits{
			MaxDurationSeconds:      cfg.Limits.MaxDurationSeconds,
			MaxFileSizeBytes:        cfg.Limits.MaxFileSizeBytes,
			AdvisoryDurationSeconds: cfg.Limits.AdvisoryDurationSeconds,
		},
		Publisher:   publisher,
		Converter:   converter,
		Metrics:     metrics.DefaultMetrics,
		Language:    cfg.STT.DefaultLanguage,
		Diarize:     cfg.STT.Diarize,
		TagEvents:   cfg.STT.TagAudioEvents,
		MaxBodySize: cfg.Limits.MaxFileSizeBytes + 1024*1024,
	}

	obsServer := observability.NewServer(":" + cfg.Service.MetricsPort)
	obsServer.Start()

	server := &http.Server{
		Addr:              ":" + cfg.Service.HTTPPort,
		Handler:           relay.NewRouter(handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		bootLog.Info().Str("addr", server.Addr).Msg("Cantonese speech-to-text relay listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}
	if err := obsServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Observability shutdown failed")
	}
}
