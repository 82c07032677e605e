package di

import (
	"fmt"

	domrepo "CardSight/internal/domain/repository"
	domservice "CardSight/internal/domain/service"
	"CardSight/internal/handler/api"
	mid "CardSight/internal/middleware"
	internalrepo "CardSight/internal/repository"
	"CardSight/internal/services/advisor"
	"CardSight/internal/services/capture"
	"CardSight/internal/services/listings"
	"CardSight/internal/services/ocr"
	"CardSight/internal/services/speech"
	"CardSight/internal/usecase"
	"CardSight/pkg/cache"
	"CardSight/pkg/config"
	xhttp "CardSight/pkg/http"
	pkgkafka "CardSight/pkg/kafka"
	applogger "CardSight/pkg/logger"
	"CardSight/pkg/metrics"
	"CardSight/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvidePriceCache builds the persistent price cache, fronted by an
// in-process cache and optionally Redis.
func ProvidePriceCache(cfg *config.Config) (domrepo.PriceCache, error) {
	backing, err := internalrepo.NewSQLitePriceCache(cfg.Pricing.CacheDB, cfg.Pricing.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("price cache: %w", err)
	}

	var front cache.Service = cache.NewMemoryCache()
	if cfg.Redis.Enabled {
		redis, err := cache.NewRedisCache(&cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		front = cache.NewLayeredCache(front, redis)
	}

	return internalrepo.NewLayeredPriceCache(front, backing, cfg.Pricing.CacheTTL), nil
}

// ProvideSessionLog creates the capped per-session result store.
func ProvideSessionLog(cfg *config.Config) (domrepo.SessionLog, error) {
	log, err := internalrepo.NewSQLiteSessionLog(cfg.SessionLog.DB, cfg.SessionLog.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("session log: %w", err)
	}
	return log, nil
}

// ProvideEventPublisher creates the Kafka sink, or a no-op when Kafka
// is disabled.
func ProvideEventPublisher(cfg *config.Config) (domrepo.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopEventPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaEventPublisher(producer), nil
}

// ProvideSearcher creates the sold-listings source: the API client,
// with the scraper as fallback when enabled.
func ProvideSearcher(cfg *config.Config, l *applogger.Logger) domrepo.ListingSearcher {
	primary := listings.NewAPIClient(cfg.Listings.APIBaseURL, cfg.Listings.AppID, cfg.Listings.Timeout)

	var fallback domrepo.ListingSearcher
	if cfg.Listings.ScraperEnabled {
		fallback = listings.NewScraper(cfg.Listings.ScraperURL, cfg.Listings.ScraperTimeout)
	}
	return listings.NewFallbackSearcher(primary, fallback, l)
}

// ProvideAdvisor creates the optional LLM advisor.
func ProvideAdvisor(cfg *config.Config, l *applogger.Logger) (domservice.Advisor, error) {
	client, err := advisor.NewLLMClient(
		cfg.Advisor.Provider,
		cfg.Advisor.APIKey,
		cfg.Advisor.Model,
		cfg.Advisor.BaseURL,
		cfg.Advisor.MaxTokens,
	)
	if err != nil {
		return nil, fmt.Errorf("advisor: %w", err)
	}
	return advisor.NewService(client, l), nil
}

// ProvideRecognizer selects the best available OCR engine and wraps it
// in the dual-region recognizer.
func ProvideRecognizer(cfg *config.Config, l *applogger.Logger) *ocr.Recognizer {
	engine := ocr.SelectEngine(
		ocr.NewHTTPEngine(cfg.OCR.ServiceURL, cfg.OCR.Timeout),
		ocr.NewTesseractEngine(cfg.OCR.TesseractBinary),
	)
	return ocr.NewRecognizer(engine, cfg.OCR.TitleFraction, cfg.OCR.AuctionFraction, l)
}

// ProvideTranscriber creates the speech channel. When ffmpeg or the
// whisper model is missing the transcriber reports unavailable and the
// pipeline runs video-only.
func ProvideTranscriber(cfg *config.Config, l *applogger.Logger) *speech.Transcriber {
	source := capture.NewFFmpegAudioSource(
		cfg.Audio.FFmpegBinary,
		cfg.Audio.InputFormat,
		cfg.Audio.Device,
		cfg.Audio.SampleRate,
	)
	engine := speech.NewWhisperEngine(cfg.Audio.WhisperBinary, cfg.Audio.WhisperModel, cfg.Audio.SampleRate)

	var audioSource domrepo.AudioSource
	if source.Available() {
		audioSource = source
	}
	return speech.NewTranscriber(audioSource, engine, cfg.Audio.QueueSize, cfg.Audio.ChunkSeconds, l)
}

// ProvideResolver creates the price resolution use case.
func ProvideResolver(
	priceCache domrepo.PriceCache,
	searcher domrepo.ListingSearcher,
	adv domservice.Advisor,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Resolver {
	return usecase.NewResolver(priceCache, searcher, adv, m, l, usecase.ResolverConfig{
		MaxComparables:      cfg.Pricing.MaxComparables,
		SimilarityThreshold: cfg.Pricing.SimilarityThreshold,
	})
}

// ProvideSignalEngine creates the deal scoring engine.
func ProvideSignalEngine(cfg *config.Config) *usecase.SignalEngine {
	return usecase.NewSignalEngine(usecase.SignalConfig{MinComparables: cfg.Pricing.MinComparables})
}

// ProvideSessionManager creates the session registry.
func ProvideSessionManager() *usecase.SessionManager {
	return usecase.NewSessionManager()
}

// ProvideHub creates the websocket fan-out hub.
func ProvideHub(l *applogger.Logger) *api.Hub {
	return api.NewHub(l)
}

// ProvidePipeline assembles the per-frame analysis pipeline.
func ProvidePipeline(
	rec *ocr.Recognizer,
	transcriber *speech.Transcriber,
	resolver *usecase.Resolver,
	signals *usecase.SignalEngine,
	adv domservice.Advisor,
	hub *api.Hub,
	sessionLog domrepo.SessionLog,
	events domrepo.EventPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *mid.FramePipeline {
	opts := []mid.PipelineOption{
		mid.WithFPS(cfg.Capture.FPS),
		mid.WithProcessEveryNth(cfg.Capture.ProcessEveryNFrame),
		mid.WithContinuityTTL(usecase.DefaultContinuityTTL),
	}
	if cfg.Kafka.Enabled {
		opts = append(opts, mid.WithEventTopic(cfg.Kafka.Topic))
	}
	return mid.NewFramePipeline(
		rec,
		transcriber,
		usecase.NewFuser(),
		resolver,
		signals,
		adv,
		hub,
		sessionLog,
		events,
		m,
		l,
		opts...,
	)
}

// ProvideHandler creates the HTTP handler with all routes.
func ProvideHandler(
	l *applogger.Logger,
	sessions *usecase.SessionManager,
	pipeline *mid.FramePipeline,
	resolver *usecase.Resolver,
	signals *usecase.SignalEngine,
	adv domservice.Advisor,
	transcriber *speech.Transcriber,
	sessionLog domrepo.SessionLog,
	hub *api.Hub,
	rec *ocr.Recognizer,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewStreamEchoHandler(
		l, sessions, pipeline, resolver, signals, adv, transcriber, sessionLog, hub,
		rec.Engine(), cfg.Capture.FPS,
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	transcriber *speech.Transcriber,
	sessions *usecase.SessionManager,
	priceCache domrepo.PriceCache,
	sessionLog domrepo.SessionLog,
	events domrepo.EventPublisher,
) *server.App {
	return server.New(cfg, l, handler, transcriber, sessions, priceCache, sessionLog, events)
}
