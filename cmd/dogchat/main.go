package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/galder-dev/dogchat/internal/classifier/tfserving"
	"github.com/galder-dev/dogchat/internal/config"
	"github.com/galder-dev/dogchat/internal/db"
	"github.com/galder-dev/dogchat/internal/labels"
	"github.com/galder-dev/dogchat/internal/logging"
	"github.com/galder-dev/dogchat/internal/photostore/local"
	"github.com/galder-dev/dogchat/internal/qa"
	"github.com/galder-dev/dogchat/internal/qa/azureqa"
	"github.com/galder-dev/dogchat/internal/qa/claudeqa"
	"github.com/galder-dev/dogchat/internal/ratelimit"
	"github.com/galder-dev/dogchat/internal/service"
	"github.com/galder-dev/dogchat/internal/sink"
	"github.com/galder-dev/dogchat/internal/store"
	"github.com/galder-dev/dogchat/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	table, err := labels.Load(cfg.LabelTablePath)
	if err != nil {
		logger.Error("failed to load label table", "error", err)
		return
	}

	predictionStore := store.NewPredictionStore(database)
	breedStore := store.NewBreedStore(database)

	photoStg, err := local.NewLocalPhotoStore(cfg.PhotoPath)
	if err != nil {
		logger.Error("failed to initialize photo store", "error", err)
		return
	}

	clf := tfserving.NewClient(cfg.ModelServerURL, cfg.ModelName)
	go func() {
		// The chat works without the model (questions still flow); image
		// uploads report the model as loading until this succeeds.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := clf.WaitReady(ctx, 5*time.Second, 60); err != nil {
			logger.Error("classifier model did not become ready", "error", err)
			return
		}
		logger.Info("classifier model ready", "model", cfg.ModelName)
	}()

	answerer := newAnswerer(cfg, logger)
	if answerer == nil {
		return
	}

	chatService := service.NewChatService(
		clf,
		table,
		answerer,
		photoStg,
		newSink(cfg, predictionStore, logger),
		predictionStore,
		breedStore,
		logger,
	)

	server := web.NewServer(chatService, photoStg, newLimiter(cfg, logger), logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newAnswerer(cfg *config.Config, logger *slog.Logger) qa.Answerer {
	switch cfg.QABackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when QA_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude QA backend", "model", cfg.ClaudeModel)
		return claudeqa.NewClient(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	default:
		if cfg.QAEndpoint == "" || cfg.QAKey == "" {
			logger.Error("QA_ENDPOINT and QA_SUBSCRIPTION_KEY are required when QA_BACKEND=azure")
			return nil
		}
		logger.Info("using Azure QA backend", "project", cfg.QAProjectName)
		return azureqa.NewClient(cfg.QAEndpoint, cfg.QAProjectName, cfg.QADeploymentName, cfg.QAKey)
	}
}

func newSink(cfg *config.Config, predictions *store.PredictionStore, logger *slog.Logger) sink.Sink {
	if cfg.ArchiveBaseURL != "" {
		logger.Info("forwarding logs to archive service", "base_url", cfg.ArchiveBaseURL)
		return sink.NewHTTPSink(cfg.ArchiveBaseURL, logger)
	}
	return sink.NewStoreSink(predictions, logger)
}

func newLimiter(cfg *config.Config, logger *slog.Logger) ratelimit.Limiter {
	if cfg.RedisAddr == "" {
		return ratelimit.Unlimited{}
	}
	logger.Info("chat rate limiting enabled", "addr", cfg.RedisAddr, "limit_per_minute", cfg.ChatRateLimit)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return ratelimit.NewRedisLimiter(rdb, cfg.ChatRateLimit, time.Minute)
}
