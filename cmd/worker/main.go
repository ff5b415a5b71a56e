package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"callintake-platform/internal/config"
	"callintake-platform/internal/extraction"
	"callintake-platform/internal/llm"
	"callintake-platform/internal/media"
	"callintake-platform/internal/notify"
	"callintake-platform/internal/pipeline"
	"callintake-platform/internal/recordings"
	"callintake-platform/internal/stt"
	"callintake-platform/pkg/logger"
	"callintake-platform/pkg/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

const defaultConcurrency = 4

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	blobs, err := media.NewDiskStore(cfg.Media.Dir)
	if err != nil {
		log.Error("media init failed", "err", err)
		os.Exit(1)
	}

	recStore := recordings.NewPostgresStore(db)
	extStore := extraction.NewPostgresStore(db)
	broker := notify.NewRedisBroker(rdb, log)
	queue := pipeline.NewRedisQueue(rdb)

	transcriber := stt.NewGroqClient(cfg.Groq.BaseURL, cfg.Groq.APIKey, cfg.Groq.STTModel)
	extractor := llm.NewGroqClient(cfg.Groq.BaseURL, cfg.Groq.APIKey, cfg.Groq.LLMModel)

	transcribe := pipeline.NewTranscribeStage(recStore, blobs, transcriber, queue, broker, log)
	extract := pipeline.NewExtractStage(recStore, extStore, extractor, broker, log)
	w := pipeline.NewWorker(queue, transcribe, extract, log)

	concurrency := defaultConcurrency
	if v := strings.TrimSpace(os.Getenv("WORKER_CONCURRENCY")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Error("WORKER_CONCURRENCY must be a positive integer", "value", v)
			os.Exit(1)
		}
		concurrency = n
	}

	log.Info("worker starting", "concurrency", concurrency, "env", cfg.App.Env)
	w.Run(rootCtx, concurrency)
	log.Info("worker stopped")
}
