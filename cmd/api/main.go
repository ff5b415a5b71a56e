package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"callintake-platform/internal/audit"
	"callintake-platform/internal/auth"
	"callintake-platform/internal/clients"
	"callintake-platform/internal/config"
	"callintake-platform/internal/extraction"
	"callintake-platform/internal/httpapi"
	"callintake-platform/internal/media"
	"callintake-platform/internal/notify"
	"callintake-platform/internal/pipeline"
	"callintake-platform/internal/recordings"
	"callintake-platform/internal/reporting"
	"callintake-platform/internal/review"
	"callintake-platform/pkg/logger"
	"callintake-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
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

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

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
	clientStore := clients.NewPostgresStore(db)
	broker := notify.NewRedisBroker(rdb, log)
	queue := pipeline.NewRedisQueue(rdb)
	auditor := audit.NewService(audit.NewPostgresRepo(db))

	h := httpapi.Handlers{
		Auth:        authManager,
		Audit:       auditor,
		Recordings:  recStore,
		Extractions: extStore,
		Clients:     clientStore,
		Media:       blobs,
		Trigger:     pipeline.NewTrigger(recStore, queue),
		Review:      review.NewService(review.NewPostgresStore(db), broker, auditor, log),
		Reports:     reporting.NewService(reporting.NewPostgresRepo(db)),
		Notify:      broker,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	httpapi.RegisterRoutes(r, h, auth.RequireAccessToken(authManager))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Long write timeout: /v1/events holds SSE streams open.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
