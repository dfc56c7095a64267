package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"prezz/config"
	"prezz/internal/api/handler"
	"prezz/internal/api/router"
	"prezz/internal/backend"
	"prezz/internal/engine"
	"prezz/internal/repository"
	"prezz/internal/service"
	"prezz/pkg/database"
	"prezz/pkg/firebase"
	"prezz/pkg/jwt"
	applogger "prezz/pkg/logger"
	"prezz/pkg/redis"
)

func main() {
	// 1. config
	cfg, err := config.Load(os.Getenv("PREZZ_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("source", cfg.Source.Driver),
		zap.String("timezone", cfg.Engine.Timezone),
	)

	cal, err := engine.NewCalendar(cfg.Engine.Timezone)
	if err != nil {
		logger.Fatal("load timezone failed", zap.Error(err))
	}

	// 3. snapshot source
	var (
		source service.Source
		sqlDB  *sql.DB
	)
	switch cfg.Source.Driver {
	case config.SourcePostgres:
		db, err := database.NewDB(&cfg.Database, logger)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		sqlDB, err = db.DB()
		if err != nil {
			logger.Fatal("get sql.DB failed", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
		source = service.NewRepositorySource(repository.NewRepository(db), logger)
	default:
		source = backend.NewClient(&cfg.Backend, backend.DefaultHTTPClient(cfg.Backend.Timeout), logger)
	}

	// 4. Redis, optional: without it snapshots are fetched per request and
	// rate limiting is off
	var cache service.SnapshotCache
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, snapshot cache and rate limit disabled", zap.Error(err))
		rdb = nil
	} else {
		cache = rdb
	}

	// 5. class chat, optional
	var chatRepo repository.ChatRepository
	if cfg.Firebase.Enabled {
		fs, err := firebase.NewFirestore(context.Background(), &cfg.Firebase, logger)
		if err != nil {
			logger.Warn("firestore unavailable, class chat disabled", zap.Error(err))
		} else {
			defer fs.Close()
			chatRepo = repository.NewChatRepo(fs)
		}
	}

	// 6. Source → Service → Handler
	svc := service.NewService(cfg, source, cache, chatRepo, cal, logger)
	h := handler.NewHandler(svc)
	jwtMgr := jwt.NewManager(&cfg.Auth)

	r := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if sqlDB != nil {
		sqlDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
