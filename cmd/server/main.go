package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nmarques/flashdeck/internal/api"
	"github.com/nmarques/flashdeck/internal/config"
	"github.com/nmarques/flashdeck/internal/db"
	"github.com/nmarques/flashdeck/internal/digest"
	"github.com/nmarques/flashdeck/internal/importer"
	"github.com/nmarques/flashdeck/internal/logger"
	"github.com/nmarques/flashdeck/internal/repository/sqlite"
	"github.com/nmarques/flashdeck/internal/services"
	"github.com/nmarques/flashdeck/internal/srs"
	"github.com/nmarques/flashdeck/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Flashdeck Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("digest_interval_minutes=%d", cfg.DigestInterval)
	log.Debug("disable_fuzz=%t", cfg.DisableFuzz)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	userRepo := sqlite.NewUserRepository(database)
	deckRepo := sqlite.NewDeckRepository(database)
	cardRepo := sqlite.NewCardRepository(database)
	progressRepo := sqlite.NewProgressRepository(database)
	statsRepo := sqlite.NewStatsRepository(database)

	// Scheduler
	var schedOpts []srs.Option
	if cfg.DisableFuzz {
		schedOpts = append(schedOpts, srs.WithoutFuzz())
	}
	scheduler := srs.New(schedOpts...)

	// Background workers
	importPool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)

	// Services
	userService := services.NewUserService(userRepo)
	deckService := services.NewDeckService(deckRepo, statsRepo)
	cardService := services.NewCardService(cardRepo, deckRepo)
	reviewService := services.NewReviewService(progressRepo, cardRepo, deckRepo, scheduler)
	importService := services.NewImportService(importer.New(cardRepo, deckRepo), importPool)

	srv := &api.Server{
		DB:      database,
		Users:   userService,
		Decks:   deckService,
		Cards:   cardService,
		Reviews: reviewService,
		Imports: importService,
	}

	ctx, cancel := context.WithCancel(context.Background())
	importPool.Start(ctx)

	var dueDigest *digest.Digest
	if cfg.DigestInterval > 0 {
		dueDigest = digest.New(userRepo, progressRepo, time.Duration(cfg.DigestInterval)*time.Minute)
		if err := dueDigest.Start(); err != nil {
			log.Error("failed to start digest: %v", err)
			os.Exit(1)
		}
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping background workers")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	if dueDigest != nil {
		log.Debug("stopping digest")
		dueDigest.Stop()
	}
	log.Debug("stopping import pool")
	importPool.Stop()

	log.Info("===========================================")
	log.Info("Flashdeck Server Stopped")
	log.Info("===========================================")
}
