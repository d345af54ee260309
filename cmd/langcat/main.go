package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/xxivani/langcat/internal/api"
	"github.com/xxivani/langcat/internal/bot"
	"github.com/xxivani/langcat/internal/catalog"
	"github.com/xxivani/langcat/internal/config"
	"github.com/xxivani/langcat/internal/database"
	"github.com/xxivani/langcat/internal/localstore"
	"github.com/xxivani/langcat/internal/progress"
	"github.com/xxivani/langcat/internal/reminder"
	"github.com/xxivani/langcat/internal/srs"
)

// reviewStore is what the scheduler and the progress lifecycle need from a
// persistence backend. Both the relational repository and the local JSON
// store satisfy it.
type reviewStore interface {
	srs.Store
	progress.StateEraser
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(database.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	store, err := newReviewStore(cfg, db, logger)
	if err != nil {
		logger.Fatal("failed to open review store", zap.Error(err))
	}

	sched := srs.NewScheduler(store, srs.Config{}, logger)
	cat := catalog.NewService(db, catalog.NewCache(cfg.CacheTTL), logger)
	learners := database.NewLearnerRepository(db)
	prog := progress.NewService(sched, cat, store, logger)

	srv := api.NewServer(prog, cat, learners, logger)
	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Accept", "Origin", api.LearnerHeader},
		MaxAge:         86400,
	}).Handler(srv.Routes())

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}

	// The Telegram surface is optional: without a token the API still runs
	// and reminders go to a no-op notifier.
	var (
		tgBot    *bot.Bot
		notifier reminder.Notifier
	)
	if cfg.BotToken != "" {
		tgBot, err = bot.New(cfg.BotToken, prog, learners, logger)
		if err != nil {
			logger.Fatal("failed to create telegram bot", zap.Error(err))
		}
		notifier = tgBot
	}

	reminders := reminder.New(learners, prog, notifier, reminder.Window{
		StartHour: cfg.ReminderStartHour,
		EndHour:   cfg.ReminderEndHour,
	}, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", zap.Error(err))
		}
	}()

	if tgBot != nil {
		go func() {
			if err := tgBot.Start(); err != nil {
				logger.Error("telegram bot failed", zap.Error(err))
			}
		}()
	}

	reminders.Start()

	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))

	reminders.Stop()
	if tgBot != nil {
		tgBot.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}

	logger.Info("stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newReviewStore(cfg *config.Config, db *database.DB, logger *zap.Logger) (reviewStore, error) {
	if cfg.ReviewStore == config.StoreLocal {
		store := localstore.New(cfg.LocalStorePath(), logger)
		if err := store.Load(); err != nil {
			return nil, err
		}
		return store, nil
	}
	return database.NewReviewStateRepository(db), nil
}
