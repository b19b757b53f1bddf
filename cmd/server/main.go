package main

import (
	"StoreText/internal/config"
	"StoreText/internal/handlers"
	"StoreText/internal/logger"
	"StoreText/internal/middleware"
	"StoreText/internal/repo"
	"StoreText/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg := config.NewConfig()

	level := cfg.LogLevel
	if level == "warn" {
		// сервер по умолчанию пишет журнал запросов
		level = "info"
	}
	sugar, err := logger.New(level)
	if err != nil {
		panic(err)
	}
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		_ = sugar.Sync()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	siteRepo := repo.NewSiteRepository(gormDB)
	siteService := service.NewSiteService(siteRepo, cfg.AuthSecret, cfg.EnvelopeMaxKB*1024, sugar)

	h := handlers.NewHandler(siteService, sugar, cfg)

	addr := cfg.BaseURL
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow(
		"Starting relay server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnvelopeMaxKB", cfg.EnvelopeMaxKB,
		"DatabaseConfigured", cfg.DatabaseDSN != "",
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Shutdown failed", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}
