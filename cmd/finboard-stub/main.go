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

	"finboard/internal/config"
	applog "finboard/internal/log"
	"finboard/internal/stub"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	level, _ := applog.ParseLevel(cfg.LogLevel)
	logger := applog.New(applog.Config{Level: level, Component: applog.ComponentStub, Output: os.Stdout})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	seedPath := cfg.StubSeedFile
	store, err := stub.NewFromFile(seedPath, time.Now())
	if err != nil {
		logger.Error("Failed to load seed data", applog.FieldError, err, "path", seedPath)
		os.Exit(1)
	}

	srv := stub.NewServer(":"+cfg.Port, store, logger)
	srv.LimitWrites(cfg.StubWriteLimit)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting finboard stub service", "port", cfg.Port, "seed", seedPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
