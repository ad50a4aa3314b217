package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"finboard/internal/api"
	"finboard/internal/chart"
	"finboard/internal/config"
	"finboard/internal/dashboard"
	applog "finboard/internal/log"
	"finboard/internal/services"
	"finboard/internal/tui"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := applog.OpenFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logFile.Close()

	level, _ := applog.ParseLevel(cfg.LogLevel)
	logger := applog.New(applog.Config{Level: level, Output: logFile})
	applog.SetDefault(logger)

	client, err := api.NewClient(cfg.APIBaseURL, nil, cfg.HTTPTimeout, logger)
	if err != nil {
		logger.Error("Failed to create API client", applog.FieldError, err, "url", cfg.APIBaseURL)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sink := tui.NewTerminalSink(cfg.Currency)
	state := dashboard.NewState(chart.NewBinding(sink, logger))
	ctrl := dashboard.NewController(state, dashboard.Deps{
		Summary:  client,
		Health:   client,
		Reports:  client,
		Loans:    client,
		Gateways: services.NewGateways(client, logger),
	}, dashboard.Options{
		WindowMonths: cfg.WindowMonths,
		Concurrency:  cfg.FetchConcurrency,
		Logger:       logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model := tui.New(ctx, ctrl, sink, cfg.Currency, logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	state.OnChange(func() { p.Send(tui.StateChangedMsg{}) })

	logger.Info("Starting finboard", "api_url", cfg.APIBaseURL, "window_months", cfg.WindowMonths, "currency", cfg.Currency)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error("Program error", applog.FieldError, err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	state.Charts().ReleaseAll()
	logger.Info("finboard stopped")
}
