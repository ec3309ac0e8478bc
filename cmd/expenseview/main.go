package main

import (
	"context"
	stdlog "log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/shubho/expenseview/internal/api"
	"github.com/shubho/expenseview/internal/config"
	"github.com/shubho/expenseview/internal/log"
	"github.com/shubho/expenseview/internal/tui"
)

func main() {
	ctx := context.Background()

	// .env is optional; real env always wins
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}

	logger, err := log.Open(cfg.Log.Path, "expenseview")
	if err != nil {
		stdlog.Fatalf("open log: %v", err)
	}

	client, err := api.New(cfg.Server.BaseURL, logger)
	if err != nil {
		stdlog.Fatalf("api client: %v", err)
	}

	app := tui.New(ctx, cfg, client, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		stdlog.Fatalf("run: %v", err)
	}
}
