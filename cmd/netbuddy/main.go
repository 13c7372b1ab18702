package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Sharx05/netbuddy/internal/config"
	"github.com/Sharx05/netbuddy/internal/probe"
	"github.com/Sharx05/netbuddy/internal/sound"
	"github.com/Sharx05/netbuddy/internal/speed"
	"github.com/Sharx05/netbuddy/internal/tier"
	"github.com/Sharx05/netbuddy/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLog, err := openLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer closeLog()

	table := tier.Default()
	if err := tier.Validate(table); err != nil {
		log.Fatalf("tier table: %v", err)
	}

	srv, err := cfg.ResolveServer(cfg.Probe.Server)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	mode, err := speed.ParseAggregateMode(cfg.Probe.Aggregate)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	prober := probe.New(srv.URL, mode, time.Duration(cfg.Probe.TimeoutSeconds)*time.Second, logger)
	player := sound.NewPlayer(cfg.Sound.Dir, !cfg.Sound.Enabled, logger)

	logger.Info().Str("server", srv.Name).Str("url", srv.URL).Msg("starting up")

	p := tea.NewProgram(tui.New(ctx, cfg, prober, player, table, tier.Err(), logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// openLogger writes structured logs to the configured file; the TUI owns
// the terminal, so nothing logs to stdout.
func openLogger(cfg config.LogConfig) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return logger, func() { _ = f.Close() }, nil
}
