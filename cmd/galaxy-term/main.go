package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"spiral-galaxy/internal/app"
	"spiral-galaxy/internal/render"
	"spiral-galaxy/internal/scene"
	"spiral-galaxy/internal/term"
)

// defaultCount is the starting particle count; a terminal shows far fewer
// pixels than a window. GALAXY_COUNT and -count override it.
const defaultCount = 20000

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logFile := bindFlags(flag.CommandLine, cfg)
	flag.Parse()

	if err := run(cfg, *logFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(envFiles ...string) (*app.Config, error) {
	cfg := app.NewConfig()
	cfg.Params.Count = defaultCount
	if err := cfg.LoadEnv(envFiles...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *app.Config) *string {
	logFile := fs.String("log-file", "", "write logs to this file (discarded when empty)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for galaxy generation")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "emit JSON logs")
	cfg.BindGalaxy(fs)
	return logFile
}

func run(cfg *app.Config, logFile string) error {
	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := app.InitLoggerTo(out, cfg.LogLevel, cfg.LogJSON)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := render.NewBackend()
	adapter := scene.NewAdapter(backend)
	defer adapter.Release()

	ctrl := app.NewController(adapter, cfg.Params, cfg.Seed)
	ctrl.Start(ctx)
	defer ctrl.Close()
	ctrl.Refresh()

	logger.Info("terminal viewer starting", slog.Int64("seed", cfg.Seed), slog.Any("params", cfg.Params))
	return term.NewViewer(screen, ctrl, adapter).Run(ctx)
}
