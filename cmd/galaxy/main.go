//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"spiral-galaxy/internal/app"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	if err := cfg.LoadEnv(); err != nil {
		slog.Error("load environment", "error", err)
		os.Exit(2)
	}
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := app.InitLogger(cfg.LogLevel, cfg.LogJSON)
	logger.Info("starting", "width", cfg.Width, "height", cfg.Height, "seed", cfg.Seed, "params", cfg.Params)

	game := app.New(cfg)
	defer game.Close()

	ebiten.SetWindowTitle("Spiral Galaxy")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game exited", "error", err)
		game.Close()
		os.Exit(1)
	}
}
