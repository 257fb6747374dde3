package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"spiral-galaxy/internal/app"
	"spiral-galaxy/internal/galaxy"
	"spiral-galaxy/internal/render"
	"spiral-galaxy/internal/scene"
)

func main() {
	cfg := app.NewConfig()
	if err := cfg.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	out := flag.String("out", "galaxy.png", "output PNG path")
	elapsed := flag.Duration("t", 0, "elapsed scene time, which sets the spin angle")
	supersample := flag.Int("ss", 2, "supersampling factor")
	exposure := flag.Float64("exposure", 1, "brightness multiplier")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "image width in pixels")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "image height in pixels")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for galaxy generation")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flag.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "emit JSON logs")
	cfg.BindGalaxy(flag.CommandLine)
	flag.Parse()

	logger := app.InitLogger(cfg.LogLevel, cfg.LogJSON)
	started := time.Now()
	stats, err := snapshot(cfg, *out, *elapsed, max(*supersample, 1), float32(*exposure))
	if err != nil {
		logger.Error("snapshot failed", "error", err)
		os.Exit(1)
	}
	logger.Info("snapshot written",
		"path", *out,
		"count", stats.Count,
		"mean_radius", stats.MeanRadius,
		"max_radius", stats.MaxRadius,
		"took", time.Since(started),
	)
}

func snapshot(cfg *app.Config, path string, elapsed time.Duration, ss int, exposure float32) (galaxy.Stats, error) {
	adapter := scene.NewAdapter(render.NewBackend())
	defer adapter.Release()

	ctrl := app.NewController(adapter, cfg.Params, cfg.Seed)
	if err := ctrl.Regenerate(context.Background()); err != nil {
		return galaxy.Stats{}, err
	}
	adapter.Update(elapsed)
	pts, ok := adapter.Current()
	if !ok {
		return galaxy.Stats{}, fmt.Errorf("no galaxy installed")
	}

	cam := scene.NewCamera(cfg.Width*ss, cfg.Height*ss, 1)
	raster := render.NewRasterizer()
	raster.Exposure = exposure
	raster.Draw(pts, cam)

	img := render.Downscale(raster.Image(), cfg.Width, cfg.Height)
	if err := render.SavePNG(path, img); err != nil {
		return galaxy.Stats{}, err
	}
	return galaxy.Summarize(pts.Buffer), nil
}
