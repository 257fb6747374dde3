package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"spiral-galaxy/internal/app"
	"spiral-galaxy/internal/core"
	"spiral-galaxy/internal/galaxy"
	"spiral-galaxy/internal/render"
	"spiral-galaxy/internal/scene"
	rng "spiral-galaxy/pkg/core"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type sweepConfig struct {
	key     string
	from    float64
	to      float64
	steps   int
	workers int
	seed    int64
	outDir  string
	width   int
	height  int
}

type sweepResult struct {
	value  string
	stats  galaxy.Stats
	params galaxy.Parameters
	path   string
}

func main() {
	var sc sweepConfig
	flag.StringVar(&sc.key, "key", "spin", "numeric parameter to sweep")
	flag.Float64Var(&sc.from, "from", -5, "first value")
	flag.Float64Var(&sc.to, "to", 5, "last value")
	flag.IntVar(&sc.steps, "steps", 11, "number of values, endpoints included")
	flag.IntVar(&sc.workers, "workers", runtime.NumCPU(), "parallel generations")
	flag.Int64Var(&sc.seed, "seed", 42, "seed shared by every step")
	flag.StringVar(&sc.outDir, "out", "", "directory for one PNG per step (skipped when empty)")
	flag.IntVar(&sc.width, "width", 480, "PNG width")
	flag.IntVar(&sc.height, "height", 300, "PNG height")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	var overrides kvList
	flag.Var(&overrides, "set", "parameter override in key=value form (repeatable)")
	flag.Parse()

	app.InitLogger(*logLevel, false)

	base := galaxy.DefaultParameters()
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "ignoring override %q: want key=value\n", kv)
			continue
		}
		if err := base.Set(key, value); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	results, err := sweep(context.Background(), base, sc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	report(os.Stdout, sc.key, results)
}

// values spreads steps samples evenly over [from, to].
func values(from, to float64, steps int) []float64 {
	if steps <= 1 {
		return []float64{from}
	}
	out := make([]float64, steps)
	for i := range out {
		out[i] = from + (to-from)*float64(i)/float64(steps-1)
	}
	return out
}

// formatValue rounds v for integer parameters so the sweep can walk them too.
func formatValue(key string, v float64) string {
	for _, c := range galaxy.Controls() {
		if c.Key == key && c.Type == core.ParamTypeInt {
			return strconv.Itoa(int(math.Round(v)))
		}
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func sweep(ctx context.Context, base galaxy.Parameters, sc sweepConfig) ([]sweepResult, error) {
	if _, ok := base.Get(sc.key); !ok {
		return nil, fmt.Errorf("unknown parameter %q", sc.key)
	}
	if sc.outDir != "" {
		if err := os.MkdirAll(sc.outDir, 0o755); err != nil {
			return nil, err
		}
	}

	vals := values(sc.from, sc.to, sc.steps)
	results := make([]sweepResult, len(vals))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(sc.workers, 1))
	for i, v := range vals {
		g.Go(func() error {
			p := base
			value := formatValue(sc.key, v)
			if err := p.Set(sc.key, value); err != nil {
				return err
			}
			buf, err := galaxy.GenerateContext(ctx, p, rng.NewRNG(sc.seed))
			if err != nil {
				return fmt.Errorf("%s=%s: %w", sc.key, value, err)
			}
			res := sweepResult{value: value, stats: galaxy.Summarize(buf), params: p}
			if sc.outDir != "" {
				res.path = filepath.Join(sc.outDir, fmt.Sprintf("%s_%03d.png", sc.key, i))
				if err := renderPNG(res.path, buf, p, sc.width, sc.height); err != nil {
					return err
				}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func renderPNG(path string, buf *galaxy.Buffer, p galaxy.Parameters, w, h int) error {
	pts := scene.Points{
		Buffer:   buf,
		Material: scene.PointsMaterial(p.Size),
		Rotation: scene.Rotation{X: scene.Tilt},
	}
	raster := render.NewRasterizer()
	raster.Draw(pts, scene.NewCamera(w, h, 1))
	return render.SavePNG(path, raster.Image())
}

func report(w io.Writer, key string, results []sweepResult) {
	fmt.Fprintf(w, "%-12s %8s %10s %10s %10s\n", key, "count", "mean_r", "max_r", "max_h")
	for _, r := range results {
		fmt.Fprintf(w, "%-12s %8d %10.3f %10.3f %10.3f",
			r.value, r.stats.Count, r.stats.MeanRadius, r.stats.MaxRadius, r.stats.MaxHeight)
		if r.path != "" {
			fmt.Fprintf(w, "  %s", r.path)
		}
		fmt.Fprintln(w)
	}
}
