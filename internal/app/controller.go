package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"spiral-galaxy/internal/core"
	"spiral-galaxy/internal/galaxy"
	"spiral-galaxy/internal/scene"
	rng "spiral-galaxy/pkg/core"
)

// Controller is the command interface between settings surfaces and the
// scene. Every committed setting regenerates the galaxy.
//
// Without Start, commits regenerate synchronously on the caller's goroutine.
// After Start, commits are queued to a single worker; only the newest request
// is ever generated, a superseded generation is cancelled, and results are
// installed by Poll on the frame goroutine.
type Controller struct {
	adapter   *scene.Adapter
	log       *slog.Logger
	newSource func(seed int64) galaxy.Source

	mu      sync.Mutex
	params  galaxy.Parameters
	seed    int64
	latest  uint64
	settled uint64
	lastErr error
	pending *request
	ready   *result
	cancel  context.CancelFunc
	running bool
	stop    context.CancelFunc
	done    chan struct{}

	wake    chan struct{}
	readyCh chan struct{}
}

type request struct {
	id     uint64
	params galaxy.Parameters
	seed   int64
}

type result struct {
	id   uint64
	buf  *galaxy.Buffer
	size float64
	err  error
	took time.Duration
}

// NewController returns a controller that installs into adapter. Nothing is
// generated until the first commit, Regenerate or Start.
func NewController(adapter *scene.Adapter, params galaxy.Parameters, seed int64) *Controller {
	return &Controller{
		adapter:   adapter,
		log:       slog.With("component", "controller"),
		newSource: func(seed int64) galaxy.Source { return rng.NewRNG(seed) },
		params:    params,
		seed:      seed,
		wake:      make(chan struct{}, 1),
		readyCh:   make(chan struct{}, 1),
	}
}

// Params returns the current parameter values.
func (c *Controller) Params() galaxy.Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// Seed returns the seed used for the next generation.
func (c *Controller) Seed() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seed
}

// Parameters implements core.ParameterProvider.
func (c *Controller) Parameters() core.ParameterSnapshot {
	return c.Params().Snapshot()
}

// ParameterControls implements core.ParameterControlsProvider.
func (c *Controller) ParameterControls() []core.ParameterControl {
	return galaxy.Controls()
}

// SetIntParameter implements core.IntParameterSetter. A successful set is a
// commit.
func (c *Controller) SetIntParameter(key string, value int) bool {
	c.mu.Lock()
	ok := c.params.SetIntParameter(key, value)
	c.mu.Unlock()
	if ok {
		c.commit("set", key)
	}
	return ok
}

// SetFloatParameter implements core.FloatParameterSetter.
func (c *Controller) SetFloatParameter(key string, value float64) bool {
	c.mu.Lock()
	ok := c.params.SetFloatParameter(key, value)
	c.mu.Unlock()
	if ok {
		c.commit("set", key)
	}
	return ok
}

// SetColorParameter implements core.ColorParameterSetter.
func (c *Controller) SetColorParameter(key string, value color.Color) bool {
	c.mu.Lock()
	ok := c.params.SetColorParameter(key, value)
	c.mu.Unlock()
	if ok {
		c.commit("set", key)
	}
	return ok
}

// Set assigns a parameter from its string form and commits it.
func (c *Controller) Set(key, value string) error {
	c.mu.Lock()
	err := c.params.Set(key, value)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.commit("set", key)
	return nil
}

// Reseed switches to a new seed and commits.
func (c *Controller) Reseed(seed int64) {
	c.mu.Lock()
	c.seed = seed
	c.mu.Unlock()
	c.commit("reseed", "")
}

// Refresh regenerates with the current parameters and seed.
func (c *Controller) Refresh() { c.commit("refresh", "") }

func (c *Controller) commit(op, key string) {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()
	if running {
		c.enqueue()
		return
	}
	if err := c.Regenerate(context.Background()); err != nil {
		c.log.Error("regenerate failed", "operation", op, "key", key, "error", err)
	}
}

// Regenerate generates and installs a galaxy on the calling goroutine. Any
// queued or in-flight asynchronous request is superseded.
func (c *Controller) Regenerate(ctx context.Context) error {
	c.mu.Lock()
	c.latest++
	req := request{id: c.latest, params: c.params, seed: c.seed}
	c.pending = nil
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	res := c.generate(ctx, req)
	if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
		return res.err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if res.id < c.latest {
		return nil
	}
	return c.installLocked(res)
}

func (c *Controller) generate(ctx context.Context, req request) result {
	start := time.Now()
	buf, err := galaxy.GenerateContext(ctx, req.params, c.newSource(req.seed))
	return result{id: req.id, buf: buf, size: req.params.Size, err: err, took: time.Since(start)}
}

// installLocked hands a finished result to the scene. c.mu must be held.
func (c *Controller) installLocked(res result) error {
	err := res.err
	if err == nil {
		err = c.adapter.Replace(res.buf, res.size)
	}
	c.settled = res.id
	c.lastErr = err
	if err != nil {
		c.log.Warn("galaxy not installed", "operation", "install", "request", res.id, "error", err)
		return fmt.Errorf("install request %d: %w", res.id, err)
	}
	c.log.Debug("galaxy installed",
		"operation", "install",
		"request", res.id,
		"count", res.buf.Len(),
		"took", res.took,
	)
	return nil
}

// Start launches the generation worker. It is a no-op if already running.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	ctx, stop := context.WithCancel(ctx)
	c.running = true
	c.stop = stop
	c.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		c.run(ctx)
	}(c.done)
}

// Close stops the worker and waits for it to exit. Commits made afterwards
// regenerate synchronously.
func (c *Controller) Close() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	stop, done := c.stop, c.done
	c.mu.Unlock()
	stop()
	<-done
}

func (c *Controller) enqueue() {
	c.mu.Lock()
	c.latest++
	c.pending = &request{id: c.latest, params: c.params, seed: c.seed}
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Controller) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.wake:
		}
		for {
			c.mu.Lock()
			req := c.pending
			c.pending = nil
			if req == nil {
				c.mu.Unlock()
				break
			}
			genCtx, cancel := context.WithCancel(ctx)
			c.cancel = cancel
			c.mu.Unlock()

			res := c.generate(genCtx, *req)
			cancel()
			if ctx.Err() != nil {
				return
			}
			if errors.Is(res.err, context.Canceled) {
				c.log.Debug("generation superseded", "operation", "generate", "request", req.id)
				continue
			}

			c.mu.Lock()
			if res.id == c.latest {
				c.ready = &res
			}
			c.mu.Unlock()
			select {
			case c.readyCh <- struct{}{}:
			default:
			}
		}
	}
}

// Poll installs the newest finished result, if any. Call it from the frame
// goroutine. It reports whether a new galaxy was installed.
func (c *Controller) Poll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := c.ready
	c.ready = nil
	if res == nil || res.id < c.latest {
		return false
	}
	return c.installLocked(*res) == nil
}

// Flush blocks until the newest request has been installed or has failed,
// installing it itself. It returns that request's error.
func (c *Controller) Flush(ctx context.Context) error {
	for {
		c.Poll()
		c.mu.Lock()
		settled := c.settled >= c.latest
		err := c.lastErr
		c.mu.Unlock()
		if settled {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.readyCh:
		}
	}
}
