package core

import "time"

// FixedStep helps run frame updates at a steady ticks-per-second rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	if tps <= 0 {
		tps = 60
	}
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Step returns the duration of one tick.
func (f *FixedStep) Step() time.Duration { return f.step }

// ShouldStep reports whether the loop should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}

// Clock reports time elapsed since it was started. It reads the monotonic
// clock, so wall-clock jumps do not affect it. Pausing freezes the reading;
// resuming continues from the frozen value.
type Clock struct {
	start    time.Time
	pausedAt time.Time
	paused   bool
	now      func() time.Time
}

// NewClock starts a clock at the current instant.
func NewClock() *Clock {
	return newClockAt(time.Now)
}

func newClockAt(now func() time.Time) *Clock {
	return &Clock{start: now(), now: now}
}

// Elapsed returns the running time since the clock started, excluding pauses.
func (c *Clock) Elapsed() time.Duration {
	if c.paused {
		return c.pausedAt.Sub(c.start)
	}
	return c.now().Sub(c.start)
}

// Paused reports whether the clock is frozen.
func (c *Clock) Paused() bool { return c.paused }

// Toggle pauses a running clock or resumes a paused one.
func (c *Clock) Toggle() {
	if c.paused {
		c.start = c.start.Add(c.now().Sub(c.pausedAt))
		c.paused = false
		return
	}
	c.pausedAt = c.now()
	c.paused = true
}
