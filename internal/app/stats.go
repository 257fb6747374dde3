package app

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// StatsInterval is the minimum spacing between frame statistics lines.
const StatsInterval = 5 * time.Second

// FrameStats counts rendered frames and periodically logs the frame rate.
type FrameStats struct {
	sometimes rate.Sometimes
	log       *slog.Logger
	now       func() time.Time

	frames int
	since  time.Time
}

// NewFrameStats returns a logger for the named front-end.
func NewFrameStats(frontend string, interval time.Duration) *FrameStats {
	return &FrameStats{
		sometimes: rate.Sometimes{Interval: interval},
		log:       slog.With("component", frontend, "operation", "frame"),
		now:       time.Now,
	}
}

// Frame records one frame with the number of particles that reached the
// screen. The first call and then at most one call per interval log.
func (s *FrameStats) Frame(drawn, total int) {
	now := s.now()
	if s.since.IsZero() {
		s.since = now
	}
	s.frames++
	s.sometimes.Do(func() {
		fps := 0.0
		if d := now.Sub(s.since); d > 0 {
			fps = float64(s.frames) / d.Seconds()
		}
		s.log.Info("frame stats",
			"fps", fps,
			"drawn", drawn,
			"particles", total,
		)
		s.frames = 0
		s.since = now
	})
}
