// Package scene owns the single live galaxy object and the camera that views
// it.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"spiral-galaxy/internal/galaxy"
)

const (
	// Tilt is the fixed rotation about X applied to every installed galaxy.
	Tilt = math.Pi / 24
	// SpinRate is the Y rotation in radians per second of elapsed time.
	SpinRate = 0.1
)

// ErrNilBuffer is returned by Replace when no buffer is supplied.
var ErrNilBuffer = errors.New("scene: nil buffer")

// Resource is a backend-owned handle for an uploaded point cloud.
type Resource interface {
	Release()
}

// Backend turns buffers into renderable resources.
type Backend interface {
	Upload(buf *galaxy.Buffer, m Material) (Resource, error)
}

// Rotation is an Euler rotation applied in X then Y order.
type Rotation struct {
	X, Y float64
}

// Points is the renderable galaxy object.
type Points struct {
	Buffer   *galaxy.Buffer
	Material Material
	Rotation Rotation

	resource Resource
}

// Adapter holds at most one live Points. Replace and Release are safe to call
// from any goroutine; Update and Current are meant for the frame loop.
type Adapter struct {
	mu       sync.Mutex
	backend  Backend
	live     *Points
	spin     float64
	installs int
	log      *slog.Logger
}

// NewAdapter returns an empty adapter drawing through backend.
func NewAdapter(backend Backend) *Adapter {
	return &Adapter{
		backend: backend,
		log:     slog.With("component", "scene"),
	}
}

// Replace uploads buf and installs it as the live galaxy. The previous
// object is released before the new one is installed. If the upload fails
// the live galaxy is left untouched.
func (a *Adapter) Replace(buf *galaxy.Buffer, size float64) error {
	if buf == nil {
		return ErrNilBuffer
	}
	mat := PointsMaterial(size)
	res, err := a.backend.Upload(buf, mat)
	if err != nil {
		a.log.Error("upload failed", "operation", "replace", "count", buf.Len(), "error", err)
		return fmt.Errorf("scene: upload %d particles: %w", buf.Len(), err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.live != nil {
		a.live.resource.Release()
		a.live = nil
	}
	a.live = &Points{
		Buffer:   buf,
		Material: mat,
		Rotation: Rotation{X: Tilt, Y: a.spin},
		resource: res,
	}
	a.installs++
	a.log.Debug("galaxy installed", "operation", "replace", "count", buf.Len(), "installs", a.installs)
	return nil
}

// Update sets the live rotation from the total elapsed time. The angle is
// absolute, so irregular frame pacing does not accumulate drift.
func (a *Adapter) Update(elapsed time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.spin = elapsed.Seconds() * SpinRate
	if a.live != nil {
		a.live.Rotation.Y = a.spin
	}
}

// Current returns a copy of the live object, or false when none is installed.
func (a *Adapter) Current() (Points, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.live == nil {
		return Points{}, false
	}
	return *a.live, true
}

// Installs counts successful Replace calls.
func (a *Adapter) Installs() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.installs
}

// Release frees the live object. It is safe to call more than once.
func (a *Adapter) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.live == nil {
		return
	}
	a.live.resource.Release()
	a.live = nil
	a.log.Debug("galaxy released", "operation", "release")
}
