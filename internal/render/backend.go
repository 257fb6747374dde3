package render

import (
	"sync"
	"sync/atomic"

	"spiral-galaxy/internal/galaxy"
	"spiral-galaxy/internal/scene"
)

// Backend is the CPU implementation of scene.Backend. Upload is zero-copy:
// galaxy buffers are immutable, so the resource keeps a reference.
type Backend struct {
	live  atomic.Int64
	bytes atomic.Int64
}

// NewBackend returns an empty backend.
func NewBackend() *Backend { return &Backend{} }

type resource struct {
	b    *Backend
	size int64
	once sync.Once
}

func (r *resource) Release() {
	r.once.Do(func() {
		r.b.live.Add(-1)
		r.b.bytes.Add(-r.size)
	})
}

// Upload registers buf as a live resource.
func (b *Backend) Upload(buf *galaxy.Buffer, _ scene.Material) (scene.Resource, error) {
	size := int64(4 * (len(buf.Positions) + len(buf.Colors)))
	b.live.Add(1)
	b.bytes.Add(size)
	return &resource{b: b, size: size}, nil
}

// Live returns the number of resources not yet released.
func (b *Backend) Live() int { return int(b.live.Load()) }

// Bytes returns the attribute memory held by live resources.
func (b *Backend) Bytes() int64 { return b.bytes.Load() }
