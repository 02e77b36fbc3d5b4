package render

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Pool is a fixed-capacity free list of reusable Frames. Acquire never
// blocks: when the pool is momentarily empty a fresh frame is allocated and
// counted as overflow. Release zeroes the frame and returns it; frames
// released into a full pool are dropped for the collector. Safe for
// concurrent use.
type Pool struct {
	free     chan Frame
	size     int
	overflow atomic.Uint64
}

// NewPool pre-allocates capacity frames of size pixels each.
func NewPool(capacity, size int) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	p := &Pool{free: make(chan Frame, capacity), size: size}
	for i := 0; i < capacity; i++ {
		p.free <- make(Frame, size)
	}
	return p
}

// Acquire returns a frame in O(1). The caller owns it until Release.
func (p *Pool) Acquire() Frame {
	select {
	case f := <-p.free:
		return f
	default:
		n := p.overflow.Add(1)
		log.Debug().Uint64("overflow", n).Msg("frame pool exhausted, allocating")
		return make(Frame, p.size)
	}
}

// Release clears f and returns it to the pool. Frames of the wrong size
// (left over after a dimension change) and frames beyond capacity are
// discarded.
func (p *Pool) Release(f Frame) {
	if len(f) != p.size {
		return
	}
	f.Clear()
	select {
	case p.free <- f:
	default:
	}
}

// Overflow reports how many frames were allocated beyond capacity.
func (p *Pool) Overflow() uint64 { return p.overflow.Load() }

// Size is the pixel count of pooled frames.
func (p *Pool) Size() int { return p.size }
