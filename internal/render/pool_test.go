package render

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolDistinctIdentities(t *testing.T) {
	p := NewPool(4, 16)
	held := make([]Frame, 4)
	for i := range held {
		held[i] = p.Acquire()
	}
	for i := 0; i < len(held); i++ {
		for j := i + 1; j < len(held); j++ {
			assert.NotSame(t, &held[i][0], &held[j][0], "buffers %d and %d share identity", i, j)
		}
	}
	assert.EqualValues(t, 0, p.Overflow())
}

func TestPoolReuseAfterRelease(t *testing.T) {
	p := NewPool(1, 8)
	a := p.Acquire()
	a[3] = RGB{R: 200, G: 100, B: 50}
	p.Release(a)

	b := p.Acquire()
	assert.Same(t, &a[0], &b[0], "expected released buffer to be reused")
	assert.Equal(t, RGB{}, b[3], "release must zero the buffer")
}

func TestPoolOverflowAllocates(t *testing.T) {
	p := NewPool(2, 8)
	a := p.Acquire()
	b := p.Acquire()
	c := p.Acquire() // pool empty, must not block
	require.Len(t, c, 8)
	assert.EqualValues(t, 1, p.Overflow())

	// Releasing all three: the third is discarded, not retained.
	p.Release(a)
	p.Release(b)
	p.Release(c)
	assert.Len(t, p.free, 2)
}

func TestPoolDiscardsWrongSize(t *testing.T) {
	p := NewPool(2, 8)
	a := p.Acquire()
	p.Release(a[:4])
	b := p.Acquire()
	c := p.Acquire()
	assert.Len(t, b, 8)
	assert.Len(t, c, 8)
}

func TestPoolConcurrentAcquireRelease(t *testing.T) {
	p := NewPool(4, 32)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				f := p.Acquire()
				f[0] = RGB{R: 1}
				p.Release(f)
			}
		}()
	}
	wg.Wait()
}
