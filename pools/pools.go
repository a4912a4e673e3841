package pools

import (
	"strings"
	"sync"
)

// NewLineBuilderPool creates a string builder pool for formatting lines of
// integers. Pre-allocates room for a line of ten 64-bit values.
func NewLineBuilderPool() *sync.Pool {
	return &sync.Pool{
		New: func() interface{} {
			builder := &strings.Builder{}
			builder.Grow(10 * 21)
			return builder
		},
	}
}

// GetBuilderFromPool gets a string builder from the pool and resets it
func GetBuilderFromPool(pool *sync.Pool) *strings.Builder {
	builder := pool.Get().(*strings.Builder)
	builder.Reset()
	return builder
}

// ReturnBuilderToPool returns a string builder to the pool
func ReturnBuilderToPool(pool *sync.Pool, builder *strings.Builder) {
	pool.Put(builder)
}

// Int64SlicePool hands out reusable []int64 buffers for callers that
// snapshot data repeatedly, like the live loop copying its window before
// sorting it. Sort scratch memory never comes from here.
type Int64SlicePool struct {
	pool sync.Pool
}

// NewInt64SlicePool creates a pool of int64 slices
func NewInt64SlicePool() *Int64SlicePool {
	return &Int64SlicePool{
		pool: sync.Pool{
			New: func() interface{} {
				s := make([]int64, 0, 1024)
				return &s
			},
		},
	}
}

// Get returns a slice of length n, reusing pooled capacity when possible
func (p *Int64SlicePool) Get(n int) []int64 {
	sp := p.pool.Get().(*[]int64)
	s := *sp
	if cap(s) < n {
		s = make([]int64, n)
	}
	return s[:n]
}

// Put returns a slice to the pool
func (p *Int64SlicePool) Put(s []int64) {
	s = s[:0]
	p.pool.Put(&s)
}
