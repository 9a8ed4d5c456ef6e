// Package pool provides generic, type-safe object pooling for soa.
//
// It wraps sync.Pool with typed Get/Put, an optional reset hook and usage
// statistics. soa uses it to recycle the two row views a sort borrows when
// the caller does not supply its own, and pkg/json uses it for encode
// buffers. Interner deduplicates text cells while decoding CSV.
//
// Example usage:
//
//	bufs := pool.New(
//	    func() *bytes.Buffer { return bytes.NewBuffer(make([]byte, 0, 4096)) },
//	    func(b *bytes.Buffer) { b.Reset() },
//	)
//	buf := bufs.Get()
//	defer bufs.Put(buf)
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool is a generic object pool. It is safe for concurrent use.
//
// Pointer types are recommended for T; storing non-pointer values in a
// sync.Pool allocates on every Put.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		gets      int64
	}
}

// New creates a pool. newFn is called when the pool is empty; reset, if not
// nil, is called on every object passed to Put before it is recycled.
func New[T any](newFn func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return newFn()
	}
	return p
}

// Get retrieves an object from the pool, allocating one if it is empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.gets, 1)
	atomic.AddInt64(&p.stats.inUse, 1)
	return p.pool.Get().(T)
}

// Put resets obj and returns it to the pool.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats reports pool usage.
//
// Returns:
//   - allocated: objects created by the pool's constructor
//   - inUse: objects currently checked out
//   - hits: Get calls served from a recycled object
//   - misses: Get calls that had to allocate
func (p *Pool[T]) Stats() (allocated, inUse, hits, misses int64) {
	allocated = atomic.LoadInt64(&p.stats.allocated)
	gets := atomic.LoadInt64(&p.stats.gets)
	misses = allocated
	if misses > gets {
		misses = gets
	}
	return allocated,
		atomic.LoadInt64(&p.stats.inUse),
		gets - misses,
		misses
}
