package pool

import (
	"strings"
	"sync"
	"sync/atomic"
)

// DefaultInternSize bounds an Interner created with a non-positive size.
const DefaultInternSize = 10000

// Interner deduplicates strings so that repeated values, such as the
// categories of a text column, share one allocation. Once full it returns
// unseen strings unchanged. It is safe for concurrent use.
type Interner struct {
	mu      sync.RWMutex
	strings map[string]string
	maxSize int
	hits    int64
	misses  int64
}

// NewInterner creates an interner holding at most maxSize distinct strings.
func NewInterner(maxSize int) *Interner {
	if maxSize <= 0 {
		maxSize = DefaultInternSize
	}
	return &Interner{
		strings: make(map[string]string, min(maxSize, 1024)),
		maxSize: maxSize,
	}
}

// Intern returns the canonical copy of s. The first occurrence is cloned,
// so s may point into a larger buffer that the caller reuses.
func (in *Interner) Intern(s string) string {
	in.mu.RLock()
	interned, ok := in.strings[s]
	in.mu.RUnlock()
	if ok {
		atomic.AddInt64(&in.hits, 1)
		return interned
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if interned, ok := in.strings[s]; ok {
		atomic.AddInt64(&in.hits, 1)
		return interned
	}
	atomic.AddInt64(&in.misses, 1)
	if len(in.strings) >= in.maxSize {
		return s
	}
	c := strings.Clone(s)
	in.strings[c] = c
	return c
}

// Stats returns the number of distinct strings held and the hit and miss
// counts of Intern.
func (in *Interner) Stats() (size, hits, misses int64) {
	in.mu.RLock()
	size = int64(len(in.strings))
	in.mu.RUnlock()
	return size, atomic.LoadInt64(&in.hits), atomic.LoadInt64(&in.misses)
}
