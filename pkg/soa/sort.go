package soa

import (
	"cmp"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/soa/pkg/metrics"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

// Comparator orders two rows presented as views. It returns a negative
// number when a ranks before b, a positive number when b ranks before a,
// and zero when the two are unordered.
type Comparator[T any] func(a, b *View[T]) int

// SortStats describes one joint sort.
type SortStats struct {
	Rows        int
	Comparisons int
	Swaps       int
	Duration    time.Duration
}

// Sort reorders every column in place so that rows read in index order are
// non-decreasing under cmp. It borrows two views from the store's pool.
//
// The sort is not stable, and it takes quadratic time when the input is
// already ordered in either direction because the pivot is always the last
// row of the range.
func (s *Store[T]) Sort(cmp Comparator[T]) error {
	return s.SortWith(cmp, nil, nil)
}

// SortWith is Sort presenting rows to cmp through a and b, so repeated sorts
// can run without allocating views. A nil view is replaced by a pooled
// one; a and b must not be the same view. Both views are rebound during the sort and their final index is
// unspecified.
func (s *Store[T]) SortWith(cmp Comparator[T], a, b *View[T]) error {
	if cmp == nil {
		return s.reject(soaerrors.Wrap(ErrMissingComparator, soaerrors.ErrorTypeComparator, "sort"))
	}
	if (a != nil && a.store != s) || (b != nil && b.store != s) {
		return s.reject(invalidArgument("sort", "view bound to another store"))
	}
	if a != nil && a == b {
		return s.reject(invalidArgument("sort", "views a and b must be distinct"))
	}

	if a == nil {
		a = s.views.Get()
		defer s.views.Put(a)
	}
	if b == nil {
		b = s.views.Get()
		defer s.views.Put(b)
	}

	timer := metrics.NewTimer()
	stats := s.jointSort(cmp, a, b)
	stats.Duration = timer.Stop()
	s.lastSort = stats

	s.logger.Debug("joint sort completed",
		zap.Int("rows", stats.Rows),
		zap.Int("columns", len(s.columns)),
		zap.Int("comparisons", stats.Comparisons),
		zap.Int("swaps", stats.Swaps),
		zap.Duration("duration", stats.Duration),
	)
	if s.collector != nil {
		s.collector.ObserveSort(stats.Duration, stats.Comparisons, stats.Swaps)
	}
	return nil
}

// LastSort returns the statistics of the most recent successful sort.
func (s *Store[T]) LastSort() SortStats {
	return s.lastSort
}

// SortByColumn sorts rows by a single column. cmpFn compares two values of
// that column; when it is nil values are ordered ascending numerically and
// every value in the column must be a Go number.
func (s *Store[T]) SortByColumn(name string, cmpFn func(a, b T) int) error {
	pos, ok := s.positions[name]
	if !ok {
		return s.reject(unknownColumnError("sort by column", name))
	}

	if cmpFn == nil {
		for i, v := range s.data[pos] {
			if _, ok := AsFloat64(v); !ok {
				return s.reject(soaerrors.Wrap(ErrNotComparable, soaerrors.ErrorTypeComparator, "sort by column").
					WithDetail("column", name).
					WithDetail("index", i))
			}
		}
		cmpFn = compareNumeric[T]
	}

	return s.Sort(func(a, b *View[T]) int {
		return cmpFn(a.At(pos), b.At(pos))
	})
}

type span struct {
	left, right int
}

// jointSort runs the partition sort over [0, Len()-1]. Pending ranges live
// on an explicit stack; the smaller side of every split is processed first,
// which bounds the stack by log2(Len()) entries.
func (s *Store[T]) jointSort(cmp Comparator[T], a, b *View[T]) SortStats {
	stats := SortStats{Rows: s.rows}
	if s.rows < 2 {
		return stats
	}

	stack := []span{{0, s.rows - 1}}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if r.left >= r.right {
			continue
		}

		p := s.partition(cmp, a, b, r.left, r.right, &stats)
		lower, upper := span{r.left, p - 1}, span{p + 1, r.right}
		if lower.right-lower.left > upper.right-upper.left {
			lower, upper = upper, lower
		}
		stack = append(stack, upper, lower)
	}
	return stats
}

// partition places the row at right in its final position within
// [left, right] and returns that position. Rows for which the pivot
// compares >= 0 end up before it.
func (s *Store[T]) partition(cmp Comparator[T], a, b *View[T], left, right int, stats *SortStats) int {
	a.Rebind(right)
	boundary := left
	for j := left; j < right; j++ {
		b.Rebind(j)
		stats.Comparisons++
		if cmp(a, b) >= 0 {
			if boundary != j {
				s.swapRows(boundary, j)
				stats.Swaps++
			}
			boundary++
		}
	}
	if boundary != right {
		s.swapRows(boundary, right)
		stats.Swaps++
	}
	return boundary
}

func compareNumeric[T any](a, b T) int {
	x, _ := AsFloat64(a)
	y, _ := AsFloat64(b)
	return cmp.Compare(x, y)
}

// AsFloat64 converts any Go integer or float value to float64. It reports
// false for every other type, including nil.
func AsFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
