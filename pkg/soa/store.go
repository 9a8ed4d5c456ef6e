package soa

import (
	"slices"

	"go.uber.org/zap"

	"github.com/ajitpratap0/soa/pkg/metrics"
	"github.com/ajitpratap0/soa/pkg/pool"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

// Store keeps rows as one slice per named column.
//
// All columns always hold exactly Len() values, and the column order fixed
// at construction never changes. A Store is not safe for concurrent use.
type Store[T any] struct {
	columns   []string
	positions map[string]int
	data      [][]T
	rows      int

	logger    *zap.Logger
	collector *metrics.Collector
	views     *pool.Pool[*View[T]]
	lastSort  SortStats
}

// New creates an empty store with the given columns, in the given order.
// Names must be non-empty and distinct.
func New[T any](columns []string, opts ...Option) (*Store[T], error) {
	o := buildOptions(opts)

	positions := make(map[string]int, len(columns))
	for i, name := range columns {
		if name == "" {
			return nil, soaerrors.Wrap(ErrInvalidArgument, soaerrors.ErrorTypeColumn, "new store").
				WithDetail("reason", "empty column name").
				WithDetail("position", i)
		}
		if first, ok := positions[name]; ok {
			return nil, soaerrors.Wrap(ErrDuplicateColumn, soaerrors.ErrorTypeColumn, "new store").
				WithDetail("column", name).
				WithDetail("positions", []int{first, i})
		}
		positions[name] = i
	}

	s := &Store[T]{
		columns:   slices.Clone(columns),
		positions: positions,
		data:      make([][]T, len(columns)),
		logger:    o.logger,
		collector: o.collector,
	}
	for c := range s.data {
		s.data[c] = make([]T, 0, o.capacity)
	}
	s.views = pool.New(
		func() *View[T] { return &View[T]{store: s} },
		func(v *View[T]) { v.index = 0 },
	)
	return s, nil
}

// Len returns the number of rows.
func (s *Store[T]) Len() int {
	return s.rows
}

// Arity returns the number of columns, which is the number of values every
// row operation takes.
func (s *Store[T]) Arity() int {
	return len(s.columns)
}

// Columns returns a copy of the column names in store order.
func (s *Store[T]) Columns() []string {
	return slices.Clone(s.columns)
}

// ColumnIndex returns the position of the named column.
func (s *Store[T]) ColumnIndex(name string) (int, error) {
	pos, ok := s.positions[name]
	if !ok {
		return 0, unknownColumnError("column index", name)
	}
	return pos, nil
}

// Column returns the named column's values. The slice aliases store memory:
// writes through it are visible in the store, and it is invalidated by the
// next structural change. Its capacity is clipped so appends never reach
// the store.
func (s *Store[T]) Column(name string) ([]T, error) {
	pos, ok := s.positions[name]
	if !ok {
		return nil, unknownColumnError("column", name)
	}
	return slices.Clip(s.data[pos]), nil
}

// Write overwrites row index with values, one per column in store order.
// index == Len() appends a new row.
func (s *Store[T]) Write(index int, values ...T) error {
	if len(values) != len(s.columns) {
		return s.reject(arityError("write", len(s.columns), len(values)))
	}
	switch {
	case index == s.rows:
		s.appendRow(values)
	case index >= 0 && index < s.rows:
		for c, v := range values {
			s.data[c][index] = v
		}
	default:
		return s.reject(indexError("write", index, s.rows+1))
	}
	s.observe(metrics.OpWrite)
	return nil
}

// Push appends a row. It is Write(Len(), values...).
func (s *Store[T]) Push(values ...T) error {
	return s.Write(s.rows, values...)
}

// Read returns a copy of row index in column order.
func (s *Store[T]) Read(index int) ([]T, error) {
	return s.ReadInto(index, make([]T, 0, len(s.columns)))
}

// ReadInto is Read reusing dst's storage.
func (s *Store[T]) ReadInto(index int, dst []T) ([]T, error) {
	if index < 0 || index >= s.rows {
		return dst, s.reject(indexError("read", index, s.rows))
	}
	dst = dst[:0]
	for _, col := range s.data {
		dst = append(dst, col[index])
	}
	return dst, nil
}

// Insert places a new row at index, shifting rows at index and above up by
// one. index may range over [0, Len()].
func (s *Store[T]) Insert(index int, values ...T) error {
	if len(values) != len(s.columns) {
		return s.reject(arityError("insert", len(s.columns), len(values)))
	}
	if index < 0 || index > s.rows {
		return s.reject(indexError("insert", index, s.rows+1))
	}
	for c, v := range values {
		s.data[c] = slices.Insert(s.data[c], index, v)
	}
	s.rows++
	s.observe(metrics.OpInsert)
	return nil
}

// Remove deletes row index, shifting the rows above it down by one, and
// returns the removed values in column order.
func (s *Store[T]) Remove(index int) ([]T, error) {
	if index < 0 || index >= s.rows {
		return nil, s.reject(indexError("remove", index, s.rows))
	}
	removed := make([]T, len(s.columns))
	for c, col := range s.data {
		removed[c] = col[index]
		s.data[c] = slices.Delete(col, index, index+1)
	}
	s.rows--
	s.observe(metrics.OpRemove)
	return removed, nil
}

// Pop removes and returns the last row.
func (s *Store[T]) Pop() ([]T, error) {
	if s.rows == 0 {
		return nil, s.reject(soaerrors.Wrap(ErrEmptyStore, soaerrors.ErrorTypeIndex, "pop"))
	}
	return s.Remove(s.rows - 1)
}

// Swap exchanges rows a and b in every column.
func (s *Store[T]) Swap(a, b int) error {
	if a < 0 || a >= s.rows {
		return s.reject(indexError("swap", a, s.rows))
	}
	if b < 0 || b >= s.rows {
		return s.reject(indexError("swap", b, s.rows))
	}
	s.swapRows(a, b)
	s.observe(metrics.OpSwap)
	return nil
}

// Grow reserves room for n more rows in every column.
func (s *Store[T]) Grow(n int) {
	if n <= 0 {
		return
	}
	for c, col := range s.data {
		s.data[c] = slices.Grow(col, n)
	}
}

// Clear removes every row, keeping the columns and their capacity.
func (s *Store[T]) Clear() {
	for c, col := range s.data {
		clear(col)
		s.data[c] = col[:0]
	}
	s.logger.Debug("store cleared", zap.Int("rows", s.rows), zap.Int("columns", len(s.columns)))
	s.rows = 0
	s.observe(metrics.OpClear)
}

func (s *Store[T]) appendRow(values []T) {
	for c, v := range values {
		s.data[c] = append(s.data[c], v)
	}
	s.rows++
}

func (s *Store[T]) swapRows(a, b int) {
	if a == b {
		return
	}
	for _, col := range s.data {
		col[a], col[b] = col[b], col[a]
	}
}

func (s *Store[T]) observe(op string) {
	if s.collector != nil {
		s.collector.Op(op, s.rows)
	}
}

func (s *Store[T]) reject(err error) error {
	s.logger.Debug("operation rejected", zap.Error(err))
	return err
}
