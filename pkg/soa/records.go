package soa

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/ajitpratap0/soa/pkg/metrics"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

// Record is the detached, map-shaped form of a row.
type Record[T any] map[string]T

// FromRecords builds a store from uniform records. The columns are the
// fields of records[0] in alphabetical order. Fields of later records that
// are not columns are ignored; a record missing a column fails the whole
// call with ErrMissingField.
func FromRecords[T any](records []Record[T], opts ...Option) (*Store[T], error) {
	if len(records) == 0 {
		return nil, invalidArgument("from records", "no template record")
	}
	columns := slices.Sorted(maps.Keys(records[0]))
	if len(columns) == 0 {
		return nil, invalidArgument("from records", "template record has no fields")
	}

	s, err := New[T](columns, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.AppendRecords(records); err != nil {
		return nil, err
	}
	s.logger.Debug("store built from records",
		zap.Int("rows", s.rows),
		zap.Strings("columns", s.columns),
	)
	return s, nil
}

// AppendRecords appends one row per record, taking each column's value from
// the field of the same name. Every record is checked before the first row
// is written, so on error the store is unchanged.
func (s *Store[T]) AppendRecords(records []Record[T]) error {
	for i, r := range records {
		for _, name := range s.columns {
			if _, ok := r[name]; !ok {
				return s.reject(soaerrors.Wrap(ErrMissingField, soaerrors.ErrorTypeRecord, "append records").
					WithDetail("record", i).
					WithDetail("column", name))
			}
		}
	}

	s.Grow(len(records))
	values := make([]T, len(s.columns))
	for _, r := range records {
		for c, name := range s.columns {
			values[c] = r[name]
		}
		s.appendRow(values)
		s.observe(metrics.OpWrite)
	}
	return nil
}

// ToRecords returns every row as a detached record, in row order.
func (s *Store[T]) ToRecords() []Record[T] {
	out := make([]Record[T], s.rows)
	for i := range out {
		out[i] = s.record(i)
	}
	return out
}

// Construct returns a detached copy of row index. Changing the record never
// affects the store.
func (s *Store[T]) Construct(index int) (Record[T], error) {
	if index < 0 || index >= s.rows {
		return nil, s.reject(indexError("construct", index, s.rows))
	}
	return s.record(index), nil
}

func (s *Store[T]) record(index int) Record[T] {
	r := make(Record[T], len(s.columns))
	for c, name := range s.columns {
		r[name] = s.data[c][index]
	}
	return r
}
