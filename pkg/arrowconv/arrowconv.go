// Package arrowconv converts soa stores to and from Apache Arrow record
// batches and IPC files.
//
// Stores are already column-major, so each store column becomes one Arrow
// array without transposing rows. Arrow types are inferred from the values
// of each column:
//
//	bool                       -> Boolean
//	integers that fit int64    -> Int64
//	any mix of numbers         -> Float64
//	[]byte                     -> Binary
//	anything else              -> String (formatted with %v)
//
// nil values become nulls, and a column holding only nils is a nullable
// String. Reading back yields bool, int64, float64, []byte and string
// values.
package arrowconv

import (
	"fmt"
	"math"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/soa/pkg/soa"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

type kind int

const (
	kindNull kind = iota
	kindBool
	kindInt
	kindFloat
	kindBinary
	kindString
)

// InferSchema returns the Arrow schema ToRecord would produce for s.
func InferSchema(s *soa.Store[any]) *arrow.Schema {
	names := s.Columns()
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		col, _ := s.Column(name)
		fields[i] = arrow.Field{Name: name, Type: columnKind(col).dataType(), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// ToRecord builds one record batch holding every row of s. The caller must
// Release the result.
func ToRecord(s *soa.Store[any], mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	schema := InferSchema(s)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Reserve(s.Len())

	for i, field := range schema.Fields() {
		col, _ := s.Column(field.Name)
		fb := b.Field(i)
		for row, v := range col {
			if err := appendArrowValue(fb, v); err != nil {
				return nil, soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "build arrow column").
					WithDetail("column", field.Name).
					WithDetail("index", row)
			}
		}
	}
	return b.NewRecord(), nil
}

// FromRecord creates a store whose columns are the fields of rec, in
// schema order, and copies every row into it.
func FromRecord(rec arrow.Record, opts ...soa.Option) (*soa.Store[any], error) {
	schema := rec.Schema()
	names := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		names[i] = f.Name
	}
	opts = append([]soa.Option{soa.WithCapacity(int(rec.NumRows()))}, opts...)
	s, err := soa.New[any](names, opts...)
	if err != nil {
		return nil, err
	}
	if err := AppendRecord(s, rec); err != nil {
		return nil, err
	}
	return s, nil
}

// AppendRecord appends the rows of rec to s. The fields of rec must be the
// columns of s in the same order. Column types are checked before the first
// row is appended, so on error s is unchanged.
func AppendRecord(s *soa.Store[any], rec arrow.Record) error {
	cols := s.Columns()
	schema := rec.Schema()
	if schema.NumFields() != len(cols) {
		return soaerrors.Wrap(soa.ErrArityMismatch, soaerrors.ErrorTypeArity, "append arrow record").
			WithDetail("expected", len(cols)).
			WithDetail("got", schema.NumFields())
	}
	for i, f := range schema.Fields() {
		if f.Name != cols[i] {
			return soaerrors.Wrap(soa.ErrUnknownColumn, soaerrors.ErrorTypeColumn, "append arrow record").
				WithDetail("column", f.Name).
				WithDetail("position", i)
		}
		if !readable(rec.Column(i)) {
			return soaerrors.New(soaerrors.ErrorTypeFile, "unsupported arrow type").
				WithDetail("column", f.Name).
				WithDetail("type", f.Type.String())
		}
	}

	n := int(rec.NumRows())
	s.Grow(n)
	row := make([]any, len(cols))
	for r := 0; r < n; r++ {
		for c := range row {
			v, err := getArrowColumnValue(rec.Column(c), r)
			if err != nil {
				return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "read arrow column").
					WithDetail("column", cols[c])
			}
			row[c] = v
		}
		if err := s.Push(row...); err != nil {
			return err
		}
	}
	return nil
}

func columnKind(values []any) kind {
	k := kindNull
	for _, v := range values {
		k = merge(k, valueKind(v))
		if k == kindString {
			break
		}
	}
	return k
}

func valueKind(v any) kind {
	switch v.(type) {
	case nil:
		return kindNull
	case bool:
		return kindBool
	case []byte:
		return kindBinary
	case float32, float64:
		return kindFloat
	}
	if _, ok := intValue(v); ok {
		return kindInt
	}
	if _, ok := floatValue(v); ok {
		return kindFloat
	}
	return kindString
}

func merge(a, b kind) kind {
	switch {
	case a == b || b == kindNull:
		return a
	case a == kindNull:
		return b
	case (a == kindInt && b == kindFloat) || (a == kindFloat && b == kindInt):
		return kindFloat
	default:
		return kindString
	}
}

func (k kind) dataType() arrow.DataType {
	switch k {
	case kindBool:
		return arrow.FixedWidthTypes.Boolean
	case kindInt:
		return arrow.PrimitiveTypes.Int64
	case kindFloat:
		return arrow.PrimitiveTypes.Float64
	case kindBinary:
		return arrow.BinaryTypes.Binary
	default:
		return arrow.BinaryTypes.String
	}
}

func intValue(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		if uint64(n) <= math.MaxInt64 {
			return int64(n), true
		}
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	}
	return 0, false
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	if i, ok := intValue(v); ok {
		return float64(i), true
	}
	return 0, false
}

// appendArrowValue appends value to builder, which must match the kind
// inferred for the value's column.
func appendArrowValue(builder array.Builder, value any) error {
	if value == nil {
		builder.AppendNull()
		return nil
	}

	switch b := builder.(type) {
	case *array.BooleanBuilder:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("cannot store %T as boolean", value)
		}
		b.Append(v)

	case *array.Int64Builder:
		v, ok := intValue(value)
		if !ok {
			return fmt.Errorf("cannot store %T as int64", value)
		}
		b.Append(v)

	case *array.Float64Builder:
		v, ok := floatValue(value)
		if !ok {
			return fmt.Errorf("cannot store %T as float64", value)
		}
		b.Append(v)

	case *array.StringBuilder:
		if v, ok := value.(string); ok {
			b.Append(v)
		} else {
			b.Append(fmt.Sprintf("%v", value))
		}

	case *array.BinaryBuilder:
		v, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("cannot store %T as binary", value)
		}
		b.Append(v)

	default:
		return fmt.Errorf("unsupported builder type: %T", builder)
	}

	return nil
}

// readable reports whether getArrowColumnValue can decode col.
func readable(col arrow.Array) bool {
	switch col.(type) {
	case *array.Null, *array.Boolean,
		*array.Int8, *array.Int16, *array.Int32, *array.Int64,
		*array.Uint8, *array.Uint16, *array.Uint32, *array.Uint64,
		*array.Float32, *array.Float64,
		*array.String, *array.LargeString, *array.Binary:
		return true
	default:
		return false
	}
}

func getArrowColumnValue(col arrow.Array, rowIdx int) (any, error) {
	if col.IsNull(rowIdx) {
		return nil, nil
	}

	switch c := col.(type) {
	case *array.Boolean:
		return c.Value(rowIdx), nil
	case *array.Int8:
		return int64(c.Value(rowIdx)), nil
	case *array.Int16:
		return int64(c.Value(rowIdx)), nil
	case *array.Int32:
		return int64(c.Value(rowIdx)), nil
	case *array.Int64:
		return c.Value(rowIdx), nil
	case *array.Uint8:
		return int64(c.Value(rowIdx)), nil
	case *array.Uint16:
		return int64(c.Value(rowIdx)), nil
	case *array.Uint32:
		return int64(c.Value(rowIdx)), nil
	case *array.Uint64:
		return c.Value(rowIdx), nil
	case *array.Float32:
		return float64(c.Value(rowIdx)), nil
	case *array.Float64:
		return c.Value(rowIdx), nil
	case *array.String:
		return strings.Clone(c.Value(rowIdx)), nil
	case *array.LargeString:
		return strings.Clone(c.Value(rowIdx)), nil
	case *array.Binary:
		return append([]byte(nil), c.Value(rowIdx)...), nil
	default:
		return nil, fmt.Errorf("unsupported arrow type: %s", col.DataType())
	}
}
