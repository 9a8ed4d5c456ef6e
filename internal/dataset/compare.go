package dataset

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/ajitpratap0/soa/pkg/soa"
)

// SortKeys describes a multi-column ordering.
type SortKeys struct {
	// Columns are compared in order; later columns break ties.
	Columns    []string
	Descending bool
	// Numeric compares two numeric values by magnitude. When false every
	// value is compared by its string form.
	Numeric bool
}

// Comparator resolves keys against s and returns a row comparator that
// reads keys positionally through the views.
//
// Values of different kinds order as nil < numbers < bool < everything
// else, so mixed columns still sort deterministically.
func Comparator(s *soa.Store[any], keys SortKeys) (soa.Comparator[any], error) {
	positions := make([]int, len(keys.Columns))
	for i, name := range keys.Columns {
		pos, err := s.ColumnIndex(name)
		if err != nil {
			return nil, err
		}
		positions[i] = pos
	}

	sign := 1
	if keys.Descending {
		sign = -1
	}
	compare := compareValues
	if !keys.Numeric {
		compare = compareText
	}

	return func(a, b *soa.View[any]) int {
		for _, pos := range positions {
			if c := compare(a.At(pos), b.At(pos)); c != 0 {
				return sign * c
			}
		}
		return 0
	}, nil
}

type rank int

const (
	rankNil rank = iota
	rankNumber
	rankBool
	rankOther
)

func compareValues(x, y any) int {
	rx, ry := rankOf(x), rankOf(y)
	if rx != ry {
		return cmp.Compare(rx, ry)
	}
	switch rx {
	case rankNil:
		return 0
	case rankNumber:
		fx, _ := soa.AsFloat64(x)
		fy, _ := soa.AsFloat64(y)
		return cmp.Compare(fx, fy)
	case rankBool:
		return compareBool(x.(bool), y.(bool))
	default:
		return compareText(x, y)
	}
}

func compareText(x, y any) int {
	bx, okx := x.([]byte)
	by, oky := y.([]byte)
	if okx && oky {
		return bytes.Compare(bx, by)
	}
	return strings.Compare(text(x), text(y))
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func compareBool(x, y bool) int {
	switch {
	case x == y:
		return 0
	case !x:
		return -1
	default:
		return 1
	}
}

func rankOf(v any) rank {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	}
	if _, ok := soa.AsFloat64(v); ok {
		return rankNumber
	}
	return rankOther
}
