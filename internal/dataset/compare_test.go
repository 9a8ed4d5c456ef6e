package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/soa/pkg/soa"
)

func teams(t *testing.T) *soa.Store[any] {
	t.Helper()
	s, err := soa.NewBuilder[any]([]string{"team", "score", "name"}).
		Row("red", 10.0, "a").
		Row("blue", 30.0, "b").
		Row("red", 20.0, "c").
		Row("blue", 5.0, "d").
		Build()
	require.NoError(t, err)
	return s
}

func names(t *testing.T, s *soa.Store[any]) []any {
	t.Helper()
	col, err := s.Column("name")
	require.NoError(t, err)
	return col
}

func TestComparatorMultiKey(t *testing.T) {
	s := teams(t)
	cmp, err := Comparator(s, SortKeys{Columns: []string{"team", "score"}, Numeric: true})
	require.NoError(t, err)
	require.NoError(t, s.Sort(cmp))
	assert.Equal(t, []any{"d", "b", "a", "c"}, names(t, s))

	cmp, err = Comparator(s, SortKeys{Columns: []string{"team", "score"}, Numeric: true, Descending: true})
	require.NoError(t, err)
	require.NoError(t, s.Sort(cmp))
	assert.Equal(t, []any{"c", "a", "b", "d"}, names(t, s))
}

func TestComparatorTextMode(t *testing.T) {
	s, err := soa.New[any]([]string{"v"})
	require.NoError(t, err)
	for _, v := range []any{10.0, 9.0, 100.0} {
		require.NoError(t, s.Push(v))
	}

	cmp, err := Comparator(s, SortKeys{Columns: []string{"v"}})
	require.NoError(t, err)
	require.NoError(t, s.Sort(cmp))
	col, err := s.Column("v")
	require.NoError(t, err)
	assert.Equal(t, []any{10.0, 100.0, 9.0}, col)
}

func TestComparatorUnknownColumn(t *testing.T) {
	_, err := Comparator(teams(t), SortKeys{Columns: []string{"age"}})
	require.ErrorIs(t, err, soa.ErrUnknownColumn)
}

func TestCompareValuesMixedKinds(t *testing.T) {
	assert.Negative(t, compareValues(nil, 1))
	assert.Negative(t, compareValues(1, true))
	assert.Negative(t, compareValues(true, "a"))
	assert.Negative(t, compareValues(false, true))
	assert.Negative(t, compareValues(int8(1), 1.5))
	assert.Zero(t, compareValues(nil, nil))
	assert.Positive(t, compareValues("b", "a"))
	assert.Negative(t, compareValues([]byte{1}, []byte{2}))
}
