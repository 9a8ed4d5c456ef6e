package soa_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/soa/pkg/soa"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
	"github.com/ajitpratap0/soa/pkg/testutil"
)

func newPeople(t *testing.T) *soa.Store[any] {
	t.Helper()
	s, err := soa.New[any]([]string{"name", "score"}, soa.WithLogger(testutil.TestLogger(t)))
	require.NoError(t, err)
	require.NoError(t, s.Push("Alice", 230))
	require.NoError(t, s.Push("Bobby", 500))
	require.NoError(t, s.Push("Carry", 132))
	return s
}

func TestNew(t *testing.T) {
	t.Run("columns in order", func(t *testing.T) {
		s, err := soa.New[int]([]string{"b", "a", "c"})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a", "c"}, s.Columns())
		assert.Equal(t, 3, s.Arity())
		assert.Equal(t, 0, s.Len())

		pos, err := s.ColumnIndex("a")
		require.NoError(t, err)
		assert.Equal(t, 1, pos)
	})

	t.Run("no columns", func(t *testing.T) {
		s, err := soa.New[int](nil)
		require.NoError(t, err)
		require.NoError(t, s.Push())
		require.NoError(t, s.Push())
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, 0, s.Arity())
	})

	t.Run("duplicate column", func(t *testing.T) {
		_, err := soa.New[int]([]string{"x", "y", "x"})
		require.ErrorIs(t, err, soa.ErrDuplicateColumn)
		assert.True(t, soaerrors.IsType(err, soaerrors.ErrorTypeColumn))
		v, ok := soaerrors.DetailOf(err, "column")
		require.True(t, ok)
		assert.Equal(t, "x", v)
	})

	t.Run("empty column name", func(t *testing.T) {
		_, err := soa.New[int]([]string{"x", ""})
		require.ErrorIs(t, err, soa.ErrInvalidArgument)
	})

	t.Run("columns are copied", func(t *testing.T) {
		cols := []string{"x", "y"}
		s, err := soa.New[int](cols)
		require.NoError(t, err)
		cols[0] = "z"
		assert.Equal(t, []string{"x", "y"}, s.Columns())

		got := s.Columns()
		got[1] = "w"
		assert.Equal(t, []string{"x", "y"}, s.Columns())
	})
}

func TestWriteRead(t *testing.T) {
	s := newPeople(t)

	row, err := s.Read(1)
	require.NoError(t, err)
	assert.Equal(t, []any{"Bobby", 500}, row)

	require.NoError(t, s.Write(1, "Bob", 501))
	row, err = s.Read(1)
	require.NoError(t, err)
	assert.Equal(t, []any{"Bob", 501}, row)
	assert.Equal(t, 3, s.Len())

	t.Run("write at len appends", func(t *testing.T) {
		require.NoError(t, s.Write(s.Len(), "Dan", 7))
		assert.Equal(t, 4, s.Len())
		row, err := s.Read(3)
		require.NoError(t, err)
		assert.Equal(t, []any{"Dan", 7}, row)
		testutil.AssertAligned(t, s)
	})

	t.Run("write past len", func(t *testing.T) {
		err := s.Write(s.Len()+1, "x", 1)
		require.ErrorIs(t, err, soa.ErrIndexOutOfRange)
		assert.True(t, soaerrors.IsType(err, soaerrors.ErrorTypeIndex))
		assert.Equal(t, 4, s.Len())
	})

	t.Run("negative index", func(t *testing.T) {
		require.ErrorIs(t, s.Write(-1, "x", 1), soa.ErrIndexOutOfRange)
		_, err := s.Read(-1)
		require.ErrorIs(t, err, soa.ErrIndexOutOfRange)
	})

	t.Run("read past end", func(t *testing.T) {
		_, err := s.Read(s.Len())
		require.ErrorIs(t, err, soa.ErrIndexOutOfRange)
		v, ok := soaerrors.DetailOf(err, "index")
		require.True(t, ok)
		assert.Equal(t, 4, v)
	})

	t.Run("arity mismatch leaves store unchanged", func(t *testing.T) {
		before := s.ToRecords()
		err := s.Push("only name")
		require.ErrorIs(t, err, soa.ErrArityMismatch)
		assert.True(t, soaerrors.IsType(err, soaerrors.ErrorTypeArity))
		require.ErrorIs(t, s.Write(0, "a", 1, 2), soa.ErrArityMismatch)
		require.ErrorIs(t, s.Insert(0, "a"), soa.ErrArityMismatch)
		assert.Equal(t, before, s.ToRecords())
		testutil.AssertAligned(t, s)
	})

	t.Run("read copies", func(t *testing.T) {
		row, err := s.Read(0)
		require.NoError(t, err)
		row[0] = "mutated"
		again, err := s.Read(0)
		require.NoError(t, err)
		assert.Equal(t, "Alice", again[0])
	})
}

func TestReadInto(t *testing.T) {
	s := newPeople(t)
	buf := make([]any, 0, 2)
	row, err := s.ReadInto(2, buf)
	require.NoError(t, err)
	assert.Equal(t, []any{"Carry", 132}, row)

	row, err = s.ReadInto(0, row)
	require.NoError(t, err)
	assert.Equal(t, []any{"Alice", 230}, row)
}

func TestInsertRemove(t *testing.T) {
	s := newPeople(t)
	before := s.ToRecords()

	require.NoError(t, s.Insert(1, "Zed", 0))
	assert.Equal(t, 4, s.Len())
	testutil.AssertAligned(t, s)

	names, err := s.Column("name")
	require.NoError(t, err)
	assert.Equal(t, []any{"Alice", "Zed", "Bobby", "Carry"}, names)

	removed, err := s.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, []any{"Zed", 0}, removed)
	assert.Equal(t, before, s.ToRecords())

	t.Run("insert at len appends", func(t *testing.T) {
		require.NoError(t, s.Insert(s.Len(), "Tail", 1))
		row, err := s.Read(s.Len() - 1)
		require.NoError(t, err)
		assert.Equal(t, []any{"Tail", 1}, row)
		_, err = s.Pop()
		require.NoError(t, err)
	})

	t.Run("insert at front", func(t *testing.T) {
		require.NoError(t, s.Insert(0, "Head", 2))
		row, err := s.Read(0)
		require.NoError(t, err)
		assert.Equal(t, []any{"Head", 2}, row)
		_, err = s.Remove(0)
		require.NoError(t, err)
	})

	t.Run("out of range", func(t *testing.T) {
		require.ErrorIs(t, s.Insert(s.Len()+1, "x", 1), soa.ErrIndexOutOfRange)
		_, err := s.Remove(s.Len())
		require.ErrorIs(t, err, soa.ErrIndexOutOfRange)
		assert.Equal(t, before, s.ToRecords())
	})
}

func TestPushPop(t *testing.T) {
	s := newPeople(t)
	before := s.ToRecords()

	require.NoError(t, s.Push("Dan", 9))
	row, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, []any{"Dan", 9}, row)
	assert.Equal(t, before, s.ToRecords())

	for s.Len() > 0 {
		_, err := s.Pop()
		require.NoError(t, err)
	}
	_, err = s.Pop()
	require.ErrorIs(t, err, soa.ErrEmptyStore)
	assert.Equal(t, 0, s.Len())
}

func TestSwap(t *testing.T) {
	s := newPeople(t)
	before := s.ToRecords()

	require.NoError(t, s.Swap(0, 2))
	row, err := s.Read(0)
	require.NoError(t, err)
	assert.Equal(t, []any{"Carry", 132}, row)

	require.NoError(t, s.Swap(0, 2))
	assert.Equal(t, before, s.ToRecords())

	require.NoError(t, s.Swap(1, 1))
	assert.Equal(t, before, s.ToRecords())

	require.ErrorIs(t, s.Swap(0, 3), soa.ErrIndexOutOfRange)
	require.ErrorIs(t, s.Swap(-1, 0), soa.ErrIndexOutOfRange)
	assert.Equal(t, before, s.ToRecords())
}

func TestColumn(t *testing.T) {
	s := newPeople(t)

	scores, err := s.Column("score")
	require.NoError(t, err)
	assert.Equal(t, []any{230, 500, 132}, scores)

	// Writes through the slice reach the store.
	scores[0] = 231
	row, err := s.Read(0)
	require.NoError(t, err)
	assert.Equal(t, 231, row[1])

	// Appending to the slice never grows the store.
	_ = append(scores, 999)
	assert.Equal(t, 3, s.Len())
	testutil.AssertAligned(t, s)

	_, err = s.Column("missing")
	require.ErrorIs(t, err, soa.ErrUnknownColumn)
	_, err = s.ColumnIndex("missing")
	require.ErrorIs(t, err, soa.ErrUnknownColumn)
}

func TestClearAndGrow(t *testing.T) {
	s := newPeople(t)
	s.Grow(100)
	s.Grow(-1)
	assert.Equal(t, 3, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []string{"name", "score"}, s.Columns())
	testutil.AssertAligned(t, s)

	require.NoError(t, s.Push("again", 1))
	assert.Equal(t, 1, s.Len())
}

func TestAlignmentUnderMixedOperations(t *testing.T) {
	s := testutil.Scores(t, 200, 7)
	for i := 0; i < 50; i++ {
		require.NoError(t, s.Insert(i*2, i, "inserted", i))
		_, err := s.Remove(s.Len() / 2)
		require.NoError(t, err)
		require.NoError(t, s.Swap(i, s.Len()-1-i))
		if i%5 == 0 {
			_, err := s.Pop()
			require.NoError(t, err)
		}
		testutil.AssertAligned(t, s)
	}
	assert.Equal(t, 190, s.Len())
}

func TestErrorsUnwrapToSentinels(t *testing.T) {
	s := newPeople(t)

	_, err := s.Read(10)
	var se *soaerrors.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, soaerrors.ErrorTypeIndex, se.Type)
	assert.Equal(t, 3, se.Details["limit"])
	assert.NotEmpty(t, se.Stack)
}
