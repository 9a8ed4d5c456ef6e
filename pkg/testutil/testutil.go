// Package testutil provides testing helpers shared by the soa packages.
package testutil

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/soa/pkg/soa"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// AssertAligned fails the test unless every column of s holds exactly
// s.Len() values.
func AssertAligned[T any](t *testing.T, s *soa.Store[T]) {
	t.Helper()
	for _, name := range s.Columns() {
		col, err := s.Column(name)
		require.NoError(t, err)
		require.Lenf(t, col, s.Len(), "column %q is not aligned", name)
	}
}

// Scores returns a store with columns id, name and score filled with n
// pseudo-random rows. The same seed always yields the same rows.
func Scores(t *testing.T, n int, seed uint64, opts ...soa.Option) *soa.Store[any] {
	t.Helper()
	s, err := soa.New[any]([]string{"id", "name", "score"}, append([]soa.Option{soa.WithCapacity(n)}, opts...)...)
	require.NoError(t, err)

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := 0; i < n; i++ {
		require.NoError(t, s.Push(i, fmt.Sprintf("row-%d", i), r.IntN(1000)))
	}
	return s
}
