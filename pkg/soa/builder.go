package soa

import (
	"errors"

	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

// Builder populates a store one row per call.
//
//	store, err := soa.NewBuilder[any]([]string{"name", "score"}).
//		Row("Alice", 230).
//		Row("Bobby", 500).
//		Build()
//
// The first failing Row is remembered; later rows are ignored and Build
// returns that error.
type Builder[T any] struct {
	store *Store[T]
	rows  int
	err   error
}

// NewBuilder starts a builder for a store with the given columns.
func NewBuilder[T any](columns []string, opts ...Option) *Builder[T] {
	s, err := New[T](columns, opts...)
	return &Builder[T]{store: s, err: err}
}

// Row appends one row. It is equivalent to Store.Push.
func (b *Builder[T]) Row(values ...T) *Builder[T] {
	if b.err != nil {
		return b
	}
	if err := b.store.Push(values...); err != nil {
		var se *soaerrors.Error
		if errors.As(err, &se) {
			se.WithDetail("row", b.rows)
		}
		b.err = err
		return b
	}
	b.rows++
	return b
}

// Rows returns the number of rows accepted so far.
func (b *Builder[T]) Rows() int {
	return b.rows
}

// Err returns the first error encountered, if any.
func (b *Builder[T]) Err() error {
	return b.err
}

// Build terminates the chain and returns the populated store.
func (b *Builder[T]) Build() (*Store[T], error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.store, nil
}
