package soa

import "iter"

// All iterates rows in index order, yielding one view that is rebound on
// every step. Keep the view only for the duration of the loop body; use
// View.Record to retain a copy. Mutating the store during iteration follows
// the usual view aliasing rules.
//
//	for i, row := range store.All() {
//		name, _ := row.Get("name")
//		fmt.Println(i, name)
//	}
func (s *Store[T]) All() iter.Seq2[int, *View[T]] {
	return func(yield func(int, *View[T]) bool) {
		v := s.View(0)
		for i := 0; i < s.rows; i++ {
			v.Rebind(i)
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values iterates the values of column position col in row order.
func (s *Store[T]) Values(col int) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.data[col][:s.rows] {
			if !yield(v) {
				return
			}
		}
	}
}
