// Package soa implements a generic structure-of-arrays container.
//
// # Overview
//
// Instead of a slice of records, a Store keeps one slice per named column,
// every column holding exactly Len() values. Row i is the set of values at
// position i across all columns. The package provides:
//
//   - Store: indexed Write/Read/Insert/Remove/Push/Pop/Swap that keep every
//     column the same length and index-aligned
//   - View: a zero-copy, rebindable handle that exposes one row through
//     Get/Set by column name, or At/SetAt by column position
//   - Sort: an in-place joint sort that moves whole rows, driven by a
//     comparator over two views
//   - FromRecords/ToRecords/Construct and Builder: conversion helpers built
//     on the row primitives
//
// # Usage Example
//
//	store, _ := soa.New[any]([]string{"name", "score"})
//	_ = store.Push("Alice", 230)
//	_ = store.Push("Bobby", 500)
//	_ = store.Push("Carry", 132)
//
//	score, _ := store.ColumnIndex("score")
//	_ = store.Sort(func(a, b *soa.View[any]) int {
//		return a.At(score).(int) - b.At(score).(int)
//	})
//
// # Indices and Bounds
//
// Rows are addressed by 0-based position. The append position is Len().
// Every method that returns an error validates its indices first and
// leaves the store untouched on failure. View.At and View.SetAt are the
// unchecked fast path and panic like slice indexing.
//
// # Views Are References
//
// A View stores only the store pointer and a row index. After rows are
// swapped, inserted or removed a view keeps resolving to the same numeric
// index, not to the record that used to live there; rebind it explicitly to
// follow a record.
//
// # Sorting
//
// Sort is a partition sort with the rightmost row of each range as pivot.
// It is not stable and is quadratic on already-ordered input. It runs with
// an explicit range stack, so deep partitions never grow the goroutine
// stack.
//
// # Concurrency
//
// A Store and its views carry no locks. Callers that share a store across
// goroutines must serialize every operation sequence that has to appear
// atomic, including a whole Sort.
package soa
