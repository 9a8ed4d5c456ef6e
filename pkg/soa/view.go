package soa

// View is a handle on one row of a Store.
//
// A View holds no field data, only the store and a row index: Get and Set
// read and write the store directly, and Rebind moves the view to another
// row in O(1) without touching the store. Any number of views may be bound
// to the same store or the same row.
//
// A view tracks a position, not a record. After Swap, Insert, Remove or
// Sort it resolves to whatever row now occupies its index.
type View[T any] struct {
	store *Store[T]
	index int
}

// View returns a new view bound to row index. The index is not validated
// until the view is used.
func (s *Store[T]) View(index int) *View[T] {
	return &View[T]{store: s, index: index}
}

// Store returns the store the view is bound to.
func (v *View[T]) Store() *Store[T] {
	return v.store
}

// Index returns the row the view currently resolves to.
func (v *View[T]) Index() int {
	return v.index
}

// Rebind points the view at row index and returns the new index.
func (v *View[T]) Rebind(index int) int {
	v.index = index
	return v.index
}

// Valid reports whether the view's index addresses an existing row.
func (v *View[T]) Valid() bool {
	return v.index >= 0 && v.index < v.store.rows
}

// Get returns the value of the named column in the view's row.
func (v *View[T]) Get(name string) (T, error) {
	var zero T
	pos, ok := v.store.positions[name]
	if !ok {
		return zero, v.store.reject(unknownColumnError("view get", name))
	}
	if !v.Valid() {
		return zero, v.store.reject(indexError("view get", v.index, v.store.rows))
	}
	return v.store.data[pos][v.index], nil
}

// Set writes value into the named column of the view's row.
func (v *View[T]) Set(name string, value T) error {
	pos, ok := v.store.positions[name]
	if !ok {
		return v.store.reject(unknownColumnError("view set", name))
	}
	if !v.Valid() {
		return v.store.reject(indexError("view set", v.index, v.store.rows))
	}
	v.store.data[pos][v.index] = value
	return nil
}

// At returns the value at column position col without validation. It
// panics like a slice index when col or the view's row is out of range.
// Resolve positions once with Store.ColumnIndex and use At in comparators.
func (v *View[T]) At(col int) T {
	return v.store.data[col][v.index]
}

// SetAt writes column position col without validation.
func (v *View[T]) SetAt(col int, value T) {
	v.store.data[col][v.index] = value
}

// Record returns a detached copy of the view's row.
func (v *View[T]) Record() (Record[T], error) {
	return v.store.Construct(v.index)
}
