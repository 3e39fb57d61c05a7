// internal/store/ref.go
package store

import "github.com/akashkhedar/datamanager/internal/types"

// TaskRef is a weak, id-keyed handle into the store. Holding a TaskRef never
// keeps a node alive and never dangles: Node re-resolves on every call.
type TaskRef struct {
	store *Store
	id    types.TaskID
}

// Ref returns a weak handle for the given task id.
func (s *Store) Ref(id types.TaskID) TaskRef {
	return TaskRef{store: s, id: id}
}

// ID returns the stable task id the ref tracks.
func (r TaskRef) ID() types.TaskID {
	return r.id
}

// Valid reports whether the ref points at an actual task id.
func (r TaskRef) Valid() bool {
	return r.store != nil && r.id != 0
}

// Node resolves the live node, returning false when the store is dead, the
// ref is zero, or the task is gone.
func (r TaskRef) Node() (*types.Task, bool) {
	if !r.Valid() {
		return nil, false
	}
	return r.store.Task(r.id)
}

// Update runs fn on the live node, no-op when it cannot be resolved.
func (r TaskRef) Update(fn func(*types.Task)) bool {
	if !r.Valid() {
		return false
	}
	return r.store.Update(r.id, fn)
}
